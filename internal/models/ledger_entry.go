package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts and balances go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// EntryType tells whether a ledger entry adds to or takes from the balance.
type EntryType string

const (
	EntryCredit EntryType = "credit"
	EntryDebit  EntryType = "debit"
)

// LedgerEntry represents a single statement line of an account.
// Entries are append-only: once recorded they are never changed or removed.
type LedgerEntry struct {
	ID          string          `json:"id"`                    // ulid, sorts in creation order
	Description string          `json:"description,omitempty"` // only set on deposits
	Amount      decimal.Decimal `json:"amount"`                // always positive, Type carries the sign
	CreatedAt   time.Time       `json:"created_at"`
	Type        EntryType       `json:"type"`
}
