package events

import (
	"time"

	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
)

type AccountEventType string

const (
	AccountOpened  AccountEventType = "account.opened"
	EntryRecorded  AccountEventType = "account.entry_recorded"
	AccountRenamed AccountEventType = "account.renamed"
	AccountClosed  AccountEventType = "account.closed"
)

// AccountEvent is emitted after every successful change to an account.
type AccountEvent struct {
	Type       AccountEventType    `json:"type"`
	AccountID  string              `json:"account_id"`
	CPF        string              `json:"cpf"`
	Name       string              `json:"name,omitempty"`
	Entry      *models.LedgerEntry `json:"entry,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// PartitionKey keeps all events of one account on the same partition.
func (e AccountEvent) PartitionKey() string {
	return e.CPF
}
