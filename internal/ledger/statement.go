package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
)

// Balance folds a statement into its signed total: credits minus debits.
// Entries of any other type are skipped and leave the running total as it was.
func Balance(entries []models.LedgerEntry) decimal.Decimal {
	balance := decimal.Zero

	for _, entry := range entries {
		switch entry.Type {
		case models.EntryCredit:
			balance = balance.Add(entry.Amount)
		case models.EntryDebit:
			balance = balance.Sub(entry.Amount)
		}
	}
	return balance
}

// FilterByDate returns the entries created on the given calendar day.
// date is YYYY-MM-DD and, like each entry's timestamp, is read in local time.
// A date that doesn't parse yields an empty statement.
func FilterByDate(entries []models.LedgerEntry, date string) []models.LedgerEntry {
	result := make([]models.LedgerEntry, 0)

	day, err := time.ParseInLocation(time.DateOnly, date, time.Local)
	if err != nil {
		return result
	}
	y, m, d := day.Date()

	for _, entry := range entries {
		ey, em, ed := entry.CreatedAt.In(time.Local).Date()
		if ey == y && em == m && ed == d {
			result = append(result, entry)
		}
	}
	return result
}
