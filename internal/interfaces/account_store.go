package interfaces

import (
	"context"

	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
)

// AccountStore holds accounts keyed by CPF. Implementations return
// storage.ErrNotFound and storage.ErrAlreadyExists for the matching cases.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, cpf string) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	AppendEntry(ctx context.Context, cpf string, entry models.LedgerEntry) error
	UpdateName(ctx context.Context, cpf, name string) error
	DeleteAccount(ctx context.Context, cpf string) error
}
