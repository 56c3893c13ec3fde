package memory

import (
	"context"
	"slices"
	"sync"

	interfaces "github.com/sheikh-saqib/cpf-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/storage"
)

// MemoryAccountStore is an in-memory implementation of interfaces.AccountStore.
// Accounts live for the lifetime of the process. Lookups go through a map keyed
// by CPF while order keeps the accounts in the sequence they were opened.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	order    []string
}

// NewMemoryAccountStore creates an empty store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[string]*models.Account),
		order:    make([]string, 0),
	}
}

func (m *MemoryAccountStore) CreateAccount(ctx context.Context, account models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[account.CPF]; exists {
		return storage.ErrAlreadyExists
	}

	stored := account.Clone()
	m.accounts[account.CPF] = &stored
	m.order = append(m.order, account.CPF)
	return nil
}

// GetAccount returns a copy of the account so callers can't modify internal state.
func (m *MemoryAccountStore) GetAccount(ctx context.Context, cpf string) (models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[cpf]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return account.Clone(), nil
}

// ListAccounts returns copies of all accounts in the order they were created.
func (m *MemoryAccountStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Account, 0, len(m.order))
	for _, cpf := range m.order {
		result = append(result, m.accounts[cpf].Clone())
	}
	return result, nil
}

func (m *MemoryAccountStore) AppendEntry(ctx context.Context, cpf string, entry models.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[cpf]
	if !ok {
		return storage.ErrNotFound
	}
	account.Statement = append(account.Statement, entry)
	return nil
}

func (m *MemoryAccountStore) UpdateName(ctx context.Context, cpf, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[cpf]
	if !ok {
		return storage.ErrNotFound
	}
	account.Name = name
	return nil
}

func (m *MemoryAccountStore) DeleteAccount(ctx context.Context, cpf string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[cpf]; !ok {
		return storage.ErrNotFound
	}
	delete(m.accounts, cpf)
	if i := slices.Index(m.order, cpf); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

// Compile-time check: ensure MemoryAccountStore implements AccountStore interface
var _ interfaces.AccountStore = (*MemoryAccountStore)(nil)
