package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/cpf-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/metrics"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models/events"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/storage"
)

// Ledger runs the account operations against an AccountStore and announces
// every change through an EventPublisher.
type Ledger struct {
	store     interfaces.AccountStore
	publisher interfaces.EventPublisher
	topic     string
	logger    *zap.Logger

	muMap map[string]*sync.Mutex // one mutex per CPF
	mapMu sync.Mutex             // protects muMap

	idMu    sync.Mutex
	entropy io.Reader

	now func() time.Time
}

// NewLedger wires a Ledger to its store and publisher. Events go to topic.
func NewLedger(store interfaces.AccountStore, publisher interfaces.EventPublisher, topic string, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		muMap:     make(map[string]*sync.Mutex),
		entropy:   ulid.Monotonic(rand.Reader, 0),
		now:       time.Now,
	}
}

func (l *Ledger) getAccountLock(cpf string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[cpf]; !exists {
		l.muMap[cpf] = &sync.Mutex{}
	}
	return l.muMap[cpf]
}

func (l *Ledger) newEntryID(at time.Time) string {
	l.idMu.Lock()
	defer l.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), l.entropy).String()
}

// OpenAccount creates an account with an empty statement.
func (l *Ledger) OpenAccount(ctx context.Context, cpf, name string) (account models.Account, err error) {
	defer func() { metrics.OperationsTotal.WithLabelValues("open_account", result(err)).Inc() }()

	account = models.Account{
		CPF:       cpf,
		Name:      name,
		ID:        uuid.New().String(),
		Statement: []models.LedgerEntry{},
	}

	if err = l.store.CreateAccount(ctx, account); err != nil {
		return models.Account{}, mapStoreErr(err, "open account")
	}

	l.publish(ctx, events.AccountEvent{
		Type:       events.AccountOpened,
		AccountID:  account.ID,
		CPF:        account.CPF,
		Name:       account.Name,
		OccurredAt: l.now(),
	})
	return account, nil
}

// GetAccount resolves a CPF to its account.
func (l *Ledger) GetAccount(ctx context.Context, cpf string) (models.Account, error) {
	account, err := l.store.GetAccount(ctx, cpf)
	if err != nil {
		return models.Account{}, mapStoreErr(err, "get account")
	}
	return account, nil
}

// Deposit appends a credit entry to the account.
func (l *Ledger) Deposit(ctx context.Context, cpf, description string, amount decimal.Decimal) (entry models.LedgerEntry, err error) {
	defer func() { metrics.OperationsTotal.WithLabelValues("deposit", result(err)).Inc() }()

	mu := l.getAccountLock(cpf)
	mu.Lock()
	defer mu.Unlock()

	account, err := l.GetAccount(ctx, cpf)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	now := l.now()
	entry = models.LedgerEntry{
		ID:          l.newEntryID(now),
		Description: description,
		Amount:      amount,
		CreatedAt:   now,
		Type:        models.EntryCredit,
	}
	if err = l.store.AppendEntry(ctx, cpf, entry); err != nil {
		return models.LedgerEntry{}, mapStoreErr(err, "deposit")
	}

	l.publishEntry(ctx, account, entry)
	return entry, nil
}

// Withdraw appends a debit entry when the balance covers amount.
// The balance check and the append happen under the account lock, so two
// concurrent withdrawals can't both spend the same funds.
func (l *Ledger) Withdraw(ctx context.Context, cpf string, amount decimal.Decimal) (entry models.LedgerEntry, err error) {
	defer func() { metrics.OperationsTotal.WithLabelValues("withdraw", result(err)).Inc() }()

	mu := l.getAccountLock(cpf)
	mu.Lock()
	defer mu.Unlock()

	account, err := l.GetAccount(ctx, cpf)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if Balance(account.Statement).LessThan(amount) {
		return models.LedgerEntry{}, ErrInsufficientFunds
	}

	now := l.now()
	entry = models.LedgerEntry{
		ID:        l.newEntryID(now),
		Amount:    amount,
		CreatedAt: now,
		Type:      models.EntryDebit,
	}
	if err = l.store.AppendEntry(ctx, cpf, entry); err != nil {
		return models.LedgerEntry{}, mapStoreErr(err, "withdraw")
	}

	l.publishEntry(ctx, account, entry)
	return entry, nil
}

// RenameAccount replaces the account's display name and returns the new name.
func (l *Ledger) RenameAccount(ctx context.Context, cpf, name string) (_ string, err error) {
	defer func() { metrics.OperationsTotal.WithLabelValues("rename_account", result(err)).Inc() }()

	if err = l.store.UpdateName(ctx, cpf, name); err != nil {
		return "", mapStoreErr(err, "rename account")
	}

	account, err := l.GetAccount(ctx, cpf)
	if err != nil {
		return "", err
	}

	l.publish(ctx, events.AccountEvent{
		Type:       events.AccountRenamed,
		AccountID:  account.ID,
		CPF:        cpf,
		Name:       name,
		OccurredAt: l.now(),
	})
	return name, nil
}

// CloseAccount removes the account and returns the accounts that remain.
func (l *Ledger) CloseAccount(ctx context.Context, cpf string) (_ []models.Account, err error) {
	defer func() { metrics.OperationsTotal.WithLabelValues("close_account", result(err)).Inc() }()

	mu := l.getAccountLock(cpf)
	mu.Lock()
	defer mu.Unlock()

	account, err := l.GetAccount(ctx, cpf)
	if err != nil {
		return nil, err
	}

	if err = l.store.DeleteAccount(ctx, cpf); err != nil {
		return nil, mapStoreErr(err, "close account")
	}

	l.mapMu.Lock()
	delete(l.muMap, cpf)
	l.mapMu.Unlock()

	l.publish(ctx, events.AccountEvent{
		Type:       events.AccountClosed,
		AccountID:  account.ID,
		CPF:        cpf,
		Name:       account.Name,
		OccurredAt: l.now(),
	})

	remaining, err := l.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return remaining, nil
}

func (l *Ledger) publishEntry(ctx context.Context, account models.Account, entry models.LedgerEntry) {
	l.publish(ctx, events.AccountEvent{
		Type:       events.EntryRecorded,
		AccountID:  account.ID,
		CPF:        account.CPF,
		Entry:      &entry,
		OccurredAt: entry.CreatedAt,
	})
}

// publish never fails the operation: the change is already applied.
func (l *Ledger) publish(ctx context.Context, event events.AccountEvent) {
	if err := l.publisher.Publish(ctx, l.topic, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(event.Type)).Inc()
		l.logger.Warn("failed to publish account event",
			zap.String("type", string(event.Type)),
			zap.String("cpf", event.CPF),
			zap.Error(err))
	}
}

func mapStoreErr(err error, op string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrAccountNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		return ErrCPFAlreadyExists
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
