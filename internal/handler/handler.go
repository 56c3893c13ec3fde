package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/cpf-bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
)

// Bank is the set of account operations the HTTP layer needs.
// *ledger.Ledger satisfies it.
type Bank interface {
	OpenAccount(ctx context.Context, cpf, name string) (models.Account, error)
	GetAccount(ctx context.Context, cpf string) (models.Account, error)
	Deposit(ctx context.Context, cpf, description string, amount decimal.Decimal) (models.LedgerEntry, error)
	Withdraw(ctx context.Context, cpf string, amount decimal.Decimal) (models.LedgerEntry, error)
	RenameAccount(ctx context.Context, cpf, name string) (string, error)
	CloseAccount(ctx context.Context, cpf string) ([]models.Account, error)
}

type Handler struct {
	bank      Bank
	cpfHeader string
	logger    *zap.Logger
}

// NewHandler serves bank over HTTP. Callers identify themselves with the
// cpfHeader request header.
func NewHandler(bank Bank, cpfHeader string, logger *zap.Logger) *Handler {
	return &Handler{bank: bank, cpfHeader: cpfHeader, logger: logger}
}

// CreateAccount opens an account.
// POST /account {cpf, name}
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CPF  string `json:"cpf"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.bank.OpenAccount(r.Context(), req.CPF, req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// GET /account
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())
	writeJSON(w, http.StatusOK, account)
}

// GET /statement
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())
	writeJSON(w, http.StatusOK, account.Statement)
}

// GetStatementByDate returns the entries recorded on ?date=YYYY-MM-DD.
// GET /statement/date
func (h *Handler) GetStatementByDate(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())
	date := r.URL.Query().Get("date")

	writeJSON(w, http.StatusOK, ledger.FilterByDate(account.Statement, date))
}

// GET /balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())
	writeJSON(w, http.StatusOK, ledger.Balance(account.Statement))
}

// POST /deposit {description, amount}
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())

	var req struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.bank.Deposit(r.Context(), account.CPF, req.Description, req.Amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// POST /withdraw {amount}
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.bank.Withdraw(r.Context(), account.CPF, req.Amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// UpdateAccount renames the account and answers with the new name.
// PUT /account {name}
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, err := h.bank.RenameAccount(r.Context(), account.CPF, req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, name)
}

// DeleteAccount closes the account and answers with the accounts that remain.
// DELETE /account
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())

	remaining, err := h.bank.CloseAccount(r.Context(), account.CPF)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, remaining)
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
