package ledger

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrCPFAlreadyExists  = errors.New("cpf already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// result maps an operation error to the label used in bank_operations_total.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, ErrCPFAlreadyExists):
		return "conflict"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "error"
	}
}
