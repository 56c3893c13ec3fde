package models

// Account is a customer account identified by its CPF.
type Account struct {
	CPF       string        `json:"cpf"`
	Name      string        `json:"name"`
	ID        string        `json:"id"`
	Statement []LedgerEntry `json:"statement"`
}

// Clone returns a copy of the account that shares no memory with a.
func (a Account) Clone() Account {
	statement := make([]LedgerEntry, len(a.Statement))
	copy(statement, a.Statement)
	a.Statement = statement
	return a
}
