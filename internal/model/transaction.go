package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the final classification of a transaction.
type TxType string

const (
	TxIncome  TxType = "Income"
	TxExpense TxType = "Expense"
	TxOther   TxType = "Other"
)

// TxTypes returns every TxType in display order.
func TxTypes() []TxType {
	return []TxType{TxIncome, TxExpense, TxOther}
}

// Valid reports whether t is one of the enumerated types.
func (t TxType) Valid() bool {
	switch t {
	case TxIncome, TxExpense, TxOther:
		return true
	}
	return false
}

// Transaction is one normalized money movement.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal // negative = expense
	Type        TxType
	Account     string // empty when the account column is absent
	Description string // category label on the budget-grid path
}

// Period returns the (year, month) the transaction falls in.
func (t Transaction) Period() Period {
	return Period{Year: t.Date.Year(), Month: int(t.Date.Month())}
}
