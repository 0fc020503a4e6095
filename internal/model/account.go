package model

import "github.com/shopspring/decimal"

// Account represents a money source or destination (Cash, Bank, a wallet...).
// Transactions reference accounts by Name, not by ID; renaming an account does
// not relabel historical transactions.
type Account struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Name           string          `json:"name"`
	Icon           string          `json:"icon"`
	ID             int64           `json:"id"`
	IsDefault      bool            `json:"is_default"`
	IsSystem       bool            `json:"is_system"`
	IsPermanent    bool            `json:"is_permanent"`
}

// AccountBalance pairs an account with its derived balance:
// opening balance plus income minus expenses.
type AccountBalance struct {
	Account
	Balance decimal.Decimal `json:"balance"`
}

// CashAccountName is the fallback account that absorbs transactions of a
// deleted account.
const CashAccountName = "Cash"
