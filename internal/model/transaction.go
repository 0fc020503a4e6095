// Package model defines the domain types shared across the application.
package model

import (
	"github.com/pocketledger/pocketledger/internal/date"
	"github.com/shopspring/decimal"
)

// Transaction represents a single ledger entry. Account and Category hold the
// referenced entity's display name as it was at insertion time.
type Transaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Account     string          `json:"account"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Date        date.Date       `json:"date"`
	ID          int64           `json:"id"`
}

// TransactionDraft is the user-supplied portion of a transaction; the store
// assigns the ID and computes the date from a day offset.
type TransactionDraft struct {
	Amount      decimal.Decimal
	Title       string
	Description string
	Account     string
	Category    string
	Type        TransactionType
}
