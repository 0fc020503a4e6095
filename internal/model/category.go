package model

import "fmt"

// TransactionType indicates whether money flows in or out.
type TransactionType string

const (
	// TypeIncome represents money flowing into an account.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money flowing out of an account.
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType validates a raw string against the known types.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	default:
		return "", fmt.Errorf("invalid transaction type %q (want income or expense)", s)
	}
}

// Category represents a transaction category. Categories are unique on
// (Name, Type); the permanent "Others" category of each type is the fallback
// target when a category is deleted.
type Category struct {
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Type        TransactionType `json:"type"`
	ID          int64           `json:"id"`
	IsSystem    bool            `json:"is_system"`
	IsPermanent bool            `json:"is_permanent"`
}

// CategorySet groups categories by transaction type.
type CategorySet struct {
	Income  []Category `json:"income"`
	Expense []Category `json:"expense"`
}

// FallbackCategoryName is the per-type category that absorbs transactions of a
// deleted category.
const FallbackCategoryName = "Others"
