// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pocketledger/pocketledger/internal/date"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/shopspring/decimal"
)

// Period identifies a reporting window: a whole year, or one month of it.
// A zero Month means the whole year.
type Period struct {
	Year  int
	Month time.Month
}

// Monthly reports whether the period covers a single month.
func (p Period) Monthly() bool { return p.Month != 0 }

// SearchFilter defines the conjunctive predicates for transaction search.
// A zero-value field imposes no constraint.
type SearchFilter struct {
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	StartDate  *date.Date
	EndDate    *date.Date
	Query      string
	Type       string // "income", "expense" or "all"
	Accounts   []string
	Categories []string
}

// Storage defines the contract for the persistence layer. Every multi-step
// mutation (cascade reassignment, default switching, restore) executes inside
// a single database transaction; partial application is never observable.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, name, icon string, openingBalance decimal.Decimal) (*model.Account, error)
	UpdateAccount(ctx context.Context, id int64, name, icon string, openingBalance decimal.Decimal) error
	DeleteAccount(ctx context.Context, id int64) error
	SetDefaultAccount(ctx context.Context, id int64) error
	ListAccounts(ctx context.Context) ([]model.Account, error)
	GetAccountByName(ctx context.Context, name string) (*model.Account, error)
	AccountBalance(ctx context.Context, name string) (decimal.Decimal, error)
	AllBalances(ctx context.Context) ([]model.AccountBalance, error)

	// Category operations
	CreateCategory(ctx context.Context, name, icon string, txnType model.TransactionType) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, name, icon string) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) (*model.CategorySet, error)

	// Transaction operations
	InsertTransaction(ctx context.Context, draft model.TransactionDraft, dayOffset int) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error)

	// Aggregation
	TransactionsOnDate(ctx context.Context, txnType model.TransactionType, day date.Date) ([]model.Transaction, error)
	TransactionsInPeriod(ctx context.Context, txnType model.TransactionType, period Period) ([]model.Transaction, error)
	CategoryTotals(ctx context.Context, txnType model.TransactionType, period Period) (map[string]decimal.Decimal, error)
	TransactionsByCategoryAndPeriod(ctx context.Context, txnType model.TransactionType, category string, period Period) ([]model.Transaction, error)
	Search(ctx context.Context, filter SearchFilter) ([]model.Transaction, error)
	MostFrequentCategory(ctx context.Context, txnType model.TransactionType) (string, error)

	// Settings (string-keyed, string-valued)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]string, error)

	// Backup
	Snapshot(ctx context.Context) (*model.BackupArtifact, error)
	Restore(ctx context.Context, artifact *model.BackupArtifact) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
