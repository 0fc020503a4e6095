package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/service"
)

// Search returns the transactions matching every supplied predicate of the
// filter. An absent predicate imposes no constraint; an entirely empty filter
// returns every transaction. Results are ordered by date descending.
func (s *SQLiteStorage) Search(ctx context.Context, filter service.SearchFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + q + "%"
		query += ` AND (title LIKE ? OR description LIKE ? OR category LIKE ? OR account LIKE ?)`
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if filter.Type != "" && filter.Type != "all" {
		txnType, err := model.ParseTransactionType(filter.Type)
		if err != nil {
			return nil, err
		}
		query += ` AND type = ?`
		args = append(args, txnType)
	}

	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.EndDate)
	}

	if len(filter.Accounts) > 0 {
		query += ` AND account IN (` + placeholders(len(filter.Accounts)) + `)`
		for _, name := range filter.Accounts {
			args = append(args, name)
		}
	}
	if len(filter.Categories) > 0 {
		query += ` AND category IN (` + placeholders(len(filter.Categories)) + `)`
		for _, name := range filter.Categories {
			args = append(args, name)
		}
	}

	// Amounts are stored as decimal strings; compare numerically.
	if filter.MinAmount != nil {
		query += ` AND CAST(amount AS REAL) >= ?`
		args = append(args, filter.MinAmount.InexactFloat64())
	}
	if filter.MaxAmount != nil {
		query += ` AND CAST(amount AS REAL) <= ?`
		args = append(args, filter.MaxAmount.InexactFloat64())
	}

	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	return collectTransactions(rows)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
