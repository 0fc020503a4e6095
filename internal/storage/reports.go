package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/date"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/service"
	"github.com/shopspring/decimal"
)

// periodPattern converts a reporting period into a LIKE pattern over the
// ISO date column: "2026-08-%" for a month, "2026-%" for a year.
func periodPattern(p service.Period) string {
	if p.Monthly() {
		return fmt.Sprintf("%04d-%02d-%%", p.Year, p.Month)
	}
	return fmt.Sprintf("%04d-%%", p.Year)
}

// TransactionsOnDate returns transactions of the given type with an exact
// calendar-date match, newest insertion first.
func (s *SQLiteStorage) TransactionsOnDate(ctx context.Context, txnType model.TransactionType, day date.Date) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE type = ? AND date = ?
		ORDER BY id DESC`,
		txnType, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

// TransactionsInPeriod returns transactions of the given type whose date
// falls in the period, independent of day.
func (s *SQLiteStorage) TransactionsInPeriod(ctx context.Context, txnType model.TransactionType, period service.Period) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE type = ? AND date LIKE ?
		ORDER BY date DESC, id DESC`,
		txnType, periodPattern(period))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

// CategoryTotals sums amounts by category for the period. Amounts are exact
// decimal strings, so grouping happens in SQL and summation here.
func (s *SQLiteStorage) CategoryTotals(ctx context.Context, txnType model.TransactionType, period service.Period) (map[string]decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, amount
		FROM transactions
		WHERE type = ? AND date LIKE ?`,
		txnType, periodPattern(period))
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var amount decimal.Decimal
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals[category] = totals[category].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return totals, nil
}

// TransactionsByCategoryAndPeriod is the drill-down behind chart legends:
// all transactions of one category in the period, most recent first.
func (s *SQLiteStorage) TransactionsByCategoryAndPeriod(ctx context.Context, txnType model.TransactionType, category string, period service.Period) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE type = ? AND category = ? AND date LIKE ?
		ORDER BY date DESC, id DESC`,
		txnType, category, periodPattern(period))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

// MostFrequentCategory returns the mode of the category column among
// transactions of the given type. Ties break toward the category whose first
// transaction appears earliest in storage order. With no transactions of the
// type, it falls back to "Others".
func (s *SQLiteStorage) MostFrequentCategory(ctx context.Context, txnType model.TransactionType) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}

	var category string
	err := s.db.QueryRowContext(ctx, `
		SELECT category
		FROM transactions
		WHERE type = ?
		GROUP BY category
		ORDER BY COUNT(*) DESC, MIN(id) ASC
		LIMIT 1`,
		txnType).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FallbackCategoryName, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query most frequent category: %w", err)
	}
	return category, nil
}
