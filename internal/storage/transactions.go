package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/date"
	"github.com/pocketledger/pocketledger/internal/model"
)

const transactionColumns = `id, title, description, amount, account, category, type, date`

func scanTransaction(row interface{ Scan(...any) error }) (*model.Transaction, error) {
	var txn model.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.Title,
		&txn.Description,
		&txn.Amount,
		&txn.Account,
		&txn.Category,
		&txn.Type,
		&txn.Date,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// checkReferences verifies that the draft's account and category names
// resolve to existing rows at insertion time.
func checkReferences(ctx context.Context, q queryable, account, category string, txnType model.TransactionType) error {
	ok, err := resolveAccountRef(ctx, q, account)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: unknown account %q", common.ErrConstraintViolation, account)
	}

	ok, err = resolveCategoryRef(ctx, q, category, txnType)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: unknown %s category %q", common.ErrConstraintViolation, txnType, category)
	}
	return nil
}

// InsertTransaction persists a draft. The calendar date is today shifted by
// dayOffset days (0 = today, negative = past), matching the UI's date
// navigator.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, draft model.TransactionDraft, dayOffset int) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.db, draft.Account, draft.Category, draft.Type); err != nil {
		return nil, err
	}

	day := date.Today().Add(dayOffset)
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (title, description, amount, account, category, type, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		draft.Title, draft.Description, draft.Amount, draft.Account, draft.Category, draft.Type, day)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	slog.Debug("inserted transaction", "id", id, "title", draft.Title, "date", day)
	return &model.Transaction{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Amount:      draft.Amount,
		Account:     draft.Account,
		Category:    draft.Category,
		Type:        draft.Type,
		Date:        day,
	}, nil
}

// UpdateTransaction rewrites a transaction row. References are re-validated
// against the current account and category names.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	draft := model.TransactionDraft{
		Title:       txn.Title,
		Description: txn.Description,
		Amount:      txn.Amount,
		Account:     txn.Account,
		Category:    txn.Category,
		Type:        txn.Type,
	}
	if err := validateDraft(&draft); err != nil {
		return err
	}
	if err := checkReferences(ctx, s.db, txn.Account, txn.Category, txn.Type); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET title = ?, description = ?, amount = ?, account = ?, category = ?, type = ?, date = ?
		WHERE id = ?`,
		txn.Title, txn.Description, txn.Amount, txn.Account, txn.Category, txn.Type, txn.Date, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction id %d", common.ErrNotFound, txn.ID)
	}
	return nil
}

// DeleteTransaction removes a single transaction.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction id %d", common.ErrNotFound, id)
	}
	return nil
}

// GetTransactionByID returns a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}
