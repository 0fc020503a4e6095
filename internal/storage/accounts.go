package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, icon, opening_balance, is_default, is_system, is_permanent`

func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(
		&acc.ID,
		&acc.Name,
		&acc.Icon,
		&acc.OpeningBalance,
		&acc.IsDefault,
		&acc.IsSystem,
		&acc.IsPermanent,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// CreateAccount creates a new non-permanent account.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, name, icon string, openingBalance decimal.Decimal) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: account %q", common.ErrDuplicateName, name)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (name, icon, opening_balance, is_default, is_system, is_permanent)
		VALUES (?, ?, ?, 0, 0, 0)`,
		name, icon, openingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get account ID: %w", err)
	}

	slog.Info("created account", "name", name, "id", id)
	return &model.Account{
		ID:             id,
		Name:           name,
		Icon:           icon,
		OpeningBalance: openingBalance,
	}, nil
}

// UpdateAccount updates name, icon and opening balance. Permanent accounts
// accept edits too; only deletion is restricted for them.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, id int64, name, icon string, openingBalance decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	var dup int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE name = ? AND id != ?`, name, id).Scan(&dup)
	if err != nil {
		return fmt.Errorf("failed to check existing account: %w", err)
	}
	if dup > 0 {
		return fmt.Errorf("%w: account %q", common.ErrDuplicateName, name)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, icon = ?, opening_balance = ?
		WHERE id = ?`,
		name, icon, openingBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account id %d", common.ErrNotFound, id)
	}
	return nil
}

// DeleteAccount removes a non-permanent account. Its transactions are
// re-pointed to Cash first; reassignment and deletion commit as one unit.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		acc, err := getAccountByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if acc.IsPermanent {
			return fmt.Errorf("%w: account %q cannot be deleted", common.ErrPermanentEntity, acc.Name)
		}

		reassigned, err := tx.ExecContext(ctx,
			`UPDATE transactions SET account = ? WHERE account = ?`,
			model.CashAccountName, acc.Name)
		if err != nil {
			return fmt.Errorf("failed to reassign transactions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}

		// A deleted default hands the flag to Cash.
		if acc.IsDefault {
			if _, err := tx.ExecContext(ctx,
				`UPDATE accounts SET is_default = 1 WHERE name = ?`, model.CashAccountName); err != nil {
				return fmt.Errorf("failed to move default flag: %w", err)
			}
		}

		if n, err := reassigned.RowsAffected(); err == nil {
			slog.Info("deleted account", "name", acc.Name, "reassigned_transactions", n)
		}
		return nil
	})
}

// SetDefaultAccount atomically clears the default flag everywhere and sets it
// on the given account.
func (s *SQLiteStorage) SetDefaultAccount(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := getAccountByIDTx(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_default = 0`); err != nil {
			return fmt.Errorf("failed to clear default flags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_default = 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to set default flag: %w", err)
		}
		return nil
	})
}

// ListAccounts returns all accounts, system accounts first, then alphabetical.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY is_system DESC, name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// GetAccountByName returns an account by its display name.
func (s *SQLiteStorage) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	acc, err := scanAccount(s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return acc, nil
}

func getAccountByIDTx(ctx context.Context, q queryable, id int64) (*model.Account, error) {
	acc, err := scanAccount(q.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return acc, nil
}

// resolveAccountRef reports whether an account name resolves to a row.
// Transactions store this name verbatim; a later switch to id-based
// references only needs to change this lookup and its call sites.
func resolveAccountRef(ctx context.Context, q queryable, name string) (bool, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE name = ?`, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to resolve account reference: %w", err)
	}
	return count > 0, nil
}

// AccountBalance computes opening balance plus income minus expenses for one
// account. Amounts are exact decimal strings, so the summation happens here
// rather than in SQL.
func (s *SQLiteStorage) AccountBalance(ctx context.Context, name string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}

	acc, err := s.GetAccountByName(ctx, name)
	if err != nil {
		return decimal.Zero, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, type FROM transactions WHERE account = ?`, name)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	balance := acc.OpeningBalance
	for rows.Next() {
		var amount decimal.Decimal
		var txnType model.TransactionType
		if err := rows.Scan(&amount, &txnType); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		if txnType == model.TypeIncome {
			balance = balance.Add(amount)
		} else {
			balance = balance.Sub(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("error iterating transactions: %w", err)
	}
	return balance, nil
}

// AllBalances computes every account's balance in a single pass over the
// transactions table, ordered system accounts first, then alphabetical.
func (s *SQLiteStorage) AllBalances(ctx context.Context) ([]model.AccountBalance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT account, amount, type FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	deltas := make(map[string]decimal.Decimal, len(accounts))
	for rows.Next() {
		var account string
		var amount decimal.Decimal
		var txnType model.TransactionType
		if err := rows.Scan(&account, &amount, &txnType); err != nil {
			return nil, fmt.Errorf("failed to scan amount: %w", err)
		}
		if txnType == model.TypeIncome {
			deltas[account] = deltas[account].Add(amount)
		} else {
			deltas[account] = deltas[account].Sub(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	balances := make([]model.AccountBalance, 0, len(accounts))
	for _, acc := range accounts {
		balances = append(balances, model.AccountBalance{
			Account: acc,
			Balance: acc.OpeningBalance.Add(deltas[acc.Name]),
		})
	}
	return balances, nil
}
