package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
)

// Snapshot dumps the full relational state plus the settings map inside a
// single read transaction, so the artifact is internally consistent: no row
// is added or removed mid-dump.
func (s *SQLiteStorage) Snapshot(ctx context.Context) (*model.BackupArtifact, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var artifact *model.BackupArtifact
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		accounts, err := dumpAccounts(ctx, tx)
		if err != nil {
			return err
		}
		categories, err := dumpCategories(ctx, tx)
		if err != nil {
			return err
		}
		transactions, err := dumpTransactions(ctx, tx)
		if err != nil {
			return err
		}
		settings, err := allSettingsTx(ctx, tx)
		if err != nil {
			return err
		}

		artifact = &model.BackupArtifact{
			Database: &model.BackupDatabase{
				Accounts:     accounts,
				Categories:   categories,
				Transactions: transactions,
			},
			Settings: settings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created snapshot",
		"accounts", len(artifact.Database.Accounts),
		"categories", len(artifact.Database.Categories),
		"transactions", len(artifact.Database.Transactions),
		"settings", len(artifact.Settings))
	return artifact, nil
}

// Restore destructively replaces the entire store with the artifact's state.
// Everything happens inside one transaction: a failure mid-restore rolls back
// to the pre-restore state, never a hybrid.
func (s *SQLiteStorage) Restore(ctx context.Context, artifact *model.BackupArtifact) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if artifact == nil || artifact.Database == nil {
		return fmt.Errorf("%w: missing database section", common.ErrMalformedBackup)
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"transactions", "categories", "accounts", "settings"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, acc := range artifact.Database.Accounts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO accounts (id, name, icon, opening_balance, is_default, is_system, is_permanent)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				acc.ID, acc.Name, acc.Icon, acc.OpeningBalance, acc.IsDefault, acc.IsSystem, acc.IsPermanent)
			if err != nil {
				return fmt.Errorf("failed to restore account %q: %w", acc.Name, err)
			}
		}

		for _, cat := range artifact.Database.Categories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO categories (id, name, icon, type, is_system, is_permanent)
				VALUES (?, ?, ?, ?, ?, ?)`,
				cat.ID, cat.Name, cat.Icon, cat.Type, cat.IsSystem, cat.IsPermanent)
			if err != nil {
				return fmt.Errorf("failed to restore category %q: %w", cat.Name, err)
			}
		}

		for _, txn := range artifact.Database.Transactions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO transactions (id, title, description, amount, account, category, type, date)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				txn.ID, txn.Title, txn.Description, txn.Amount, txn.Account, txn.Category, txn.Type, txn.Date)
			if err != nil {
				return fmt.Errorf("failed to restore transaction %d: %w", txn.ID, err)
			}
		}

		for key, value := range artifact.Settings {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
				return fmt.Errorf("failed to restore setting %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("restored snapshot",
		"accounts", len(artifact.Database.Accounts),
		"categories", len(artifact.Database.Categories),
		"transactions", len(artifact.Database.Transactions))
	return nil
}

func dumpAccounts(ctx context.Context, q queryable) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to dump accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

func dumpCategories(ctx context.Context, q queryable) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to dump categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := []model.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
	}
	return categories, rows.Err()
}

func dumpTransactions(ctx context.Context, q queryable) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to dump transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	transactions := []model.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}
