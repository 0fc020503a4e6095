package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					icon TEXT NOT NULL DEFAULT '',
					opening_balance TEXT NOT NULL DEFAULT '0',
					is_default BOOLEAN NOT NULL DEFAULT 0,
					is_system BOOLEAN NOT NULL DEFAULT 0,
					is_permanent BOOLEAN NOT NULL DEFAULT 0
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					icon TEXT NOT NULL DEFAULT '',
					type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
					is_system BOOLEAN NOT NULL DEFAULT 0,
					is_permanent BOOLEAN NOT NULL DEFAULT 0,
					UNIQUE(name, type)
				)`,

				// Transactions reference accounts and categories by display
				// name, not by id. Renames do not rewrite history.
				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					amount TEXT NOT NULL,
					account TEXT NOT NULL,
					category TEXT NOT NULL,
					type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
					date TEXT NOT NULL
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_account ON transactions(account)`,
				`CREATE INDEX idx_transactions_category ON transactions(category)`,

				`CREATE TABLE IF NOT EXISTS settings (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed built-in accounts and categories",
		Up:          seed,
	},
}

// seedAccounts are the built-in accounts. All are permanent: editable but
// never deletable. Cash additionally absorbs orphaned transactions.
var seedAccounts = []struct {
	name string
	icon string
}{
	{"Cash", "cash"},
	{"Bank", "bank"},
	{"Card", "credit-card"},
	{"UPI", "qrcode"},
	{"Savings", "piggy-bank"},
}

// seedCategories are the built-in categories. Only the per-type "Others" rows
// are permanent; they are the fallback target for category deletion.
var seedCategories = []struct {
	name      string
	icon      string
	typ       string
	permanent bool
}{
	{"Food", "food", "expense", false},
	{"Travel", "train", "expense", false},
	{"Shopping", "cart", "expense", false},
	{"Bills", "receipt", "expense", false},
	{"Entertainment", "movie", "expense", false},
	{"Health", "medical-bag", "expense", false},
	{"Others", "dots-horizontal", "expense", true},
	{"Salary", "briefcase", "income", false},
	{"Business", "store", "income", false},
	{"Investment", "chart-line", "income", false},
	{"Others", "dots-horizontal", "income", true},
}

// seed inserts the built-in rows with an insert-if-absent policy so user
// edits to seeded rows survive re-runs.
func seed(tx *sql.Tx) error {
	for i, acc := range seedAccounts {
		isDefault := 0
		if i == 0 {
			isDefault = 1
		}
		_, err := tx.Exec(`
			INSERT INTO accounts (name, icon, opening_balance, is_default, is_system, is_permanent)
			SELECT ?, ?, '0', ?, 1, 1
			WHERE NOT EXISTS (SELECT 1 FROM accounts WHERE name = ?)`,
			acc.name, acc.icon, isDefault, acc.name)
		if err != nil {
			return fmt.Errorf("failed to seed account %s: %w", acc.name, err)
		}
	}

	for _, cat := range seedCategories {
		_, err := tx.Exec(`
			INSERT INTO categories (name, icon, type, is_system, is_permanent)
			SELECT ?, ?, ?, 1, ?
			WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = ? AND type = ?)`,
			cat.name, cat.icon, cat.typ, cat.permanent, cat.name, cat.typ)
		if err != nil {
			return fmt.Errorf("failed to seed category %s/%s: %w", cat.typ, cat.name, err)
		}
	}

	// Guarantee exactly one default account exists after seeding.
	var defaults int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM accounts WHERE is_default = 1`).Scan(&defaults); err != nil {
		return fmt.Errorf("failed to count default accounts: %w", err)
	}
	if defaults == 0 {
		if _, err := tx.Exec(`UPDATE accounts SET is_default = 1 WHERE name = ?`, "Cash"); err != nil {
			return fmt.Errorf("failed to set default account: %w", err)
		}
	}

	return nil
}

// Migrate applies any pending schema migrations and seeds built-in rows.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
