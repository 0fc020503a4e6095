package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
)

const categoryColumns = `id, name, icon, type, is_system, is_permanent`

func scanCategory(row interface{ Scan(...any) error }) (*model.Category, error) {
	var cat model.Category
	err := row.Scan(
		&cat.ID,
		&cat.Name,
		&cat.Icon,
		&cat.Type,
		&cat.IsSystem,
		&cat.IsPermanent,
	)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory creates a new non-permanent category. Names are unique per
// transaction type: an income and an expense category may share a name.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name, icon string, txnType model.TransactionType) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if _, err := model.ParseTransactionType(string(txnType)); err != nil {
		return nil, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ? AND type = ?`, name, txnType).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %s category %q", common.ErrDuplicateName, txnType, name)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, icon, type, is_system, is_permanent)
		VALUES (?, ?, ?, 0, 0)`,
		name, icon, txnType)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created category", "name", name, "type", txnType, "id", id)
	return &model.Category{
		ID:   id,
		Name: name,
		Icon: icon,
		Type: txnType,
	}, nil
}

// UpdateCategory updates name and icon. Permanent categories reject edits:
// the fallback "Others" rows must keep their identity.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int64, name, icon string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	cat, err := getCategoryByIDTx(ctx, s.db, id)
	if err != nil {
		return err
	}
	if cat.IsPermanent {
		return fmt.Errorf("%w: category %q cannot be modified", common.ErrPermanentEntity, cat.Name)
	}

	var dup int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ? AND type = ? AND id != ?`,
		name, cat.Type, id).Scan(&dup)
	if err != nil {
		return fmt.Errorf("failed to check existing category: %w", err)
	}
	if dup > 0 {
		return fmt.Errorf("%w: %s category %q", common.ErrDuplicateName, cat.Type, name)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ? WHERE id = ?`, name, icon, id); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a non-permanent category. Its transactions are
// re-pointed to the "Others" category of the same type first; reassignment
// and deletion commit as one unit.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		cat, err := getCategoryByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if cat.IsPermanent {
			return fmt.Errorf("%w: category %q cannot be deleted", common.ErrPermanentEntity, cat.Name)
		}

		reassigned, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category = ? WHERE category = ? AND type = ?`,
			model.FallbackCategoryName, cat.Name, cat.Type)
		if err != nil {
			return fmt.Errorf("failed to reassign transactions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		if n, err := reassigned.RowsAffected(); err == nil {
			slog.Info("deleted category", "name", cat.Name, "type", cat.Type, "reassigned_transactions", n)
		}
		return nil
	})
}

// ListCategories returns all categories grouped by type, system categories
// first, then alphabetical.
func (s *SQLiteStorage) ListCategories(ctx context.Context) (*model.CategorySet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		ORDER BY is_system DESC, name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	set := &model.CategorySet{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if cat.Type == model.TypeIncome {
			set.Income = append(set.Income, *cat)
		} else {
			set.Expense = append(set.Expense, *cat)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return set, nil
}

func getCategoryByIDTx(ctx context.Context, q queryable, id int64) (*model.Category, error) {
	cat, err := scanCategory(q.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category id %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// resolveCategoryRef reports whether a (name, type) pair resolves to a
// category row. The name-based reference counterpart of resolveAccountRef.
func resolveCategoryRef(ctx context.Context, q queryable, name string, txnType model.TransactionType) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ? AND type = ?`, name, txnType).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to resolve category reference: %w", err)
	}
	return count > 0, nil
}
