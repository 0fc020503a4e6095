package storage

import (
	"context"
	"testing"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Books", "book", model.TypeExpense)
	require.NoError(t, err)
	assert.Equal(t, model.TypeExpense, cat.Type)
	assert.False(t, cat.IsPermanent)

	t.Run("duplicate within type", func(t *testing.T) {
		_, err := store.CreateCategory(ctx, "Books", "book", model.TypeExpense)
		require.ErrorIs(t, err, common.ErrDuplicateName)
	})

	t.Run("same name, other type is fine", func(t *testing.T) {
		_, err := store.CreateCategory(ctx, "Books", "book", model.TypeIncome)
		require.NoError(t, err)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := store.CreateCategory(ctx, "Weird", "", model.TransactionType("transfer"))
		require.Error(t, err)
	})
}

func TestUpdateCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Books", "book", model.TypeExpense)
	require.NoError(t, err)

	require.NoError(t, store.UpdateCategory(ctx, cat.ID, "Reading", "book-open"))

	set, err := store.ListCategories(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(set.Expense))
	for _, c := range set.Expense {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Reading")
	assert.NotContains(t, names, "Books")

	t.Run("permanent category rejects edits", func(t *testing.T) {
		var others *model.Category
		for i := range set.Expense {
			if set.Expense[i].Name == model.FallbackCategoryName {
				others = &set.Expense[i]
			}
		}
		require.NotNil(t, others)

		err := store.UpdateCategory(ctx, others.ID, "Misc", "")
		require.ErrorIs(t, err, common.ErrPermanentEntity)
	})

	t.Run("unknown id", func(t *testing.T) {
		require.ErrorIs(t, store.UpdateCategory(ctx, 9999, "Ghost", ""), common.ErrNotFound)
	})
}

func TestUpdateCategoryDoesNotRelabelTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Books", "book", model.TypeExpense)
	require.NoError(t, err)
	txn := insertTestTransaction(t, store, "Novel", "20", "Cash", "Books", model.TypeExpense, 0)

	require.NoError(t, store.UpdateCategory(ctx, cat.ID, "Reading", "book"))

	got, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", got.Category)
}

func TestDeleteCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("permanent category", func(t *testing.T) {
		set, err := store.ListCategories(ctx)
		require.NoError(t, err)
		for _, cat := range set.Expense {
			if cat.Name == model.FallbackCategoryName {
				require.ErrorIs(t, store.DeleteCategory(ctx, cat.ID), common.ErrPermanentEntity)
			}
		}
	})

	t.Run("cascade to Others of the same type", func(t *testing.T) {
		cat, err := store.CreateCategory(ctx, "Books", "book", model.TypeExpense)
		require.NoError(t, err)

		insertTestTransaction(t, store, "Novel", "20", "Cash", "Books", model.TypeExpense, 0)
		insertTestTransaction(t, store, "Atlas", "35", "Cash", "Books", model.TypeExpense, -2)

		require.NoError(t, store.DeleteCategory(ctx, cat.ID))

		moved, err := store.Search(ctx, service.SearchFilter{
			Type:       string(model.TypeExpense),
			Categories: []string{model.FallbackCategoryName},
		})
		require.NoError(t, err)
		assert.Len(t, moved, 2)

		orphans, err := store.Search(ctx, service.SearchFilter{
			Type:       "all",
			Categories: []string{"Books"},
		})
		require.NoError(t, err)
		assert.Empty(t, orphans)
	})

	t.Run("unknown id", func(t *testing.T) {
		require.ErrorIs(t, store.DeleteCategory(ctx, 9999), common.ErrNotFound)
	})
}

func TestListCategoriesOrdering(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Alimony", "cash", model.TypeExpense)
	require.NoError(t, err)

	set, err := store.ListCategories(ctx)
	require.NoError(t, err)

	// System categories come first even when a user category sorts earlier.
	require.NotEmpty(t, set.Expense)
	assert.True(t, set.Expense[0].IsSystem)
	assert.Equal(t, "Alimony", set.Expense[len(set.Expense)-1].Name)
}
