package storage

import (
	"context"
	"testing"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	acc, err := store.CreateAccount(ctx, "Wallet", "wallet", mustDecimal(t, "100"))
	require.NoError(t, err)
	assert.Equal(t, "Wallet", acc.Name)
	assert.False(t, acc.IsPermanent)
	assert.False(t, acc.IsDefault)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := store.CreateAccount(ctx, "Wallet", "wallet", mustDecimal(t, "0"))
		require.ErrorIs(t, err, common.ErrDuplicateName)
	})

	t.Run("duplicate of seeded account", func(t *testing.T) {
		_, err := store.CreateAccount(ctx, "Cash", "cash", mustDecimal(t, "0"))
		require.ErrorIs(t, err, common.ErrDuplicateName)
	})
}

func TestUpdateAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("permanent accounts accept edits", func(t *testing.T) {
		cash, err := store.GetAccountByName(ctx, "Cash")
		require.NoError(t, err)

		require.NoError(t, store.UpdateAccount(ctx, cash.ID, "Petty Cash", "coins", mustDecimal(t, "25.50")))

		updated, err := store.GetAccountByName(ctx, "Petty Cash")
		require.NoError(t, err)
		assert.True(t, updated.IsPermanent, "permanence is not mutable")
		assert.True(t, updated.OpeningBalance.Equal(mustDecimal(t, "25.50")))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := store.UpdateAccount(ctx, 9999, "Ghost", "", mustDecimal(t, "0"))
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("rename onto existing name", func(t *testing.T) {
		bank, err := store.GetAccountByName(ctx, "Bank")
		require.NoError(t, err)
		err = store.UpdateAccount(ctx, bank.ID, "Card", "", mustDecimal(t, "0"))
		require.ErrorIs(t, err, common.ErrDuplicateName)
	})
}

func TestUpdateAccountDoesNotRelabelTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	acc, err := store.CreateAccount(ctx, "Wallet", "wallet", mustDecimal(t, "0"))
	require.NoError(t, err)
	txn := insertTestTransaction(t, store, "Lunch", "12", "Wallet", "Food", model.TypeExpense, 0)

	// Renaming leaves historical rows pointing at the old name.
	require.NoError(t, store.UpdateAccount(ctx, acc.ID, "Billfold", "wallet", mustDecimal(t, "0")))

	got, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wallet", got.Account)
}

func TestDeleteAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("permanent account", func(t *testing.T) {
		cash, err := store.GetAccountByName(ctx, "Cash")
		require.NoError(t, err)

		err = store.DeleteAccount(ctx, cash.ID)
		require.ErrorIs(t, err, common.ErrPermanentEntity)

		accounts, err := store.ListAccounts(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 5, "relation unchanged after rejected delete")
	})

	t.Run("cascade to Cash", func(t *testing.T) {
		acc, err := store.CreateAccount(ctx, "Wallet", "wallet", mustDecimal(t, "100"))
		require.NoError(t, err)

		insertTestTransaction(t, store, "Refund", "200", "Wallet", "Salary", model.TypeIncome, 0)
		insertTestTransaction(t, store, "Snacks", "30", "Wallet", "Food", model.TypeExpense, 0)

		before, err := store.AccountBalance(ctx, "Cash")
		require.NoError(t, err)

		require.NoError(t, store.DeleteAccount(ctx, acc.ID))

		_, err = store.GetAccountByName(ctx, "Wallet")
		require.ErrorIs(t, err, common.ErrNotFound)

		// Wallet's net (+200 -30) now lands on Cash.
		after, err := store.AccountBalance(ctx, "Cash")
		require.NoError(t, err)
		assert.True(t, after.Sub(before).Equal(mustDecimal(t, "170")),
			"want +170, got %s", after.Sub(before))

		orphans, err := store.Search(ctx, searchFilterAccounts("Wallet"))
		require.NoError(t, err)
		assert.Empty(t, orphans, "no transaction may still reference the deleted account")
	})

	t.Run("unknown id", func(t *testing.T) {
		require.ErrorIs(t, store.DeleteAccount(ctx, 9999), common.ErrNotFound)
	})
}

func TestSetDefaultAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	acc, err := store.CreateAccount(ctx, "Wallet", "wallet", mustDecimal(t, "0"))
	require.NoError(t, err)

	countDefaults := func() (int, string) {
		accounts, err := store.ListAccounts(ctx)
		require.NoError(t, err)
		n, name := 0, ""
		for _, a := range accounts {
			if a.IsDefault {
				n++
				name = a.Name
			}
		}
		return n, name
	}

	// Any account, permanent or not, may become default.
	require.NoError(t, store.SetDefaultAccount(ctx, acc.ID))
	n, name := countDefaults()
	assert.Equal(t, 1, n)
	assert.Equal(t, "Wallet", name)

	bank, err := store.GetAccountByName(ctx, "Bank")
	require.NoError(t, err)
	require.NoError(t, store.SetDefaultAccount(ctx, bank.ID))
	n, name = countDefaults()
	assert.Equal(t, 1, n)
	assert.Equal(t, "Bank", name)

	require.ErrorIs(t, store.SetDefaultAccount(ctx, 9999), common.ErrNotFound)
}

func TestAccountBalance(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("expense against seeded Cash", func(t *testing.T) {
		insertTestTransaction(t, store, "Coffee", "50", "Cash", "Food", model.TypeExpense, 0)

		balance, err := store.AccountBalance(ctx, "Cash")
		require.NoError(t, err)
		assert.True(t, balance.Equal(mustDecimal(t, "-50")), "0 - 50 = -50, got %s", balance)
	})

	t.Run("opening plus income minus expense", func(t *testing.T) {
		_, err := store.CreateAccount(ctx, "Wallet", "wallet", mustDecimal(t, "100.25"))
		require.NoError(t, err)
		insertTestTransaction(t, store, "Pay", "200.50", "Wallet", "Salary", model.TypeIncome, 0)
		insertTestTransaction(t, store, "Lunch", "40.75", "Wallet", "Food", model.TypeExpense, -1)

		balance, err := store.AccountBalance(ctx, "Wallet")
		require.NoError(t, err)
		assert.True(t, balance.Equal(mustDecimal(t, "260")), "100.25 + 200.50 - 40.75, got %s", balance)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := store.AccountBalance(ctx, "Nope")
		require.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestAllBalances(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, "Wallet", "wallet", mustDecimal(t, "10"))
	require.NoError(t, err)
	insertTestTransaction(t, store, "Pay", "90", "Wallet", "Salary", model.TypeIncome, 0)
	insertTestTransaction(t, store, "Coffee", "5", "Cash", "Food", model.TypeExpense, 0)

	balances, err := store.AllBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 6)

	// System accounts first, then user accounts alphabetically.
	assert.True(t, balances[0].IsSystem)
	assert.Equal(t, "Wallet", balances[len(balances)-1].Name)

	byName := make(map[string]model.AccountBalance)
	for _, b := range balances {
		byName[b.Name] = b

		// The one-pass result must match the per-account computation.
		single, err := store.AccountBalance(ctx, b.Name)
		require.NoError(t, err)
		assert.True(t, b.Balance.Equal(single), "balance mismatch for %s", b.Name)
	}
	assert.True(t, byName["Wallet"].Balance.Equal(mustDecimal(t, "100")))
	assert.True(t, byName["Cash"].Balance.Equal(mustDecimal(t, "-5")))
}
