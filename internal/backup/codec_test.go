package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	codec := NewCodec(store)

	draft := model.TransactionDraft{
		Title:    "Coffee",
		Amount:   decimal.NewFromInt(50),
		Account:  "Cash",
		Category: "Food",
		Type:     model.TypeExpense,
	}
	_, err := store.InsertTransaction(ctx, draft, 0)
	require.NoError(t, err)

	artifact, err := codec.Snapshot(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, codec.WriteFile(artifact, path))

	assert.True(t, Exists(path))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive a successful write")

	loaded, err := codec.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, artifact.Database.Accounts, loaded.Database.Accounts)
	assert.Equal(t, artifact.Database.Categories, loaded.Database.Categories)
	assert.Equal(t, artifact.Database.Transactions, loaded.Database.Transactions)
	assert.Equal(t, artifact.Settings, loaded.Settings)
}

func TestReadFileErrors(t *testing.T) {
	codec := NewCodec(nil)
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := codec.ReadFile(filepath.Join(dir, "nope.json"))
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
		_, err := codec.ReadFile(path)
		require.ErrorIs(t, err, common.ErrMalformedBackup)
	})

	t.Run("missing tables", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`{"database":{"Accounts":[]},"settings":{}}`), 0600))
		_, err := codec.ReadFile(path)
		require.ErrorIs(t, err, common.ErrMalformedBackup)
	})

	t.Run("missing database section", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"settings":{}}`), 0600))
		_, err := codec.ReadFile(path)
		require.ErrorIs(t, err, common.ErrMalformedBackup)
	})
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(filepath.Join(dir, "nope.json")))
	assert.False(t, Exists(dir), "directories do not count")

	path := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))
	assert.True(t, Exists(path))
}

func TestFileRoundTripRestores(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	codec := NewCodec(store)

	draft := model.TransactionDraft{
		Title:    "Pay",
		Amount:   decimal.NewFromInt(900),
		Account:  "Bank",
		Category: "Salary",
		Type:     model.TypeIncome,
	}
	_, err := store.InsertTransaction(ctx, draft, 0)
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(ctx, "backup.interval", "daily"))

	before, err := codec.Snapshot(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, codec.WriteFile(before, path))

	// Wreck the live state, then restore from the file.
	_, err = store.InsertTransaction(ctx, draft, -1)
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(ctx, "backup.interval", "never"))

	loaded, err := codec.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, codec.Restore(ctx, loaded))

	after, err := codec.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Database.Transactions, after.Database.Transactions)
	assert.Equal(t, before.Settings, after.Settings)
}
