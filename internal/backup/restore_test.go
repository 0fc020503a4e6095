package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestBackup(t *testing.T, codec *Codec) string {
	t.Helper()
	artifact, err := codec.Snapshot(context.Background())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, codec.WriteFile(artifact, path))
	return path
}

func TestRestoreFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path walks the states", func(t *testing.T) {
		store := newTestStore(t)
		codec := NewCodec(store)
		path := writeTestBackup(t, codec)

		flow := NewRestoreFlow(codec)
		assert.Equal(t, StateIdle, flow.State())

		require.NoError(t, flow.PickFile(path))
		assert.Equal(t, StateFilePicked, flow.State())

		require.NoError(t, flow.Apply(ctx))
		assert.Equal(t, StateDone, flow.State())
	})

	t.Run("cancel only at FilePicked", func(t *testing.T) {
		store := newTestStore(t)
		codec := NewCodec(store)
		path := writeTestBackup(t, codec)

		flow := NewRestoreFlow(codec)
		require.Error(t, flow.Cancel(), "nothing to cancel at Idle")

		require.NoError(t, flow.PickFile(path))
		require.NoError(t, flow.Cancel())
		assert.Equal(t, StateIdle, flow.State())

		// The flow is reusable after a cancel.
		require.NoError(t, flow.PickFile(path))
		require.NoError(t, flow.Apply(ctx))
		require.Error(t, flow.Cancel(), "no cancellation after Apply")
	})

	t.Run("picking a missing file keeps Idle", func(t *testing.T) {
		flow := NewRestoreFlow(NewCodec(nil))
		require.Error(t, flow.PickFile(filepath.Join(t.TempDir(), "nope.json")))
		assert.Equal(t, StateIdle, flow.State())
	})

	t.Run("malformed file fails and rolls back nothing", func(t *testing.T) {
		store := newTestStore(t)
		codec := NewCodec(store)

		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

		flow := NewRestoreFlow(codec)
		require.NoError(t, flow.PickFile(path))
		require.Error(t, flow.Apply(ctx))
		assert.Equal(t, StateFailed, flow.State())
		require.Error(t, flow.Err())

		// The store is untouched: seeded accounts still present.
		accounts, err := store.ListAccounts(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 5)
	})

	t.Run("apply requires a picked file", func(t *testing.T) {
		flow := NewRestoreFlow(NewCodec(nil))
		require.Error(t, flow.Apply(ctx))
	})
}

func TestRestoreStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "applying", StateApplying.String())
	assert.Equal(t, "unknown", RestoreState(99).String())
}
