package backup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pocketledger/pocketledger/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		interval Interval
		lastAt   time.Time
		want     bool
	}{
		{"never is never due", IntervalNever, now.Add(-365 * 24 * time.Hour), false},
		{"no prior backup", IntervalDaily, time.Time{}, false},
		{"daily, 23h elapsed", IntervalDaily, now.Add(-23 * time.Hour), false},
		{"daily, 25h elapsed", IntervalDaily, now.Add(-25 * time.Hour), true},
		{"daily, exactly 24h", IntervalDaily, now.Add(-24 * time.Hour), true},
		{"weekly, 6 days elapsed", IntervalWeekly, now.Add(-6 * 24 * time.Hour), false},
		{"weekly, 8 days elapsed", IntervalWeekly, now.Add(-8 * 24 * time.Hour), true},
		{"monthly, 29 days elapsed", IntervalMonthly, now.Add(-29 * 24 * time.Hour), false},
		{"monthly, 31 days elapsed", IntervalMonthly, now.Add(-31 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(tt.interval, tt.lastAt, now))
		})
	}
}

func TestParseInterval(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly", "never"} {
		got, err := ParseInterval(valid)
		require.NoError(t, err)
		assert.Equal(t, Interval(valid), got)
	}

	_, err := ParseInterval("fortnightly")
	require.Error(t, err)
}

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSchedulerRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("skips when no interval configured", func(t *testing.T) {
		store := newTestStore(t)
		scheduler := NewScheduler(store, NewCodec(store), t.TempDir())

		path, err := scheduler.Run(ctx, now, false)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.False(t, Exists(scheduler.Path()))
	})

	t.Run("forced run always writes and stamps", func(t *testing.T) {
		store := newTestStore(t)
		scheduler := NewScheduler(store, NewCodec(store), t.TempDir())

		path, err := scheduler.Run(ctx, now, true)
		require.NoError(t, err)
		require.Equal(t, scheduler.Path(), path)
		assert.True(t, Exists(path))

		stamp, err := store.GetSetting(ctx, SettingLastBackupAt)
		require.NoError(t, err)
		assert.Equal(t, now.Format(time.RFC3339), stamp)
	})

	t.Run("due run writes", func(t *testing.T) {
		store := newTestStore(t)
		scheduler := NewScheduler(store, NewCodec(store), t.TempDir())

		require.NoError(t, store.SetSetting(ctx, SettingInterval, "weekly"))
		last := now.Add(-8 * 24 * time.Hour)
		require.NoError(t, store.SetSetting(ctx, SettingLastBackupAt, last.Format(time.RFC3339)))

		path, err := scheduler.Run(ctx, now, false)
		require.NoError(t, err)
		assert.NotEmpty(t, path)
	})

	t.Run("not-yet-due run skips", func(t *testing.T) {
		store := newTestStore(t)
		scheduler := NewScheduler(store, NewCodec(store), t.TempDir())

		require.NoError(t, store.SetSetting(ctx, SettingInterval, "weekly"))
		last := now.Add(-6 * 24 * time.Hour)
		require.NoError(t, store.SetSetting(ctx, SettingLastBackupAt, last.Format(time.RFC3339)))

		path, err := scheduler.Run(ctx, now, false)
		require.NoError(t, err)
		assert.Empty(t, path)
	})
}
