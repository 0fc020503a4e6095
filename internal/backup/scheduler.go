package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/service"
)

// Interval is the automatic-backup cadence.
type Interval string

const (
	// IntervalDaily backs up after one elapsed day.
	IntervalDaily Interval = "daily"
	// IntervalWeekly backs up after seven elapsed days.
	IntervalWeekly Interval = "weekly"
	// IntervalMonthly backs up after thirty elapsed days.
	IntervalMonthly Interval = "monthly"
	// IntervalNever disables automatic backups.
	IntervalNever Interval = "never"
)

// ParseInterval validates a raw string against the known intervals.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalNever:
		return Interval(s), nil
	default:
		return "", fmt.Errorf("invalid backup interval %q (want daily, weekly, monthly or never)", s)
	}
}

// days returns the interval length in elapsed wall-clock days, 0 for never.
func (i Interval) days() float64 {
	switch i {
	case IntervalDaily:
		return 1
	case IntervalWeekly:
		return 7
	case IntervalMonthly:
		return 30
	default:
		return 0
	}
}

// IsDue reports whether an automatic backup is due by policy. Day counting is
// elapsed wall-clock time, not calendar-day boundaries. "never" and "no prior
// backup" both resolve to not due; a forced backup bypasses this check at the
// caller.
func IsDue(interval Interval, lastBackupAt, now time.Time) bool {
	if interval == IntervalNever || interval.days() == 0 {
		return false
	}
	if lastBackupAt.IsZero() {
		return false
	}
	elapsedDays := now.Sub(lastBackupAt).Hours() / 24
	return elapsedDays >= interval.days()
}

// Settings keys used by the scheduler. Both ride along in every backup as
// part of the settings map.
const (
	SettingInterval     = "backup.interval"
	SettingLastBackupAt = "backup.last_at"
)

// FileName is the canonical backup file name inside the backup directory.
const FileName = "pocketledger-backup.json"

// Scheduler decides when to back up and performs the write. The snapshot is
// cheap; the file write may block on I/O and should stay off latency-sensitive
// paths.
type Scheduler struct {
	store service.Storage
	codec *Codec
	dir   string
}

// NewScheduler creates a scheduler writing into dir.
func NewScheduler(store service.Storage, codec *Codec, dir string) *Scheduler {
	return &Scheduler{store: store, codec: codec, dir: dir}
}

// Path returns the canonical backup file path.
func (s *Scheduler) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Run performs a backup. When force is false the configured interval and the
// last-backup timestamp decide whether anything happens; a forced run always
// proceeds. It returns the written path, or "" when skipped by policy.
func (s *Scheduler) Run(ctx context.Context, now time.Time, force bool) (string, error) {
	if !force {
		due, err := s.due(ctx, now)
		if err != nil {
			return "", err
		}
		if !due {
			slog.Debug("automatic backup not due")
			return "", nil
		}
	}

	artifact, err := s.codec.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	path := s.Path()
	if err := s.codec.WriteFile(artifact, path); err != nil {
		return "", err
	}

	if err := s.store.SetSetting(ctx, SettingLastBackupAt, now.Format(time.RFC3339)); err != nil {
		return "", err
	}

	slog.Info("wrote backup", "path", path, "forced", force)
	return path, nil
}

// due reads interval and last-backup timestamp from settings and applies the
// policy.
func (s *Scheduler) due(ctx context.Context, now time.Time) (bool, error) {
	raw, err := s.store.GetSetting(ctx, SettingInterval)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	interval, err := ParseInterval(raw)
	if err != nil {
		return false, err
	}

	var lastAt time.Time
	rawLast, err := s.store.GetSetting(ctx, SettingLastBackupAt)
	switch {
	case errors.Is(err, common.ErrNotFound):
		// No prior backup: not due by policy.
	case err != nil:
		return false, err
	default:
		lastAt, err = time.Parse(time.RFC3339, rawLast)
		if err != nil {
			return false, fmt.Errorf("invalid %s value %q: %w", SettingLastBackupAt, rawLast, err)
		}
	}

	return IsDue(interval, lastAt, now), nil
}
