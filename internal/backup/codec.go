// Package backup serializes the full ledger state to a single JSON artifact
// and restores it destructively, plus the schedule policy that decides when
// an automatic backup is due.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/service"
)

// Codec reads and writes backup artifacts. The relational work happens in the
// storage layer; the codec owns the file format and its invariants.
type Codec struct {
	store service.Storage
}

// NewCodec creates a codec backed by the given store.
func NewCodec(store service.Storage) *Codec {
	return &Codec{store: store}
}

// Snapshot captures the current state as an artifact.
func (c *Codec) Snapshot(ctx context.Context) (*model.BackupArtifact, error) {
	return c.store.Snapshot(ctx)
}

// Restore destructively applies the artifact to the store.
func (c *Codec) Restore(ctx context.Context, artifact *model.BackupArtifact) error {
	if err := Validate(artifact); err != nil {
		return err
	}
	return c.store.Restore(ctx, artifact)
}

// WriteFile writes the artifact to path with write-to-temp-then-rename
// semantics: a half-written file never appears at the canonical path.
func (c *Codec) WriteFile(artifact *model.BackupArtifact, path string) error {
	if err := Validate(artifact); err != nil {
		return err
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageIO, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", common.ErrStorageIO, err)
	}
	return nil
}

// ReadFile parses and validates an artifact from disk.
func (c *Codec) ReadFile(path string) (*model.BackupArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageIO, err)
	}

	var artifact model.BackupArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedBackup, err)
	}
	if err := Validate(&artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Exists reports whether a backup file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks that the artifact carries all expected tables. A backup of
// an empty ledger still has empty (not absent) row lists.
func Validate(artifact *model.BackupArtifact) error {
	if artifact == nil || artifact.Database == nil {
		return fmt.Errorf("%w: missing database section", common.ErrMalformedBackup)
	}
	if artifact.Database.Accounts == nil {
		return fmt.Errorf("%w: missing Accounts table", common.ErrMalformedBackup)
	}
	if artifact.Database.Categories == nil {
		return fmt.Errorf("%w: missing Categories table", common.ErrMalformedBackup)
	}
	if artifact.Database.Transactions == nil {
		return fmt.Errorf("%w: missing Transactions table", common.ErrMalformedBackup)
	}
	if artifact.Settings == nil {
		artifact.Settings = map[string]string{}
	}
	return nil
}
