package backup

import (
	"context"
	"fmt"
)

// RestoreState is the position of a user-initiated restore in its lifecycle.
type RestoreState int

const (
	// StateIdle means no restore is in progress.
	StateIdle RestoreState = iota
	// StateFilePicked means a candidate file was chosen but nothing has been
	// read yet. This is the only state that allows cancellation.
	StateFilePicked
	// StateValidating means the file is being parsed and checked.
	StateValidating
	// StateApplying means the transactional rewrite has begun. No
	// cancellation is offered from here on.
	StateApplying
	// StateDone means the restore committed.
	StateDone
	// StateFailed means the restore failed and rolled back; the pre-restore
	// state is intact.
	StateFailed
)

func (s RestoreState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFilePicked:
		return "file picked"
	case StateValidating:
		return "validating"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RestoreFlow drives a restore through its states. It is not safe for
// concurrent use; one flow belongs to one restore attempt.
type RestoreFlow struct {
	codec *Codec
	err   error
	path  string
	state RestoreState
}

// NewRestoreFlow creates a flow in the Idle state.
func NewRestoreFlow(codec *Codec) *RestoreFlow {
	return &RestoreFlow{codec: codec, state: StateIdle}
}

// State returns the current state.
func (f *RestoreFlow) State() RestoreState { return f.state }

// Err returns the failure cause after StateFailed.
func (f *RestoreFlow) Err() error { return f.err }

// PickFile records the chosen backup file and moves Idle -> FilePicked.
func (f *RestoreFlow) PickFile(path string) error {
	if f.state != StateIdle {
		return fmt.Errorf("cannot pick a file in state %q", f.state)
	}
	if !Exists(path) {
		return fmt.Errorf("no backup file at %s", path)
	}
	f.path = path
	f.state = StateFilePicked
	return nil
}

// Cancel aborts the restore with no storage effect. Only valid at FilePicked;
// once Apply has begun there is no safe cancellation point.
func (f *RestoreFlow) Cancel() error {
	if f.state != StateFilePicked {
		return fmt.Errorf("cannot cancel in state %q", f.state)
	}
	f.path = ""
	f.state = StateIdle
	return nil
}

// Apply parses the picked file and performs the transactional rewrite:
// FilePicked -> Validating -> Applying -> Done, or Failed with the store
// rolled back.
func (f *RestoreFlow) Apply(ctx context.Context) error {
	if f.state != StateFilePicked {
		return fmt.Errorf("cannot apply in state %q", f.state)
	}

	f.state = StateValidating
	artifact, err := f.codec.ReadFile(f.path)
	if err != nil {
		return f.fail(err)
	}

	f.state = StateApplying
	if err := f.codec.Restore(ctx, artifact); err != nil {
		return f.fail(err)
	}

	f.state = StateDone
	return nil
}

func (f *RestoreFlow) fail(err error) error {
	f.state = StateFailed
	f.err = err
	return err
}
