// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors. Storage and backup operations wrap these with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	// ErrNotFound means an id or name did not resolve to a row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName means a unique constraint on an account name or a
	// (category name, type) pair was violated.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrPermanentEntity means a delete or structural change was attempted on
	// a permanent row.
	ErrPermanentEntity = errors.New("permanent entity")
	// ErrConstraintViolation means a transaction referenced an unknown
	// account or category name.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrStorageIO means the underlying database engine or file failed.
	ErrStorageIO = errors.New("storage i/o failure")
	// ErrMalformedBackup means a backup artifact failed to parse or is
	// missing expected tables.
	ErrMalformedBackup = errors.New("malformed backup")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
