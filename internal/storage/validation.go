// Package storage provides the SQLite persistence layer: schema management,
// ledger CRUD with cascade rules, aggregation queries, the settings map and
// snapshot/restore primitives.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pocketledger/pocketledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDraft validates the user-supplied portion of a transaction.
func validateDraft(draft *model.TransactionDraft) error {
	if draft == nil {
		return fmt.Errorf("%w: draft", ErrNilParameter)
	}
	if err := validateString(draft.Title, "title"); err != nil {
		return err
	}
	if err := validateString(draft.Account, "account"); err != nil {
		return err
	}
	if err := validateString(draft.Category, "category"); err != nil {
		return err
	}
	if _, err := model.ParseTransactionType(string(draft.Type)); err != nil {
		return err
	}
	if draft.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
