package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrStorageFailure   = errors.New("storage failure")
	ErrInferenceFailure = errors.New("inference failure")
	ErrIncompleteResult = errors.New("incomplete result")
	ErrNotFound         = errors.New("not found")
	ErrResultNotReady   = errors.New("result not ready")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
