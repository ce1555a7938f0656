package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrUserAborted means the user declined a confirmation. Callers treat it
	// as a clean early exit, not a failure.
	ErrUserAborted = errors.New("aborted by user")

	ErrAlreadyExecuted  = errors.New("pipeline already executed")
	ErrNotExecuted      = errors.New("pipeline not yet executed")
	ErrAlreadyCommitted = errors.New("pipeline already committed")
)

// ConflictError reports an existing artifact the user refused to overwrite.
// Unlike ErrUserAborted it is a failure: the run could not proceed.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists and was not overwritten", e.Path)
}
