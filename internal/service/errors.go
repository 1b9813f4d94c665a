package service

import (
	"errors"
	"fmt"
)

// Pass-level error codes. Item-level failures never carry these; they are
// collected into SyncResult.Errors instead.
const (
	SyncErrListFailed       = "sync/list-failed"
	SyncErrClientListFailed = "sync/client-list-failed"
)

// Item-level sentinel errors.
var (
	ErrMissingNossoNumero = errors.New("payment is missing its nosso número gateway reference")
	ErrNoClientRef        = errors.New("payment has no associated client")
)

// SyncError is a fatal pass-level failure: the batch could not even be
// enumerated. It carries a machine-readable code for the controller layer.
type SyncError struct {
	Code string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError wraps cause with a pass-level code.
func NewSyncError(code string, cause error) *SyncError {
	return &SyncError{Code: code, Err: cause}
}
