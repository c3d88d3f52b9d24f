package credentials

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no bundle has been persisted for the provider yet.
// Callers treat it as "never authorized", not as a failure.
var ErrNotFound = errors.New("no stored credentials")

// CorruptStoreError indicates the token file exists but cannot be decoded
// into a usable bundle. Recovery requires re-authorization.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt credential store %s: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// PersistenceError indicates the underlying filesystem operation failed while
// reading or writing the token file.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s credential store %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// RefreshDeniedError indicates the provider rejected the refresh credential
// itself. The stored grant is dead; retrying cannot succeed and only a new
// authorization can recover.
type RefreshDeniedError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *RefreshDeniedError) Error() string {
	return fmt.Sprintf("refresh denied by %s (%s): %v", e.Provider, e.Reason, e.Err)
}

func (e *RefreshDeniedError) Unwrap() error {
	return e.Err
}

// TransientNetworkError indicates a token operation failed for reasons
// unrelated to the grant, such as connectivity loss or a provider outage.
// The operation is safe to retry.
type TransientNetworkError struct {
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network failure: %v", e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}
