package oauth

import (
	"fmt"
	"time"
)

// UserDeniedError indicates the authorization endpoint redirected back with an
// error instead of a code, most commonly because the user declined consent.
type UserDeniedError struct {
	Code        string // OAuth error code from the redirect (e.g. "access_denied")
	Description string
}

func (e *UserDeniedError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization denied: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("authorization denied: %s", e.Code)
}

// UserDenied marks the error as an explicit denial so callers can classify it
// with errors.As against a local interface instead of importing this package.
func (e *UserDeniedError) UserDenied() bool {
	return true
}

// StateMismatchError indicates the callback carried a state parameter that does
// not match the one issued for this flow. The code is discarded.
type StateMismatchError struct{}

func (e *StateMismatchError) Error() string {
	return "authorization callback state does not match the pending request"
}

// FlowTimeoutError indicates no authorization callback arrived within the
// flow's wait window.
type FlowTimeoutError struct {
	Timeout time.Duration
}

func (e *FlowTimeoutError) Error() string {
	return fmt.Sprintf("no authorization callback received within %s", e.Timeout)
}

// TokenExchangeError indicates the token endpoint rejected or failed the
// code-for-token (or secret-for-token) exchange.
type TokenExchangeError struct {
	Provider string
	Err      error
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange with %s failed: %v", e.Provider, e.Err)
}

func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}
