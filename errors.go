package authgate

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure is an exported constant or variable used by the authentication client.
	ErrNetworkFailure = errors.New("network failure")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenExpired is an exported constant or variable used by the authentication client.
	ErrTokenExpired = errors.New("token expired")
	// ErrServerError is an exported constant or variable used by the authentication client.
	ErrServerError = errors.New("server error")
	// ErrValidation is an exported constant or variable used by the authentication client.
	ErrValidation = errors.New("validation failure")
	// ErrResetLinkInvalid is an exported constant or variable used by the authentication client.
	ErrResetLinkInvalid = errors.New("password reset link invalid")
	// ErrLoginSuperseded is an exported constant or variable used by the authentication client.
	ErrLoginSuperseded = errors.New("login superseded by logout")
	// ErrClientNotReady is an exported constant or variable used by the authentication client.
	ErrClientNotReady = errors.New("client not initialized")
)

// ValidationError carries the rejected field and a human-readable message for
// a client- or server-detected input rejection. Server messages are surfaced
// verbatim. Matches both errors.As(&ValidationError{}) and
// errors.Is(err, ErrValidation).
type ValidationError struct {
	Field   string
	Message string
}

// Error describes the error operation and its observable behavior.
//
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *ValidationError) Error() string {
	if e == nil {
		return "validation failure"
	}
	if e.Field == "" {
		return fmt.Sprintf("validation failure: %s", e.Message)
	}
	return fmt.Sprintf("validation failure on %s: %s", e.Field, e.Message)
}

// Is reports taxonomy membership so callers can branch on [ErrValidation]
// without unwrapping the structured value.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
