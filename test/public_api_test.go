package test

import (
	"context"
	"testing"

	"authgate"
	"authgate/credstore"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = authgate.New

	var _ *authgate.Client
	var _ *authgate.Builder
	var _ authgate.Config
	var _ authgate.Session
	var _ authgate.Profile
	var _ authgate.LoginResult
	var _ authgate.ResetLink
	var _ authgate.ProviderStatus
	var _ authgate.EventSink
	var _ authgate.Event
	var _ authgate.MetricsSnapshot
	var _ *authgate.Guard

	var _ error = authgate.ErrNetworkFailure
	var _ error = authgate.ErrInvalidCredentials
	var _ error = authgate.ErrTokenExpired
	var _ error = authgate.ErrServerError
	var _ error = authgate.ErrValidation
	var _ error = authgate.ErrResetLinkInvalid
	var _ error = authgate.ErrLoginSuperseded
	var _ error = authgate.ErrClientNotReady
	var _ error = &authgate.ValidationError{}

	var _ credstore.Store = credstore.NewMemoryStore()
	var _ credstore.Store = (*credstore.FileStore)(nil)
	var _ credstore.Store = (*credstore.RedisStore)(nil)

	var _ func(*authgate.Client, context.Context, string, string) (*authgate.LoginResult, error) = (*authgate.Client).Login
	var _ func(*authgate.Client, context.Context) error = (*authgate.Client).Logout
	var _ func(*authgate.Client, context.Context) (*authgate.Profile, error) = (*authgate.Client).Profile
	var _ func(*authgate.Client, context.Context) (bool, error) = (*authgate.Client).ToggleMFA
	var _ func(*authgate.Client, context.Context, string) (string, error) = (*authgate.Client).UpdatePhoneNumber
	var _ func(*authgate.Client, context.Context, string) error = (*authgate.Client).RequestPasswordReset
	var _ func(*authgate.Client, context.Context, authgate.ResetLink, string, string) error = (*authgate.Client).ConfirmPasswordReset
	var _ func(*authgate.Client, context.Context, string, string, string) error = (*authgate.Client).Register
	var _ func(*authgate.Client, context.Context) (bool, error) = (*authgate.Client).AdminStatus
	var _ func(string) (authgate.ResetLink, error) = authgate.ParseResetLink
	var _ func(*authgate.Guard, context.Context, string) bool = (*authgate.Guard).CanAccess
}
