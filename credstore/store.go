package credstore

import "context"

const (
	// KeyToken is an exported constant or variable used by the authentication client.
	KeyToken = "token"
	// KeyRefreshToken is an exported constant or variable used by the authentication client.
	KeyRefreshToken = "refresh_token"
)

// Credentials defines a public type used by authgate APIs.
//
// Credentials instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Anonymous reports whether the credentials denote the unauthenticated state.
// The access token alone is decisive; a dangling refresh token without an
// access token is still Anonymous.
func (c Credentials) Anonymous() bool {
	return c.AccessToken == ""
}

// Store is the durable key-value holder for the current bearer credentials.
//
// Get must never fail: implementations return the zero [Credentials] when the
// backing data is missing or corrupt. Set replaces both values in one write so
// readers never observe a half-written pair. Clear is idempotent.
type Store interface {
	Get(ctx context.Context) Credentials
	Set(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}
