package authgate

import "authgate/credstore"

// Session is the client-held proof-of-authentication state: the opaque
// access-token/refresh-token pair. An empty AccessToken is definitionally the
// Anonymous state. Only [Client] commit paths write it.
type Session = credstore.Credentials

// Profile is the locally cached read-only copy of the identity owned by the
// remote API. It is refreshed by successful profile-read, MFA-toggle, and
// phone-update responses and is never persisted.
type Profile struct {
	Username    string
	Email       string
	MFAEnabled  bool
	PhoneNumber string
}

// LoginResult is returned by [Client.Login]. Tokens are opaque to the client;
// RefreshToken is empty when the server does not issue one.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
}

// ResetLink is the (email, token) pair extracted from an externally
// delivered password-reset URL. Both values are opaque and consumed exactly
// once by [Client.ConfirmPasswordReset]; they are never stored.
type ResetLink struct {
	Email string
	Token string
}

// ProviderStatus is returned by [Client.ProviderStatus]. It reports whether
// the upstream identity provider is reachable from the API's point of view.
type ProviderStatus struct {
	Available bool
	Detail    string
}
