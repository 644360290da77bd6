// Package wire defines the JSON shapes and endpoint paths of the remote
// identity API consumed by the client.
//
// # Architecture boundaries
//
// This package owns the external contract only: paths, request bodies,
// response bodies, and the generic error envelope. It does NOT perform HTTP
// I/O, interpret status codes into the client error taxonomy, or touch the
// credential store; those responsibilities belong to the Client.
package wire

import "encoding/json"

const (
	// PathLogin is the username/password authentication endpoint.
	PathLogin = "/login/"
	// PathLogout is the best-effort server-side logout endpoint.
	PathLogout = "/logout/"
	// PathRegister is the account creation endpoint.
	PathRegister = "/register/"
	// PathProfile is the authenticated profile-read endpoint.
	PathProfile = "/profile/"
	// PathToggleMFA is the authenticated MFA flag flip endpoint.
	PathToggleMFA = "/toggle-mfa/"
	// PathUpdatePhone is the authenticated phone replacement endpoint.
	PathUpdatePhone = "/update-phone/"
	// PathForgotPassword is the out-of-band reset request endpoint.
	PathForgotPassword = "/forgot-password/"
	// PathResetPassword is the out-of-band reset confirmation endpoint.
	PathResetPassword = "/reset-password/"
	// PathAdminCheck is the authenticated admin flag probe endpoint.
	PathAdminCheck = "/admin-check/"
	// PathProviderCheck is the unauthenticated identity-provider probe endpoint.
	PathProviderCheck = "/keycloak-check/"
)

// LoginRequest is the body of POST /login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /login/. RefreshToken is
// optional; an absent field decodes to the empty string.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RegisterRequest is the body of POST /register/.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileResponse is the success body of GET /profile/.
type ProfileResponse struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	MFAEnabled  bool   `json:"mfa_enabled"`
	PhoneNumber string `json:"phone_number"`
}

// ToggleMFAResponse is the success body of POST /toggle-mfa/.
type ToggleMFAResponse struct {
	MFAEnabled bool `json:"mfa_enabled"`
}

// UpdatePhoneRequest is the body of POST /update-phone/.
type UpdatePhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// UpdatePhoneResponse is the success body of POST /update-phone/. The server
// value is authoritative; it may differ from the submitted input.
type UpdatePhoneResponse struct {
	PhoneNumber string `json:"phone_number"`
}

// ForgotPasswordRequest is the body of POST /forgot-password/.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /reset-password/.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AdminCheckResponse is the success body of GET /admin-check/.
type AdminCheckResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// ProviderCheckResponse is the success body of GET /keycloak-check/.
type ProviderCheckResponse struct {
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// ErrorEnvelope is the generic failure body returned by every endpoint.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// ErrorMessage extracts the server's error string from a failure body.
// Unparseable or empty bodies yield "".
func ErrorMessage(body []byte) string {
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error
}
