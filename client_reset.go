package authgate

import (
	"context"
	"net/http"
	"net/url"

	"authgate/internal/wire"
)

// ParseResetLink extracts the (email, token) pair from an externally
// delivered password-reset URL. Both query parameters are required; a link
// missing either is terminal: callers must render the invalid-link state and
// never issue a network call for it.
func ParseResetLink(raw string) (ResetLink, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ResetLink{}, ErrResetLinkInvalid
	}

	q := u.Query()
	link := ResetLink{Email: q.Get("email"), Token: q.Get("token")}
	if link.Email == "" || link.Token == "" {
		return ResetLink{}, ErrResetLinkInvalid
	}
	return link, nil
}

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// Whether "email not found" is masked is the server's enumeration policy, not
// the client's: any 4xx is reported as success-shaped. Only transport
// failures and 5xx responses surface as errors. The flow is independent of an
// active session.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if c == nil || c.httpc == nil {
		return ErrClientNotReady
	}
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}

	status, _, err := c.do(ctx, http.MethodPost, wire.PathForgotPassword, wire.ForgotPasswordRequest{
		Email: email,
	})
	if err != nil {
		c.emitEvent(ctx, eventResetRequest, false, "", err, nil)
		return err
	}
	if status >= 500 {
		c.emitEvent(ctx, eventResetRequest, false, "", ErrServerError, nil)
		return ErrServerError
	}

	c.metricInc(MetricResetRequested)
	c.emitEvent(ctx, eventResetRequest, true, "", nil, nil)
	return nil
}

// ConfirmPasswordReset describes the confirmpasswordreset operation and its observable behavior.
//
// ConfirmPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// The password match precondition is checked before any network call. On
// server confirmation the flow ends with the user still Anonymous; it does
// not auto-login. The (email, token) pair is consumed at most once
// successfully; a server rejection surfaces its message verbatim.
func (c *Client) ConfirmPasswordReset(ctx context.Context, link ResetLink, newPassword, confirmPassword string) error {
	if c == nil || c.httpc == nil {
		return ErrClientNotReady
	}
	if newPassword != confirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "passwords do not match"}
	}
	if link.Email == "" || link.Token == "" {
		return ErrResetLinkInvalid
	}

	status, body, err := c.do(ctx, http.MethodPost, wire.PathResetPassword, wire.ResetPasswordRequest{
		Email:       link.Email,
		Token:       link.Token,
		NewPassword: newPassword,
	})
	if err != nil {
		c.metricInc(MetricResetConfirmFailure)
		c.emitEvent(ctx, eventResetConfirm, false, "", err, nil)
		return err
	}

	switch {
	case status < 300:
		c.metricInc(MetricResetConfirmSuccess)
		c.emitEvent(ctx, eventResetConfirm, true, "", nil, nil)
		return nil
	case status >= 500:
		c.metricInc(MetricResetConfirmFailure)
		c.emitEvent(ctx, eventResetConfirm, false, "", ErrServerError, nil)
		return ErrServerError
	default:
		msg := wire.ErrorMessage(body)
		if msg == "" {
			msg = "invalid or expired reset token"
		}
		vErr := &ValidationError{Field: "token", Message: msg}
		c.metricInc(MetricResetConfirmFailure)
		c.emitEvent(ctx, eventResetConfirm, false, "", vErr, nil)
		return vErr
	}
}
