package authgate

import (
	"context"
	"encoding/json"
	"net/http"

	"authgate/internal/wire"
)

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Account creation does not log the new identity in; callers follow up with
// [Client.Login]. Server rejections (missing fields, duplicate username or
// email) surface verbatim as [ValidationError].
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	if c == nil || c.httpc == nil {
		return ErrClientNotReady
	}
	if username == "" || email == "" || password == "" {
		return &ValidationError{Field: "account", Message: "all fields are required"}
	}

	status, body, err := c.do(ctx, http.MethodPost, wire.PathRegister, wire.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		c.metricInc(MetricRegisterFailure)
		c.emitEvent(ctx, eventRegister, false, username, err, nil)
		return err
	}

	switch {
	case status < 300:
		c.metricInc(MetricRegisterSuccess)
		c.emitEvent(ctx, eventRegister, true, username, nil, nil)
		return nil
	case status >= 500:
		c.metricInc(MetricRegisterFailure)
		c.emitEvent(ctx, eventRegister, false, username, ErrServerError, nil)
		return ErrServerError
	default:
		msg := wire.ErrorMessage(body)
		if msg == "" {
			msg = "registration rejected"
		}
		vErr := &ValidationError{Field: "account", Message: msg}
		c.metricInc(MetricRegisterFailure)
		c.emitEvent(ctx, eventRegister, false, username, vErr, nil)
		return vErr
	}
}

// AdminStatus reports whether the authenticated identity has administrative
// privileges, per the server.
//
// AdminStatus may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) AdminStatus(ctx context.Context) (bool, error) {
	if c == nil || c.httpc == nil {
		return false, ErrClientNotReady
	}

	status, body, err := c.do(ctx, http.MethodGet, wire.PathAdminCheck, nil)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, c.authedError(ctx, status)
	}

	var res wire.AdminCheckResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return false, ErrServerError
	}
	return res.IsAdmin, nil
}

// ProviderStatus probes the API's upstream identity provider. No
// authentication is required.
//
// ProviderStatus may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) ProviderStatus(ctx context.Context) (ProviderStatus, error) {
	if c == nil || c.httpc == nil {
		return ProviderStatus{}, ErrClientNotReady
	}

	status, body, err := c.do(ctx, http.MethodGet, wire.PathProviderCheck, nil)
	if err != nil {
		return ProviderStatus{}, err
	}
	if status != http.StatusOK {
		c.emitEvent(ctx, eventProviderProbe, false, "", ErrServerError, nil)
		return ProviderStatus{}, ErrServerError
	}

	var res wire.ProviderCheckResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return ProviderStatus{}, ErrServerError
	}

	c.emitEvent(ctx, eventProviderProbe, true, "", nil, nil)
	return ProviderStatus{Available: res.Available, Detail: res.Detail}, nil
}
