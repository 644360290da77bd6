package authgate

import (
	"context"
	"encoding/json"
	"net/http"

	"authgate/internal/wire"
)

// Profile describes the profile operation and its observable behavior.
//
// Profile may return an error when input validation, dependency calls, or security checks fail.
// A 401 means the persisted token is stale; the client performs the same
// local cleanup as Logout and returns [ErrTokenExpired], which callers must
// treat as a forced logout.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	if c == nil || c.httpc == nil {
		return nil, ErrClientNotReady
	}

	status, body, err := c.do(ctx, http.MethodGet, wire.PathProfile, nil)
	if err != nil {
		c.metricInc(MetricProfileFailure)
		return nil, err
	}
	if status != http.StatusOK {
		c.metricInc(MetricProfileFailure)
		return nil, c.authedError(ctx, status)
	}

	var res wire.ProfileResponse
	if err := json.Unmarshal(body, &res); err != nil {
		c.metricInc(MetricProfileFailure)
		return nil, ErrServerError
	}

	c.metricInc(MetricProfileSuccess)
	c.emitEvent(ctx, eventProfileFetch, true, res.Username, nil, nil)

	return &Profile{
		Username:    res.Username,
		Email:       res.Email,
		MFAEnabled:  res.MFAEnabled,
		PhoneNumber: res.PhoneNumber,
	}, nil
}

// UpdatePhoneNumber describes the updatephonenumber operation and its observable behavior.
//
// UpdatePhoneNumber may return an error when input validation, dependency calls, or security checks fail.
// The returned value is the server-confirmed phone number, which is
// authoritative and may differ from the submitted input. A 400 surfaces the
// server's message verbatim as a [ValidationError] on "phone_number".
func (c *Client) UpdatePhoneNumber(ctx context.Context, phone string) (string, error) {
	if c == nil || c.httpc == nil {
		return "", ErrClientNotReady
	}

	status, body, err := c.do(ctx, http.MethodPost, wire.PathUpdatePhone, wire.UpdatePhoneRequest{
		PhoneNumber: phone,
	})
	if err != nil {
		return "", err
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusBadRequest:
		msg := wire.ErrorMessage(body)
		if msg == "" {
			msg = "invalid phone number"
		}
		return "", &ValidationError{Field: "phone_number", Message: msg}
	default:
		return "", c.authedError(ctx, status)
	}

	var res wire.UpdatePhoneResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", ErrServerError
	}

	c.metricInc(MetricPhoneUpdated)
	c.emitEvent(ctx, eventPhoneUpdate, true, "", nil, func() map[string]string {
		return map[string]string{"phone_number": res.PhoneNumber}
	})

	return res.PhoneNumber, nil
}
