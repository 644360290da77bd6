package authgate

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"authgate/internal/wire"
)

// ToggleMFA describes the togglemfa operation and its observable behavior.
//
// ToggleMFA may return an error when input validation, dependency calls, or security checks fail.
// The returned boolean is the server's new state of the MFA flag. The
// operation is NOT idempotent: each successful call flips the flag, so
// callers must not retry blindly on ambiguous failures such as timeouts,
// since a retry could double-toggle. Enrollment is binary; any second-factor
// challenge happens entirely server-side at next login.
func (c *Client) ToggleMFA(ctx context.Context) (bool, error) {
	if c == nil || c.httpc == nil {
		return false, ErrClientNotReady
	}

	status, body, err := c.do(ctx, http.MethodPost, wire.PathToggleMFA, nil)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, c.authedError(ctx, status)
	}

	var res wire.ToggleMFAResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return false, ErrServerError
	}

	c.metricInc(MetricMFAToggled)
	c.emitEvent(ctx, eventMFAToggle, true, "", nil, func() map[string]string {
		return map[string]string{"mfa_enabled": strconv.FormatBool(res.MFAEnabled)}
	})

	return res.MFAEnabled, nil
}
