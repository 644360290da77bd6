package authgate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"authgate/credstore"
	"authgate/internal/wire"
)

const maxResponseBytes = 1 << 20

// Client defines a public type used by authgate APIs.
//
// Client is the session controller: the single writer of the credential
// store and the only component that interprets remote API responses into the
// client error taxonomy. Instances are built through [Builder.Build] and are
// safe for concurrent use.
type Client struct {
	config  Config
	store   credstore.Store
	httpc   *http.Client
	metrics *Metrics
	events  *eventDispatcher
	guard   *Guard

	mu         sync.Mutex
	generation uint64
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.events != nil {
		c.events.Close()
	}
}

// Session returns the current credential pair. A fresh process starts
// Anonymous unless a previously persisted token is found, in which case the
// client is optimistically Authenticated; no startup validation is performed
// and the first authenticated call is the actual validity check.
func (c *Client) Session(ctx context.Context) Session {
	if c == nil || c.store == nil {
		return Session{}
	}
	return c.store.Get(ctx)
}

// Authenticated reports whether the store currently holds an access token.
func (c *Client) Authenticated(ctx context.Context) bool {
	return !c.Session(ctx).Anonymous()
}

// Guard describes the guard operation and its observable behavior.
//
// Guard does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Guard() *Guard {
	if c == nil {
		return nil
	}
	return c.guard
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return c.metrics.Snapshot()
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
//
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) EventsDropped() uint64 {
	if c == nil || c.events == nil {
		return 0
	}
	return c.events.Dropped()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// On success both tokens are committed to the credential store in one write,
// transitioning Anonymous to Authenticated. Every failure path leaves the
// store untouched; a response that lands after an intervening Logout is
// discarded and reported as [ErrLoginSuperseded].
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if c == nil || c.httpc == nil {
		return nil, ErrClientNotReady
	}

	gen := c.currentGeneration()

	status, body, err := c.do(ctx, http.MethodPost, wire.PathLogin, wire.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		c.metricInc(MetricLoginFailure)
		c.emitEvent(ctx, eventLogin, false, username, err, nil)
		return nil, err
	}

	switch {
	case status >= 500:
		err = ErrServerError
	case status >= 400:
		err = ErrInvalidCredentials
	}
	if err != nil {
		c.metricInc(MetricLoginFailure)
		c.emitEvent(ctx, eventLogin, false, username, err, nil)
		return nil, err
	}

	var res wire.LoginResponse
	if decodeErr := json.Unmarshal(body, &res); decodeErr != nil || res.Token == "" {
		c.metricInc(MetricLoginFailure)
		c.emitEvent(ctx, eventLogin, false, username, ErrServerError, func() map[string]string {
			return map[string]string{"reason": "unexpected_response_shape"}
		})
		return nil, ErrServerError
	}

	if err := c.commitLogin(ctx, gen, credstore.Credentials{
		AccessToken:  res.Token,
		RefreshToken: res.RefreshToken,
	}); err != nil {
		if err == ErrLoginSuperseded {
			c.metricInc(MetricLoginSuperseded)
			c.emitEvent(ctx, eventLoginDiscard, false, username, err, nil)
		} else {
			c.metricInc(MetricLoginFailure)
			c.emitEvent(ctx, eventLogin, false, username, err, func() map[string]string {
				return map[string]string{"reason": "store_write_failed"}
			})
		}
		return nil, err
	}

	c.metricInc(MetricLoginSuccess)
	c.emitEvent(ctx, eventLogin, true, username, nil, nil)

	return &LoginResult{AccessToken: res.Token, RefreshToken: res.RefreshToken}, nil
}

func (c *Client) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// commitLogin writes the credential pair if and only if no logout has
// advanced the session generation since the login request was issued.
func (c *Client) commitLogin(ctx context.Context, gen uint64, creds credstore.Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return ErrLoginSuperseded
	}
	return c.store.Set(ctx, creds)
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// The server notification is best-effort: its failure is logged and
// swallowed. Local credential clearing is unconditional and the session
// generation always advances, so no in-flight login can revive the cleared
// session.
func (c *Client) Logout(ctx context.Context) error {
	if c == nil || c.store == nil {
		return ErrClientNotReady
	}

	if c.httpc != nil && !c.Session(ctx).Anonymous() {
		status, _, err := c.do(ctx, http.MethodPost, wire.PathLogout, nil)
		if err != nil || status >= 400 {
			log.Print("authgate: server logout notification failed")
		}
	}

	c.mu.Lock()
	c.generation++
	clearErr := c.store.Clear(ctx)
	c.mu.Unlock()

	c.metricInc(MetricLogout)
	c.emitEvent(ctx, eventLogout, clearErr == nil, "", clearErr, nil)

	return clearErr
}

// forceLogout performs the same local cleanup as Logout without the server
// notification. It is the shared reaction to any 401 on an authenticated
// call.
func (c *Client) forceLogout(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	if err := c.store.Clear(ctx); err != nil {
		log.Print("authgate: credential clear failed during forced logout")
	}
	c.mu.Unlock()

	c.metricInc(MetricForcedLogout)
	c.emitEvent(ctx, eventForcedLogout, true, "", nil, nil)
}

// authedError maps a non-2xx status on an authenticated endpoint into the
// client taxonomy. A 401 triggers the forced-logout cleanup before returning
// [ErrTokenExpired].
func (c *Client) authedError(ctx context.Context, status int) error {
	if status == http.StatusUnauthorized {
		c.forceLogout(ctx)
		return ErrTokenExpired
	}
	return ErrServerError
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.config.API.BaseURL, "/") + path
}

// do issues one request through the intercepted transport and returns the
// status and raw body. Transport-level failures collapse to
// [ErrNetworkFailure]; status interpretation is left to the caller.
func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if ua := c.config.API.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.metricInc(MetricNetworkFailure)
		return 0, nil, ErrNetworkFailure
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metricInc(MetricNetworkFailure)
		return 0, nil, ErrNetworkFailure
	}

	return resp.StatusCode, data, nil
}
