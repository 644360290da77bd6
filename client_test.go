package authgate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authgate/credstore"
	"authgate/internal/stub"
	"authgate/internal/wire"
)

func seedAlice(t *testing.T, identity *stub.Server) {
	t.Helper()

	err := identity.SeedAccount(stub.Account{
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "correct-horse",
		PhoneNumber: "+15550100",
	})
	if err != nil {
		t.Fatalf("SeedAccount failed: %v", err)
	}
}

// newTestClient wires a client against a fresh identity stub over a real
// HTTP listener, with an in-memory store and metrics enabled.
func newTestClient(t *testing.T) (*Client, *stub.Server, *credstore.MemoryStore) {
	t.Helper()

	identity := stub.New()
	seedAlice(t, identity)

	server := httptest.NewServer(identity.Handler())
	t.Cleanup(server.Close)

	store := credstore.NewMemoryStore()
	client, err := New().
		WithBaseURL(server.URL).
		WithStore(store).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	return client, identity, store
}

func mustLogin(t *testing.T, client *Client) {
	t.Helper()

	if _, err := client.Login(context.Background(), "alice", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
}

func TestLoginSuccessStoresSession(t *testing.T) {
	client, _, store := newTestClient(t)
	ctx := context.Background()

	res, err := client.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if res.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}

	creds := store.Get(ctx)
	if creds.AccessToken != res.AccessToken || creds.RefreshToken != res.RefreshToken {
		t.Fatal("stored credentials do not match login result")
	}
	if !client.Authenticated(ctx) {
		t.Fatal("expected authenticated state after login")
	}
}

func TestLoginWithoutRefreshToken(t *testing.T) {
	identity := stub.New(stub.WithoutRefreshTokens())
	seedAlice(t, identity)
	server := httptest.NewServer(identity.Handler())
	defer server.Close()

	client, err := New().WithBaseURL(server.URL).WithStore(credstore.NewMemoryStore()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	res, err := client.Login(context.Background(), "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if res.RefreshToken != "" {
		t.Fatalf("expected empty refresh token, got %q", res.RefreshToken)
	}
	if !client.Authenticated(context.Background()) {
		t.Fatal("expected authenticated state")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	client, _, store := newTestClient(t)
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("failed login must not write credentials")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.Login(context.Background(), "mallory", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	client, err := New().
		WithBaseURL("http://127.0.0.1:1"). // nothing listens here
		WithStore(credstore.NewMemoryStore()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	_, err = client.Login(context.Background(), "alice", "correct-horse")
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestLoginMalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer server.Close()

	store := credstore.NewMemoryStore()
	client, err := New().WithBaseURL(server.URL).WithStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	_, err = client.Login(context.Background(), "alice", "correct-horse")
	if !errors.Is(err, ErrServerError) {
		t.Fatalf("expected ErrServerError for tokenless 200, got %v", err)
	}
	if !store.Get(context.Background()).Anonymous() {
		t.Fatal("malformed login response must not write credentials")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	client, identity, store := newTestClient(t)
	ctx := context.Background()
	mustLogin(t, client)

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("expected anonymous state after logout")
	}
	if identity.Requests(wire.PathLogout) != 1 {
		t.Fatalf("expected one server logout notification, got %d", identity.Requests(wire.PathLogout))
	}
}

func TestLogoutClearsLocallyWhenServerUnreachable(t *testing.T) {
	identity := stub.New()
	seedAlice(t, identity)
	server := httptest.NewServer(identity.Handler())

	store := credstore.NewMemoryStore()
	client, err := New().WithBaseURL(server.URL).WithStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	mustLogin(t, client)

	// Kill the server so the best-effort notification fails.
	server.Close()

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout must succeed despite unreachable server, got %v", err)
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("expected local credentials cleared")
	}
}

func TestLogoutWhenAnonymousIsNoOp(t *testing.T) {
	client, identity, _ := newTestClient(t)

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if identity.Requests(wire.PathLogout) != 0 {
		t.Fatal("anonymous logout must not notify the server")
	}
}

func TestExpiredTokenForcesLogout(t *testing.T) {
	client, identity, store := newTestClient(t)
	ctx := context.Background()
	mustLogin(t, client)

	identity.RevokeAll()

	_, err := client.Profile(ctx)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("401 must clear the stored session")
	}
	if client.Guard().CanAccess(ctx, "/profile") {
		t.Fatal("guard must deny protected routes after forced logout")
	}
}

// TestLateLoginAfterLogoutDiscarded covers the race where a login response
// arrives after the user has already logged out: the stale credentials must
// be discarded, not committed.
func TestLateLoginAfterLogoutDiscarded(t *testing.T) {
	identity := stub.New()
	seedAlice(t, identity)
	inner := identity.Handler()

	release := make(chan struct{})
	gate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == wire.PathLogin {
			<-release
		}
		inner.ServeHTTP(w, r)
	})
	server := httptest.NewServer(gate)
	defer server.Close()

	store := credstore.NewMemoryStore()
	client, err := New().WithBaseURL(server.URL).WithStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	loginErr := make(chan error, 1)
	go func() {
		_, err := client.Login(ctx, "alice", "correct-horse")
		loginErr <- err
	}()

	// Let the login request reach the gate, then log out while it is
	// still in flight.
	time.Sleep(50 * time.Millisecond)
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	close(release)

	select {
	case err := <-loginErr:
		if !errors.Is(err, ErrLoginSuperseded) {
			t.Fatalf("expected ErrLoginSuperseded, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("login goroutine did not finish")
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("stale login response must not be committed")
	}
}

// TestSessionLifecycle walks the full happy path end to end.
func TestSessionLifecycle(t *testing.T) {
	client, _, store := newTestClient(t)
	ctx := context.Background()
	guard := client.Guard()

	if guard.CanAccess(ctx, "/profile") {
		t.Fatal("anonymous client must not access /profile")
	}

	mustLogin(t, client)
	if !guard.CanAccess(ctx, "/profile") {
		t.Fatal("authenticated client must access /profile")
	}

	profile, err := client.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Username != "alice" || profile.MFAEnabled {
		t.Fatalf("unexpected profile %+v", profile)
	}

	enabled, err := client.ToggleMFA(ctx)
	if err != nil {
		t.Fatalf("ToggleMFA failed: %v", err)
	}
	if !enabled {
		t.Fatal("expected MFA enabled after first toggle")
	}

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("expected anonymous state after logout")
	}
	if guard.CanAccess(ctx, "/profile") {
		t.Fatal("guard must deny /profile after logout")
	}

	snap := client.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("expected one login_success, got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLogout] != 1 {
		t.Fatalf("expected one logout, got %d", snap.Counters[MetricLogout])
	}
}

// TestOptimisticReload verifies that a client built over a store holding
// persisted credentials is immediately authenticated, with no validation
// round-trip at construction time.
func TestOptimisticReload(t *testing.T) {
	identity := stub.New()
	seedAlice(t, identity)
	server := httptest.NewServer(identity.Handler())
	defer server.Close()

	store := credstore.NewMemoryStore()
	first, err := New().WithBaseURL(server.URL).WithStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := first.Login(context.Background(), "alice", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	first.Close()

	requestsBefore := identity.Requests(wire.PathLogin)

	second, err := New().WithBaseURL(server.URL).WithStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer second.Close()

	if !second.Authenticated(context.Background()) {
		t.Fatal("expected authenticated state from persisted credentials")
	}
	if identity.Requests(wire.PathLogin) != requestsBefore {
		t.Fatal("construction must not perform network validation")
	}

	profile, err := second.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile after reload failed: %v", err)
	}
	if profile.Username != "alice" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}
