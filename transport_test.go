package authgate

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"authgate/credstore"
)

type captureTransport struct {
	last *http.Request
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.last = req
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Header: http.Header{}}, nil
}

func TestBearerTransportInjectsHeader(t *testing.T) {
	store := credstore.NewMemoryStore()
	if err := store.Set(context.Background(), credstore.Credentials{AccessToken: "tok-123"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	capture := &captureTransport{}
	transport := newBearerTransport(capture, store)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/profile/", nil)
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}

	if got := capture.last.Header.Get("Authorization"); got != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if capture.last.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request ID")
	}
}

func TestBearerTransportAnonymousOmitsHeader(t *testing.T) {
	capture := &captureTransport{}
	transport := newBearerTransport(capture, credstore.NewMemoryStore())

	req, _ := http.NewRequest(http.MethodPost, "http://example.com/login/", strings.NewReader("{}"))
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}

	if got := capture.last.Header.Get("Authorization"); got != "" {
		t.Fatalf("anonymous request must have no Authorization header, got %q", got)
	}
}

func TestBearerTransportDoesNotMutateOriginal(t *testing.T) {
	store := credstore.NewMemoryStore()
	if err := store.Set(context.Background(), credstore.Credentials{AccessToken: "tok-123"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	capture := &captureTransport{}
	transport := newBearerTransport(capture, store)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/profile/", nil)
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}

	if req.Header.Get("Authorization") != "" {
		t.Fatal("original request must not be mutated")
	}
	if capture.last == req {
		t.Fatal("transport must send a clone, not the original")
	}
}

func TestBearerTransportPreservesCallerRequestID(t *testing.T) {
	capture := &captureTransport{}
	transport := newBearerTransport(capture, credstore.NewMemoryStore())

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/keycloak-check/", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}

	if got := capture.last.Header.Get("X-Request-ID"); got != "caller-id" {
		t.Fatalf("expected caller's request ID kept, got %q", got)
	}
}
