package authgate

import (
	"net/http"

	"authgate/credstore"
	"github.com/google/uuid"
)

// bearerTransport is the credential interceptor: a pure decorator over the
// outbound HTTP transport. Given a request and the current store contents it
// produces an augmented clone carrying the Authorization header and a request
// ID. It never alters the request body or URL, and it reads the store without
// ever writing it.
type bearerTransport struct {
	base  http.RoundTripper
	store credstore.Store
}

func newBearerTransport(base http.RoundTripper, store credstore.Store) *bearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &bearerTransport{base: base, store: store}
}

// RoundTrip describes the roundtrip operation and its observable behavior.
//
// RoundTrip may return an error when input validation, dependency calls, or security checks fail.
// The incoming request is cloned before mutation, per the RoundTripper
// contract.
func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if t.store != nil {
		if creds := t.store.Get(req.Context()); !creds.Anonymous() {
			out.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		}
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}

	return t.base.RoundTrip(out)
}
