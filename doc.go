// Package authgate is the client-side session and authentication lifecycle
// controller for a username/password identity service with optional MFA
// step-up and self-service password recovery.
//
// The package acquires, persists, propagates, and invalidates an opaque bearer
// credential. [Client] is the single writer of the credential store; the
// outbound-transport decorator and the [Guard] are read-only consumers of the
// same store, so every component derives "is the user logged in" from one
// accessor.
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Client], [Builder], [Config],
// [Guard], and value types (Session, Profile, LoginResult, ResetLink). The
// wire contract of the remote identity API lives under internal/ and is never
// exported; credential persistence lives in the credstore sub-package.
//
// # What this package must NOT do
//
//   - Inspect or decode bearer token contents (tokens are opaque).
//   - Validate a persisted token at startup; the first authenticated call is
//     the validity check and a 401 triggers the same cleanup as Logout.
//   - Write the credential store from anywhere but Client commit paths.
//
// # Concurrency contract
//
// Client methods are safe to call from multiple goroutines after
// initialization through [Builder.Build]. Store commits are serialized and
// guarded by a monotonic session generation, so a login response that lands
// after an intervening logout is discarded rather than resurrecting the
// cleared session. Concurrent duplicate logins resolve in completion order;
// callers should disable duplicate submissions while a request is in flight.
package authgate
