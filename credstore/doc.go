// Package credstore provides durable persistence for the client's bearer credentials
// across process restarts.
//
// # Storage contract
//
// Credentials are two opaque string values stored under the fixed keys "token" and
// "refresh_token". Absence of the "token" value is definitionally the Anonymous
// state. [Store.Get] never fails: missing or corrupt data yields Anonymous.
//
// # Architecture boundaries
//
// This package owns the [Store] contract and its file, Redis, and in-memory
// implementations. It does NOT decide when credentials change; the Client is the
// single writer; the transport decorator and the route guard are read-only
// consumers.
//
// # What this package must NOT do
//
//   - Import authgate (no upward imports).
//   - Inspect or decode token contents.
//   - Issue network calls other than Redis I/O in [RedisStore].
package credstore
