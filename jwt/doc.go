// Package jwt inspects bearer tokens held by the client without verifying
// them.
//
// The client never owns signing keys. It only needs to know whether a stored
// token has visibly expired so a stale session is not restored at startup.
//
// # Architecture boundaries
//
// This package reads registered claims. It does NOT decide what an expired
// token means for the session; the session package makes that call.
//
// # What this package must NOT do
//
//   - Treat an unverified claim as proof of identity.
//   - Reject opaque (non-JWT) tokens. Servers may issue either kind.
package jwt
