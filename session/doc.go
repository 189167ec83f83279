// Package session owns the client's authenticated identity: the durable
// token/user pair kept in a key-value store and the in-memory state the rest
// of the client observes.
//
// # Durable record
//
// Two keys are written: the bearer token as a plain string and the user as a
// JSON object {id, username, email, role}. The token is always written first
// and the user record is decoded fail-soft: a record that cannot be decoded
// is treated as absent rather than as an error.
//
// # Architecture boundaries
//
// [Store] mirrors the session into a [storage.KV]. [State] holds the
// in-memory copy and notifies subscribers on every mutation. Neither talks to
// the network.
//
// # What this package must NOT do
//
//   - Import the root package, the router, or any resource client.
//   - Expose a user without a token, or a token without a user, through [State].
//   - Decide where to navigate after a logout.
package session
