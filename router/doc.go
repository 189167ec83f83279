// Package router maps navigation targets to named routes and decides, from
// the session state, whether a navigation may proceed or must be redirected.
//
// # Route resolution
//
// [Table] matches paths with a chi radix tree, so static routes win over the
// catch-all. [Guard.Resolve] re-initializes the session from the durable
// store, then applies the route's own redirect, the auth requirement (send to
// login with ?redirect=<original full path>) and the guest requirement (send
// home). Every redirect target is guarded again, up to a fixed number of hops.
//
// # What this package must NOT do
//
//   - Mutate the session. The guard only reads it.
//   - Render views. A route names its view; drawing it is the caller's job.
package router
