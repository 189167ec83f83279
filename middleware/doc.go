// Package middleware exposes the route guard as HTTP middleware for hosts
// that serve the application's pages themselves.
//
// # Guards
//
//   - [Guard] resolves each request through a router.Guard and redirects
//     with 302 when the guard sends the navigation elsewhere.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Guard calls. It does NOT decide
// access itself; every decision comes from router.Guard.Resolve.
//
// # What this package must NOT do
//
//   - Read or write the session store directly.
//   - Call the REST API.
package middleware
