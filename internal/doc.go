// Package internal holds the packages that are private to goStudio.
//
// # Sub-packages
//
//   - api: JSON-over-HTTP client and the API error model
//   - apitest: in-memory fake of the REST API used by tests and examples
//   - events: lifecycle events, the synchronous bus and the async dispatcher
//   - flows: login, register, availability-probe and logout orchestration
//   - transport: bearer-token RoundTripper with forced logout on 401
//
// # What this package must NOT do
//
//   - Export types that appear in the public goStudio API other than by alias.
//   - Be imported by any package outside the goStudio module.
package internal
