// Package api is the JSON-over-HTTP client shared by the auth gateway and the
// resource clients.
//
// It builds requests against a base URL, decodes success bodies into the
// caller's type and classifies failures into the sentinel errors below. It
// knows nothing about sessions: bearer tokens and 401 handling live in the
// transport that the caller plugs into the *http.Client.
package api
