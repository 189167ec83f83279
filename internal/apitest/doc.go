// Package apitest is an in-memory fake of the studio REST API for tests and
// examples.
//
// It implements the auth, stories, storyboards and music endpoints with
// enough fidelity to drive the client end to end: real HS256 bearer tokens,
// per-user ownership, 400 replies carrying a message, and a switch that
// revokes every issued token so the next authorized call answers 401.
package apitest
