// Package goStudio is the client-side session layer of the video studio
// assistant: it logs users in and out, keeps the session in a durable
// key-value store, guards navigation, and exposes authorized clients for the
// stories, storyboards and music APIs.
//
// Everything hangs off one [Client], assembled by [Builder.Build]. The Client
// owns exactly one session store, one in-memory session state, one event bus
// and one metrics registry, and hands them to every component it creates.
// There is no package-level mutable state.
//
// # Architecture boundaries
//
// goStudio is the public surface. It exposes [Client], [Builder], [Config]
// and value types (User, AuthResponse, Event, MetricsSnapshot). Flow
// orchestration, the HTTP client, the authorizing transport and event
// dispatch live under internal/ and are never exported.
//
// # Session lifecycle
//
// A session exists only when the durable store holds both a token and a user
// record. Login and Register create it, Init restores it, Logout destroys it,
// and any 401 answered to an authorizing API client destroys it and sends the
// navigator to the login route.
//
// # What this package must NOT do
//
//   - Retry or back off failed requests.
//   - Render views or own a UI event loop.
//   - Import any sub-package that re-imports goStudio (no import cycles).
package goStudio
