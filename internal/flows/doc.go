// Package flows contains the orchestration behind every session-changing
// Client operation.
//
// Each flow function (RunLogin, RunRegister, RunProbe, RunLogout) accepts a
// typed dependency struct of function fields and returns a result without
// side effects beyond those dependencies. The root Client builds the
// dependency structs once and keeps its methods thin.
//
// # Architecture boundaries
//
// Flows coordinate the API client, the session store, metrics and event
// emission. They do NOT own any of these resources; ownership stays with the
// Client. The in-memory session state is updated by the Client after a flow
// returns, never here, except for logout which must clear both copies.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goStudio (to avoid import cycles).
//   - Perform I/O directly; all I/O is mediated through dependency functions.
package flows
