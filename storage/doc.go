// Package storage provides the durable key-value capability the session layer
// persists into.
//
// # Backends
//
//   - [Memory] — process-local map; the default and the test fake.
//   - [Redis] — shared store reachable from several client processes.
//   - [Bolt] — single-file store on disk, surviving restarts.
//   - [Sealed] — wraps any [KV] and encrypts values at rest.
//
// # Architecture boundaries
//
// This package knows nothing about tokens or users. It stores opaque strings
// under caller-chosen keys. Interpreting them is the session package's job.
//
// # What this package must NOT do
//
//   - Import goStudio, session, or any resource client.
//   - Offer transactions. Callers that write several keys accept a short
//     inconsistency window between writes.
package storage
