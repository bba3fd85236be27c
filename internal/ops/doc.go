// Package ops defines shared error markers and context helpers used by the
// organize and undo engine, the manifest store, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, operation names, and manifest
//     IDs so log lines from one pass can be correlated.
//   - Sentinel error markers plus the Wrap helper, which attach component and
//     operation context while keeping errors.Is working on both the marker and
//     the underlying cause.
//
// Per-file failures are not errors at this level; they are collected into the
// result values returned by the organizer.
package ops
