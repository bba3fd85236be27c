// Package organizer runs organize and undo passes over a download directory.
//
// An organize pass scans the target directory, moves each eligible file into
// its <prefix><Category> folder, and records every successful move in a
// manifest. A single file failing never stops the batch; only an unreadable
// target directory fails the whole call. Dry-runs plan the same destinations
// without touching the filesystem or the manifest store.
//
// Undo replays a manifest in reverse, restoring files to their original
// paths under the same no-overwrite policy, removes category folders left
// empty, and marks the manifest undone so it can never be replayed twice.
//
// Mutating passes hold an advisory run lock so an accidental second
// invocation fails fast with ops.ErrBusy.
package organizer
