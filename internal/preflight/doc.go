// Package preflight provides readiness checks for the filesystem paths and
// state that tidy depends on.
//
// The CLI "tidy doctor" command runs RunAll and prints one line per check.
// Individual checks (CheckDirectoryAccess, CheckRunLock) are also usable on
// their own. A failed check never changes anything on disk.
package preflight
