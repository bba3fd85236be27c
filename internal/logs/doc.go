// Package logs reads tidy's daily log files for the CLI.
//
// It finds the newest log under the log directory, returns the last N lines
// with bounded memory, optionally keeping only lines that mention a given
// string (typically a manifest id), and follows a file as new entries are
// appended until the caller's context is cancelled.
package logs
