// Package main hosts the tidy CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, sets up structured
// logging, and hands each invocation to the organizer engine: organize and
// preview passes, undo, history and stats inspection, configuration
// scaffolding, and preflight checks.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
