// Package manifest persists the record of each organize pass so it can be
// undone later.
//
// Every manifest is one indented JSON file named <id>.json under the history
// directory. Writes go through a temp file in the same directory followed by
// a rename, so a crash never leaves a half-written manifest behind. Files
// that fail to decode are reported as corrupt and skipped; they are never
// removed automatically, not even by retention.
package manifest
