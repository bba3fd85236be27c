// Package category holds the static extension table and the classifier that
// decides whether a directory entry is eligible to be organized and which
// category folder it belongs in.
//
// Matching is by file name only. Extensions are compared case-insensitively
// and the longest known multi-dot suffix wins, so "backup.TAR.GZ" is an
// archive rather than an unknown ".gz" leftover. Names with no known suffix
// fall through to Other.
package category
