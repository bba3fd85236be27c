package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tidy/internal/organizer"
)

// maxListedErrors caps per-file errors printed before collapsing the rest.
const maxListedErrors = 10

func formatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// relativeTo shortens path to be relative to base when it lives under it.
func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func printFileErrors(out io.Writer, base string, errs []organizer.FileError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(out, "Errors (%d):\n", len(errs))
	for i, fe := range errs {
		if i == maxListedErrors {
			fmt.Fprintf(out, "  ... and %d more\n", len(errs)-maxListedErrors)
			break
		}
		fmt.Fprintf(out, "  %s: %s\n", relativeTo(base, fe.Path), fe.Reason)
	}
}

type fileErrorJSON struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
}

func fileErrorsJSON(errs []organizer.FileError) []fileErrorJSON {
	out := make([]fileErrorJSON, 0, len(errs))
	for _, fe := range errs {
		entry := fileErrorJSON{Path: fe.Path, Reason: fe.Reason}
		if fe.Err != nil && fe.Err.Error() != fe.Reason {
			entry.Error = fe.Err.Error()
		}
		out = append(out, entry)
	}
	return out
}

// writeJSON prints v to stdout as two-space indented JSON.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
