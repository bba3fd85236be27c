package ops

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrScan marks an unreadable or missing target directory. Fatal to a pass.
	ErrScan = errors.New("scan failed")
	// ErrAlreadyUndone marks an undo request against a manifest that was already undone.
	ErrAlreadyUndone = errors.New("already undone")
	// ErrManifestNotFound marks an undo or lookup with no matching history.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrManifestCorrupt marks a persisted manifest that cannot be decoded.
	ErrManifestCorrupt = errors.New("manifest corrupt")
	// ErrBusy marks a mutating pass refused because another one holds the run lock.
	ErrBusy          = errors.New("organizer busy")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hint returns a short remediation line for errors surfaced to the CLI.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrScan):
		return "check that target_dir exists and is readable"
	case errors.Is(err, ErrAlreadyUndone):
		return "run `tidy history` to pick another pass"
	case errors.Is(err, ErrManifestNotFound):
		return "nothing has been organized yet, or history retention removed it"
	case errors.Is(err, ErrManifestCorrupt):
		return "inspect or remove the manifest file under the history directory, or undo an older pass by id"
	case errors.Is(err, ErrBusy):
		return "another tidy organize or undo is running; retry when it finishes"
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrValidation):
		return "run `tidy config validate` for details"
	default:
		return ""
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failure"
	}
	return strings.Join(parts, ": ")
}
