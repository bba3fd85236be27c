package manifest

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tidy/internal/category"
	"tidy/internal/ops"
)

// Status is the lifecycle state of a manifest. Active manifests can be
// undone exactly once; Undone is terminal.
type Status string

const (
	StatusActive Status = "active"
	StatusUndone Status = "undone"
)

const idTimeLayout = "2006-01-02_15-04-05"

// Move records one relocated file.
type Move struct {
	Source      string            `json:"source"`
	Destination string            `json:"destination"`
	Category    category.Category `json:"category"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Manifest is the persisted record of one organize pass.
type Manifest struct {
	ID              string     `json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	Status          Status     `json:"status"`
	TargetDirectory string     `json:"target_directory"`
	FileCount       int        `json:"file_count"`
	Moves           []Move     `json:"moves"`
	UndoneAt        *time.Time `json:"undone_at"`
}

// New builds an active manifest for moves performed at createdAt.
func New(createdAt time.Time, targetDirectory string, moves []Move) Manifest {
	createdAt = createdAt.UTC()
	return Manifest{
		ID:              NewID(createdAt),
		CreatedAt:       createdAt,
		Status:          StatusActive,
		TargetDirectory: targetDirectory,
		FileCount:       len(moves),
		Moves:           append([]Move(nil), moves...),
	}
}

// NewID returns an identifier that sorts chronologically: the UTC creation
// second followed by eight random hex digits.
func NewID(createdAt time.Time) string {
	return createdAt.UTC().Format(idTimeLayout) + "_" + uuid.NewString()[:8]
}

// idTime parses the creation second encoded at the front of id.
func idTime(id string) (time.Time, bool) {
	if len(id) < len(idTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(idTimeLayout, id[:len(idTimeLayout)])
	return t, err == nil
}

// IsUndone reports whether the manifest has been consumed by an undo.
func (m Manifest) IsUndone() bool {
	return m.Status == StatusUndone
}

// Categories returns the distinct categories touched, in first-seen order.
func (m Manifest) Categories() []category.Category {
	seen := make(map[category.Category]struct{})
	var out []category.Category
	for _, mv := range m.Moves {
		if _, ok := seen[mv.Category]; ok {
			continue
		}
		seen[mv.Category] = struct{}{}
		out = append(out, mv.Category)
	}
	return out
}

func (m Manifest) validate() error {
	if m.ID == "" {
		return errors.New("missing id")
	}
	if m.CreatedAt.IsZero() {
		return errors.New("missing created_at")
	}
	switch m.Status {
	case StatusActive, StatusUndone:
	default:
		return fmt.Errorf("unknown status %q", m.Status)
	}
	for i, mv := range m.Moves {
		if mv.Source == "" || mv.Destination == "" {
			return fmt.Errorf("move %d: missing source or destination", i)
		}
	}
	return nil
}

// CorruptError reports a manifest file that could not be decoded.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("manifest %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is matches ops.ErrManifestCorrupt.
func (e *CorruptError) Is(target error) bool {
	return target == ops.ErrManifestCorrupt
}
