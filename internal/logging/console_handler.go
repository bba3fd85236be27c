package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// lineHandler writes one record per line:
//
//	2026-01-02 15:04:05 INFO [organizer] Undo (m1) – restored file path=/a/b.pdf
//
// Keeping every field on the header line lets `tidy logs --manifest`
// filter by substring without losing a record's details.
type lineHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     *slog.LevelVar
	addSource bool
	prefix    string
	preset    []field
}

type field struct {
	key   string
	value slog.Value
}

func newLineHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) *lineHandler {
	return &lineHandler{mu: new(sync.Mutex), out: w, level: lvl, addSource: addSource}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = slices.Clone(h.preset)
	for _, a := range attrs {
		next.preset = collect(next.preset, h.prefix, a)
	}
	return &next
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	fields := slices.Clone(h.preset)
	r.Attrs(func(a slog.Attr) bool {
		fields = collect(fields, h.prefix, a)
		return true
	})

	var component, operation, manifestID string
	rest := fields[:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = firstNonEmpty(component, plainString(f.value))
		case FieldOperation:
			operation = firstNonEmpty(operation, plainString(f.value))
		case FieldManifestID:
			manifestID = firstNonEmpty(manifestID, plainString(f.value))
		default:
			rest = append(rest, f)
		}
	}
	rest = lastWins(rest)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}

	var b strings.Builder
	b.WriteString(consoleTime(ts))
	b.WriteByte(' ')
	b.WriteString(levelName(r.Level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject := subjectOf(operation, manifestID); subject != "" {
		b.WriteString(" " + subject)
	}
	b.WriteString(" – ")
	b.WriteString(msg)
	for _, f := range rest {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(fieldString(f.value))
	}
	if h.addSource {
		if src := r.Source(); src != nil && src.File != "" {
			b.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// collect flattens a into dst, joining group names with dots.
func collect(dst []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			dst = collect(dst, inner, g)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, field{key: prefix + a.Key, value: a.Value})
}

// lastWins drops earlier duplicates of a key, keeping the first position.
func lastWins(fields []field) []field {
	index := make(map[string]int, len(fields))
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func subjectOf(operation, manifestID string) string {
	operation = strings.TrimSpace(operation)
	manifestID = strings.TrimSpace(manifestID)
	if operation != "" {
		operation = strings.ToUpper(operation[:1]) + strings.ToLower(operation[1:])
	}
	switch {
	case operation != "" && manifestID != "":
		return operation + " (" + manifestID + ")"
	case manifestID != "":
		return "Manifest " + manifestID
	default:
		return operation
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}

func firstNonEmpty(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}
