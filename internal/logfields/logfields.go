// Package logfields holds the canonical structured log keys used by doxic.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyLanguage    = "language"
	KeyLayout      = "layout"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeySections    = "sections"
	KeyPath        = "path"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Source(path string) slog.Attr      { return slog.String(KeySource, path) }
func Destination(path string) slog.Attr { return slog.String(KeyDestination, path) }
func Language(name string) slog.Attr    { return slog.String(KeyLanguage, name) }
func Layout(name string) slog.Attr      { return slog.String(KeyLayout, name) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Sections(n int) slog.Attr          { return slog.Int(KeySections, n) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }

// Elapsed reports d in milliseconds under the duration_ms key.
func Elapsed(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
