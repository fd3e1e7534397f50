// Package source expands input patterns into concrete files and attaches a
// resolved language to each of them.
package source

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/language"
	"git.home.luguber.info/inful/doxic/internal/logfields"
)

// Entry pairs an input file with its resolved language.
type Entry struct {
	Language *language.Descriptor
	Filename string
}

// Resolver turns patterns into entries using a language registry.
type Resolver struct {
	registry *language.Registry
	override string
	logger   *slog.Logger
}

// NewResolver creates a resolver. override, when non-empty, is used as the
// registry key for every file instead of its extension.
func NewResolver(registry *language.Registry, override string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{registry: registry, override: override, logger: logger}
}

// Expand expands patterns into file paths. Patterns without glob
// metacharacters are passed through untouched; glob matches are sorted per
// pattern and directories are skipped. A path produced by more than one
// pattern is kept at its first position only.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid source pattern").
				Fatal().
				WithContext("pattern", pattern).
				Build()
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

// Resolve expands patterns and resolves a language for every file. Files
// without a language are logged and left out; their names are returned as
// skipped.
func (r *Resolver) Resolve(patterns []string) (entries []Entry, skipped []string, err error) {
	files, err := Expand(patterns)
	if err != nil {
		return nil, nil, err
	}

	for _, file := range files {
		lang, ok := r.registry.Resolve(file, r.override)
		if !ok {
			r.logger.Warn("can't find language for "+file+" -- ignoring file", logfields.Source(file))
			skipped = append(skipped, file)
			continue
		}
		r.logger.Debug("Resolved source language", logfields.Source(file), logfields.Language(lang.Name))
		entries = append(entries, Entry{Language: lang, Filename: file})
	}
	return entries, skipped, nil
}

// Filenames lists the entry file names in order.
func Filenames(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Filename
	}
	return out
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[{\`)
}
