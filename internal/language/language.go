// Package language holds the language registry: a mapping from file-matching
// keys (extensions such as ".js", or exact file names such as "Makefile") to
// language descriptors, together with the resolution rules used to attach a
// language to each source file.
package language

import (
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
)

// CommentBlock holds block comment delimiters.
type CommentBlock struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Descriptor describes one language. Descriptors are never mutated after the
// registry is built and are shared by every file that resolves to them.
type Descriptor struct {
	// Name is the canonical display name. It doubles as the highlighter hint
	// and as the key for reverse lookups from code fence annotations.
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	// Literate marks prose-first formats (Markdown) that wrap embedded code.
	Literate     bool          `json:"literate,omitempty" yaml:"literate,omitempty"`
	CommentLine  string        `json:"commentLine,omitempty" yaml:"commentLine,omitempty"`
	CommentBlock *CommentBlock `json:"commentBlock,omitempty" yaml:"commentBlock,omitempty"`
}

// DisplayLabel returns Label, falling back to Name.
func (d *Descriptor) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

func (d *Descriptor) clone() *Descriptor {
	out := *d
	if d.CommentBlock != nil {
		cb := *d.CommentBlock
		out.CommentBlock = &cb
	}
	return &out
}

// Registry maps lookup keys to descriptors. It is immutable once built.
type Registry struct {
	entries map[string]*Descriptor
	keys    []string
}

// NewRegistry builds a registry from key/descriptor pairs. Every descriptor
// must carry a name.
func NewRegistry(specs map[string]Descriptor) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]*Descriptor, len(specs)),
		keys:    make([]string, 0, len(specs)),
	}
	for key, spec := range specs {
		if key == "" {
			return nil, errors.ConfigError("language registry contains an empty key").Build()
		}
		if strings.TrimSpace(spec.Name) == "" {
			return nil, errors.ConfigError("language entry has no name").
				WithContext("key", key).
				Build()
		}
		r.entries[key] = spec.clone()
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)
	return r, nil
}

// Len returns the number of keys.
func (r *Registry) Len() int {
	return len(r.keys)
}

// Keys returns the lookup keys in sorted order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Lookup returns the descriptor registered for key.
func (r *Registry) Lookup(key string) (*Descriptor, bool) {
	d, ok := r.entries[key]
	return d, ok
}

// ResolveByName returns the first descriptor, in sorted key order, whose Name
// equals name exactly. It returns nil when nothing matches.
func (r *Registry) ResolveByName(name string) *Descriptor {
	if name == "" {
		return nil
	}
	for _, key := range r.keys {
		if d := r.entries[key]; d.Name == name {
			return d
		}
	}
	return nil
}

// Resolve finds the language for filename.
//
// The lookup key is override when set, else the file extension, else the base
// name. When the match is literate, the extension left after stripping the
// matched key selects the embedded language (app.js.md resolves to ".js"); the
// result is then a copy of that descriptor with Literate forced on. The
// boolean is false when no language matches.
func (r *Registry) Resolve(filename, override string) (*Descriptor, bool) {
	base := filepath.Base(filename)
	key := override
	if key == "" {
		key = filepath.Ext(filename)
	}
	if key == "" {
		key = base
	}

	lang, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	if !lang.Literate {
		return lang, true
	}

	codeKey := filepath.Ext(strings.TrimSuffix(base, key))
	if codeKey == "" {
		return lang, true
	}
	codeLang, ok := r.entries[codeKey]
	if !ok {
		return lang, true
	}
	resolved := codeLang.clone()
	resolved.Literate = true
	return resolved, true
}
