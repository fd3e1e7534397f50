// Package docmodel holds the in-memory form of one source file: its bytes,
// the Markdown body handed to the parser and the page metadata derived from
// literate frontmatter.
package docmodel

import (
	"os"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/frontmatter"
)

// Options controls parsing behavior for Document.
type Options struct {
	// Literate enables frontmatter splitting. Non-literate sources are
	// handed to the parser untouched.
	Literate bool
}

// Document is a source file prepared for splitting.
type Document struct {
	path     string
	original []byte
	block    frontmatter.Block
	fields   map[string]any
}

// Parse prepares content read from path.
func Parse(path string, content []byte, opts Options) (*Document, error) {
	doc := &Document{
		path:     path,
		original: content,
		block:    frontmatter.Block{Body: content},
		fields:   map[string]any{},
	}
	if !opts.Literate {
		return doc, nil
	}

	block, err := frontmatter.Split(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "failed to split frontmatter").
			WithSource(path).
			Build()
	}
	fields, err := block.Fields()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "invalid frontmatter").
			WithSource(path).
			Build()
	}
	doc.block = block
	doc.fields = fields
	return doc, nil
}

// ReadFile reads a source file from disk and parses it.
func ReadFile(path string, opts Options) (*Document, error) {
	// #nosec G304 -- path comes from the resolved source list.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read source").
			WithSource(path).
			Build()
	}
	return Parse(path, content, opts)
}

// Path returns the source path as given.
func (d *Document) Path() string { return d.path }

// Original returns the file bytes.
func (d *Document) Original() []byte { return d.original }

// Body returns the Markdown text to parse.
func (d *Document) Body() []byte { return d.block.Body }

// HadFrontmatter reports whether a frontmatter block was removed.
func (d *Document) HadFrontmatter() bool { return d.block.Present }

// Fields returns the decoded frontmatter; empty for non-literate sources.
func (d *Document) Fields() map[string]any { return d.fields }

// Title returns the frontmatter title, if any.
func (d *Document) Title() string {
	return frontmatter.String(d.fields, "title")
}

// Fingerprint returns the content fingerprint of the document. Frontmatter
// is hashed in canonical form, so its key order does not change the result.
func (d *Document) Fingerprint() (string, error) {
	fields := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}
	fm, err := frontmatter.Canonical(fields)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "failed to canonicalize frontmatter").
			WithSource(d.path).
			Build()
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(d.block.Body)), nil
}
