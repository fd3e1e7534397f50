// Package markdown builds the goldmark instances used to parse and render
// documentation text.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/doxic/internal/foundation/normalization"
)

// Dialect selects the Markdown grammar.
type Dialect string

const (
	DialectCommonMark Dialect = "commonmark"
	DialectGFM        Dialect = "gfm"
)

var dialects = normalization.NewNormalizer(map[string]Dialect{
	"commonmark": DialectCommonMark,
	"gfm":        DialectGFM,
	"github":     DialectGFM,
}, DialectCommonMark)

// ParseDialect normalizes a dialect name. An empty name selects CommonMark.
func ParseDialect(name string) (Dialect, error) {
	return dialects.NormalizeWithError(name)
}

// Dialects lists the accepted dialect names.
func Dialects() []string {
	return dialects.ValidKeys()
}

// Options controls how Markdown is parsed and rendered.
type Options struct {
	Dialect Dialect
}

// New returns a goldmark instance configured for opts.
//
// Raw HTML in documentation is passed through, matching what literate
// sources expect from a Docco-style tool.
func New(opts Options) goldmark.Markdown {
	var exts []goldmark.Extender
	if opts.Dialect == DialectGFM {
		exts = append(exts, extension.GFM)
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte, opts Options) (gmast.Node, error) {
	md := New(opts)
	root := md.Parser().Parse(text.NewReader(body))
	return root, nil
}
