package render

import (
	"bytes"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
)

// DefaultStyle is the chroma style used for highlight.css.
const DefaultStyle = "github"

// Highlighter turns source text into highlighted HTML markup.
type Highlighter interface {
	// Known reports whether key names a language the highlighter supports.
	Known(key string) bool
	// Highlight returns the markup for code. The result is not wrapped in
	// pre or code elements.
	Highlight(key, code string) (string, error)
}

// Chroma highlights with chroma lexers and emits CSS class names instead of
// inline styles, so one stylesheet serves every page.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChroma creates a highlighter. Unknown style names fall back to the
// chroma default style.
func NewChroma(style string) *Chroma {
	if style == "" {
		style = DefaultStyle
	}
	return &Chroma{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

func (c *Chroma) Known(key string) bool {
	return key != "" && lexers.Get(key) != nil
}

func (c *Chroma) Highlight(key, code string) (string, error) {
	lexer := lexers.Get(key)
	if lexer == nil {
		return "", errors.NewError(errors.CategoryRender, "unknown highlight language").
			WithContext("language", key).
			Build()
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to tokenise code").
			WithContext("language", key).
			Build()
	}

	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to format code").
			WithContext("language", key).
			Build()
	}
	return buf.String(), nil
}

// WriteCSS writes the stylesheet for the highlighter's style.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}
