// Package render fills in the HTML of split sections: documentation blocks
// through goldmark and code blocks through a syntax highlighter.
package render

import (
	"bytes"
	"html"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/language"
	"git.home.luguber.info/inful/doxic/internal/logfields"
	"git.home.luguber.info/inful/doxic/internal/markdown"
	"git.home.luguber.info/inful/doxic/internal/section"
)

// Renderer renders the sections of one file at a time.
type Renderer struct {
	md          goldmark.Markdown
	highlighter Highlighter
	logger      *slog.Logger
}

// New creates a renderer. The Markdown options must match the ones the
// sections were parsed with.
func New(opts markdown.Options, highlighter Highlighter, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{md: markdown.New(opts), highlighter: highlighter, logger: logger}
}

// Render sets CodeText, CodeHTML and DocsHTML on every section. source is
// the text the sections were parsed from and lang is the file's language.
//
// Documentation blocks are moved into a fresh document node, so the parsed
// tree must not be reused afterwards.
func (r *Renderer) Render(filename string, lang *language.Descriptor, source []byte, sections []section.Section) error {
	for i := range sections {
		s := &sections[i]
		if s.CodeBlock != nil {
			if err := r.renderCode(filename, lang, source, s); err != nil {
				return err
			}
		} else {
			s.CodeText = ""
			s.CodeHTML = ""
		}

		if len(s.DocsBlocks) > 0 {
			docsHTML, err := r.renderDocs(source, s.DocsBlocks)
			if err != nil {
				return errors.WrapError(err, errors.CategoryRender, "failed to render documentation").
					WithSource(filename).
					WithContext("section", s.Index).
					Build()
			}
			s.DocsHTML = docsHTML
		} else {
			s.DocsHTML = ""
		}
	}
	return nil
}

func (r *Renderer) renderCode(filename string, lang *language.Descriptor, source []byte, s *section.Section) error {
	s.CodeText = codeText(s.CodeBlock, source)

	key := r.highlightKey(s.CodeInfo, lang)
	if key == "" {
		r.logger.Debug("Not highlighting code",
			logfields.Source(filename),
			slog.Int("section", s.Index),
			slog.String("info", s.CodeInfo))
		var buf bytes.Buffer
		if err := r.md.Renderer().Render(&buf, source, s.CodeBlock); err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to render code block").
				WithSource(filename).
				Build()
		}
		s.CodeHTML = buf.String()
		return nil
	}

	highlighted, err := r.highlighter.Highlight(key, s.CodeText)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return ce.WithSource(filename)
		}
		return err
	}
	s.CodeHTML = `<pre><code class="language-` + html.EscapeString(key) + `">` + highlighted + `</code></pre>`
	return nil
}

// highlightKey picks the first word of the info string's language part
// when the highlighter knows it, else the file's language name, else nothing.
func (r *Renderer) highlightKey(info string, lang *language.Descriptor) string {
	if r.highlighter == nil {
		return ""
	}
	name, _ := section.ParseInfo(info)
	if fields := strings.Fields(name); len(fields) > 0 && r.highlighter.Known(fields[0]) {
		return fields[0]
	}
	if lang != nil && r.highlighter.Known(lang.Name) {
		return lang.Name
	}
	return ""
}

func (r *Renderer) renderDocs(source []byte, blocks []gmast.Node) (string, error) {
	doc := gmast.NewDocument()
	for _, b := range blocks {
		doc.AppendChild(doc, b)
	}
	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func codeText(block gmast.Node, source []byte) string {
	var b strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}
