// Package section partitions a parsed Markdown document into ordered
// documentation/code pairs.
//
// The walk only looks at the top-level blocks of the document. Code blocks
// (fenced or indented) close the pending section; headings and thematic
// breaks are appended to the documentation first and then close it. After
// the walk, blocks still pending form a last section. That trailing section
// is dropped when it would be empty, unless the document produced no
// section at all: an empty document yields exactly one empty section.
package section

import (
	"log/slog"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/doxic/internal/language"
)

// Section is one documentation/code pair of a source file.
type Section struct {
	Index int

	DocsBlocks []gmast.Node
	CodeBlock  gmast.Node

	// CodeInfo is the raw info string of a fenced code block.
	CodeInfo    string
	CodeLang    *language.Descriptor
	CodeOptions map[string]any

	// Filled by the renderer.
	CodeText string
	DocsHTML string
	CodeHTML string
}

// HasCode reports whether the section closed on a code block.
func (s *Section) HasCode() bool {
	return s.CodeBlock != nil
}

// LogValue implements slog.LogValuer for debug dumps.
func (s Section) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("index", s.Index),
		slog.Int("docs_blocks", len(s.DocsBlocks)),
		slog.Bool("code", s.CodeBlock != nil),
	}
	if s.CodeInfo != "" {
		attrs = append(attrs, slog.String("info", s.CodeInfo))
	}
	if s.CodeLang != nil {
		attrs = append(attrs, slog.String("code_language", s.CodeLang.Name))
	}
	if len(s.CodeOptions) > 0 {
		attrs = append(attrs, slog.Any("options", s.CodeOptions))
	}
	return slog.GroupValue(attrs...)
}

// Split walks the top-level blocks of doc and groups them into sections.
// source is the byte slice doc was parsed from. Info strings name their
// language through registry.ResolveByName.
func Split(doc gmast.Node, source []byte, registry *language.Registry) ([]Section, error) {
	var (
		sections []Section
		docs     []gmast.Node
		code     gmast.Node
	)

	flush := func() error {
		s := Section{
			Index:       len(sections),
			DocsBlocks:  docs,
			CodeBlock:   code,
			CodeOptions: map[string]any{},
		}
		if fenced, ok := code.(*gmast.FencedCodeBlock); ok && fenced.Info != nil {
			s.CodeInfo = string(fenced.Info.Segment.Value(source))
		}
		if s.CodeInfo != "" {
			name, blob := ParseInfo(s.CodeInfo)
			if name != "" && registry != nil {
				s.CodeLang = registry.ResolveByName(name)
			}
			if blob != "" {
				opts, err := ParseOptions(blob)
				if err != nil {
					return err
				}
				s.CodeOptions = opts
			}
		}
		sections = append(sections, s)
		docs = nil
		code = nil
		return nil
	}

	// Collect siblings up front: later stages move docs blocks into other
	// containers, which rewires the sibling links.
	var blocks []gmast.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, n)
	}

	for _, n := range blocks {
		switch n.Kind() {
		case gmast.KindFencedCodeBlock, gmast.KindCodeBlock:
			code = n
			if err := flush(); err != nil {
				return nil, err
			}
		case gmast.KindHeading, gmast.KindThematicBreak:
			docs = append(docs, n)
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			docs = append(docs, n)
		}
	}
	if len(docs) > 0 || len(sections) == 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	return sections, nil
}
