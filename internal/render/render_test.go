package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxic/internal/language"
	"git.home.luguber.info/inful/doxic/internal/markdown"
	"git.home.luguber.info/inful/doxic/internal/section"
)

type fakeHighlighter struct {
	known map[string]bool
	calls []string
}

func (f *fakeHighlighter) Known(key string) bool { return f.known[key] }

func (f *fakeHighlighter) Highlight(key, code string) (string, error) {
	f.calls = append(f.calls, key)
	return "HL(" + key + "):" + code, nil
}

func splitAndRender(t *testing.T, src string, lang *language.Descriptor, hl Highlighter, logger *slog.Logger) []section.Section {
	t.Helper()
	body := []byte(src)
	doc, err := markdown.ParseBody(body, markdown.Options{})
	require.NoError(t, err)
	sections, err := section.Split(doc, body, nil)
	require.NoError(t, err)
	require.NoError(t, New(markdown.Options{}, hl, logger).Render("file.md", lang, body, sections))
	return sections
}

func TestRender_HighlightKeyFromInfo(t *testing.T) {
	hl := &fakeHighlighter{known: map[string]bool{"go": true, "javascript": true}}
	sections := splitAndRender(t, "Text.\n\n```go {x: 1}\nfmt.Println(1)\n```\n",
		&language.Descriptor{Name: "javascript"}, hl, nil)

	require.Len(t, sections, 1)
	require.Equal(t, "fmt.Println(1)\n", sections[0].CodeText)
	require.Equal(t, `<pre><code class="language-go">HL(go):fmt.Println(1)`+"\n"+`</code></pre>`, sections[0].CodeHTML)
	require.Equal(t, "<p>Text.</p>\n", sections[0].DocsHTML)
}

func TestRender_HighlightKeyIgnoresAttachedOptions(t *testing.T) {
	hl := &fakeHighlighter{known: map[string]bool{"go": true, "javascript": true}}
	sections := splitAndRender(t, "```go{x: 1}\nmain()\n```\n", &language.Descriptor{Name: "javascript"}, hl, nil)

	require.Equal(t, []string{"go"}, hl.calls)
	require.Equal(t, map[string]any{"x": 1}, sections[0].CodeOptions)
	require.True(t, strings.HasPrefix(sections[0].CodeHTML, `<pre><code class="language-go">`))
}

func TestRender_FallsBackToFileLanguage(t *testing.T) {
	hl := &fakeHighlighter{known: map[string]bool{"javascript": true}}
	sections := splitAndRender(t, "```cobol\nMOVE A TO B\n```\n", &language.Descriptor{Name: "javascript"}, hl, nil)

	require.Equal(t, []string{"javascript"}, hl.calls)
	require.True(t, strings.HasPrefix(sections[0].CodeHTML, `<pre><code class="language-javascript">`))
}

func TestRender_UnhighlightedFallback(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hl := &fakeHighlighter{known: map[string]bool{}}

	sections := splitAndRender(t, "    a < b\n", &language.Descriptor{Name: "text"}, hl, logger)

	require.Empty(t, hl.calls)
	require.Equal(t, "a < b\n", sections[0].CodeText)
	require.Equal(t, "<pre><code>a &lt; b\n</code></pre>\n", sections[0].CodeHTML)
	require.Contains(t, logs.String(), "Not highlighting code")
}

func TestRender_NoCodeAndNoDocs(t *testing.T) {
	sections := splitAndRender(t, "# Title\n\n```\nx\n```\n", nil, nil, nil)
	require.Len(t, sections, 2)

	require.Equal(t, "<h1>Title</h1>\n", sections[0].DocsHTML)
	require.Empty(t, sections[0].CodeHTML)
	require.Empty(t, sections[0].CodeText)

	require.Empty(t, sections[1].DocsHTML)
	require.Equal(t, "x\n", sections[1].CodeText)
}

func TestRender_MultipleDocsBlocksRenderTogether(t *testing.T) {
	sections := splitAndRender(t, "One.\n\n- a\n- b\n\n```\nx\n```\n", nil, nil, nil)
	require.Equal(t, "<p>One.</p>\n<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n", sections[0].DocsHTML)
}

func TestChroma(t *testing.T) {
	c := NewChroma("")
	require.True(t, c.Known("go"))
	require.False(t, c.Known(""))
	require.False(t, c.Known("definitely-not-a-language"))

	out, err := c.Highlight("go", "package main\n")
	require.NoError(t, err)
	require.Contains(t, out, "package")
	require.Contains(t, out, `class="`)
	require.NotContains(t, out, "<pre")

	_, err = c.Highlight("definitely-not-a-language", "x")
	require.Error(t, err)

	var css bytes.Buffer
	require.NoError(t, c.WriteCSS(&css))
	require.NotEmpty(t, css.String())
}

func TestTitle(t *testing.T) {
	sections := []section.Section{
		{DocsHTML: ""},
		{DocsHTML: "<h2>Not this</h2>"},
		{DocsHTML: "<h1>Hello <em>big</em>\n world</h1><h1>Second</h1>"},
	}
	require.Equal(t, "Hello big world", Title(sections))
	require.Empty(t, Title([]section.Section{{DocsHTML: "<p>none</p>"}}))
}
