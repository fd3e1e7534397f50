package markdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	gmast "github.com/yuin/goldmark/ast"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", DialectCommonMark, false},
		{"commonmark", DialectCommonMark, false},
		{" GFM ", DialectGFM, false},
		{"github", DialectGFM, false},
		{"markdown-it", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseBody_TopLevelBlocks(t *testing.T) {
	src := []byte("# Title\n\nSome text.\n\n```go\nx := 1\n```\n")
	root, err := ParseBody(src, Options{})
	require.NoError(t, err)

	var kinds []gmast.NodeKind
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		kinds = append(kinds, n.Kind())
	}
	require.Equal(t, []gmast.NodeKind{gmast.KindHeading, gmast.KindParagraph, gmast.KindFencedCodeBlock}, kinds)
}

func TestNew_GFMTables(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")

	var plain, gfm bytes.Buffer
	require.NoError(t, New(Options{Dialect: DialectCommonMark}).Convert(src, &plain))
	require.NoError(t, New(Options{Dialect: DialectGFM}).Convert(src, &gfm))

	require.NotContains(t, plain.String(), "<table>")
	require.Contains(t, gfm.String(), "<table>")
}
