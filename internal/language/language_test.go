package language

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(map[string]Descriptor{
		".md": {Name: "Markdown", Literate: true},
		".js": {
			Name:         "javascript",
			CommentLine:  "//",
			CommentBlock: &CommentBlock{Start: "/*", End: "*/"},
		},
		".mjs":     {Name: "javascript", CommentLine: "//"},
		".ts":      {Name: "typescript", CommentLine: "//"},
		"Makefile": {Name: "make", CommentLine: "#"},
		".bashrc":  {Name: "bash", CommentLine: "#"},
	})
	require.NoError(t, err)
	return reg
}

func TestResolve(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name     string
		filename string
		override string
		wantName string
		literate bool
		wantOK   bool
	}{
		{name: "extension", filename: "src/app.js", wantName: "javascript", wantOK: true},
		{name: "exact filename", filename: "build/Makefile", wantName: "make", wantOK: true},
		{name: "dotfile", filename: "home/.bashrc", wantName: "bash", wantOK: true},
		{name: "literate wrapper", filename: "app.js.md", wantName: "javascript", literate: true, wantOK: true},
		{name: "literate without embedded language", filename: "README.md", wantName: "Markdown", literate: true, wantOK: true},
		{name: "literate with unknown embedded language", filename: "notes.xyz.md", wantName: "Markdown", literate: true, wantOK: true},
		{name: "override wins over extension", filename: "script.txt", override: ".ts", wantName: "typescript", wantOK: true},
		{name: "literate override", filename: "lib.ts", override: ".md", wantName: "typescript", literate: true, wantOK: true},
		{name: "unknown extension", filename: "data.xyz", wantOK: false},
		{name: "unknown override", filename: "app.js", override: ".nope", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := reg.Resolve(tt.filename, tt.override)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				require.Nil(t, lang)
				return
			}
			require.Equal(t, tt.wantName, lang.Name)
			require.Equal(t, tt.literate, lang.Literate)
		})
	}
}

func TestResolve_LiterateCopiesEmbeddedDescriptor(t *testing.T) {
	reg := testRegistry(t)

	lang, ok := reg.Resolve("app.js.md", "")
	require.True(t, ok)
	require.Equal(t, "//", lang.CommentLine)
	require.Equal(t, &CommentBlock{Start: "/*", End: "*/"}, lang.CommentBlock)

	plain, ok := reg.Lookup(".js")
	require.True(t, ok)
	require.False(t, plain.Literate, "registry descriptor must not be mutated")
	require.NotSame(t, plain, lang)
}

func TestResolve_Idempotent(t *testing.T) {
	reg := testRegistry(t)
	for _, name := range []string{"app.js", "app.js.md", "README.md", "Makefile"} {
		first, ok := reg.Resolve(name, "")
		require.True(t, ok)
		second, ok := reg.Resolve(name, "")
		require.True(t, ok)
		require.Equal(t, *first, *second, name)
	}
}

func TestResolveByName(t *testing.T) {
	reg := testRegistry(t)

	lang := reg.ResolveByName("javascript")
	require.NotNil(t, lang)
	require.Equal(t, "javascript", lang.Name)
	require.Equal(t, lang, reg.ResolveByName("javascript"), "duplicate names resolve deterministically")

	require.Nil(t, reg.ResolveByName("JavaScript"), "lookup is case-sensitive")
	require.Nil(t, reg.ResolveByName("cobol"))
	require.Nil(t, reg.ResolveByName(""))
}

func TestNewRegistry_RejectsNamelessEntries(t *testing.T) {
	_, err := NewRegistry(map[string]Descriptor{".x": {Label: "X"}})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.Positive(t, reg.Len())

	md, ok := reg.Lookup(".md")
	require.True(t, ok)
	require.True(t, md.Literate)

	js, ok := reg.Resolve("index.js", "")
	require.True(t, ok)
	require.Equal(t, "javascript", js.Name)
	require.Equal(t, "JavaScript", js.DisplayLabel())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "languages.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		".lua": {"name": "lua", "commentLine": "--", "commentBlock": {"start": "--[[", "end": "]]"}},
		".md": {"name": "Markdown", "literate": true}
	}`), 0o600))

	reg, err := Load(jsonPath)
	require.NoError(t, err)
	lua, ok := reg.Lookup(".lua")
	require.True(t, ok)
	require.Equal(t, "--", lua.CommentLine)
	require.Equal(t, "]]", lua.CommentBlock.End)

	yamlPath := filepath.Join(dir, "languages.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(".py:\n  name: python\n  commentLine: \"#\"\n"), 0o600))
	reg, err = Load(yamlPath)
	require.NoError(t, err)
	py, ok := reg.Lookup(".py")
	require.True(t, ok)
	require.Equal(t, "#", py.CommentLine)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{".x": `), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	path, _ := classified.Context().GetString("path")
	require.Equal(t, bad, path)
}
