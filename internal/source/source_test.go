package source

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxic/internal/language"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte("x\n"), 0o600))
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/b.js", "src/a.js", "src/nested/c.js", "src/readme.md")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "dir.js"), 0o750))

	files, err := Expand([]string{
		filepath.Join(root, "src", "*.js"),
		filepath.Join(root, "src", "**", "*.js"),
		filepath.Join(root, "src", "readme.md"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "src", "a.js"),
		filepath.Join(root, "src", "b.js"),
		filepath.Join(root, "src", "nested", "c.js"),
		filepath.Join(root, "src", "readme.md"),
	}, files)
}

func TestExpand_LiteralPathsPassThrough(t *testing.T) {
	files, err := Expand([]string{"./does/not/exist.js", "./does/not/exist.js"})
	require.NoError(t, err)
	require.Equal(t, []string{"./does/not/exist.js"}, files)
}

func TestExpand_BadPattern(t *testing.T) {
	_, err := Expand([]string{"src/[.js"})
	require.Error(t, err)
}

func TestResolver_DropsUnknownLanguages(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "app.js", "data.xyz", "guide.js.md")

	reg, err := language.Default()
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	resolver := NewResolver(reg, "", logger)

	entries, skipped, err := resolver.Resolve([]string{filepath.Join(root, "*")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "data.xyz")}, skipped)
	require.Equal(t, []string{
		filepath.Join(root, "app.js"),
		filepath.Join(root, "guide.js.md"),
	}, Filenames(entries))

	require.Equal(t, "javascript", entries[0].Language.Name)
	require.False(t, entries[0].Language.Literate)
	require.Equal(t, "javascript", entries[1].Language.Name)
	require.True(t, entries[1].Language.Literate)
	require.Contains(t, logs.String(), "ignoring file")
}

func TestResolver_Override(t *testing.T) {
	reg, err := language.Default()
	require.NoError(t, err)

	entries, skipped, err := NewResolver(reg, ".py", nil).Resolve([]string{"script.txt"})
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, entries, 1)
	require.Equal(t, "python", entries[0].Language.Name)
}
