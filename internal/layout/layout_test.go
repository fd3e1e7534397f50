package layout

import (
	"bytes"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
)

func TestBundled(t *testing.T) {
	require.Equal(t, []string{"linear", "parallel"}, Bundled())
}

func TestResolve_BundledLayouts(t *testing.T) {
	for _, name := range Bundled() {
		t.Run(name, func(t *testing.T) {
			l, err := Resolve(Options{Layout: name, Output: "docs"})
			require.NoError(t, err)
			require.Equal(t, name, l.Name)
			require.Equal(t, ".html", l.Suffix)
			require.Equal(t, "doxic.css", l.CSS.Name())
			require.Equal(t, "public", l.Public.Name())

			_, err = fs.Stat(l.CSS.FS, l.CSS.Path)
			require.NoError(t, err)
			info, err := fs.Stat(l.Public.FS, l.Public.Path)
			require.NoError(t, err)
			require.True(t, info.IsDir())

			var buf bytes.Buffer
			require.NoError(t, l.Execute(&buf, &Page{
				Sources:   []string{"src/a.js", "src/b.js"},
				Source:    "src/a.js",
				Generator: "doxic test",
				Sections: []Section{
					{Index: 0, DocsHTML: template.HTML("<p>Docs</p>"), CodeHTML: template.HTML("<pre><code>x</code></pre>")},
				},
			}))
			out := buf.String()
			require.Contains(t, out, "<p>Docs</p>")
			require.Contains(t, out, "<pre><code>x</code></pre>")
			require.Contains(t, out, `href="../doxic.css"`)
			require.Contains(t, out, `href="b.js.html"`)
			require.Contains(t, out, "section-1")
		})
	}
}

func TestResolve_UnknownLayout(t *testing.T) {
	for _, name := range []string{"sideways", "../parallel"} {
		_, err := Resolve(Options{Layout: name})
		require.Error(t, err)
		require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	}
}

func TestResolve_NothingConfigured(t *testing.T) {
	_, err := Resolve(Options{})
	require.Error(t, err)
}

func TestResolve_TemplateDefaults(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "page.tmpl")
	require.NoError(t, os.WriteFile(tpl, []byte(`{{.Source}}|{{.CSS}}|{{destination .Source}}`), 0o600))

	l, err := Resolve(Options{Template: tpl, Output: "out"})
	require.NoError(t, err)
	require.Equal(t, ".html", l.Suffix)
	require.Equal(t, "docco.css", l.CSS.Name())
	require.Equal(t, "public", l.Public.Name())

	var buf bytes.Buffer
	require.NoError(t, l.Execute(&buf, &Page{Source: "a.js"}))
	require.Equal(t, "a.js|docco.css|"+filepath.Join("out", "a.js.html"), buf.String())
}

func TestResolve_TemplateSidecar(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "page.tmpl")
	require.NoError(t, os.WriteFile(tpl, []byte(`{{.CSS}}`), 0o600))
	styles := filepath.Join(dir, "styles.css")
	require.NoError(t, os.WriteFile(styles, []byte("body{}"), 0o600))
	require.NoError(t, os.WriteFile(tpl+"info.json",
		[]byte(`{"suffix": ".htm", "css": "`+filepath.ToSlash(styles)+`", "public": "assets"}`), 0o600))

	l, err := Resolve(Options{Template: tpl})
	require.NoError(t, err)
	require.Equal(t, ".htm", l.Suffix)
	require.Equal(t, "styles.css", l.CSS.Name())
	require.Equal(t, "assets", l.Public.Name())

	data, err := fs.ReadFile(l.CSS.FS, l.CSS.Path)
	require.NoError(t, err)
	require.Equal(t, "body{}", string(data))
}

func TestResolve_FlagsOverrideAssets(t *testing.T) {
	l, err := Resolve(Options{Layout: "linear", CSS: "custom/site.css", Public: "static", Suffix: ".xhtml"})
	require.NoError(t, err)
	require.Equal(t, "site.css", l.CSS.Name())
	require.Equal(t, "static", l.Public.Name())
	require.Equal(t, ".xhtml", l.Suffix)
}

func TestResolve_TemplateErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(Options{Template: filepath.Join(dir, "missing.tmpl")})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	bad := filepath.Join(dir, "bad.tmpl")
	require.NoError(t, os.WriteFile(bad, []byte(`{{if}}`), 0o600))
	_, err = Resolve(Options{Template: bad})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	sideBad := filepath.Join(dir, "side.tmpl")
	require.NoError(t, os.WriteFile(sideBad, []byte(`ok`), 0o600))
	require.NoError(t, os.WriteFile(sideBad+"info.json", []byte(`{not json`), 0o600))
	_, err = Resolve(Options{Template: sideBad})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestRelative(t *testing.T) {
	require.Equal(t, "b.js.html", Relative("docs/src/a.js.html", "docs/src/b.js.html"))
	require.Equal(t, "../doxic.css", Relative("docs/src/a.js.html", "docs/doxic.css"))
	require.Equal(t, "lib/c.go.html", Relative("docs/a.js.html", "docs/lib/c.go.html"))
}

func TestSafeHelper(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "page.tmpl")
	require.NoError(t, os.WriteFile(tpl, []byte(`{{safe "<b>x</b>"}}{{"<i>"}}`), 0o600))

	l, err := Resolve(Options{Template: tpl})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, l.Execute(&buf, &Page{Source: "a"}))
	require.Equal(t, "<b>x</b>&lt;i&gt;", buf.String())
}
