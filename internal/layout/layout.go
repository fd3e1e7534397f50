// Package layout resolves the page template and the static assets that go
// with it, either from a bundled layout or from a template on disk.
package layout

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/language"
)

//go:embed resources
var resources embed.FS

const (
	// DefaultLayout is used when neither a layout nor a template is set.
	DefaultLayout = "parallel"
	// DefaultSuffix is appended to every source path to name its page.
	DefaultSuffix = ".html"

	templateFile = "doxic.html.tmpl"
	cssFile      = "doxic.css"
	publicDir    = "public"

	sidecarSuffix = "info.json"
	defaultCSS    = "docco.css"
)

// Options selects a layout. Layout wins over Template; CSS and Public, when
// set, replace the stylesheet and public folder the layout would provide.
type Options struct {
	Layout   string
	Template string
	CSS      string
	Public   string
	Suffix   string
	// Output is the output directory, used by the destination helper.
	Output string
}

// Asset is a file or directory copied verbatim into the output directory.
// A zero Asset means there is nothing to copy.
type Asset struct {
	FS   fs.FS
	Path string
}

// Name is the basename the asset gets under the output directory.
func (a Asset) Name() string {
	if a.Path == "" {
		return ""
	}
	return path.Base(a.Path)
}

// IsZero reports whether the asset is unset.
func (a Asset) IsZero() bool { return a.FS == nil || a.Path == "" }

// Layout is a compiled page template plus its assets.
type Layout struct {
	Name   string
	Suffix string
	Output string
	CSS    Asset
	Public Asset

	tpl *template.Template
}

// Sidecar is the optional `<template>info.json` file next to a custom
// template.
type Sidecar struct {
	Suffix string `json:"suffix"`
	CSS    string `json:"css"`
	Public string `json:"public"`
}

// Bundled lists the names of the bundled layouts.
func Bundled() []string {
	entries, err := fs.ReadDir(resources, "resources")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Resolve builds the layout described by opts.
func Resolve(opts Options) (*Layout, error) {
	l := &Layout{Suffix: opts.Suffix, Output: opts.Output}
	var text []byte

	switch {
	case opts.Layout != "":
		root := path.Join("resources", opts.Layout)
		if strings.ContainsAny(opts.Layout, `/\`) || !isDir(resources, root) {
			return nil, errors.ConfigError("unknown layout").
				WithContext("layout", opts.Layout).
				WithContext("available", strings.Join(Bundled(), ",")).
				Build()
		}
		data, err := fs.ReadFile(resources, path.Join(root, templateFile))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "bundled layout is incomplete").
				WithContext("layout", opts.Layout).
				Build()
		}
		text = data
		l.Name = opts.Layout
		l.CSS = Asset{FS: resources, Path: path.Join(root, cssFile)}
		l.Public = Asset{FS: resources, Path: path.Join(root, publicDir)}

	case opts.Template != "":
		// #nosec G304 -- template path is user configuration.
		data, err := os.ReadFile(opts.Template)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "cannot read template").
				WithContext("template", opts.Template).
				Build()
		}
		text = data
		l.Name = opts.Template

		side, err := readSidecar(opts.Template)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(opts.Template)
		if l.Suffix == "" {
			l.Suffix = side.Suffix
		}
		cssPath := side.CSS
		if cssPath == "" {
			cssPath = filepath.Join(dir, defaultCSS)
		}
		publicPath := side.Public
		if publicPath == "" {
			publicPath = filepath.Join(dir, publicDir)
		}
		l.CSS = DiskAsset(cssPath)
		l.Public = DiskAsset(publicPath)

	default:
		return nil, errors.ConfigError("no layout or template configured").Build()
	}

	if opts.CSS != "" {
		l.CSS = DiskAsset(opts.CSS)
	}
	if opts.Public != "" {
		l.Public = DiskAsset(opts.Public)
	}
	if l.Suffix == "" {
		l.Suffix = DefaultSuffix
	}

	tpl, err := template.New(path.Base(l.Name)).Funcs(l.funcs()).Parse(string(text))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid template").
			WithContext("template", l.Name).
			Build()
	}
	l.tpl = tpl
	return l, nil
}

// DiskAsset refers to a file or directory on disk.
func DiskAsset(p string) Asset {
	return Asset{FS: os.DirFS(filepath.Dir(p)), Path: filepath.Base(p)}
}

// Destination maps a source path to the page written for it.
func (l *Layout) Destination(source string) string {
	return filepath.Join(l.Output, source+l.Suffix)
}

// Execute renders page into w.
func (l *Layout) Execute(w io.Writer, page *Page) error {
	page.Output = l.Output
	page.CSS = l.CSS.Name()
	if page.Destination == "" {
		page.Destination = l.Destination(page.Source)
	}
	if err := l.tpl.Execute(w, page); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to execute template").
			WithContext("template", l.Name).
			WithSource(page.Source).
			Build()
	}
	return nil
}

func (l *Layout) funcs() template.FuncMap {
	return template.FuncMap{
		"base": filepath.Base,
		"dir":  filepath.Dir,
		"join": func(elem ...string) string {
			return filepath.ToSlash(filepath.Join(elem...))
		},
		"destination": l.Destination,
		"relative":    Relative,
		"safe": func(s string) template.HTML {
			// #nosec G203 -- rendered markup produced by this tool.
			return template.HTML(s)
		},
	}
}

// Relative returns the href that leads from the page at from to target.
// Both are paths relative to the same root.
func Relative(from, target string) string {
	rel, err := filepath.Rel(filepath.Dir(from), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

func readSidecar(templatePath string) (Sidecar, error) {
	var side Sidecar
	p := filepath.Join(filepath.Dir(templatePath), filepath.Base(templatePath)+sidecarSuffix)
	// #nosec G304 -- derived from the configured template path.
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return side, nil
		}
		return side, errors.WrapError(err, errors.CategoryConfig, "cannot read template info").
			WithContext("path", p).
			Build()
	}
	if err := json.Unmarshal(data, &side); err != nil {
		return side, errors.WrapError(err, errors.CategoryConfig, "invalid template info").
			WithContext("path", p).
			Build()
	}
	return side, nil
}

func isDir(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}

// Page is the data a template is executed with.
type Page struct {
	Sources      []string
	CSS          string
	HighlightCSS string
	Title        string
	HasTitle     bool
	Output       string
	Source       string
	Destination  string
	Language     *language.Descriptor
	Sections     []Section
	Fingerprint  string
	Generator    string
}

// Section is the template view of one rendered section.
type Section struct {
	Index       int
	DocsHTML    template.HTML
	CodeHTML    template.HTML
	CodeText    string
	CodeInfo    string
	CodeOptions map[string]any
}

// Number is the one-based position of the section, used for anchors.
func (s Section) Number() int { return s.Index + 1 }
