package generator

import (
	"bytes"
	stdErrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/layout"
	"git.home.luguber.info/inful/doxic/internal/render"
)

// copyAssets copies the stylesheet, then the public folder, then writes the
// highlight stylesheet. Missing assets are skipped. It returns the paths
// written under the output directory.
func (g *Generator) copyAssets(lay *layout.Layout, highlighter *render.Chroma, highlightCSS string) ([]string, error) {
	var written []string
	for _, a := range []layout.Asset{lay.CSS, lay.Public} {
		if a.IsZero() {
			continue
		}
		target := filepath.Join(lay.Output, a.Name())
		copied, err := CopyAsset(a, target)
		if err != nil {
			return written, err
		}
		if !copied {
			g.logger.Debug("Asset not found, skipping", slog.String("asset", a.Path))
			continue
		}
		written = append(written, target)
	}

	if highlightCSS != "" {
		var buf bytes.Buffer
		if err := highlighter.WriteCSS(&buf); err != nil {
			return written, errors.WrapError(err, errors.CategoryRender, "failed to generate highlight stylesheet").Build()
		}
		target := filepath.Join(lay.Output, highlightCSS)
		if err := writeFile(target, buf.Bytes()); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

// CopyAsset copies a file or directory tree from a.FS to dst. It reports
// false without error when the asset does not exist.
func CopyAsset(a layout.Asset, dst string) (bool, error) {
	info, err := fs.Stat(a.FS, a.Path)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, copyError(err, a.Path)
	}
	if !info.IsDir() {
		if err := copyFile(a.FS, a.Path, dst); err != nil {
			return false, err
		}
		return true, nil
	}

	err = fs.WalkDir(a.FS, a.Path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return copyError(walkErr, p)
		}
		rel := p
		if a.Path != "." {
			rel = strings.TrimPrefix(p, a.Path)
		}
		target := filepath.Join(dst, filepath.FromSlash(path.Clean("/"+rel)))
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return copyError(err, target)
			}
			return nil
		}
		return copyFile(a.FS, p, target)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func copyFile(fsys fs.FS, name, dst string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return copyError(err, name)
	}
	defer func() {
		_ = src.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return copyError(err, dst)
	}
	// #nosec G304 -- dst is inside the configured output directory.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return copyError(err, dst)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return copyError(err, dst)
	}
	if err := out.Close(); err != nil {
		return copyError(err, dst)
	}
	return nil
}

func copyError(err error, p string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy asset").
		WithContext("path", p).
		Build()
}
