// Package config loads the optional doxic.yaml project file and merges it
// with command-line flags into the settings of a run.
package config

import (
	stdErrors "errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/layout"
	"git.home.luguber.info/inful/doxic/internal/logfields"
	"git.home.luguber.info/inful/doxic/internal/markdown"
	"git.home.luguber.info/inful/doxic/internal/parser"
	"git.home.luguber.info/inful/doxic/internal/render"
)

// DefaultPath is the project file looked up when --config is not given.
const DefaultPath = "doxic.yaml"

// Defaults applied after file and flags are merged.
const (
	DefaultOutput = "docs"
	DefaultParser = string(parser.ModeCommonMark)
)

// Config mirrors the command-line flags. Empty strings mean "not set".
type Config struct {
	Languages      string   `yaml:"languages,omitempty"`
	Layout         string   `yaml:"layout,omitempty"`
	Output         string   `yaml:"output,omitempty"`
	CSS            string   `yaml:"css,omitempty"`
	Template       string   `yaml:"template,omitempty"`
	Public         string   `yaml:"public,omitempty"`
	Suffix         string   `yaml:"suffix,omitempty"`
	Language       string   `yaml:"language,omitempty"`
	Parser         string   `yaml:"parser,omitempty"`
	CommonMark     string   `yaml:"commonmark,omitempty"`
	HighlightStyle string   `yaml:"highlight_style,omitempty"`
	MetricsFile    string   `yaml:"metrics_file,omitempty"`
	Debug          bool     `yaml:"debug,omitempty"`
	Sources        []string `yaml:"sources,omitempty"`
}

// HighlightNone disables highlight.css when used as the highlight style.
const HighlightNone = "none"

// Load reads the project file at path. A missing file yields an empty
// configuration. Environment variables from .env files are loaded first and
// ${VAR} references in the file are expanded.
func Load(path string) (*Config, error) {
	if loaded, err := loadEnvFiles(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").Build()
	} else if len(loaded) > 0 {
		slog.Debug("Loaded environment files", slog.Any("files", loaded))
	}

	// #nosec G304 -- config path is user input by design.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("No project file", logfields.Path(path))
			return &Config{}, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return Parse(data, path)
}

// Parse decodes project file contents. Unknown keys are rejected.
func Parse(data []byte, path string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid config file").
			WithContext("path", path).
			Build()
	}
	return cfg, nil
}

// Merge overlays the non-empty fields of flags onto c. A template given on
// the command line replaces a layout that only came from the file.
func (c *Config) Merge(flags Config) {
	if flags.Template != "" && flags.Layout == "" {
		c.Layout = ""
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Languages, flags.Languages)
	set(&c.Layout, flags.Layout)
	set(&c.Output, flags.Output)
	set(&c.CSS, flags.CSS)
	set(&c.Template, flags.Template)
	set(&c.Public, flags.Public)
	set(&c.Suffix, flags.Suffix)
	set(&c.Language, flags.Language)
	set(&c.Parser, flags.Parser)
	set(&c.CommonMark, flags.CommonMark)
	set(&c.HighlightStyle, flags.HighlightStyle)
	set(&c.MetricsFile, flags.MetricsFile)
	if flags.Debug {
		c.Debug = true
	}
	if len(flags.Sources) > 0 {
		c.Sources = append([]string(nil), flags.Sources...)
	}
}

// ApplyDefaults fills unset fields. The bundled layout is only defaulted
// when no template is configured.
func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Parser == "" {
		c.Parser = DefaultParser
	}
	if c.Layout == "" && c.Template == "" {
		c.Layout = layout.DefaultLayout
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = render.DefaultStyle
	}
	if strings.EqualFold(c.HighlightStyle, HighlightNone) {
		c.HighlightStyle = ""
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := parser.ParseMode(c.Parser); err != nil {
		return err
	}
	if _, err := markdown.ParseDialect(c.CommonMark); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid markdown dialect").
			WithContext("commonmark", c.CommonMark).
			Build()
	}
	return nil
}

// LayoutOptions returns the layout part of the configuration.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Layout:   c.Layout,
		Template: c.Template,
		CSS:      c.CSS,
		Public:   c.Public,
		Suffix:   c.Suffix,
		Output:   c.Output,
	}
}
