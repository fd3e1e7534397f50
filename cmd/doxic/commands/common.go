// Package commands implements the doxic command-line interface on top of kong.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doxic/internal/config"
	"git.home.luguber.info/inful/doxic/internal/generator"
	"git.home.luguber.info/inful/doxic/internal/markdown"
	"git.home.luguber.info/inful/doxic/internal/metrics"
	"git.home.luguber.info/inful/doxic/internal/parser"
)

// Global carries shared state into every command's Run method.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output (progress lines, listings).
	Out   io.Writer
	Level *slog.LevelVar
}

// EnableDebug lowers the log level to debug unless DOXIC_LOG_LEVEL pins it.
func (g *Global) EnableDebug() {
	if g.Level == nil {
		return
	}
	if _, pinned := os.LookupEnv(config.EnvLogLevel); pinned {
		return
	}
	g.Level.Set(slog.LevelDebug)
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `name:"config" help:"Project file path." default:"doxic.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging."`
	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Generate  GenerateCmd  `cmd:"" default:"withargs" help:"Generate documentation for the given sources (default command)."`
	Watch     WatchCmd     `cmd:"" help:"Generate, then regenerate whenever a source changes."`
	Languages LanguagesCmd `cmd:"" help:"List the effective language registry."`
	Init      InitCmd      `cmd:"" help:"Write an example project file."`

	level *slog.LevelVar
}

// Level returns the level variable installed by AfterApply.
func (c *CLI) Level() *slog.LevelVar {
	if c.level == nil {
		c.level = new(slog.LevelVar)
	}
	return c.level
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(c.newLogger(os.Stderr))
	return nil
}

func (c *CLI) newLogger(w io.Writer) *slog.Logger {
	level := c.Level()
	level.Set(slog.LevelInfo)
	if c.Verbose {
		level.Set(slog.LevelDebug)
	}
	if raw, ok := os.LookupEnv(config.EnvLogLevel); ok {
		level.Set(config.NormalizeLogLevel(raw).SlogLevel())
	}

	opts := &slog.HandlerOptions{Level: level}
	if config.NormalizeLogFormat(os.Getenv(config.EnvLogFormat)) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// BuildFlags are the generation settings shared by generate and watch.
// Empty values fall back to the project file, then to built-in defaults.
type BuildFlags struct {
	Languages      string   `short:"L" name:"languages" help:"Language registry file (JSON or YAML)." type:"path"`
	Layout         string   `short:"l" name:"layout" help:"Bundled layout: parallel (default) or linear."`
	Output         string   `short:"o" name:"output" help:"Output directory (default docs)."`
	CSS            string   `short:"c" name:"css" help:"Stylesheet to copy instead of the layout's."`
	Template       string   `short:"t" name:"template" help:"Custom page template."`
	Public         string   `name:"public" help:"Public folder to copy instead of the layout's."`
	Suffix         string   `name:"suffix" help:"Suffix appended to output file names (default .html)."`
	Language       string   `short:"e" name:"language" help:"Force a registry key for every source."`
	Parser         string   `short:"p" name:"parser" help:"Parser mode: commonmark, adhoc or language."`
	CommonMark     string   `short:"m" name:"commonmark" help:"Markdown dialect: commonmark or gfm."`
	HighlightStyle string   `name:"highlight-style" help:"Chroma style for highlight.css, or none."`
	MetricsFile    string   `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each run."`
	Debug          bool     `name:"debug" help:"Log resolved configuration and sections."`
	Patterns       []string `arg:"" optional:"" name:"sources" help:"Source files or glob patterns."`
}

func (f *BuildFlags) config() config.Config {
	return config.Config{
		Languages:      f.Languages,
		Layout:         f.Layout,
		Output:         f.Output,
		CSS:            f.CSS,
		Template:       f.Template,
		Public:         f.Public,
		Suffix:         f.Suffix,
		Language:       f.Language,
		Parser:         f.Parser,
		CommonMark:     f.CommonMark,
		HighlightStyle: f.HighlightStyle,
		MetricsFile:    f.MetricsFile,
		Debug:          f.Debug,
		Sources:        f.Patterns,
	}
}

// loadConfig merges the project file at path with flags and validates the
// result.
func loadConfig(path string, flags config.Config) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(flags)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generatorOptions turns a validated configuration into generator options.
func generatorOptions(cfg *config.Config) (generator.Options, error) {
	reg, err := registryFor(cfg.Languages)
	if err != nil {
		return generator.Options{}, err
	}

	mode, err := parser.ParseMode(cfg.Parser)
	if err != nil {
		return generator.Options{}, err
	}
	dialect, err := markdown.ParseDialect(cfg.CommonMark)
	if err != nil {
		return generator.Options{}, err
	}

	return generator.Options{
		Registry:       reg,
		Language:       cfg.Language,
		Parser:         mode,
		Markdown:       markdown.Options{Dialect: dialect},
		Layout:         cfg.LayoutOptions(),
		HighlightStyle: cfg.HighlightStyle,
		Sources:        cfg.Sources,
		Debug:          cfg.Debug,
	}, nil
}

// runner pairs a generator with the recorder that backs --metrics-file.
type runner struct {
	gen         *generator.Generator
	recorder    *metrics.PrometheusRecorder
	metricsFile string
}

func newRunner(global *Global, cfg *config.Config) (*runner, error) {
	if cfg.Debug {
		global.EnableDebug()
	}
	opts, err := generatorOptions(cfg)
	if err != nil {
		return nil, err
	}
	r := &runner{metricsFile: cfg.MetricsFile}
	gen := generator.New(opts).WithLogger(global.logger()).WithOutput(global.out())
	if cfg.MetricsFile != "" {
		r.recorder = metrics.NewPrometheusRecorder(nil)
		gen = gen.WithRecorder(r.recorder)
	}
	r.gen = gen
	return r, nil
}

// run executes one pass, reports "nothing to do" and flushes metrics. A
// metrics write failure is only reported when the run itself succeeded.
func (r *runner) run(ctx context.Context, out io.Writer) (*generator.Result, error) {
	res, err := r.gen.Run(ctx)
	if res != nil && res.Status == generator.StatusNothingToDo {
		_, _ = io.WriteString(out, "nothing to do\n")
	}
	if r.recorder != nil {
		if werr := r.recorder.WriteTextfile(r.metricsFile); werr != nil && err == nil {
			err = werr
		}
	}
	return res, err
}
