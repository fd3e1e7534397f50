package generator

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/doxic/internal/docmodel"
	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/language"
	"git.home.luguber.info/inful/doxic/internal/layout"
	"git.home.luguber.info/inful/doxic/internal/logfields"
	"git.home.luguber.info/inful/doxic/internal/markdown"
	"git.home.luguber.info/inful/doxic/internal/metrics"
	"git.home.luguber.info/inful/doxic/internal/parser"
	"git.home.luguber.info/inful/doxic/internal/render"
	"git.home.luguber.info/inful/doxic/internal/section"
	"git.home.luguber.info/inful/doxic/internal/source"
	"git.home.luguber.info/inful/doxic/internal/version"
)

// HighlightCSSName is the file the highlight stylesheet is written to.
const HighlightCSSName = "highlight.css"

// Options is the resolved configuration of a run.
type Options struct {
	Registry *language.Registry
	// Language forces one registry key for every source.
	Language string
	Parser   parser.Mode
	Markdown markdown.Options
	Layout   layout.Options
	// HighlightStyle names the chroma style for highlight.css; empty
	// disables the stylesheet.
	HighlightStyle string
	Sources        []string
	Debug          bool
}

// Status is the final state of a run.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusNothingToDo Status = "nothing_to_do"
	StatusFailed      Status = "failed"
	StatusCanceled    Status = "canceled"
)

// Output is one written page.
type Output struct {
	Source      string
	Destination string
	Sections    int
}

// Result summarizes a run.
type Result struct {
	RunID    string
	Status   Status
	Outputs  []Output
	Skipped  []string
	Assets   []string
	Duration time.Duration
}

// Generator executes runs for one configuration.
type Generator struct {
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
	out      io.Writer
}

// New creates a generator. Success lines go to stdout and diagnostics to
// the default logger unless replaced with the With* methods.
func New(opts Options) *Generator {
	return &Generator{
		opts:     opts,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		out:      os.Stdout,
	}
}

// WithLogger sets the diagnostics logger.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// WithRecorder sets the metrics recorder.
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

// WithOutput sets where the per-file progress lines are printed.
func (g *Generator) WithOutput(w io.Writer) *Generator {
	if w != nil {
		g.out = w
	}
	return g
}

// Options returns the configuration the generator runs with.
func (g *Generator) Options() Options { return g.opts }

type job struct {
	entry       source.Entry
	destination string
}

// Run performs one generation pass.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := g.logger.With(logfields.RunID(result.RunID))

	finish := func(status Status, err error) (*Result, error) {
		result.Status = status
		result.Duration = time.Since(start)
		g.recorder.ObserveRunDuration(result.Duration)
		g.recorder.IncRunOutcome(outcomeLabel(status))
		if err != nil {
			logger.Debug("Run failed", logfields.Error(err), slog.String("status", string(status)))
		}
		return result, err
	}

	if g.opts.Registry == nil {
		return finish(StatusFailed, errors.InternalError("language registry required").Build())
	}

	lay, err := layout.Resolve(g.opts.Layout)
	if err != nil {
		return finish(StatusFailed, err)
	}

	entries, skipped, err := source.NewResolver(g.opts.Registry, g.opts.Language, logger).Resolve(g.opts.Sources)
	if err != nil {
		return finish(StatusFailed, err)
	}
	result.Skipped = skipped
	for range skipped {
		g.recorder.IncFileResult(metrics.ResultSkipped)
	}

	if g.opts.Debug {
		logger.Debug("Resolved configuration",
			logfields.Layout(lay.Name),
			slog.String("output", lay.Output),
			slog.String("suffix", lay.Suffix),
			slog.String("css", lay.CSS.Name()),
			slog.String("public", lay.Public.Name()),
			slog.String("parser", string(g.opts.Parser)),
			slog.String("dialect", string(g.opts.Markdown.Dialect)),
			slog.String("highlight_style", g.opts.HighlightStyle),
			slog.Any("sources", source.Filenames(entries)))
	}

	if len(entries) == 0 {
		logger.Debug("No sources left after resolution")
		return finish(StatusNothingToDo, nil)
	}

	jobs, err := plan(entries, lay)
	if err != nil {
		return finish(StatusFailed, err)
	}

	selector, err := parser.NewSelector(g.opts.Parser, g.opts.Registry, g.opts.Markdown)
	if err != nil {
		return finish(StatusFailed, err)
	}

	highlighter := render.NewChroma(g.opts.HighlightStyle)
	highlightCSS := ""
	if g.opts.HighlightStyle != "" {
		highlightCSS = HighlightCSSName
	}
	renderer := render.New(g.opts.Markdown, highlighter, logger)

	if err := os.MkdirAll(lay.Output, 0o750); err != nil {
		return finish(StatusFailed, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", lay.Output).
			Build())
	}

	sources := source.Filenames(entries)
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			g.recorder.IncFileResult(metrics.ResultCanceled)
			return finish(StatusCanceled, err)
		}

		fileLog := logger.With(logfields.Source(j.entry.Filename), logfields.Language(j.entry.Language.Name))
		n, err := g.processFile(fileLog, j, lay, selector, renderer, sources, highlightCSS)
		if err != nil {
			g.recorder.IncFileResult(metrics.ResultFailed)
			return finish(StatusFailed, err)
		}
		g.recorder.IncFileResult(metrics.ResultSuccess)
		g.recorder.SetSections(j.entry.Filename, n)
		result.Outputs = append(result.Outputs, Output{Source: j.entry.Filename, Destination: j.destination, Sections: n})
		_, _ = fmt.Fprintf(g.out, "doxic: %s -> %s\n", j.entry.Filename, j.destination)
	}

	assetStart := time.Now()
	assets, err := g.copyAssets(lay, highlighter, highlightCSS)
	g.recorder.ObserveStageDuration(metrics.StageAssets, time.Since(assetStart))
	result.Assets = assets
	if err != nil {
		return finish(StatusFailed, err)
	}

	logger.Info("Generation complete",
		slog.Int("files", len(result.Outputs)),
		slog.Int("skipped", len(result.Skipped)),
		logfields.Elapsed(time.Since(start)))
	return finish(StatusSuccess, nil)
}

// plan assigns every entry its destination and rejects runs where two
// sources would overwrite the same page.
func plan(entries []source.Entry, lay *layout.Layout) ([]job, error) {
	jobs := make([]job, 0, len(entries))
	owners := make(map[string]string, len(entries))
	for _, e := range entries {
		dest := lay.Destination(e.Filename)
		if prev, ok := owners[dest]; ok {
			return nil, errors.ConfigError("sources map to the same destination").
				WithContext("destination", dest).
				WithContext("first", prev).
				WithContext("second", e.Filename).
				Build()
		}
		owners[dest] = e.Filename
		jobs = append(jobs, job{entry: e, destination: dest})
	}
	return jobs, nil
}

func (g *Generator) processFile(
	logger *slog.Logger,
	j job,
	lay *layout.Layout,
	selector *parser.Selector,
	renderer *render.Renderer,
	sources []string,
	highlightCSS string,
) (int, error) {
	lang := j.entry.Language

	stageStart := time.Now()
	doc, err := docmodel.ReadFile(j.entry.Filename, docmodel.Options{Literate: lang.Literate})
	if err != nil {
		return 0, err
	}
	g.observe(logger, metrics.StageRead, stageStart)

	stageStart = time.Now()
	sections, err := selector.For(lang).Parse(parser.Input{
		Filename: j.entry.Filename,
		Language: lang,
		Body:     doc.Body(),
	})
	if err != nil {
		return 0, err
	}
	g.observe(logger, metrics.StageSplit, stageStart)

	stageStart = time.Now()
	if err := renderer.Render(j.entry.Filename, lang, doc.Body(), sections); err != nil {
		return 0, err
	}
	g.observe(logger, metrics.StageRender, stageStart)

	if g.opts.Debug {
		for _, s := range sections {
			logger.Debug("Section", slog.Any("section", s))
		}
	}

	fingerprint, err := doc.Fingerprint()
	if err != nil {
		return 0, err
	}
	title := doc.Title()
	if title == "" {
		title = render.Title(sections)
	}

	page := &layout.Page{
		Sources:      sources,
		HighlightCSS: highlightCSS,
		Title:        title,
		HasTitle:     title != "",
		Source:       j.entry.Filename,
		Destination:  j.destination,
		Language:     lang,
		Sections:     pageSections(sections),
		Fingerprint:  fingerprint,
		Generator:    version.Generator(),
	}

	stageStart = time.Now()
	var buf bytes.Buffer
	if err := lay.Execute(&buf, page); err != nil {
		return 0, err
	}
	if err := writeFile(j.destination, buf.Bytes()); err != nil {
		return 0, err
	}
	g.observe(logger, metrics.StageWrite, stageStart)

	logger.Debug("Wrote page", logfields.Destination(j.destination), logfields.Sections(len(sections)))
	return len(sections), nil
}

func (g *Generator) observe(logger *slog.Logger, stage string, start time.Time) {
	d := time.Since(start)
	g.recorder.ObserveStageDuration(stage, d)
	logger.Debug("Stage complete", logfields.Stage(stage), logfields.Elapsed(d))
}

func pageSections(sections []section.Section) []layout.Section {
	out := make([]layout.Section, len(sections))
	for i, s := range sections {
		out[i] = layout.Section{
			Index: s.Index,
			// #nosec G203 -- produced by goldmark and chroma from the source file.
			DocsHTML: template.HTML(s.DocsHTML),
			// #nosec G203 -- produced by goldmark and chroma from the source file.
			CodeHTML:    template.HTML(s.CodeHTML),
			CodeText:    s.CodeText,
			CodeInfo:    s.CodeInfo,
			CodeOptions: s.CodeOptions,
		}
	}
	return out
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	// #nosec G306 -- generated pages are meant to be published.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", path).
			Build()
	}
	return nil
}

func outcomeLabel(s Status) metrics.OutcomeLabel {
	switch s {
	case StatusSuccess:
		return metrics.OutcomeSuccess
	case StatusNothingToDo:
		return metrics.OutcomeNothingToDo
	case StatusCanceled:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}
