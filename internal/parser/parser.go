// Package parser selects how a source file is divided into sections.
package parser

import (
	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/foundation/normalization"
	"git.home.luguber.info/inful/doxic/internal/language"
	"git.home.luguber.info/inful/doxic/internal/markdown"
	"git.home.luguber.info/inful/doxic/internal/section"
)

// Mode names a splitting strategy.
type Mode string

const (
	// ModeCommonMark treats the whole file as Markdown.
	ModeCommonMark Mode = "commonmark"
	// ModeAdhoc splits loosely formatted Markdown prose from code.
	ModeAdhoc Mode = "adhoc"
	// ModeLanguage splits on the comment syntax of the source language.
	ModeLanguage Mode = "language"
)

var modes = normalization.NewNormalizer(map[string]Mode{
	"commonmark": ModeCommonMark,
	"adhoc":      ModeAdhoc,
	"language":   ModeLanguage,
}, ModeCommonMark)

// ParseMode normalizes a mode name; empty selects commonmark.
func ParseMode(name string) (Mode, error) {
	m, err := modes.NormalizeWithError(name)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryConfig, "invalid parser mode").
			Fatal().
			WithContext("parser", name).
			Build()
	}
	return m, nil
}

// Modes lists the accepted mode names.
func Modes() []string {
	return modes.ValidKeys()
}

// Input is one file to split.
type Input struct {
	Filename string
	Language *language.Descriptor
	// Body is the Markdown text to parse, frontmatter removed.
	Body []byte
}

// Strategy splits a file into sections.
type Strategy interface {
	Mode() Mode
	Parse(in Input) ([]section.Section, error)
}

// New returns the strategy for mode.
func New(mode Mode, registry *language.Registry, md markdown.Options) (Strategy, error) {
	switch mode {
	case ModeCommonMark, "":
		return &commonMark{registry: registry, md: md}, nil
	case ModeAdhoc, ModeLanguage:
		return unsupported{mode: mode}, nil
	default:
		return nil, errors.ConfigError("invalid parser mode").WithContext("parser", string(mode)).Build()
	}
}

// Effective returns the mode applied to a file. Literate files cannot be
// split on comment syntax, so language mode falls back to adhoc for them.
func Effective(mode Mode, lang *language.Descriptor) Mode {
	if mode == ModeLanguage && lang != nil && lang.Literate {
		return ModeAdhoc
	}
	return mode
}

// Selector hands out the strategy to use for each file.
type Selector struct {
	strategies map[Mode]Strategy
	mode       Mode
}

// NewSelector prepares strategies for mode and its literate fallback.
func NewSelector(mode Mode, registry *language.Registry, md markdown.Options) (*Selector, error) {
	sel := &Selector{strategies: map[Mode]Strategy{}, mode: mode}
	for _, m := range []Mode{mode, Effective(mode, &language.Descriptor{Literate: true})} {
		if _, ok := sel.strategies[m]; ok {
			continue
		}
		s, err := New(m, registry, md)
		if err != nil {
			return nil, err
		}
		sel.strategies[m] = s
	}
	return sel, nil
}

// For returns the strategy for a file of the given language.
func (s *Selector) For(lang *language.Descriptor) Strategy {
	return s.strategies[Effective(s.mode, lang)]
}

type commonMark struct {
	registry *language.Registry
	md       markdown.Options
}

func (c *commonMark) Mode() Mode { return ModeCommonMark }

func (c *commonMark) Parse(in Input) ([]section.Section, error) {
	doc, err := markdown.ParseBody(in.Body, c.md)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "failed to parse markdown").
			WithSource(in.Filename).
			Build()
	}
	sections, err := section.Split(doc, in.Body, c.registry)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithSource(in.Filename)
		}
		return nil, err
	}
	return sections, nil
}

type unsupported struct {
	mode Mode
}

func (u unsupported) Mode() Mode { return u.mode }

func (u unsupported) Parse(in Input) ([]section.Section, error) {
	return nil, errors.ParseError("parser mode is not supported").
		WithContext("parser", string(u.mode)).
		WithSource(in.Filename).
		Build()
}
