package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
)

const initHeader = `# doxic project file.
# Command-line flags override these values; positional patterns replace
# "sources". ${VAR} references are expanded from the environment and from
# .env / .env.local.
`

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		Layout:         "parallel",
		Output:         DefaultOutput,
		Parser:         DefaultParser,
		CommonMark:     "commonmark",
		HighlightStyle: "github",
		Sources:        []string{"src/**/*.go", "docs/*.md"},
	}
}

// Init writes an example project file to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	buf.Write(data)

	// #nosec G306 -- project files are meant to be shared.
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
