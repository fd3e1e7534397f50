package language

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
)

//go:embed languages.json
var defaultLanguages []byte

// Default returns the registry bundled with doxic.
func Default() (*Registry, error) {
	return Parse(defaultLanguages, ".json")
}

// Load reads a registry file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func Load(path string) (*Registry, error) {
	// #nosec G304 -- the registry path is chosen by the user running the tool.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read language registry").
			Fatal().
			WithContext("path", path).
			Build()
	}
	reg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return reg, nil
}

// Parse decodes registry content. ext selects the format (".yaml"/".yml" for
// YAML, anything else JSON).
func Parse(data []byte, ext string) (*Registry, error) {
	specs := map[string]Descriptor{}
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &specs)
	default:
		err = json.Unmarshal(data, &specs)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid language registry").Fatal().Build()
	}
	return NewRegistry(specs)
}
