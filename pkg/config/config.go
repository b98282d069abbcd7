// Package config loads and validates pipeline configuration: CLI flags with
// an optional YAML manifest overlay, grounded on the teacher's layered
// env/YAML config loader.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// EdgeFamilies toggles the five C7 knowledge-edge-building strategies.
type EdgeFamilies struct {
	Memorization      bool `yaml:"memorization"`
	Tajweed           bool `yaml:"tajweed"`
	Translation       bool `yaml:"translation"`
	Grammar           bool `yaml:"grammar"`
	DeepUnderstanding bool `yaml:"deep_understanding"`
}

// DefaultEdgeFamilies matches spec.md: tajweed and deep_understanding are
// placeholders, disabled by default.
func DefaultEdgeFamilies() EdgeFamilies {
	return EdgeFamilies{
		Memorization:      true,
		Tajweed:           false,
		Translation:       true,
		Grammar:           true,
		DeepUnderstanding: false,
	}
}

// Pipeline is the full set of knobs shared across build-graph and
// build-content.
type Pipeline struct {
	BundleDir        string       `yaml:"bundle_dir" validate:"required,dir"`
	MorphologyPath   string       `yaml:"morphology_path" validate:"required,file"`
	OutPath          string       `yaml:"out_path" validate:"required"`
	CompressionLevel int          `yaml:"compression_level" validate:"min=1,max=22"`
	Strict           bool         `yaml:"strict"`
	Edges            EdgeFamilies `yaml:"edges"`
	MaxIterations    int          `yaml:"max_iterations" validate:"min=1"`
	LogLevel         string       `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat        string       `yaml:"log_format" validate:"oneof=json console"`
}

// Default returns a Pipeline populated with the spec's documented defaults
// (compression level 9, PageRank max_iter 50000, info/json logging).
func Default() Pipeline {
	return Pipeline{
		CompressionLevel: 9,
		Edges:            DefaultEdgeFamilies(),
		MaxIterations:    50000,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// LoadManifest overlays a YAML manifest file onto an existing Pipeline. Only
// fields present in the manifest are overwritten.
func LoadManifest(p *Pipeline, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.Missing("config manifest not found: %s", path)
		}
		return pkgerrors.IO("reading config manifest", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return pkgerrors.Malformed("invalid config manifest %s: %v", path, err)
	}
	return nil
}

var validate = validator.New()

// Validate checks struct tags on Pipeline and returns an InputMalformed
// error naming every failing field.
func Validate(p Pipeline) error {
	if err := validate.Struct(p); err != nil {
		return pkgerrors.Malformed("invalid configuration: %v", err)
	}
	return nil
}
