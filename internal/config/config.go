// Package config defines all configuration structures for atomkit and their
// loading, defaults, and validation.  No dataset logic lives here — only
// plain data types, the named dataset profiles, and the viper-backed loader.
package config

import (
	"fmt"
	"strings"

	"github.com/molforge/atomkit/pkg/types/dataset"
)

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MetricsConfig holds Prometheus metric-emission parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// DatasetConfig selects and parameterizes the dataset to open.  Profile
// names one of the named profiles defined in defaults.go; every explicitly
// set field overrides the corresponding profile value.
type DatasetConfig struct {
	// Profile is the named profile to start from: "custom", "qm9",
	// "iso17", "ani1", "md17", "matproj".  Empty means the base profile.
	Profile string `mapstructure:"profile"`

	// DBPath is the database path (a directory for ISO17 and MD17).
	DBPath string `mapstructure:"dbpath"`

	// Kind is the dataset kind tag, matched case-insensitively.
	Kind string `mapstructure:"kind"`

	// Fold selects the ISO17 partition.
	Fold string `mapstructure:"fold"`

	// Molecule selects the MD17 trajectory.
	Molecule string `mapstructure:"molecule"`

	// NumHeavyAtoms caps molecule size for ANI1.
	NumHeavyAtoms int `mapstructure:"num_heavy_atoms"`

	// Cutoff is the Materials Project environment cutoff radius in Ångström.
	Cutoff float64 `mapstructure:"cutoff"`

	// APIKey is the personal materialsproject.org API key.
	APIKey string `mapstructure:"api_key"`

	// PropertyMapping translates abstract model property names to the
	// dataset's column names.
	PropertyMapping map[string]string `mapstructure:"property_mapping"`

	// PropertyMappingString is the delimited alternative to PropertyMapping
	// ("energy:total_energy,forces:atomic_forces"), the only form
	// expressible through a single environment variable.  It is parsed into
	// PropertyMapping once during loading; when both are set the structured
	// form wins.
	PropertyMappingString string `mapstructure:"property_mapping_string"`

	// Properties is the list of abstract properties the model requires.
	// Empty means every key of the property mapping.
	Properties []string `mapstructure:"properties"`
}

// Config is the root configuration for atomkit.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Dataset DatasetConfig `mapstructure:"dataset"`
}

// Validate checks internal consistency of the configuration.  It validates
// shape only; kind-specific parameter ranges (fold names, heavy-atom counts)
// are enforced by the dataset constructors that consume them.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json|console", c.Log.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace must be set when metrics are enabled")
	}
	if c.Dataset.Profile != "" {
		if _, ok := Profiles()[c.Dataset.Profile]; !ok {
			return fmt.Errorf("dataset.profile %q is not one of %s",
				c.Dataset.Profile, strings.Join(ProfileNames(), "|"))
		}
	}
	if c.Dataset.Kind != "" {
		if _, ok := dataset.ParseKind(c.Dataset.Kind); !ok {
			return fmt.Errorf("dataset.kind %q is not a known dataset kind", c.Dataset.Kind)
		}
	}
	if c.Dataset.DBPath == "" {
		return fmt.Errorf("dataset.dbpath must be set")
	}
	return nil
}
