package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/molforge/atomkit/internal/domain/atoms"
)

// envPrefix is the environment variable prefix used by all atomkit settings.
const envPrefix = "ATOMKIT"

// newViper builds a pre-configured Viper instance with atomkit's standard
// settings: YAML file type, ATOMKIT_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like
// "dataset.dbpath" resolve to "ATOMKIT_DATASET_DBPATH".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges any ATOMKIT_* environment
// variable overrides, applies profile and base defaults for unset fields,
// and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from ATOMKIT_* environment variables,
// with no config file required.  Environment variable naming convention:
//
//	ATOMKIT_<SECTION>_<FIELD>   e.g.  ATOMKIT_DATASET_PROFILE, ATOMKIT_LOG_LEVEL
//
// The property mapping is expressible through a single variable in its
// delimited form, e.g. ATOMKIT_DATASET_PROPERTY_MAPPING_STRING="energy:E,forces:F".
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// Viper only honours AutomaticEnv for keys it knows about; declare the
	// leaf keys so a file-less load still sees the environment.
	for _, key := range []string{
		"log.level", "log.format",
		"metrics.enabled", "metrics.namespace", "metrics.subsystem",
		"dataset.profile", "dataset.dbpath", "dataset.kind",
		"dataset.fold", "dataset.molecule", "dataset.num_heavy_atoms",
		"dataset.cutoff", "dataset.api_key",
		"dataset.property_mapping_string", "dataset.properties",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: failed to bind env for %q: %w", key, err)
		}
	}
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct,
// normalizes the string-form property mapping into its structured form,
// applies defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	// Normalize the delimited mapping form at the boundary; everything past
	// this point sees only the structured form.
	if len(cfg.Dataset.PropertyMapping) == 0 && cfg.Dataset.PropertyMappingString != "" {
		m, err := atoms.ParsePropertyMapping(cfg.Dataset.PropertyMappingString)
		if err != nil {
			return nil, fmt.Errorf("config: invalid dataset.property_mapping_string: %w", err)
		}
		cfg.Dataset.PropertyMapping = m
	}
	cfg.Dataset.PropertyMappingString = ""

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as the log level; callers are
// responsible for applying only the safe subset of changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called so
// the application never observes a broken configuration.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
