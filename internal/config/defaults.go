package config

import (
	"sort"

	"github.com/molforge/atomkit/pkg/types/dataset"
	"github.com/molforge/atomkit/pkg/types/property"
)

// Default value constants.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "atomkit"

	DefaultProfile = "custom"
)

// Profiles returns the named dataset profiles.  Each call returns a fresh
// copy so callers can mutate the result without corrupting the defaults.
//
// The profiles mirror the reference distributions: database paths are
// relative to the working directory and property mappings use each dataset's
// native column names.
func Profiles() map[string]DatasetConfig {
	return map[string]DatasetConfig{
		"custom": {
			DBPath: "./data/iso17/reference_eq.db",
			Kind:   string(dataset.KindCustom),
			PropertyMapping: map[string]string{
				property.Energy: dataset.ISO17E,
				property.Forces: dataset.ISO17F,
			},
		},
		"qm9": {
			DBPath: "./data/qm9.db",
			Kind:   string(dataset.KindQM9),
			PropertyMapping: map[string]string{
				property.Energy:            dataset.QM9U0,
				property.DipoleMoment:      dataset.QM9Mu,
				property.IsoPolarizability: dataset.QM9Alpha,
			},
		},
		"iso17": {
			DBPath: "./data",
			Kind:   string(dataset.KindISO17),
			Fold:   "reference",
			PropertyMapping: map[string]string{
				property.Energy: dataset.ISO17E,
				property.Forces: dataset.ISO17F,
			},
		},
		"ani1": {
			DBPath:        "./data/ani1.db",
			Kind:          string(dataset.KindANI1),
			NumHeavyAtoms: 2,
			PropertyMapping: map[string]string{
				property.Energy: dataset.ANI1Energy,
			},
		},
		"md17": {
			DBPath:   "./data",
			Kind:     string(dataset.KindMD17),
			Molecule: "aspirin",
			PropertyMapping: map[string]string{
				property.Energy: dataset.MD17Energy,
				property.Forces: dataset.MD17Forces,
			},
		},
		"matproj": {
			DBPath: "./data/matproj.db",
			Kind:   string(dataset.KindMatProj),
			Cutoff: 5.0,
			PropertyMapping: map[string]string{
				property.EnergyContributions: dataset.MatProjEPerAtom,
			},
		},
	}
}

// ProfileNames returns the names of the named profiles in sorted order.
func ProfileNames() []string {
	profiles := Profiles()
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// When cfg.Dataset.Profile names a profile, unset dataset fields are filled
// from it first; explicit configuration always wins over profile values and
// profile values win over base defaults.  An unknown profile name is left
// for Validate/ResolveDataset to reject.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Dataset.Profile == "" {
		cfg.Dataset.Profile = DefaultProfile
	}
	if profile, ok := Profiles()[cfg.Dataset.Profile]; ok {
		mergeDataset(&cfg.Dataset, profile)
	}
}

// mergeDataset fills unset fields of dst from src.
func mergeDataset(dst *DatasetConfig, src DatasetConfig) {
	if dst.DBPath == "" {
		dst.DBPath = src.DBPath
	}
	if dst.Kind == "" {
		dst.Kind = src.Kind
	}
	if dst.Fold == "" {
		dst.Fold = src.Fold
	}
	if dst.Molecule == "" {
		dst.Molecule = src.Molecule
	}
	if dst.NumHeavyAtoms == 0 {
		dst.NumHeavyAtoms = src.NumHeavyAtoms
	}
	if dst.Cutoff == 0 {
		dst.Cutoff = src.Cutoff
	}
	if dst.APIKey == "" {
		dst.APIKey = src.APIKey
	}
	if len(dst.PropertyMapping) == 0 && dst.PropertyMappingString == "" {
		dst.PropertyMapping = src.PropertyMapping
	}
}
