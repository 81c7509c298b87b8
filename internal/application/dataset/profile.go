// Package dataset implements the application-level dataset service: property
// resolution against a mapping, kind-tag dispatch, and the per-kind dataset
// handles that wrap the storage backend.
package dataset

import (
	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/pkg/types/dataset"
	"github.com/molforge/atomkit/pkg/types/property"
)

// Profile carries every parameter an open operation can need.  Callers fill
// the fields their kind requires and leave the rest zero; no global state is
// consulted.
type Profile struct {
	// Kind is the dataset tag, matched case-insensitively.
	Kind string

	// DBPath is a database file for QM9, ANI1, MatProj and CUSTOM, and a
	// directory for ISO17 and MD17 (the fold or molecule selects the file
	// inside it).
	DBPath string

	// Fold selects the ISO17 partition.
	Fold string

	// Molecule selects the MD17 trajectory.
	Molecule string

	// NumHeavyAtoms limits ANI1 to molecules of at most this many heavy
	// atoms.
	NumHeavyAtoms int

	// Cutoff is the Materials Project environment cutoff in Angstrom.
	Cutoff float64

	// APIKey authenticates Materials Project downloads; opening an already
	// downloaded database does not need it.
	APIKey string

	// PropertyMapping overrides the kind's default property-to-column
	// mapping.  Leave empty to use the defaults.
	PropertyMapping atoms.PropertyMapping

	// Properties restricts the open to a subset of the mapping's keys.
	// Empty means every mapped property.
	Properties []string

	// Overwrite re-runs the CUSTOM .xyz conversion even when the target
	// database already exists.
	Overwrite bool
}

// defaultMappings are the native property-to-column mappings per kind.
// CUSTOM has no default; its mapping always comes from the profile.
var defaultMappings = map[dataset.Kind]atoms.PropertyMapping{
	dataset.KindQM9: {
		property.Energy:            dataset.QM9U0,
		property.DipoleMoment:      dataset.QM9Mu,
		property.IsoPolarizability: dataset.QM9Alpha,
	},
	dataset.KindISO17: {
		property.Energy: dataset.ISO17E,
		property.Forces: dataset.ISO17F,
	},
	dataset.KindANI1: {
		property.Energy: dataset.ANI1Energy,
	},
	dataset.KindMD17: {
		property.Energy: dataset.MD17Energy,
		property.Forces: dataset.MD17Forces,
	},
	dataset.KindMatProj: {
		property.EnergyContributions: dataset.MatProjEPerAtom,
	},
}

// mappingFor returns the profile's mapping, falling back to the kind's
// default.  The result may be empty for CUSTOM profiles without a mapping.
func mappingFor(kind dataset.Kind, p Profile) atoms.PropertyMapping {
	if len(p.PropertyMapping) > 0 {
		return p.PropertyMapping
	}
	if def, ok := defaultMappings[kind]; ok {
		m := make(atoms.PropertyMapping, len(def))
		for k, v := range def {
			m[k] = v
		}
		return m
	}
	return atoms.PropertyMapping{}
}
