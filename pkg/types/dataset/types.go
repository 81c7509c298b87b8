// Package dataset defines the dataset-kind enumeration and the native column
// names of every dataset atomkit ships profiles for.  No logic beyond simple
// membership predicates lives here — only identifiers that are safe to
// import from any layer without creating circular dependencies.
package dataset

import "strings"

// Kind tags one of the supported dataset families.  Tags are matched
// case-insensitively at the dispatch boundary via ParseKind.
type Kind string

const (
	KindQM9     Kind = "QM9"
	KindISO17   Kind = "ISO17"
	KindANI1    Kind = "ANI1"
	KindMD17    Kind = "MD17"
	KindMatProj Kind = "MATPROJ"
	KindCustom  Kind = "CUSTOM"
)

// Kinds lists every recognized dataset kind.
var Kinds = []Kind{KindQM9, KindISO17, KindANI1, KindMD17, KindMatProj, KindCustom}

// ParseKind uppercases the tag and reports whether it names a recognized
// kind.  The returned Kind is only meaningful when ok is true.
func ParseKind(tag string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(tag)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return k, false
}

// ─────────────────────────────────────────────────────────────────────────────
// Native column names per dataset
// ─────────────────────────────────────────────────────────────────────────────

// QM9 property columns.
const (
	QM9U0    = "energy_U0"
	QM9U     = "energy_U"
	QM9H     = "enthalpy_H"
	QM9G     = "free_energy"
	QM9Mu    = "dipole_moment"
	QM9Alpha = "isotropic_polarizability"
	QM9HOMO  = "homo"
	QM9LUMO  = "lumo"
	QM9Gap   = "gap"
	QM9R2    = "electronic_spatial_extent"
	QM9ZPVE  = "zpve"
	QM9Cv    = "heat_capacity"
)

// ISO17 property columns.
const (
	ISO17E = "total_energy"
	ISO17F = "atomic_forces"
)

// ANI1 property columns.
const (
	ANI1Energy = "energy"
)

// ANI1MaxHeavyAtoms is the largest heavy-atom count any ANI1 partition
// contains.
const ANI1MaxHeavyAtoms = 8

// MD17 property columns.
const (
	MD17Energy = "energy"
	MD17Forces = "forces"
)

// Materials Project property columns.
const (
	MatProjEPerAtom = "energy_per_atom"
)

// ISO17Folds are the database partitions the ISO17 distribution ships.
var ISO17Folds = []string{
	"reference",
	"reference_eq",
	"test_within",
	"test_other",
	"test_eq",
}

// IsISO17Fold reports whether fold names a shipped ISO17 partition.
func IsISO17Fold(fold string) bool {
	for _, f := range ISO17Folds {
		if f == fold {
			return true
		}
	}
	return false
}

// MD17Molecules are the molecular-dynamics trajectories the MD17
// distribution ships.
var MD17Molecules = []string{
	"aspirin",
	"azobenzene",
	"benzene",
	"ethanol",
	"malonaldehyde",
	"naphthalene",
	"paracetamol",
	"salicylic_acid",
	"toluene",
	"uracil",
}

// IsMD17Molecule reports whether name is a shipped MD17 trajectory.
func IsMD17Molecule(name string) bool {
	for _, m := range MD17Molecules {
		if m == name {
			return true
		}
	}
	return false
}
