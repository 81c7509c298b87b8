// Package property defines the abstract model property identifiers shared by
// every layer of atomkit.  Models request properties by these names; each
// dataset profile carries a mapping that translates them to the column names
// used by that dataset's storage backend.  No logic lives here — only plain
// identifiers that are safe to import from any layer without creating
// circular dependencies.
package property

// Name is an abstract model property identifier.
type Name = string

const (
	// Energy is the total potential energy of a structure.
	Energy Name = "energy"

	// Forces are the per-atom force vectors (negative energy gradient).
	Forces Name = "forces"

	// DipoleMoment is the electric dipole moment vector norm.
	DipoleMoment Name = "dipole_moment"

	// IsoPolarizability is the isotropic static polarizability.
	IsoPolarizability Name = "iso_polarizability"

	// EnergyContributions are per-atom decompositions of the total energy,
	// e.g. the formation energy per atom reported by Materials Project.
	EnergyContributions Name = "energy_contributions"

	// Charges are per-atom partial charges.
	Charges Name = "charges"
)

// All lists every abstract property identifier atomkit knows about.  Dataset
// mappings may cover any subset; models may request any subset of a mapping.
var All = []Name{
	Energy,
	Forces,
	DipoleMoment,
	IsoPolarizability,
	EnergyContributions,
	Charges,
}

// IsKnown reports whether name is one of the declared abstract identifiers.
// Unknown names are not rejected by the resolver (custom datasets may map
// arbitrary properties); this predicate exists for CLI validation hints.
func IsKnown(name Name) bool {
	for _, n := range All {
		if n == name {
			return true
		}
	}
	return false
}
