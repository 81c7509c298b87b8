// Package atoms provides the core domain model for atomistic structures in
// atomkit.  An Atoms value carries the atomic numbers, Cartesian positions,
// periodic cell, and the property values loaded for one structure; the
// PropertyMapping value object translates abstract model property names to
// the column names of the storage backend the structure came from.
package atoms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/molforge/atomkit/pkg/errors"
)

// Vec3 is a Cartesian coordinate or vector component triple in Ångström.
type Vec3 [3]float64

// Atoms is one atomistic structure together with the property values that
// were requested when its dataset was opened.  Property values are flat
// float64 slices: scalars have length 1, per-atom vector quantities such as
// forces have length 3*NumAtoms.
type Atoms struct {
	// Numbers holds the atomic number of each atom.
	Numbers []int `json:"numbers"`

	// Positions holds the Cartesian position of each atom.
	Positions []Vec3 `json:"positions"`

	// Cell holds the three lattice vectors; the zero value means no cell.
	Cell [3]Vec3 `json:"cell"`

	// PBC flags periodicity along each lattice vector.
	PBC [3]bool `json:"pbc"`

	// Properties maps storage column names to their values for this
	// structure, restricted to the columns the dataset was opened with.
	Properties map[string][]float64 `json:"properties,omitempty"`
}

// NumAtoms returns the number of atoms in the structure.
func (a *Atoms) NumAtoms() int {
	return len(a.Numbers)
}

// HeavyAtomCount returns the number of atoms with atomic number greater than
// one, the quantity the ANI1 dataset is partitioned by.
func (a *Atoms) HeavyAtomCount() int {
	n := 0
	for _, z := range a.Numbers {
		if z > 1 {
			n++
		}
	}
	return n
}

// Property returns the values stored under the given column name.
func (a *Atoms) Property(column string) ([]float64, bool) {
	v, ok := a.Properties[column]
	return v, ok
}

// Validate checks the structural invariants: positions and numbers agree in
// length, and every atomic number is positive.
func (a *Atoms) Validate() error {
	if len(a.Positions) != len(a.Numbers) {
		return errors.InvalidParam(fmt.Sprintf(
			"atoms: %d positions for %d atomic numbers", len(a.Positions), len(a.Numbers)))
	}
	for i, z := range a.Numbers {
		if z <= 0 {
			return errors.InvalidParam(fmt.Sprintf("atoms: non-positive atomic number %d at index %d", z, i))
		}
	}
	return nil
}

// Formula returns the Hill-convention chemical formula (carbon first, then
// hydrogen, then the remaining elements alphabetically).
func (a *Atoms) Formula() string {
	counts := map[string]int{}
	for _, z := range a.Numbers {
		counts[Symbol(z)]++
	}
	appendElem := func(sb *strings.Builder, sym string) {
		if n, ok := counts[sym]; ok {
			sb.WriteString(sym)
			if n > 1 {
				fmt.Fprintf(sb, "%d", n)
			}
			delete(counts, sym)
		}
	}
	var sb strings.Builder
	appendElem(&sb, "C")
	appendElem(&sb, "H")
	rest := make([]string, 0, len(counts))
	for sym := range counts {
		rest = append(rest, sym)
	}
	sort.Strings(rest)
	for _, sym := range rest {
		appendElem(&sb, sym)
	}
	return sb.String()
}

// symbols lists element symbols indexed by atomic number.  The molecular
// datasets atomkit ships profiles for (QM9, ISO17, ANI1, MD17) contain only
// H/C/N/O/F/S/Cl; the table extends through Z=86 for Materials Project and
// custom data.
var symbols = [...]string{"",
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
}

// Symbol returns the element symbol for an atomic number, or "Z<n>" for
// numbers outside the table.
func Symbol(z int) string {
	if z > 0 && z < len(symbols) {
		return symbols[z]
	}
	return fmt.Sprintf("Z%d", z)
}

// AtomicNumber returns the atomic number for an element symbol, or zero when
// the symbol is unknown.
func AtomicNumber(symbol string) int {
	for z, s := range symbols {
		if s == symbol {
			return z
		}
	}
	return 0
}
