package atoms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func water() *Atoms {
	return &Atoms{
		Numbers: []int{8, 1, 1},
		Positions: []Vec3{
			{0, 0, 0.119},
			{0, 0.763, -0.477},
			{0, -0.763, -0.477},
		},
	}
}

func TestAtoms_NumAtoms(t *testing.T) {
	assert.Equal(t, 3, water().NumAtoms())
	assert.Equal(t, 0, (&Atoms{}).NumAtoms())
}

func TestAtoms_HeavyAtomCount(t *testing.T) {
	assert.Equal(t, 1, water().HeavyAtomCount())

	methane := &Atoms{Numbers: []int{6, 1, 1, 1, 1}}
	assert.Equal(t, 1, methane.HeavyAtomCount())

	h2 := &Atoms{Numbers: []int{1, 1}}
	assert.Equal(t, 0, h2.HeavyAtomCount())
}

func TestAtoms_Validate(t *testing.T) {
	require.NoError(t, water().Validate())

	bad := water()
	bad.Positions = bad.Positions[:2]
	assert.Error(t, bad.Validate())

	neg := &Atoms{Numbers: []int{0}, Positions: []Vec3{{}}}
	assert.Error(t, neg.Validate())
}

func TestAtoms_Formula(t *testing.T) {
	assert.Equal(t, "H2O", water().Formula())

	aspirin := &Atoms{Numbers: append(append(
		repeat(6, 9), repeat(1, 8)...), repeat(8, 4)...)}
	assert.Equal(t, "C9H8O4", aspirin.Formula())
}

func TestAtoms_Property(t *testing.T) {
	a := water()
	a.Properties = map[string][]float64{"total_energy": {-76.4}}

	v, ok := a.Property("total_energy")
	require.True(t, ok)
	assert.Equal(t, []float64{-76.4}, v)

	_, ok = a.Property("atomic_forces")
	assert.False(t, ok)
}

func TestSymbolRoundTrip(t *testing.T) {
	assert.Equal(t, "H", Symbol(1))
	assert.Equal(t, "C", Symbol(6))
	assert.Equal(t, "Rn", Symbol(86))
	assert.Equal(t, "Z119", Symbol(119))

	assert.Equal(t, 6, AtomicNumber("C"))
	assert.Equal(t, 17, AtomicNumber("Cl"))
	assert.Equal(t, 0, AtomicNumber("Xx"))
}

func repeat(z, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = z
	}
	return out
}
