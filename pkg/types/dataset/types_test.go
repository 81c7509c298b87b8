package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind_CaseInsensitive(t *testing.T) {
	for _, tag := range []string{"qm9", "QM9", "Qm9", " qm9 "} {
		k, ok := ParseKind(tag)
		assert.True(t, ok, tag)
		assert.Equal(t, KindQM9, k)
	}

	k, ok := ParseKind("matproj")
	assert.True(t, ok)
	assert.Equal(t, KindMatProj, k)
}

func TestParseKind_Unknown(t *testing.T) {
	_, ok := ParseKind("FOOBAR")
	assert.False(t, ok)
	_, ok = ParseKind("")
	assert.False(t, ok)
}

func TestIsISO17Fold(t *testing.T) {
	assert.True(t, IsISO17Fold("reference"))
	assert.True(t, IsISO17Fold("test_other"))
	assert.False(t, IsISO17Fold("validation"))
}

func TestIsMD17Molecule(t *testing.T) {
	assert.True(t, IsMD17Molecule("aspirin"))
	assert.True(t, IsMD17Molecule("salicylic_acid"))
	assert.False(t, IsMD17Molecule("caffeine"))
}
