package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/internal/infrastructure/database/atomsdb"
	"github.com/molforge/atomkit/internal/infrastructure/monitoring/prometheus"
	"github.com/molforge/atomkit/pkg/errors"
	"github.com/molforge/atomkit/pkg/types/dataset"
	"github.com/molforge/atomkit/pkg/types/property"
)

// writeTestDB creates a database at path holding two small structures with
// the given property columns, each filled with a single scalar value.
func writeTestDB(t *testing.T, path string, columns []string) {
	t.Helper()
	db, err := atomsdb.Create(path, columns, nil)
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 2; i++ {
		props := map[string][]float64{}
		for _, c := range columns {
			props[c] = []float64{float64(i) - 76.4}
		}
		a := &atoms.Atoms{
			Numbers:    []int{8, 1, 1},
			Positions:  []atoms.Vec3{{0, 0, 0.119}, {0, 0.763, -0.477}, {0, -0.763, -0.477}},
			Properties: props,
		}
		require.NoError(t, db.Append(context.Background(), a))
	}
}

func TestResolveProperties_SubsetAndDefault(t *testing.T) {
	s := NewService(nil, nil)
	mapping := atoms.PropertyMapping{"energy": "U0", "forces": "F"}

	resolved, err := s.ResolveProperties(mapping, []string{"energy"}, "/tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, atoms.PropertyMapping{"energy": "U0"}, resolved)

	all, err := s.ResolveProperties(mapping, nil, "/tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, mapping, all)

	_, err = s.ResolveProperties(mapping, []string{"charges"}, "/tmp/x.db")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePropertyNotMapped))
	assert.Contains(t, err.Error(), "charges")
	assert.Contains(t, err.Error(), "/tmp/x.db")
}

func TestOpen_UnknownTag(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Open(context.Background(), Profile{Kind: "FOOBAR"})
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
}

func TestOpen_QM9(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qm9.db")
	writeTestDB(t, path, []string{dataset.QM9U0, dataset.QM9Mu, dataset.QM9Alpha})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{
		Kind:       "qm9", // tags are case-insensitive
		DBPath:     path,
		Properties: []string{property.Energy},
	})
	require.NoError(t, err)
	defer ds.Close()

	qm9, ok := ds.(*QM9)
	require.True(t, ok)
	assert.Equal(t, atoms.PropertyMapping{property.Energy: dataset.QM9U0}, qm9.Mapping)

	a, err := ds.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{-76.4}, a.Properties[dataset.QM9U0])
	assert.NotContains(t, a.Properties, dataset.QM9Mu)
}

func TestOpen_RecordsStructureGauge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qm9.db")
	writeTestDB(t, path, []string{dataset.QM9U0, dataset.QM9Mu, dataset.QM9Alpha})

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "atomkit"}, nil)
	require.NoError(t, err)
	s := NewService(nil, prometheus.NewDatasetMetrics(collector))

	ds, err := s.Open(context.Background(), Profile{Kind: "QM9", DBPath: path})
	require.NoError(t, err)
	defer ds.Close()

	families, err := collector.Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "atomkit_dataset_structures" {
			found = true
			assert.Equal(t, float64(2), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found, "structure-count gauge was not recorded")
}

func TestOpen_ISO17(t *testing.T) {
	dir := t.TempDir()
	writeTestDB(t, filepath.Join(dir, "reference_eq.db"), []string{dataset.ISO17E, dataset.ISO17F})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{Kind: "ISO17", DBPath: dir, Fold: "reference_eq"})
	require.NoError(t, err)
	defer ds.Close()

	iso, ok := ds.(*ISO17)
	require.True(t, ok)
	assert.Equal(t, "reference_eq", iso.Fold)
	assert.Equal(t, filepath.Join(dir, "reference_eq.db"), ds.Path())
}

func TestOpen_ISO17_InvalidFold(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Open(context.Background(), Profile{Kind: "ISO17", DBPath: t.TempDir(), Fold: "holdout"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidFold))
}

func TestOpen_ANI1_HeavyAtomRange(t *testing.T) {
	s := NewService(nil, nil)
	for _, n := range []int{0, -1, 9} {
		_, err := s.Open(context.Background(), Profile{Kind: "ANI1", DBPath: "x.db", NumHeavyAtoms: n})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidHeavyAtomCount))
	}
}

func TestOpen_ANI1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ani1.db")
	writeTestDB(t, path, []string{dataset.ANI1Energy})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{Kind: "ani1", DBPath: path, NumHeavyAtoms: 2})
	require.NoError(t, err)
	defer ds.Close()
	assert.Equal(t, 2, ds.(*ANI1).NumHeavyAtoms)
}

func TestOpen_MD17(t *testing.T) {
	dir := t.TempDir()
	writeTestDB(t, filepath.Join(dir, "aspirin.db"), []string{dataset.MD17Energy, dataset.MD17Forces})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{Kind: "MD17", DBPath: dir, Molecule: "aspirin"})
	require.NoError(t, err)
	defer ds.Close()
	assert.Equal(t, "aspirin", ds.(*MD17).Molecule)
}

func TestOpen_MD17_InvalidMolecule(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Open(context.Background(), Profile{Kind: "MD17", DBPath: t.TempDir(), Molecule: "caffeine"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidMolecule))
}

func TestOpen_MatProj(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matproj.db")
	writeTestDB(t, path, []string{dataset.MatProjEPerAtom})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{Kind: "MATPROJ", DBPath: path, Cutoff: 5.0})
	require.NoError(t, err)
	defer ds.Close()

	mp := ds.(*MatProj)
	assert.Equal(t, 5.0, mp.Cutoff)
	// Materials Project serves per-atom energy contributions, not a plain
	// total energy.
	assert.Equal(t, atoms.PropertyMapping{property.EnergyContributions: dataset.MatProjEPerAtom}, mp.Mapping)
}

func TestOpen_MatProj_InvalidCutoff(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Open(context.Background(), Profile{Kind: "MATPROJ", DBPath: "x.db", Cutoff: 0})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCutoff))
}

func TestOpen_MatProj_MissingDatabase(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Open(context.Background(), Profile{
		Kind:   "MATPROJ",
		DBPath: filepath.Join(t.TempDir(), "nope.db"),
		Cutoff: 5.0,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDataSourceUnavailable))
	assert.Contains(t, err.Error(), "api_key")
}

func TestOpen_MissingProperty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qm9.db")
	writeTestDB(t, path, []string{dataset.QM9U0})

	s := NewService(nil, nil)
	_, err := s.Open(context.Background(), Profile{
		Kind:       "QM9",
		DBPath:     path,
		Properties: []string{property.Charges},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePropertyNotMapped))
}

func TestOpen_CustomDB(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.db")
	writeTestDB(t, path, []string{"total_energy"})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{
		Kind:            "CUSTOM",
		DBPath:          path,
		PropertyMapping: atoms.PropertyMapping{"energy": "total_energy"},
	})
	require.NoError(t, err)
	defer ds.Close()

	c, ok := ds.(*Custom)
	require.True(t, ok)
	assert.Equal(t, path, c.SourcePath)

	a, err := ds.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{-75.4}, a.Properties["total_energy"])
}

func TestOpen_CustomXYZ_Converts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "water.xyz")
	xyz := "3\nProperties=species:S:1:pos:R:3 energy=-76.4\nO 0 0 0.119\nH 0 0.763 -0.477\nH 0 -0.763 -0.477\n"
	require.NoError(t, os.WriteFile(src, []byte(xyz), 0o644))

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{
		Kind:            "CUSTOM",
		DBPath:          src,
		PropertyMapping: atoms.PropertyMapping{"energy": "energy"},
	})
	require.NoError(t, err)
	defer ds.Close()

	assert.Equal(t, filepath.Join(dir, "water.db"), ds.Path())
	assert.Equal(t, src, ds.(*Custom).SourcePath)

	n, err := ds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_CustomXYZ_ReusesExistingDB(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "water.xyz")
	xyz := "1\nProperties=species:S:1:pos:R:3 energy=-1\nH 0 0 0\n"
	require.NoError(t, os.WriteFile(src, []byte(xyz), 0o644))
	writeTestDB(t, filepath.Join(dir, "water.db"), []string{"energy"})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{
		Kind:            "CUSTOM",
		DBPath:          src,
		PropertyMapping: atoms.PropertyMapping{"energy": "energy"},
	})
	require.NoError(t, err)
	defer ds.Close()

	// The existing two-structure database was kept.
	n, err := ds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpen_CustomXYZ_FailedConversionNotReused(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "traj.xyz")
	bad := "1\nProperties=species:S:1:pos:R:3 energy=-1\nH 0 0 0\n" +
		"1\nProperties=species:S:1:pos:R:3 energy=-2\nXx 0 0 0\n"
	require.NoError(t, os.WriteFile(src, []byte(bad), 0o644))

	s := NewService(nil, nil)
	profile := Profile{
		Kind:            "CUSTOM",
		DBPath:          src,
		PropertyMapping: atoms.PropertyMapping{"energy": "energy"},
	}

	_, err := s.Open(context.Background(), profile)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParseError))

	// The failed conversion must not leave a database behind for a second
	// open to silently serve as a truncated dataset.
	_, statErr := os.Stat(filepath.Join(dir, "traj.db"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = s.Open(context.Background(), profile)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParseError))
}

func TestOpen_CustomUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o644))

	s := NewService(nil, nil)
	_, err := s.Open(context.Background(), Profile{Kind: "CUSTOM", DBPath: path})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFormatUnsupported))

	// Nothing was written next to the source.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen_CustomDB_NoMappingLoadsEverything(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.db")
	writeTestDB(t, path, []string{"total_energy", "atomic_forces"})

	s := NewService(nil, nil)
	ds, err := s.Open(context.Background(), Profile{Kind: "CUSTOM", DBPath: path})
	require.NoError(t, err)
	defer ds.Close()

	a, err := ds.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Contains(t, a.Properties, "total_energy")
	assert.Contains(t, a.Properties, "atomic_forces")
}
