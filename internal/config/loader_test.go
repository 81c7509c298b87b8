package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atomkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: debug
  format: console
dataset:
  profile: qm9
  properties:
    - energy
    - dipole_moment
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "qm9", cfg.Dataset.Profile)
	assert.Equal(t, "QM9", cfg.Dataset.Kind)
	assert.Equal(t, "./data/qm9.db", cfg.Dataset.DBPath)
	assert.Equal(t, []string{"energy", "dipole_moment"}, cfg.Dataset.Properties)
}

func TestLoad_FileOverridesProfile(t *testing.T) {
	path := writeConfigFile(t, `
dataset:
  profile: iso17
  dbpath: /data/iso17
  fold: test_within
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/iso17", cfg.Dataset.DBPath)
	assert.Equal(t, "test_within", cfg.Dataset.Fold)
	// Unset fields still come from the profile.
	assert.Equal(t, "ISO17", cfg.Dataset.Kind)
	assert.Equal(t, "total_energy", cfg.Dataset.PropertyMapping["energy"])
}

func TestLoad_StringFormMappingIsNormalized(t *testing.T) {
	path := writeConfigFile(t, `
dataset:
  profile: custom
  dbpath: ./reference.db
  property_mapping_string: "energy:E,forces:F"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"energy": "E", "forces": "F"}, cfg.Dataset.PropertyMapping)
	assert.Empty(t, cfg.Dataset.PropertyMappingString)
}

func TestLoad_StructuredMappingWinsOverString(t *testing.T) {
	path := writeConfigFile(t, `
dataset:
  profile: custom
  property_mapping:
    energy: total_energy
  property_mapping_string: "energy:E"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"energy": "total_energy"}, cfg.Dataset.PropertyMapping)
}

func TestLoad_MalformedMappingString(t *testing.T) {
	path := writeConfigFile(t, `
dataset:
  property_mapping_string: "energy"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "property_mapping_string")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidProfileRejected(t *testing.T) {
	path := writeConfigFile(t, `
dataset:
  profile: nope
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ATOMKIT_LOG_LEVEL", "warn")
	t.Setenv("ATOMKIT_DATASET_PROFILE", "ani1")
	t.Setenv("ATOMKIT_DATASET_NUM_HEAVY_ATOMS", "4")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "ani1", cfg.Dataset.Profile)
	assert.Equal(t, 4, cfg.Dataset.NumHeavyAtoms)
	assert.Equal(t, "ANI1", cfg.Dataset.Kind)
	assert.Equal(t, "./data/ani1.db", cfg.Dataset.DBPath)
}

func TestLoadFromEnv_StringMapping(t *testing.T) {
	t.Setenv("ATOMKIT_DATASET_PROFILE", "custom")
	t.Setenv("ATOMKIT_DATASET_DBPATH", "./my.db")
	t.Setenv("ATOMKIT_DATASET_PROPERTY_MAPPING_STRING", "energy:U0")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"energy": "U0"}, cfg.Dataset.PropertyMapping)
	assert.Equal(t, "./my.db", cfg.Dataset.DBPath)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
