package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molforge/atomkit/pkg/types/dataset"
	"github.com/molforge/atomkit/pkg/types/property"
)

func TestProfiles_CoverAllNamedConfigurations(t *testing.T) {
	assert.Equal(t, []string{"ani1", "custom", "iso17", "matproj", "md17", "qm9"}, ProfileNames())
}

func TestProfiles_QM9(t *testing.T) {
	p := Profiles()["qm9"]
	assert.Equal(t, "./data/qm9.db", p.DBPath)
	assert.Equal(t, "QM9", p.Kind)
	assert.Equal(t, map[string]string{
		property.Energy:            dataset.QM9U0,
		property.DipoleMoment:      dataset.QM9Mu,
		property.IsoPolarizability: dataset.QM9Alpha,
	}, p.PropertyMapping)
}

func TestProfiles_KindSpecificParameters(t *testing.T) {
	profiles := Profiles()
	assert.Equal(t, "reference", profiles["iso17"].Fold)
	assert.Equal(t, "aspirin", profiles["md17"].Molecule)
	assert.Equal(t, 2, profiles["ani1"].NumHeavyAtoms)
	assert.Equal(t, 5.0, profiles["matproj"].Cutoff)
	assert.Empty(t, profiles["matproj"].APIKey)
	assert.Equal(t, map[string]string{
		property.EnergyContributions: dataset.MatProjEPerAtom,
	}, profiles["matproj"].PropertyMapping)
}

func TestProfiles_ReturnsCopies(t *testing.T) {
	Profiles()["qm9"].PropertyMapping["energy"] = "mutated"
	assert.Equal(t, dataset.QM9U0, Profiles()["qm9"].PropertyMapping["energy"])
}

func TestApplyDefaults_Base(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)

	// The base profile is CUSTOM over the ISO17 equilibrium database.
	assert.Equal(t, DefaultProfile, cfg.Dataset.Profile)
	assert.Equal(t, "CUSTOM", cfg.Dataset.Kind)
	assert.Equal(t, "./data/iso17/reference_eq.db", cfg.Dataset.DBPath)
	assert.Equal(t, dataset.ISO17E, cfg.Dataset.PropertyMapping[property.Energy])
	assert.Equal(t, dataset.ISO17F, cfg.Dataset.PropertyMapping[property.Forces])
}

func TestApplyDefaults_ProfileFillsUnsetFields(t *testing.T) {
	cfg := &Config{}
	cfg.Dataset.Profile = "md17"
	ApplyDefaults(cfg)

	assert.Equal(t, "MD17", cfg.Dataset.Kind)
	assert.Equal(t, "aspirin", cfg.Dataset.Molecule)
	assert.Equal(t, "./data", cfg.Dataset.DBPath)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := &Config{}
	cfg.Dataset.Profile = "md17"
	cfg.Dataset.Molecule = "ethanol"
	cfg.Dataset.DBPath = "/scratch/md17"
	cfg.Dataset.PropertyMapping = map[string]string{property.Energy: "E"}
	ApplyDefaults(cfg)

	assert.Equal(t, "ethanol", cfg.Dataset.Molecule)
	assert.Equal(t, "/scratch/md17", cfg.Dataset.DBPath)
	assert.Equal(t, map[string]string{property.Energy: "E"}, cfg.Dataset.PropertyMapping)
}

func TestApplyDefaults_NilIsSafe(t *testing.T) {
	require.NotPanics(t, func() { ApplyDefaults(nil) })
}
