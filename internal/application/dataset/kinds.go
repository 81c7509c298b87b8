package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/internal/infrastructure/database/atomsdb"
	"github.com/molforge/atomkit/pkg/errors"
	"github.com/molforge/atomkit/pkg/types/dataset"
)

// ─────────────────────────────────────────────────────────────────────────────
// Kind-specific dataset handles
// ─────────────────────────────────────────────────────────────────────────────

// QM9 is the 134k small-organic-molecules dataset.
type QM9 struct {
	*atomsdb.AtomsData
	Mapping atoms.PropertyMapping
}

// ISO17 is the C7O2H10 molecular-dynamics dataset, partitioned into folds.
type ISO17 struct {
	*atomsdb.AtomsData
	Mapping atoms.PropertyMapping
	Fold    string
}

// ANI1 is the exhaustive small-molecule DFT dataset, limited to molecules of
// at most NumHeavyAtoms heavy atoms.
type ANI1 struct {
	*atomsdb.AtomsData
	Mapping       atoms.PropertyMapping
	NumHeavyAtoms int
}

// MD17 is one molecular-dynamics trajectory from the MD17 collection.
type MD17 struct {
	*atomsdb.AtomsData
	Mapping  atoms.PropertyMapping
	Molecule string
}

// MatProj is a downloaded slice of the Materials Project bulk-crystal
// database.
type MatProj struct {
	*atomsdb.AtomsData
	Mapping atoms.PropertyMapping
	Cutoff  float64
}

// ─────────────────────────────────────────────────────────────────────────────
// Per-kind open paths
// ─────────────────────────────────────────────────────────────────────────────

func (s *Service) openQM9(_ context.Context, p Profile) (atoms.Dataset, error) {
	mapping := mappingFor(dataset.KindQM9, p)
	resolved, db, err := s.openBacked(mapping, p.Properties, p.DBPath)
	if err != nil {
		return nil, err
	}
	return &QM9{AtomsData: db, Mapping: resolved}, nil
}

func (s *Service) openISO17(_ context.Context, p Profile) (atoms.Dataset, error) {
	if !dataset.IsISO17Fold(p.Fold) {
		return nil, errors.New(errors.ErrCodeInvalidFold,
			fmt.Sprintf("%q is not an ISO17 fold; choose one of %v", p.Fold, dataset.ISO17Folds))
	}
	mapping := mappingFor(dataset.KindISO17, p)
	dbpath := filepath.Join(p.DBPath, p.Fold+".db")
	resolved, db, err := s.openBacked(mapping, p.Properties, dbpath)
	if err != nil {
		return nil, err
	}
	return &ISO17{AtomsData: db, Mapping: resolved, Fold: p.Fold}, nil
}

func (s *Service) openANI1(_ context.Context, p Profile) (atoms.Dataset, error) {
	if p.NumHeavyAtoms < 1 || p.NumHeavyAtoms > dataset.ANI1MaxHeavyAtoms {
		return nil, errors.New(errors.ErrCodeInvalidHeavyAtomCount,
			fmt.Sprintf("ANI1 heavy-atom count must be between 1 and %d, got %d",
				dataset.ANI1MaxHeavyAtoms, p.NumHeavyAtoms))
	}
	mapping := mappingFor(dataset.KindANI1, p)
	resolved, db, err := s.openBacked(mapping, p.Properties, p.DBPath)
	if err != nil {
		return nil, err
	}
	return &ANI1{AtomsData: db, Mapping: resolved, NumHeavyAtoms: p.NumHeavyAtoms}, nil
}

func (s *Service) openMD17(_ context.Context, p Profile) (atoms.Dataset, error) {
	if !dataset.IsMD17Molecule(p.Molecule) {
		return nil, errors.New(errors.ErrCodeInvalidMolecule,
			fmt.Sprintf("%q is not an MD17 molecule; choose one of %v", p.Molecule, dataset.MD17Molecules))
	}
	mapping := mappingFor(dataset.KindMD17, p)
	dbpath := filepath.Join(p.DBPath, p.Molecule+".db")
	resolved, db, err := s.openBacked(mapping, p.Properties, dbpath)
	if err != nil {
		return nil, err
	}
	return &MD17{AtomsData: db, Mapping: resolved, Molecule: p.Molecule}, nil
}

func (s *Service) openMatProj(_ context.Context, p Profile) (atoms.Dataset, error) {
	if p.Cutoff <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidCutoff,
			fmt.Sprintf("Materials Project cutoff must be positive, got %g", p.Cutoff))
	}
	if _, err := os.Stat(p.DBPath); err != nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable,
			fmt.Sprintf("Materials Project database %s does not exist; download it first with a valid api_key", p.DBPath))
	}
	mapping := mappingFor(dataset.KindMatProj, p)
	resolved, db, err := s.openBacked(mapping, p.Properties, p.DBPath)
	if err != nil {
		return nil, err
	}
	return &MatProj{AtomsData: db, Mapping: resolved, Cutoff: p.Cutoff}, nil
}

// openBacked resolves the requested properties against the mapping, then
// opens the backing database requiring the resolved columns.
func (s *Service) openBacked(mapping atoms.PropertyMapping, properties []string, dbpath string) (atoms.PropertyMapping, *atomsdb.AtomsData, error) {
	resolved, err := s.ResolveProperties(mapping, properties, dbpath)
	if err != nil {
		return nil, nil, err
	}
	// An empty mapping opens every column the database has.
	var required []string
	if len(resolved) > 0 {
		required = resolved.Columns()
	}
	db, err := atomsdb.Open(dbpath, required, s.logger)
	if err != nil {
		return nil, nil, err
	}
	return resolved, db, nil
}
