package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/internal/infrastructure/database/atomsdb"
	"github.com/molforge/atomkit/internal/infrastructure/parsing"
	"github.com/molforge/atomkit/pkg/errors"
	"github.com/molforge/atomkit/pkg/types/dataset"
)

// Custom is a user-supplied dataset opened from a .db file, or converted on
// the fly from an extended-XYZ file.
type Custom struct {
	*atomsdb.AtomsData
	Mapping atoms.PropertyMapping
	// SourcePath is the file the profile named, which differs from Path()
	// when a conversion happened.
	SourcePath string
}

// openCustom dispatches on the file extension.  Only .db and .xyz are
// accepted; anything else fails before any file is created or modified.
func (s *Service) openCustom(ctx context.Context, p Profile) (atoms.Dataset, error) {
	dbpath := p.DBPath

	switch ext := strings.ToLower(filepath.Ext(p.DBPath)); ext {
	case ".db":
		// opened directly below
	case ".xyz":
		converted := strings.TrimSuffix(p.DBPath, filepath.Ext(p.DBPath)) + ".db"
		start := time.Now()
		res, err := parsing.ExtXYZToDB(ctx, p.DBPath, converted,
			parsing.ConvertOptions{Overwrite: p.Overwrite}, s.logger)
		if err != nil {
			s.metrics.RecordConversion("failed", time.Since(start))
			return nil, err
		}
		if res.Reused {
			s.metrics.RecordConversion("reused", time.Since(start))
		} else {
			s.metrics.RecordConversion("converted", time.Since(start))
		}
		dbpath = converted
	default:
		return nil, errors.UnsupportedFormat(
			fmt.Sprintf("file extension %q is not supported for custom datasets; use .db or .xyz", ext))
	}

	resolved, db, err := s.openBacked(mappingFor(dataset.KindCustom, p), p.Properties, dbpath)
	if err != nil {
		return nil, err
	}
	return &Custom{AtomsData: db, Mapping: resolved, SourcePath: p.DBPath}, nil
}
