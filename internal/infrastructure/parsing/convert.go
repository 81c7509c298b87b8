package parsing

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/molforge/atomkit/internal/infrastructure/database/atomsdb"
	"github.com/molforge/atomkit/internal/infrastructure/monitoring/logging"
	"github.com/molforge/atomkit/pkg/errors"
)

// ConvertOptions tune ExtXYZToDB.
type ConvertOptions struct {
	// Overwrite forces conversion even when the target database already
	// exists.  Without it an existing target is reused as-is.
	Overwrite bool
}

// ConvertResult summarizes a completed conversion.
type ConvertResult struct {
	Structures int
	Properties []string
	// Reused is set when the target database already existed and was
	// returned without converting.
	Reused bool
}

// ExtXYZToDB converts an extended-XYZ file into an atoms database at dst.
// The available property set is taken from the first frame; later frames
// must carry at least those properties.  When dst already exists and
// opts.Overwrite is false, the existing database is kept untouched.
func ExtXYZToDB(ctx context.Context, src, dst string, opts ConvertOptions, logger logging.Logger) (*ConvertResult, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	if _, err := os.Stat(dst); err == nil && !opts.Overwrite {
		logger.Warn("conversion target already exists, reusing it",
			logging.String("source", src),
			logging.String("target", dst))
		return &ConvertResult{Reused: true}, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable,
			"cannot open source file "+src)
	}
	defer f.Close()

	reader := NewReader(f)
	first, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.CodeParseError, "source file "+src+" contains no frames")
	}
	if err != nil {
		return nil, err
	}

	available := make([]string, 0, len(first.Properties))
	for name := range first.Properties {
		available = append(available, name)
	}
	sort.Strings(available)

	db, err := atomsdb.Create(dst, available, logger)
	if err != nil {
		return nil, err
	}

	count := 0
	for frame := first; ; {
		if err := ctx.Err(); err != nil {
			return nil, abortConversion(db, dst,
				errors.Wrap(err, errors.ErrCodeConversionFailed, "conversion canceled"))
		}
		if err := db.Append(ctx, frame); err != nil {
			return nil, abortConversion(db, dst,
				errors.Wrap(err, errors.ErrCodeConversionFailed, "failed to store converted structure"))
		}
		count++

		frame, err = reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, abortConversion(db, dst, err)
		}
	}

	if err := db.Close(); err != nil {
		_ = os.Remove(dst)
		return nil, err
	}

	logger.Info("converted extended-XYZ file",
		logging.String("source", src),
		logging.String("target", dst),
		logging.Int("structures", count),
		logging.Int("properties", len(available)))
	return &ConvertResult{Structures: count, Properties: available}, nil
}

// abortConversion tears down a half-written target database so a later run
// cannot mistake it for a completed conversion and reuse it.
func abortConversion(db *atomsdb.AtomsData, dst string, err error) error {
	_ = db.Close()
	_ = os.Remove(dst)
	return err
}
