package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/internal/infrastructure/monitoring/logging"
	"github.com/molforge/atomkit/internal/infrastructure/monitoring/prometheus"
	"github.com/molforge/atomkit/pkg/errors"
	"github.com/molforge/atomkit/pkg/types/dataset"
)

// Service opens datasets from explicit profiles.  It holds no dataset state
// of its own; every opened handle is owned by the caller.
type Service struct {
	logger  logging.Logger
	metrics *prometheus.DatasetMetrics
}

// NewService builds a dataset service.  A nil logger or metrics falls back
// to no-op implementations.
func NewService(logger logging.Logger, metrics *prometheus.DatasetMetrics) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopDatasetMetrics()
	}
	return &Service{logger: logger, metrics: metrics}
}

// ResolveProperties restricts mapping to the requested properties.  An empty
// request resolves to the full mapping.  The returned mapping is new; the
// input is never mutated.
func (s *Service) ResolveProperties(mapping atoms.PropertyMapping, properties []string, dbpath string) (atoms.PropertyMapping, error) {
	if len(properties) == 0 {
		properties = mapping.Keys()
	}
	return mapping.Resolve(properties, dbpath)
}

// Open dispatches on the profile's kind tag and returns the opened dataset.
// Unknown tags fail with an unsupported-dataset error and touch nothing on
// disk.
func (s *Service) Open(ctx context.Context, p Profile) (atoms.Dataset, error) {
	kind, ok := dataset.ParseKind(p.Kind)
	if !ok {
		s.metrics.RecordError("dataset", string(errors.ErrCodeDatasetUnsupported))
		return nil, errors.Unsupported(fmt.Sprintf("dataset %q is not supported", p.Kind))
	}

	start := time.Now()
	ds, err := s.openKind(ctx, kind, p)
	if err != nil {
		s.metrics.RecordDatasetLoad(string(kind), "error", time.Since(start))
		s.metrics.RecordError("dataset", string(errors.GetCode(err)))
		return nil, err
	}
	s.metrics.RecordDatasetLoad(string(kind), "ok", time.Since(start))
	if count, countErr := ds.Count(ctx); countErr == nil {
		s.metrics.RecordDatasetSize(string(kind), count)
	}
	s.logger.Info("opened dataset",
		logging.String("kind", string(kind)),
		logging.String("path", ds.Path()),
		logging.Int("properties", len(ds.AvailableProperties())))
	return ds, nil
}

func (s *Service) openKind(ctx context.Context, kind dataset.Kind, p Profile) (atoms.Dataset, error) {
	switch kind {
	case dataset.KindQM9:
		return s.openQM9(ctx, p)
	case dataset.KindISO17:
		return s.openISO17(ctx, p)
	case dataset.KindANI1:
		return s.openANI1(ctx, p)
	case dataset.KindMD17:
		return s.openMD17(ctx, p)
	case dataset.KindMatProj:
		return s.openMatProj(ctx, p)
	case dataset.KindCustom:
		return s.openCustom(ctx, p)
	default:
		return nil, errors.Unsupported(fmt.Sprintf("dataset %q is not supported", kind))
	}
}
