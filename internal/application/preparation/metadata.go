package preparation

import (
	"context"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/internal/infrastructure/rcsb"
	"github.com/turtacn/dockprep/pkg/errors"
)

// PageFetcher retrieves a structure detail page; the boolean reports
// availability, never an error.
type PageFetcher interface {
	FetchPage(ctx context.Context, id structure.ID) (string, bool)
}

// MetadataCache is the cache seam used by the metadata service.
type MetadataCache interface {
	GetOrSet(ctx context.Context, key string, dest any, load func(context.Context) (any, error)) error
}

// errPageUnavailable marks a fetch miss inside the cache loader so the
// miss is not cached.
var errPageUnavailable = errors.New(errors.CodePDBPageUnavailable, "structure page unavailable")

// MetadataService fetches and caches scraped structure metadata.
// Metadata is advisory: an unreachable or missing page yields an absent
// result, not an error. Only an invalid identifier is an error, raised
// before any network access.
type MetadataService struct {
	fetcher PageFetcher
	cache   MetadataCache
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewMetadataService wires the metadata path. Cache and metrics are
// optional.
func NewMetadataService(fetcher PageFetcher, cache MetadataCache, metrics *prometheus.Metrics, logger logging.Logger) *MetadataService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MetadataService{
		fetcher: fetcher,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("metadata"),
	}
}

// Fetch returns the metadata for rawID. The boolean reports whether the
// structure page was available; false means the caller should treat every
// field as absent. The error is non-nil only for an invalid identifier.
func (s *MetadataService) Fetch(ctx context.Context, rawID string) (*structure.Metadata, bool, error) {
	id, err := structure.ParseID(rawID)
	if err != nil {
		return nil, false, err
	}

	if s.cache == nil {
		meta, ok := s.retrieve(ctx, id)
		return meta, ok, nil
	}

	var meta structure.Metadata
	err = s.cache.GetOrSet(ctx, "metadata:"+id.String(), &meta,
		func(ctx context.Context) (any, error) {
			fetched, ok := s.retrieve(ctx, id)
			if !ok {
				return nil, errPageUnavailable
			}
			return fetched, nil
		})
	if err != nil {
		if errors.IsCode(err, errors.CodePDBPageUnavailable) {
			return nil, false, nil
		}
		// Cache plumbing failed after a successful load; degrade to absent
		// rather than surfacing an infrastructure error for advisory data.
		s.logger.Warn("metadata cache error", logging.String("pdb_id", id.String()), logging.Err(err))
		return nil, false, nil
	}
	return &meta, true, nil
}

func (s *MetadataService) retrieve(ctx context.Context, id structure.ID) (*structure.Metadata, bool) {
	page, ok := s.fetcher.FetchPage(ctx, id)
	if s.metrics != nil {
		s.metrics.RecordPageFetch(ok)
	}
	if !ok {
		return nil, false
	}

	meta, err := rcsb.ParsePage(id, page)
	if err != nil {
		s.logger.Warn("failed to parse structure page",
			logging.String("pdb_id", id.String()), logging.Err(err))
		return nil, false
	}
	return meta, true
}
