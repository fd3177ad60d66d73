package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/techchoose/backend/internal/domain"
	"github.com/techchoose/backend/internal/infrastructure/metrics"
)

const catalogCacheKey = "catalog:normalized"

// defaultLoadTimeout bounds a shared catalog load independently of any caller
const defaultLoadTimeout = 30 * time.Second

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL     time.Duration
	AffiliateTag string
	// LoadTimeout bounds one shared fetch; it does not follow any caller's deadline
	LoadTimeout time.Duration
}

// CatalogService is a read-through cache over the spreadsheet source
type CatalogService struct {
	cache      domain.CacheRepository
	source     domain.SheetClient
	normalizer *Normalizer
	cacheTTL   time.Duration
	timeout    time.Duration
	group      singleflight.Group
	metrics    *metrics.Recorder
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	source domain.SheetClient,
	config CatalogServiceConfig,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}

	loadTimeout := config.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}

	return &CatalogService{
		cache:      cache,
		source:     source,
		normalizer: NewNormalizer(NormalizerConfig{AffiliateTag: config.AffiliateTag}),
		cacheTTL:   cacheTTL,
		timeout:    loadTimeout,
		metrics:    recorder,
		logger:     logger.Named("catalog"),
	}
}

// Catalog returns the cached normalized catalog, fetching it on a miss.
// Concurrent misses share one fetch. Failures and empty tables yield an empty
// catalog and an error wrapping ErrCatalogUnavailable; they are not cached.
func (s *CatalogService) Catalog(ctx context.Context) (domain.Catalog, error) {
	if cached, ok := s.getFromCache(ctx); ok {
		s.metrics.CatalogLoad(metrics.LoadCacheHit)
		return cached, nil
	}

	// The shared load is detached from the caller so one cancelled request
	// does not fail every request waiting on the same fetch.
	ch := s.group.DoChan(catalogCacheKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		return domain.Catalog{}, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Catalog{}, res.Err
		}
		return res.Val.(domain.Catalog), nil
	}
}

// Refresh drops the cached catalog so the next call refetches
func (s *CatalogService) Refresh(ctx context.Context) error {
	return s.cache.Delete(ctx, catalogCacheKey)
}

func (s *CatalogService) load(ctx context.Context) (domain.Catalog, error) {
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		s.metrics.CatalogLoad(metrics.LoadFailed)
		s.logger.Warn("catalog source unavailable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	catalog := s.normalizer.Normalize(rows)
	if len(catalog) == 0 {
		s.metrics.CatalogLoad(metrics.LoadFailed)
		s.logger.Warn("catalog source has no usable rows", zap.Int("rows", len(rows)))
		return nil, fmt.Errorf("%w: no rows with name and price", domain.ErrCatalogUnavailable)
	}

	s.metrics.CatalogLoad(metrics.LoadFetched)
	s.metrics.CatalogSize(len(catalog))
	s.logger.Info("catalog loaded",
		zap.Int("rows", len(rows)),
		zap.Int("devices", len(catalog)),
		zap.Int("dropped", len(rows)-len(catalog)))

	if err := s.cache.Set(ctx, catalogCacheKey, catalog, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache catalog", zap.Error(err))
	}

	return catalog, nil
}

func (s *CatalogService) getFromCache(ctx context.Context) (domain.Catalog, bool) {
	value, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, false
	}
	catalog, ok := value.(domain.Catalog)
	return catalog, ok
}
