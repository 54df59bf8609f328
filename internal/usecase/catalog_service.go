package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/logger"
	"github.com/smartcart/backend/internal/metrics"
)

const (
	catalogCacheKey = "catalog:items"
	offersCacheKey  = "catalog:offers"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService loads the catalog and daily offers with caching
type CatalogService struct {
	cache    domain.CacheRepository
	source   domain.CatalogSource
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	source domain.CatalogSource,
	config CatalogServiceConfig,
	log *logger.Logger,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}

	return &CatalogService{
		cache:    cache,
		source:   source,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Products returns the full catalog.
// Flow: check cache -> load from storefront API -> cache -> return
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if s.getFromCache(ctx, catalogCacheKey, &products) {
		return products, nil
	}

	products, err := s.source.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	s.setInCache(ctx, catalogCacheKey, products)
	return products, nil
}

// ListProducts returns the catalog narrowed by filters
func (s *CatalogService) ListProducts(ctx context.Context, filters domain.FilterSelection) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, filters), nil
}

// Product returns a single catalog item by ID
func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			product := products[i]
			return &product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// Offers returns today's offers with duplicate names removed
func (s *CatalogService) Offers(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	if s.getFromCache(ctx, offersCacheKey, &offers) {
		return offers, nil
	}

	offers, err := s.source.GetOffers(ctx)
	if err != nil {
		return nil, err
	}

	offers = dedupeOffers(offers)
	s.setInCache(ctx, offersCacheKey, offers)
	return offers, nil
}

// Storefront loads filtered products and offers concurrently
func (s *CatalogService) Storefront(ctx context.Context, filters domain.FilterSelection) (*domain.Storefront, error) {
	var storefront domain.Storefront

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.ListProducts(gctx, filters)
		storefront.Products = products
		return err
	})
	g.Go(func() error {
		offers, err := s.Offers(gctx)
		storefront.Offers = offers
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &storefront, nil
}

// Invalidate drops cached catalog and offers so the next read reloads them
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return errors.Join(
		s.cache.Delete(ctx, catalogCacheKey),
		s.cache.Delete(ctx, offersCacheKey),
	)
}

// dedupeOffers keeps the first offer per name. Names compare
// case-insensitively with a trailing "s" ignored, so "Apples" and "apple" collide.
func dedupeOffers(offers []domain.Offer) []domain.Offer {
	seen := make(map[string]bool, len(offers))
	unique := make([]domain.Offer, 0, len(offers))

	for _, offer := range offers {
		key := strings.TrimSuffix(strings.ToLower(offer.Name), "s")
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, offer)
	}
	return unique
}

// getFromCache decodes a cached payload into out and reports whether it was a hit
func (s *CatalogService) getFromCache(ctx context.Context, key string, out any) bool {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheLookups.WithLabelValues(key, "miss").Inc()
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		metrics.CacheLookups.WithLabelValues(key, "miss").Inc()
		return false
	}

	metrics.CacheLookups.WithLabelValues(key, "hit").Inc()
	return true
}

// setInCache stores value; caching failures are logged, never returned
func (s *CatalogService) setInCache(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
