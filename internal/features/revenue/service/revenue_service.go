package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-console/internal/core/cache"
	"storefront-console/internal/core/logger"
	"storefront-console/internal/features/orders/ports"
	"storefront-console/internal/features/revenue/domain"

	"go.uber.org/zap"
)

// ErrFetchFailed is returned when the seller's orders could not be loaded.
var ErrFetchFailed = errors.New("failed to fetch orders")

// Overview is the full response for one seller and range: the range
// aggregates plus the day-over-day growth indicator computed from the
// unfiltered set.
type Overview struct {
	// Range is the window the report covers.
	Range domain.Range `json:"range"`
	// Report holds the aggregates over the filtered orders.
	domain.Report
	// Growth is the today-vs-yesterday indicator.
	Growth domain.GrowthStats `json:"growth"`
	// GeneratedAt is when the figures were computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// RevenueService computes revenue overviews from the order store, with a
// read-through cache in front. The cache only accelerates; any cache error
// falls back to recomputation.
type RevenueService struct {
	store ports.OrderStore
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewRevenueService creates a new instance of RevenueService. A nil cache
// disables caching entirely.
func NewRevenueService(store ports.OrderStore, c cache.Cache, ttl time.Duration) *RevenueService {
	return &RevenueService{
		store: store,
		cache: c,
		ttl:   ttl,
		log:   logger.Named("revenue"),
	}
}

// cacheKey builds the per-seller, per-range cache key.
func cacheKey(sellerID string, rng domain.Range) string {
	return fmt.Sprintf("revenue:%s:%s", sellerID, rng)
}

// GetOverview returns the revenue overview for a seller and range,
// recomputing from the order store on cache miss.
func (s *RevenueService) GetOverview(ctx context.Context, sellerID string, rng domain.Range, now time.Time) (*Overview, error) {
	key := cacheKey(sellerID, rng)

	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	all, err := s.store.ListOrders(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	filtered := domain.FilterByRange(all, rng, now)

	overview := &Overview{
		Range:       rng,
		Report:      domain.Aggregate(filtered),
		Growth:      domain.Growth(all, now),
		GeneratedAt: now,
	}

	s.toCache(ctx, key, overview)

	return overview, nil
}

// Invalidate drops the cached overviews for a seller, e.g. after a status
// change made the cached figures stale.
func (s *RevenueService) Invalidate(ctx context.Context, sellerID string) {
	if s.cache == nil {
		return
	}
	for _, rng := range []domain.Range{domain.RangeToday, domain.RangeWeek, domain.RangeMonth30, domain.RangeCalendarMonth} {
		if err := s.cache.Delete(ctx, cacheKey(sellerID, rng)); err != nil {
			s.log.Debug("Cache invalidation failed",
				zap.String("seller_id", sellerID),
				zap.Error(err),
			)
		}
	}
}

// fromCache returns a cached overview or nil on miss or any cache error.
func (s *RevenueService) fromCache(ctx context.Context, key string) *Overview {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var overview Overview
	if err := json.Unmarshal(data, &overview); err != nil {
		s.log.Warn("Cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &overview
}

// toCache stores an overview, logging failures without surfacing them.
func (s *RevenueService) toCache(ctx context.Context, key string, overview *Overview) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
