package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/cache"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/metrics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

const (
	cacheKeyPrefix     = "analytics:v2"
	cacheGenerationKey = cacheKeyPrefix + ":generation"
)

type AnalyticsRepository interface {
	Aggregate(ctx context.Context, params models.AggregationParams) (*models.AnalyticsFacets, error)
}

type AnalyticsLeadStore interface {
	FindForAnalytics(ctx context.Context, params models.AggregationParams) ([]models.Lead, error)
}

type UserLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// ResultCache is satisfied by *cache.RedisCache.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, error)
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

type AnalyticsService struct {
	repo  AnalyticsRepository
	leads AnalyticsLeadStore
	users UserLookup
	store ResultCache
	ttl   time.Duration
	log   logger.Logger
}

// NewAnalyticsService builds the service. store may be nil.
func NewAnalyticsService(repo AnalyticsRepository, leads AnalyticsLeadStore, users UserLookup, store ResultCache, ttl time.Duration, log logger.Logger) *AnalyticsService {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyticsService{
		repo:  repo,
		leads: leads,
		users: users,
		store: store,
		ttl:   ttl,
		log:   log,
	}
}

// GetAnalytics serves from cache, then the aggregation pipeline, then an
// in-process aggregation over the raw leads.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, params models.AggregationParams) (*models.AggregationResult, models.AnalyticsSource, error) {
	key := s.cacheKey(ctx, params)
	if key != "" {
		var cached models.AggregationResult
		if err := s.store.GetJSON(ctx, key, &cached); err == nil {
			metrics.RecordAnalytics(string(models.SourceCache))
			return &cached, models.SourceCache, nil
		}
	}

	result, source, err := s.compute(ctx, params)
	if err != nil {
		return nil, "", err
	}
	metrics.RecordAnalytics(string(source))

	if key != "" {
		if err := s.store.Set(ctx, key, result, s.ttl); err != nil {
			s.log.WithError(err).Warn("analytics: failed to cache result")
		}
	}
	return result, source, nil
}

func (s *AnalyticsService) compute(ctx context.Context, params models.AggregationParams) (*models.AggregationResult, models.AnalyticsSource, error) {
	facets, err := s.repo.Aggregate(ctx, params)
	if err == nil {
		users := s.lookupUsers(ctx, analytics.UserIDs(*facets))
		result := analytics.FromGroups(*facets, users)
		return &result, models.SourceServer, nil
	}

	s.log.WithError(err).Warn("analytics: pipeline failed, aggregating raw leads")
	metrics.RecordAnalyticsFallback()

	leads, lerr := s.leads.FindForAnalytics(ctx, params)
	if lerr != nil {
		return nil, "", fmt.Errorf("aggregate leads: %w", errors.Join(err, lerr))
	}

	ids := make([]string, 0, len(leads))
	seen := make(map[string]bool, len(leads))
	for _, l := range leads {
		if l.HRUserID != "" && !seen[l.HRUserID] {
			seen[l.HRUserID] = true
			ids = append(ids, l.HRUserID)
		}
	}

	result := analytics.Aggregate(leads, s.lookupUsers(ctx, ids), params)
	return &result, models.SourceLocal, nil
}

// lookupUsers never fails the request; unresolved ids fall back to "User {id}".
func (s *AnalyticsService) lookupUsers(ctx context.Context, ids []string) []models.User {
	if len(ids) == 0 || s.users == nil {
		return nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.log.WithError(err).Warn("analytics: user lookup failed")
		return nil
	}
	return users
}

// Invalidate drops every cached result by moving to a new key generation.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if s.store == nil {
		return
	}
	if _, err := s.store.Incr(ctx, cacheGenerationKey); err != nil {
		s.log.WithError(err).Warn("analytics: failed to invalidate cache")
	}
}

// cacheKey returns "" when caching is unavailable.
func (s *AnalyticsService) cacheKey(ctx context.Context, params models.AggregationParams) string {
	if s.store == nil || s.ttl <= 0 {
		return ""
	}

	gen, err := s.store.Get(ctx, cacheGenerationKey)
	if err != nil {
		// A missing counter is generation zero; anything else disables caching.
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WithError(err).Debug("analytics: cache unavailable")
			return ""
		}
		gen = "0"
	}

	return fmt.Sprintf("%s:%s:%s|%s|%s|%s", cacheKeyPrefix, gen,
		formatBound(params.StartDate), formatBound(params.EndDate),
		url.QueryEscape(params.Category), url.QueryEscape(params.HRUserID))
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
