package services

import (
	"context"
	"time"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/metrics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

type AnalyticsWarmer interface {
	GetAnalytics(ctx context.Context, params models.AggregationParams) (*models.AggregationResult, models.AnalyticsSource, error)
}

// WarmWindows returns the parameter sets precomputed by the warm worker:
// the unfiltered totals and the trailing 30 UTC days, from midnight 29 days
// ago through the last nanosecond of today.
func WarmWindows(now time.Time) []models.AggregationParams {
	today := now.UTC().Truncate(24 * time.Hour)
	return []models.AggregationParams{
		{},
		{StartDate: today.AddDate(0, 0, -29), EndDate: today.Add(24*time.Hour - time.Nanosecond)},
	}
}

// StartCacheWarmWorker starts a background goroutine that periodically
// recomputes the common analytics windows so dashboard loads hit the cache.
// The worker stops when ctx is done.
func StartCacheWarmWorker(ctx context.Context, interval time.Duration, svc AnalyticsWarmer, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info("cache warm worker: shutting down")
				return
			case <-ticker.C:
				WarmOnce(ctx, svc, time.Now(), log)
			}
		}
	}()
}

// WarmOnce runs a single warm pass and reports whether every window succeeded.
func WarmOnce(ctx context.Context, svc AnalyticsWarmer, now time.Time, log logger.Logger) bool {
	ok := true
	for _, params := range WarmWindows(now) {
		if _, _, err := svc.GetAnalytics(ctx, params); err != nil {
			log.WithError(err).Warn("cache warm worker: failed to compute analytics")
			ok = false
		}
	}
	metrics.RecordCacheWarm(ok)
	return ok
}
