package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

// ErrStaleResponse is returned by Refresh when a newer refresh was started
// before this one finished. Its result is discarded.
var ErrStaleResponse = errors.New("stale dashboard response")

// DataSource is satisfied by *Client.
type DataSource interface {
	GetAnalytics(ctx context.Context, params models.AggregationParams) (*models.AggregationResult, models.AnalyticsSource, error)
	FetchAllLeads(ctx context.Context, params models.AggregationParams) ([]models.Lead, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Snapshot is one committed dashboard state.
type Snapshot struct {
	Result    models.AggregationResult
	Source    models.AnalyticsSource
	Synthetic bool
	Params    models.AggregationParams
	FetchedAt time.Time
	Seq       uint64
}

func (s *Snapshot) Charts(opts analytics.ChartOptions) models.ChartCollection {
	return analytics.Charts(s.Result, opts)
}

type Dashboard struct {
	src  DataSource
	mock *analytics.MockGenerator
	log  logger.Logger
	now  func() time.Time

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current *Snapshot
}

type DashboardOption func(*Dashboard)

func WithMockGenerator(g *analytics.MockGenerator) DashboardOption {
	return func(d *Dashboard) { d.mock = g }
}

func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

func NewDashboard(src DataSource, log logger.Logger, opts ...DashboardOption) *Dashboard {
	if log == nil {
		log = logger.Nop()
	}
	d := &Dashboard{
		src: src,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.mock == nil {
		d.mock = analytics.NewMockGenerator(d.now().UnixNano(), d.now)
	}
	return d
}

// Refresh loads analytics for params. Starting a refresh cancels the one in
// flight; only the most recently started refresh may commit its snapshot.
// Stage failures are logged and degrade to the next source, so Refresh only
// fails with ErrStaleResponse or the caller's context error.
func (d *Dashboard) Refresh(ctx context.Context, params models.AggregationParams) (*Snapshot, error) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	if d.cancel != nil {
		d.cancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	snap := d.load(rctx, params)

	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		return nil, ErrStaleResponse
	}
	d.cancel = nil
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, context.Canceled
	}

	snap.Seq = seq
	d.current = snap
	return snap, nil
}

// Current returns the last committed snapshot, or nil before the first
// successful refresh.
func (d *Dashboard) Current() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// load runs server analytics, then local aggregation over raw leads, then the
// mock generator. It returns nil if ctx is cancelled along the way.
func (d *Dashboard) load(ctx context.Context, params models.AggregationParams) *Snapshot {
	snap := &Snapshot{Params: params}

	result, _, err := d.src.GetAnalytics(ctx, params)
	if err == nil {
		snap.Result = *result
		snap.Source = models.SourceServer
		snap.FetchedAt = d.now()
		return snap
	}
	if ctx.Err() != nil {
		return nil
	}
	d.log.WithError(err).Warn("dashboard: server analytics unavailable, aggregating locally")

	leads, err := d.src.FetchAllLeads(ctx, params)
	if ctx.Err() != nil {
		return nil
	}
	switch {
	case err != nil:
		d.log.WithError(err).Warn("dashboard: lead fetch failed, using mock data")
	case len(leads) == 0:
		d.log.Info("dashboard: no leads returned, using mock data")
	default:
		users, uerr := d.src.ListUsers(ctx)
		if uerr != nil {
			d.log.WithError(uerr).Debug("dashboard: user list unavailable, names fall back to ids")
		}
		snap.Result = analytics.Aggregate(leads, users, params)
		snap.Source = models.SourceLocal
		snap.FetchedAt = d.now()
		return snap
	}

	snap.Result = d.mock.Generate(params)
	snap.Source = models.SourceMock
	snap.Synthetic = true
	snap.FetchedAt = d.now()
	return snap
}
