package analytics

import (
	"math/rand"
	"sync"
	"time"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

const mockDays = 30

// MockCategories and MockUsers label the synthetic buckets.
var (
	MockCategories = []string{"Loan", "Credit Card", "Insurance", "Savings Account", "Demat Account"}
	MockUsers      = []string{"User 1", "User 2", "User 3", "User 4", "User 5"}
)

// MockGenerator fabricates plausible analytics for when no real data can be
// obtained. The output has no meaning beyond keeping a dashboard populated.
// It is safe for concurrent use.
type MockGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewMockGenerator uses seed for reproducible output; now may be nil.
func NewMockGenerator(seed int64, now func() time.Time) *MockGenerator {
	if now == nil {
		now = time.Now
	}
	return &MockGenerator{
		rnd: rand.New(rand.NewSource(seed)),
		now: now,
	}
}

// Generate returns mockDays of data ending at params.EndDate (today if unset).
// totalLeads equals the sum of every distribution.
func (g *MockGenerator) Generate(params models.AggregationParams) models.AggregationResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	end := params.EndDate
	if end.IsZero() {
		end = g.now()
	}
	end = end.UTC()
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(mockDays - 1))

	var result models.AggregationResult
	for i := 0; i < mockDays; i++ {
		n := 1 + g.rnd.Intn(10)
		result.DateWiseStats.Inc(start.AddDate(0, 0, i).Format(DateLayout), n)
		result.TotalLeads += n
	}

	result.StatusDistribution = newStatusDistribution()
	statuses := make([]string, len(models.TrackedStatuses))
	for i, s := range models.TrackedStatuses {
		statuses[i] = string(s)
	}
	g.spread(&result.StatusDistribution, statuses, result.TotalLeads)

	categories := MockCategories
	if params.Category != "" {
		categories = []string{params.Category}
	}
	g.spread(&result.CategoryDistribution, categories, result.TotalLeads)

	users := MockUsers
	if params.HRUserID != "" {
		users = []string{fallbackName(params.HRUserID)}
	}
	g.spread(&result.UserDistribution, users, result.TotalLeads)

	return result
}

// spread splits total across keys, giving each key at least one when total allows.
func (g *MockGenerator) spread(d *models.Distribution, keys []string, total int) {
	remaining := total
	for _, k := range keys {
		if remaining == 0 {
			break
		}
		d.Inc(k, 1)
		remaining--
	}
	for remaining > 0 {
		d.Inc(keys[g.rnd.Intn(len(keys))], 1)
		remaining--
	}
}
