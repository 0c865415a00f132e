package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/cache"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

var errBoom = errors.New("boom")

type memCache struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	sets    int
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return "", errBoom
	}
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	v, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = string(b)
	c.sets++
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if v, ok := c.data[key]; ok {
		_ = json.Unmarshal([]byte(v), &n)
	}
	n++
	b, _ := json.Marshal(n)
	c.data[key] = string(b)
	return n, nil
}

// leadStore is an in-memory lead repository that also serves the analytics
// pipeline by grouping its own contents.
type leadStore struct {
	mu          sync.Mutex
	leads       []*models.Lead
	failFind    bool
	failPipe    bool
	pipeCalls   int
	rawCalls    int
	assignCalls int
}

func (s *leadStore) Create(_ context.Context, lead *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	cp := *lead
	s.leads = append(s.leads, &cp)
	return nil
}

func (s *leadStore) FindByID(_ context.Context, id string) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.ID.Hex() == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *leadStore) matching(filter models.LeadFilter) []*models.Lead {
	params := models.AggregationParams{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Category:  filter.Category,
		HRUserID:  filter.HRUserID,
	}
	var out []*models.Lead
	for _, l := range s.leads {
		if !analytics.Matches(*l, params) {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *leadStore) List(_ context.Context, filter models.LeadFilter) ([]*models.Lead, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFind {
		return nil, 0, errBoom
	}
	all := s.matching(filter)
	if filter.Limit <= 0 {
		return all, len(all), nil
	}
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (s *leadStore) FindForAnalytics(_ context.Context, params models.AggregationParams) ([]models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawCalls++
	if s.failFind {
		return nil, errBoom
	}
	return s.filtered(params), nil
}

func (s *leadStore) filtered(params models.AggregationParams) []models.Lead {
	var out []models.Lead
	for _, l := range s.leads {
		out = append(out, *l)
	}
	return analytics.Filter(out, params)
}

func (s *leadStore) Aggregate(_ context.Context, params models.AggregationParams) (*models.AnalyticsFacets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeCalls++
	if s.failPipe {
		return nil, errBoom
	}
	leads := s.filtered(params)

	count := func(key func(models.Lead) string) []models.GroupCount {
		idx := map[string]int{}
		var out []models.GroupCount
		for _, l := range leads {
			k := key(l)
			if i, ok := idx[k]; ok {
				out[i].Count++
				continue
			}
			idx[k] = len(out)
			out = append(out, models.GroupCount{Key: k, Count: 1})
		}
		return out
	}

	return &models.AnalyticsFacets{
		Total:      len(leads),
		ByDate:     count(func(l models.Lead) string { return l.CreatedAt.UTC().Format(analytics.DateLayout) }),
		ByStatus:   count(func(l models.Lead) string { return string(l.Status) }),
		ByCategory: count(func(l models.Lead) string { return l.Category }),
		ByUser:     count(func(l models.Lead) string { return l.HRUserID }),
	}, nil
}

func (s *leadStore) UpdateStatus(_ context.Context, id string, status models.LeadStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.ID.Hex() == id {
			l.Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (s *leadStore) Assign(_ context.Context, id, hrUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignCalls++
	for _, l := range s.leads {
		if l.ID.Hex() == id {
			l.HRUserID = hrUserID
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type userStore struct {
	mu    sync.Mutex
	users []*models.User
	fail  bool
}

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	s.users = append(s.users, &cp)
	return nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *userStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *userStore) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errBoom
	}
	var out []models.User
	for _, id := range ids {
		for _, u := range s.users {
			if u.ID.Hex() == id {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (s *userStore) List(_ context.Context, filter models.UserFilter) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *userStore) UpdateStatus(_ context.Context, id string, status models.UserStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			u.Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }
