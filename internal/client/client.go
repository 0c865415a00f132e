// Package client talks to the lead API and assembles dashboard snapshots,
// falling back to local aggregation and finally to mock data when the
// server cannot answer.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

// ErrUnsuccessful is returned when the server answers 2xx with success:false.
var ErrUnsuccessful = errors.New("server reported failure")

// FetchPageSize is the page size used by FetchAllLeads.
const FetchPageSize = 100

// Session carries the caller's identity. Every request is made on its behalf.
type Session struct {
	BaseURL     string
	AccessToken string
	UserID      string
	Role        models.Role
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

type Client struct {
	session    Session
	httpClient *http.Client
	maxRetries uint64
	initial    time.Duration
	log        logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRetry sets how many times a transient failure is retried and the
// first backoff interval.
func WithRetry(maxRetries uint64, initial time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initial = initial
	}
}

func New(session Session, opts ...Option) *Client {
	c := &Client{
		session:    session,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
		initial:    200 * time.Millisecond,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session.BaseURL = strings.TrimRight(c.session.BaseURL, "/")
	return c
}

func (c *Client) Session() Session {
	return c.session
}

// GetAnalytics calls GET /api/leads/analytics.
func (c *Client) GetAnalytics(ctx context.Context, params models.AggregationParams) (*models.AggregationResult, models.AnalyticsSource, error) {
	var resp models.AnalyticsResponse
	if err := c.get(ctx, "/api/leads/analytics", paramsQuery(params), &resp); err != nil {
		return nil, "", err
	}
	if !resp.Success {
		return nil, "", ErrUnsuccessful
	}
	return &resp.Data, resp.Source, nil
}

// ListLeads fetches one page of leads.
func (c *Client) ListLeads(ctx context.Context, filter models.LeadFilter) (*models.LeadListResponse, error) {
	q := paramsQuery(models.AggregationParams{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Category:  filter.Category,
		HRUserID:  filter.HRUserID,
	})
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Leads       []wireLead `json:"leads"`
			Total       int        `json:"total"`
			Page        int        `json:"page"`
			Limit       int        `json:"limit"`
			HasNextPage bool       `json:"hasNextPage"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/api/leads", q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, ErrUnsuccessful
	}

	out := &models.LeadListResponse{
		Leads:       make([]*models.Lead, 0, len(resp.Data.Leads)),
		Total:       resp.Data.Total,
		Page:        resp.Data.Page,
		Limit:       resp.Data.Limit,
		HasNextPage: resp.Data.HasNextPage,
	}
	for _, wl := range resp.Data.Leads {
		lead := wl.toLead()
		out.Leads = append(out.Leads, &lead)
	}
	return out, nil
}

// FetchAllLeads walks every page of GET /api/leads for params.
func (c *Client) FetchAllLeads(ctx context.Context, params models.AggregationParams) ([]models.Lead, error) {
	var leads []models.Lead
	for page := 1; ; page++ {
		res, err := c.ListLeads(ctx, models.LeadFilter{
			StartDate: params.StartDate,
			EndDate:   params.EndDate,
			Category:  params.Category,
			HRUserID:  params.HRUserID,
			Page:      page,
			Limit:     FetchPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch leads page %d: %w", page, err)
		}
		for _, l := range res.Leads {
			leads = append(leads, *l)
		}
		if !res.HasNextPage || len(res.Leads) == 0 {
			return leads, nil
		}
	}
}

// ListUsers calls GET /api/users. Only admins and team leaders may list.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp struct {
		Success bool          `json:"success"`
		Data    []models.User `json:"data"`
	}
	if err := c.get(ctx, "/api/users", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, ErrUnsuccessful
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := c.session.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.initial
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, c.maxRetries), ctx)

	attempt := 0
	op := func() error {
		attempt++
		err := c.do(ctx, target, out)
		if err != nil && attempt > 1 {
			c.log.WithFields(logger.Fields{"url": path, "attempt": attempt}).WithError(err).Debug("request retry failed")
		}
		return err
	}
	return backoff.Retry(op, policy)
}

// do performs one attempt. Errors that retrying cannot fix are wrapped with
// backoff.Permanent.
func (c *Client) do(ctx context.Context, target string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope models.ErrorResponse
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Code = envelope.Error
			apiErr.Message = envelope.Message
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode %s: %w", target, err))
	}
	return nil
}

func paramsQuery(params models.AggregationParams) url.Values {
	q := url.Values{}
	if !params.StartDate.IsZero() {
		q.Set("startDate", params.StartDate.UTC().Format(time.RFC3339))
	}
	if !params.EndDate.IsZero() {
		q.Set("endDate", params.EndDate.UTC().Format(time.RFC3339))
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.HRUserID != "" {
		q.Set("hrUserId", params.HRUserID)
	}
	return q
}

// wireLead decodes leads leniently: a malformed id or timestamp yields the
// zero value instead of failing the whole page.
type wireLead struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	HRUserID      string `json:"hrUserId"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func (w wireLead) toLead() models.Lead {
	id, _ := primitive.ObjectIDFromHex(w.ID)
	return models.Lead{
		ID:            id,
		CustomerName:  w.CustomerName,
		CustomerPhone: w.CustomerPhone,
		Category:      w.Category,
		Status:        models.LeadStatus(w.Status),
		HRUserID:      w.HRUserID,
		Notes:         w.Notes,
		CreatedAt:     lenientTime(w.CreatedAt),
		UpdatedAt:     lenientTime(w.UpdatedAt),
	}
}

func lenientTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	t, _ := analytics.ParseDate(s)
	return t
}
