package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

func newTestClient(srv *httptest.Server) *Client {
	return New(Session{BaseURL: srv.URL + "/", AccessToken: "tok"}, WithRetry(2, time.Millisecond))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_GetAnalytics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leads/analytics", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-01T00:00:00Z", r.URL.Query().Get("startDate"))
		assert.Equal(t, "Loan", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{"success":true,"source":"server","data":{"totalLeads":2,
			"dateWiseStats":{"2024-01-02":2},
			"statusDistribution":{"pending":1,"approved":1,"completed":0,"rejected":0},
			"categoryDistribution":{"Loan":2},"userDistribution":{"Alice":2}}}`))
	}))
	defer srv.Close()

	result, source, err := newTestClient(srv).GetAnalytics(context.Background(), models.AggregationParams{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:  "Loan",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceServer, source)
	assert.Equal(t, 2, result.TotalLeads)
	assert.Equal(t, []string{"pending", "approved", "completed", "rejected"}, result.StatusDistribution.Keys())
}

func TestClient_GetAnalyticsUnsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv).GetAnalytics(context.Background(), models.AggregationParams{})
	assert.ErrorIs(t, err, ErrUnsuccessful)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "unavailable"})
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "forbidden", Message: "Insufficient permissions"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListUsers(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "forbidden", apiErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_FetchAllLeadsPaginates(t *testing.T) {
	const total = 230
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.Equal(t, FetchPageSize, limit)

		var leads []map[string]interface{}
		for i := (page - 1) * limit; i < page*limit && i < total; i++ {
			created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute).Format(time.RFC3339)
			if i == 7 {
				created = "not a date"
			}
			leads = append(leads, map[string]interface{}{
				"id":           "zzz",
				"customerName": "Lead " + strconv.Itoa(i),
				"status":       "pending",
				"createdAt":    created,
			})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"leads":       leads,
				"total":       total,
				"page":        page,
				"limit":       limit,
				"hasNextPage": page*limit < total,
			},
		})
	}))
	defer srv.Close()

	leads, err := newTestClient(srv).FetchAllLeads(context.Background(), models.AggregationParams{})
	require.NoError(t, err)
	require.Len(t, leads, total)

	assert.Equal(t, "Lead 229", leads[229].CustomerName)
	assert.True(t, leads[7].CreatedAt.IsZero())
	assert.True(t, leads[0].ID.IsZero())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 8, 0, 0, time.UTC), leads[8].CreatedAt.UTC())
}

func TestClient_FetchAllLeadsPropagatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "invalid_token"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchAllLeads(context.Background(), models.AggregationParams{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
