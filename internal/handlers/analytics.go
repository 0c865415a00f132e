package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

type AnalyticsProvider interface {
	GetAnalytics(ctx context.Context, params models.AggregationParams) (*models.AggregationResult, models.AnalyticsSource, error)
}

type AnalyticsHandler struct {
	svc AnalyticsProvider
	log logger.Logger
}

func NewAnalyticsHandler(svc AnalyticsProvider, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// GetAnalytics godoc
// @Summary Lead analytics for the dashboard
// @Description Total leads plus date-wise, status, category and per-user distributions. Users with role "user" only see their own leads.
// @Tags analytics
// @Security ApiKeyAuth
// @Param startDate query string false "Inclusive lower bound, YYYY-MM-DD or RFC3339"
// @Param endDate query string false "Inclusive upper bound, YYYY-MM-DD or RFC3339"
// @Param category query string false "Exact category"
// @Param hrUserId query string false "Owning user id"
// @Success 200 {object} models.AnalyticsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	result, source, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.AnalyticsResponse{
		Success: true,
		Data:    *result,
		Source:  source,
	})
}

// GetCharts godoc
// @Summary Chart-ready analytics
// @Description The analytics distributions mapped to {name, value, color} items. stableColors=true colors each name by hash instead of position.
// @Tags analytics
// @Security ApiKeyAuth
// @Param startDate query string false "Inclusive lower bound"
// @Param endDate query string false "Inclusive upper bound"
// @Param category query string false "Exact category"
// @Param hrUserId query string false "Owning user id"
// @Param stableColors query bool false "Hash-based colors"
// @Success 200 {object} models.ChartsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads/analytics/charts [get]
func (h *AnalyticsHandler) GetCharts(c *gin.Context) {
	stable, err := strconv.ParseBool(c.DefaultQuery("stableColors", "false"))
	if err != nil {
		badRequest(c, "validation_error", "stableColors must be a boolean")
		return
	}

	result, source, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.ChartsResponse{
		Success: true,
		Data:    analytics.Charts(*result, analytics.ChartOptions{StableColors: stable}),
		Source:  source,
	})
}

func (h *AnalyticsHandler) load(c *gin.Context) (*models.AggregationResult, models.AnalyticsSource, bool) {
	p, ok := principal(c)
	if !ok {
		return nil, "", false
	}

	params, err := parseAggregationParams(c, p)
	if err != nil {
		badRequest(c, "validation_error", err.Error())
		return nil, "", false
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, source, err := h.svc.GetAnalytics(ctx, params)
	if err != nil {
		respondError(c, h.log, err)
		return nil, "", false
	}
	return result, source, true
}
