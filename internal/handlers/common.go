package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/middleware"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/services"
)

const requestTimeout = 10 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without their details.
func respondError(c *gin.Context, log logger.Logger, err error) {
	status, code := http.StatusInternalServerError, "server_error"
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrLeadNotFound):
		status, code, message = http.StatusNotFound, "not_found", "Lead not found"
	case errors.Is(err, services.ErrUserNotFound):
		status, code, message = http.StatusNotFound, "not_found", "User not found"
	case errors.Is(err, services.ErrForbidden):
		status, code, message = http.StatusForbidden, "forbidden", "Insufficient permissions"
	case errors.Is(err, services.ErrInvalidTransition):
		status, code, message = http.StatusConflict, "invalid_transition", err.Error()
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidLead):
		status, code, message = http.StatusBadRequest, "validation_error", err.Error()
	default:
		if log == nil {
			log = logger.Nop()
		}
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}

	c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Unauthorized",
		})
	}
	return p, ok
}

// parseAggregationParams reads startDate, endDate, category and hrUserId.
// Role user is always scoped to its own leads.
func parseAggregationParams(c *gin.Context, p models.Principal) (models.AggregationParams, error) {
	start, err := analytics.ParseDate(c.Query("startDate"))
	if err != nil {
		return models.AggregationParams{}, err
	}
	end, err := analytics.ParseDate(c.Query("endDate"))
	if err != nil {
		return models.AggregationParams{}, err
	}

	params := models.AggregationParams{
		StartDate: start,
		EndDate:   end,
		Category:  c.Query("category"),
		HRUserID:  c.Query("hrUserId"),
	}
	if p.Role == models.RoleUser {
		params.HRUserID = p.UserID
	}
	return params, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key + ": must be a non-negative integer")
	}
	return n, nil
}
