package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

type LeadManager interface {
	Create(ctx context.Context, p models.Principal, req models.CreateLeadRequest) (*models.Lead, error)
	List(ctx context.Context, p models.Principal, filter models.LeadFilter) (*models.LeadListResponse, error)
	Get(ctx context.Context, p models.Principal, id string) (*models.Lead, error)
	ChangeStatus(ctx context.Context, p models.Principal, id string, status models.LeadStatus) (*models.Lead, error)
	Assign(ctx context.Context, p models.Principal, id, hrUserID string) (*models.Lead, error)
}

type LeadHandler struct {
	svc LeadManager
	log logger.Logger
}

func NewLeadHandler(svc LeadManager, log logger.Logger) *LeadHandler {
	return &LeadHandler{svc: svc, log: log}
}

// ListLeads godoc
// @Summary List leads
// @Tags leads
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param startDate query string false "Inclusive lower bound"
// @Param endDate query string false "Inclusive upper bound"
// @Param category query string false "Exact category"
// @Param hrUserId query string false "Owning user id"
// @Param status query string false "Lead status"
// @Param search query string false "Fuzzy customer name or phone"
// @Success 200 {object} models.SuccessResponse{data=models.LeadListResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params, err := parseAggregationParams(c, p)
	if err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	status := models.LeadStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		badRequest(c, "validation_error", "unknown status "+string(status))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.svc.List(ctx, p, models.LeadFilter{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Category:  params.Category,
		HRUserID:  params.HRUserID,
		Status:    status,
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: res})
}

// CreateLead godoc
// @Summary Create a lead
// @Tags leads
// @Security ApiKeyAuth
// @Param request body models.CreateLeadRequest true "Lead"
// @Success 201 {object} models.SuccessResponse{data=models.Lead}
// @Failure 400 {object} models.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req models.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.svc.Create(ctx, p, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: lead})
}

// GetLead godoc
// @Summary Get a lead
// @Tags leads
// @Security ApiKeyAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} models.SuccessResponse{data=models.Lead}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.svc.Get(ctx, p, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: lead})
}

// UpdateStatus godoc
// @Summary Move a lead to another status
// @Tags leads
// @Security ApiKeyAuth
// @Param id path string true "Lead ID"
// @Param request body models.UpdateLeadStatusRequest true "New status"
// @Success 200 {object} models.SuccessResponse{data=models.Lead}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req models.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.svc.ChangeStatus(ctx, p, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: lead})
}

// AssignLead godoc
// @Summary Assign a lead to a user
// @Tags leads
// @Security ApiKeyAuth
// @Param id path string true "Lead ID"
// @Param request body models.AssignLeadRequest true "Assignee"
// @Success 200 {object} models.SuccessResponse{data=models.Lead}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /leads/{id}/assign [patch]
func (h *LeadHandler) AssignLead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req models.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.svc.Assign(ctx, p, c.Param("id"), req.HRUserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: lead})
}
