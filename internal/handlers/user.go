package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

type UserManager interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Approve(ctx context.Context, id string) (*models.User, error)
	Reject(ctx context.Context, id string) (*models.User, error)
}

type UserHandler struct {
	svc UserManager
	log logger.Logger
}

func NewUserHandler(svc UserManager, log logger.Logger) *UserHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UserHandler{svc: svc, log: log}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Security ApiKeyAuth
// @Param role query string false "admin, tl or user"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} models.SuccessResponse{data=[]models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var query struct {
		Role   string `form:"role" binding:"userrole"`
		Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.svc.List(ctx, models.UserFilter{
		Role:   models.Role(query.Role),
		Status: models.UserStatus(query.Status),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: users})
}

// ApproveUser godoc
// @Summary Approve a pending account
// @Tags users
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.SuccessResponse{data=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/approve [patch]
func (h *UserHandler) ApproveUser(c *gin.Context) {
	h.changeStatus(c, h.svc.Approve)
}

// RejectUser godoc
// @Summary Reject an account
// @Tags users
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.SuccessResponse{data=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/reject [patch]
func (h *UserHandler) RejectUser(c *gin.Context) {
	h.changeStatus(c, h.svc.Reject)
}

func (h *UserHandler) changeStatus(c *gin.Context, apply func(context.Context, string) (*models.User, error)) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := apply(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: user})
}
