package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/config"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/utils"
)

type AuthUserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error
}

type AuthHandler struct {
	cfg      *config.Config
	userRepo AuthUserStore
	log      logger.Logger
}

func NewAuthHandler(cfg *config.Config, userRepo AuthUserStore, log logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		cfg:      cfg,
		userRepo: userRepo,
		log:      log,
	}
}

// Signup godoc
// @Summary Register a new account
// @Description New accounts have role "user" and stay pending until an admin approves them.
// @Tags auth
// @Param request body models.SignupRequest true "Signup"
// @Success 201 {object} models.SuccessResponse{data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if user already exists
	existingUser, err := h.userRepo.FindByEmail(ctx, email)
	if err == nil && existingUser != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "user_exists",
			Message: "User with this email already exists",
		})
		return
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		respondError(c, h.log, err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	user := &models.User{
		Email:    email,
		Password: hashedPassword,
		Name:     utils.SanitizeText(req.Name),
		Phone:    utils.SanitizeText(req.Phone),
		Role:     models.RoleUser,
		Status:   models.UserStatusPending,
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.WithField("user_id", user.ID.Hex()).Info("signup pending approval")
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    user,
		Message: "Account created, waiting for admin approval",
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			invalidCredentials(c)
			return
		}
		respondError(c, h.log, err)
		return
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		invalidCredentials(c)
		return
	}

	switch user.Status {
	case models.UserStatusApproved:
	case models.UserStatusRejected:
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "account_rejected",
			Message: "Your account has been rejected",
		})
		return
	default:
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "account_pending",
			Message: "Your account is waiting for admin approval",
		})
		return
	}

	h.issueTokens(ctx, c, user, http.StatusOK)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Param request body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.cfg.JWTSecret)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid refresh token",
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || user.RefreshToken != req.RefreshToken || user.Status != models.UserStatusApproved {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_token",
			Message: "Refresh token has been revoked",
		})
		return
	}

	h.issueTokens(ctx, c, user, http.StatusOK)
}

// Logout godoc
// @Summary Revoke the current refresh token
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {object} models.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.userRepo.UpdateRefreshToken(ctx, p.UserID, ""); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Logged out successfully"})
}

// GetMe godoc
// @Summary The authenticated user
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {object} models.SuccessResponse{data=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "User not found",
			})
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: user})
}

func (h *AuthHandler) issueTokens(ctx context.Context, c *gin.Context, user *models.User, status int) {
	accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), h.cfg.JWTSecret, h.cfg.JWTAccessExpiration)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), user.Email, string(user.Role), h.cfg.JWTSecret, h.cfg.JWTRefreshExpiration)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.userRepo.UpdateRefreshToken(ctx, user.ID.Hex(), refreshToken); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(status, models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

func invalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "invalid_credentials",
		Message: "Invalid email or password",
	})
}
