package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/utils"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	UpdateStatus(ctx context.Context, userID string, status models.UserStatus) error
}

type UserService struct {
	repo UserRepository
	log  logger.Logger
}

func NewUserService(repo UserRepository, log logger.Logger) *UserService {
	if log == nil {
		log = logger.Nop()
	}
	return &UserService{repo: repo, log: log}
}

func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Approve(ctx context.Context, id string) (*models.User, error) {
	return s.setStatus(ctx, id, models.UserStatusApproved)
}

func (s *UserService) Reject(ctx context.Context, id string) (*models.User, error) {
	return s.setStatus(ctx, id, models.UserStatusRejected)
}

func (s *UserService) setStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user status: %w", err)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.log.WithFields(logger.Fields{"user_id": id, "status": status}).Info("user status changed")
	return user, nil
}

// SeedAdmin creates an approved admin account unless one already exists
// under email. It reports whether a user was created.
func (s *UserService) SeedAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     models.RoleAdmin,
		Status:   models.UserStatusApproved,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	s.log.WithField("email", email).Info("admin account seeded")
	return true, nil
}
