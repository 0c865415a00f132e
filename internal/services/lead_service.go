package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/metrics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/utils"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidLead       = errors.New("invalid lead")
	ErrForbidden         = errors.New("forbidden")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*limit well inside int range.
	MaxPage = 1_000_000
)

// transitions lists the statuses reachable from each status.
var transitions = map[models.LeadStatus][]models.LeadStatus{
	models.LeadStatusPending:   {models.LeadStatusApproved, models.LeadStatusRejected, models.LeadStatusClosed},
	models.LeadStatusApproved:  {models.LeadStatusCompleted, models.LeadStatusRejected, models.LeadStatusClosed},
	models.LeadStatusCompleted: {models.LeadStatusClosed},
	models.LeadStatusRejected:  {models.LeadStatusClosed},
}

func CanTransition(from, to models.LeadStatus) bool {
	if from == "" {
		from = models.LeadStatusPending
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindByID(ctx context.Context, id string) (*models.Lead, error)
	List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, int, error)
	UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error
	Assign(ctx context.Context, id, hrUserID string) error
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CacheInvalidator is implemented by *AnalyticsService.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type LeadService struct {
	repo        LeadRepository
	users       UserFinder
	invalidator CacheInvalidator
	log         logger.Logger
}

func NewLeadService(repo LeadRepository, users UserFinder, invalidator CacheInvalidator, log logger.Logger) *LeadService {
	if log == nil {
		log = logger.Nop()
	}
	return &LeadService{
		repo:        repo,
		users:       users,
		invalidator: invalidator,
		log:         log,
	}
}

func (s *LeadService) Create(ctx context.Context, p models.Principal, req models.CreateLeadRequest) (*models.Lead, error) {
	lead := &models.Lead{
		CustomerName:  utils.SanitizeText(req.CustomerName),
		CustomerPhone: utils.SanitizeText(req.CustomerPhone),
		Category:      utils.SanitizeText(req.Category),
		Notes:         utils.SanitizeText(req.Notes),
		Status:        models.LeadStatusPending,
		HRUserID:      req.HRUserID,
	}
	if lead.CustomerName == "" || lead.Category == "" {
		return nil, fmt.Errorf("%w: customer name and category are required", ErrInvalidLead)
	}
	if p.Role == models.RoleUser {
		lead.HRUserID = p.UserID
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	s.invalidate(ctx)

	s.log.WithFields(logger.Fields{
		"lead_id":  lead.ID.Hex(),
		"category": lead.Category,
		"owner":    lead.HRUserID,
	}).Info("lead created")
	return lead, nil
}

// List pages through the leads visible to p. With a search term the
// candidates are ranked by fuzzy match before paging.
func (s *LeadService) List(ctx context.Context, p models.Principal, filter models.LeadFilter) (*models.LeadListResponse, error) {
	if p.Role == models.RoleUser {
		filter.HRUserID = p.UserID
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Page > MaxPage {
		filter.Page = MaxPage
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	if filter.Search == "" {
		leads, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list leads: %w", err)
		}
		return page(leads, total, filter), nil
	}

	all := filter
	all.Page, all.Limit = 0, 0
	candidates, _, err := s.repo.List(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}

	ranked := SearchLeads(filter.Search, candidates)
	start := (filter.Page - 1) * filter.Limit
	if start > len(ranked) {
		start = len(ranked)
	}
	end := start + filter.Limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return page(ranked[start:end], len(ranked), filter), nil
}

func page(leads []*models.Lead, total int, filter models.LeadFilter) *models.LeadListResponse {
	if leads == nil {
		leads = []*models.Lead{}
	}
	return &models.LeadListResponse{
		Leads:       leads,
		Total:       total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		HasNextPage: filter.Page*filter.Limit < total,
	}
}

type leadSource []*models.Lead

func (l leadSource) String(i int) string { return l[i].CustomerName + " " + l[i].CustomerPhone }
func (l leadSource) Len() int            { return len(l) }

// SearchLeads returns the leads whose name or phone fuzzily matches term,
// best match first.
func SearchLeads(term string, leads []*models.Lead) []*models.Lead {
	matches := fuzzy.FindFrom(term, leadSource(leads))
	out := make([]*models.Lead, 0, len(matches))
	for _, m := range matches {
		out = append(out, leads[m.Index])
	}
	return out
}

func (s *LeadService) Get(ctx context.Context, p models.Principal, id string) (*models.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	if p.Role == models.RoleUser && lead.HRUserID != p.UserID {
		return nil, ErrForbidden
	}
	return lead, nil
}

func (s *LeadService) ChangeStatus(ctx context.Context, p models.Principal, id string, status models.LeadStatus) (*models.Lead, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	lead, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	from := lead.Status
	if from == "" {
		from = models.LeadStatusPending
	}
	if !CanTransition(from, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead status: %w", err)
	}
	metrics.RecordStatusChange(string(from), string(status))
	s.invalidate(ctx)

	lead.Status = status
	return lead, nil
}

// Assign hands a lead to another user. Only admins and team leaders may assign.
func (s *LeadService) Assign(ctx context.Context, p models.Principal, id, hrUserID string) (*models.Lead, error) {
	if p.Role != models.RoleAdmin && p.Role != models.RoleTeamLeader {
		return nil, ErrForbidden
	}

	lead, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if s.users != nil {
		if _, err := s.users.FindByID(ctx, hrUserID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("find assignee: %w", err)
		}
	}

	if err := s.repo.Assign(ctx, id, hrUserID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("assign lead: %w", err)
	}
	s.invalidate(ctx)

	lead.HRUserID = hrUserID
	return lead, nil
}

func (s *LeadService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}
