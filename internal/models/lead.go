package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusApproved  LeadStatus = "approved"
	LeadStatusCompleted LeadStatus = "completed"
	LeadStatusRejected  LeadStatus = "rejected"
	LeadStatusClosed    LeadStatus = "closed"
)

// TrackedStatuses are the statuses that get a bucket in analytics, in display order.
var TrackedStatuses = []LeadStatus{
	LeadStatusPending,
	LeadStatusApproved,
	LeadStatusCompleted,
	LeadStatusRejected,
}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusPending, LeadStatusApproved, LeadStatusCompleted, LeadStatusRejected, LeadStatusClosed:
		return true
	}
	return false
}

type Lead struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerName  string             `json:"customerName" bson:"customerName"`
	CustomerPhone string             `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`
	Category      string             `json:"category" bson:"category"`
	Status        LeadStatus         `json:"status" bson:"status"`
	HRUserID      string             `json:"hrUserId" bson:"hrUserId"` // owning user
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateLeadRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerPhone string `json:"customerPhone"`
	Category      string `json:"category" binding:"required"`
	HRUserID      string `json:"hrUserId"`
	Notes         string `json:"notes"`
}

type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status" binding:"required,leadstatus"`
}

type AssignLeadRequest struct {
	HRUserID string `json:"hrUserId" binding:"required"`
}

// LeadFilter narrows a lead listing. Zero values mean "no constraint".
type LeadFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Category  string
	HRUserID  string
	Status    LeadStatus
	Search    string
	Page      int
	Limit     int
}

type LeadListResponse struct {
	Leads       []*Lead `json:"leads"`
	Total       int     `json:"total"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	HasNextPage bool    `json:"hasNextPage"`
}
