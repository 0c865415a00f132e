// Package analytics turns lead records into dashboard counts: date-wise,
// per status, per category and per owning user. Everything here is pure.
package analytics

import (
	"fmt"
	"time"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

// DateLayout is the key format of dateWiseStats.
const DateLayout = "2006-01-02"

// Aggregate filters leads by params and groups the survivors. users is only
// used to resolve display names for userDistribution.
//
// totalLeads counts every lead that passed the filters, including leads whose
// status has no bucket, so the status buckets can sum to less than the total.
func Aggregate(leads []models.Lead, users []models.User, params models.AggregationParams) models.AggregationResult {
	filtered := Filter(leads, params)

	var result models.AggregationResult
	if len(filtered) == 0 {
		return result
	}

	names := userNames(users)
	result.TotalLeads = len(filtered)
	result.StatusDistribution = newStatusDistribution()

	for _, lead := range filtered {
		result.DateWiseStats.Inc(lead.CreatedAt.UTC().Format(DateLayout), 1)

		if status, ok := BucketStatus(string(lead.Status)); ok {
			result.StatusDistribution.Inc(string(status), 1)
		}

		if lead.Category != "" {
			result.CategoryDistribution.Inc(lead.Category, 1)
		}

		if lead.HRUserID != "" {
			result.UserDistribution.Inc(names.resolve(lead.HRUserID), 1)
		}
	}

	return result
}

// Filter keeps the leads matching params. Bounds are inclusive and compared
// as full timestamps; a zero bound is open. Leads without a creation time
// never match.
func Filter(leads []models.Lead, params models.AggregationParams) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if Matches(lead, params) {
			out = append(out, lead)
		}
	}
	return out
}

func Matches(lead models.Lead, params models.AggregationParams) bool {
	if lead.CreatedAt.IsZero() {
		return false
	}
	if !params.StartDate.IsZero() && lead.CreatedAt.Before(params.StartDate) {
		return false
	}
	if !params.EndDate.IsZero() && lead.CreatedAt.After(params.EndDate) {
		return false
	}
	if params.Category != "" && lead.Category != params.Category {
		return false
	}
	if params.HRUserID != "" && lead.HRUserID != params.HRUserID {
		return false
	}
	return true
}

// BucketStatus maps a raw status to its analytics bucket. Empty means pending;
// statuses outside TrackedStatuses have no bucket.
func BucketStatus(raw string) (models.LeadStatus, bool) {
	if raw == "" {
		return models.LeadStatusPending, true
	}
	for _, s := range models.TrackedStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

func newStatusDistribution() models.Distribution {
	keys := make([]string, len(models.TrackedStatuses))
	for i, s := range models.TrackedStatuses {
		keys[i] = string(s)
	}
	return models.NewDistribution(keys...)
}

type nameIndex map[string]string

func userNames(users []models.User) nameIndex {
	idx := make(nameIndex, len(users))
	for _, u := range users {
		id := u.ID.Hex()
		switch {
		case u.Name != "":
			idx[id] = u.Name
		case u.Email != "":
			idx[id] = u.Email
		}
	}
	return idx
}

func (n nameIndex) resolve(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return fallbackName(id)
}

// DisplayName resolves a user the way userDistribution keys are built.
func DisplayName(u models.User) string {
	return userNames([]models.User{u}).resolve(u.ID.Hex())
}

func fallbackName(id string) string {
	return fmt.Sprintf("User %s", id)
}

// ParseDate accepts YYYY-MM-DD (midnight UTC) or RFC3339. Empty input is the
// zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}
