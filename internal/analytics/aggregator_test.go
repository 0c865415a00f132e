package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func january() models.AggregationParams {
	return models.AggregationParams{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
}

func TestAggregate_Scenario(t *testing.T) {
	leads := []models.Lead{
		{Status: models.LeadStatusPending, Category: "Loan", CreatedAt: day("2024-01-05")},
		{Status: models.LeadStatusCompleted, Category: "Loan", CreatedAt: day("2024-01-05")},
	}

	res := Aggregate(leads, nil, january())

	assert.Equal(t, 2, res.TotalLeads)
	assert.Equal(t, map[string]int{"2024-01-05": 2}, res.DateWiseStats.ToMap())
	assert.Equal(t, map[string]int{"pending": 1, "approved": 0, "completed": 1, "rejected": 0}, res.StatusDistribution.ToMap())
	assert.Equal(t, []string{"pending", "approved", "completed", "rejected"}, res.StatusDistribution.Keys())
	assert.Equal(t, map[string]int{"Loan": 2}, res.CategoryDistribution.ToMap())
}

func TestAggregate_EmptyInput(t *testing.T) {
	res := Aggregate(nil, nil, january())

	assert.Equal(t, 0, res.TotalLeads)
	assert.Equal(t, 0, res.DateWiseStats.Len())
	assert.Equal(t, 0, res.StatusDistribution.Len())
	assert.Equal(t, 0, res.CategoryDistribution.Len())
	assert.Equal(t, 0, res.UserDistribution.Len())
}

func TestAggregate_EmptyCategoryCountsInTotalOnly(t *testing.T) {
	leads := []models.Lead{
		{Status: models.LeadStatusApproved, Category: "", CreatedAt: day("2024-01-10")},
		{Status: models.LeadStatusApproved, Category: "Insurance", CreatedAt: day("2024-01-11")},
	}

	res := Aggregate(leads, nil, january())

	assert.Equal(t, 2, res.TotalLeads)
	assert.Equal(t, map[string]int{"Insurance": 1}, res.CategoryDistribution.ToMap())
}

func TestAggregate_StatusBuckets(t *testing.T) {
	leads := []models.Lead{
		{Status: "", CreatedAt: day("2024-01-02")},
		{Status: models.LeadStatusRejected, CreatedAt: day("2024-01-02")},
		{Status: models.LeadStatusClosed, CreatedAt: day("2024-01-03")},
		{Status: "archived", CreatedAt: day("2024-01-03")},
	}

	res := Aggregate(leads, nil, january())

	assert.Equal(t, 4, res.TotalLeads)
	assert.Equal(t, map[string]int{"pending": 1, "approved": 0, "completed": 0, "rejected": 1}, res.StatusDistribution.ToMap())
	assert.Less(t, res.StatusDistribution.Sum(), res.TotalLeads)
}

func TestAggregate_DateRange(t *testing.T) {
	leads := []models.Lead{
		{Status: models.LeadStatusPending, CreatedAt: day("2023-12-31")},
		{Status: models.LeadStatusPending, CreatedAt: day("2024-01-01")},
		{Status: models.LeadStatusPending, CreatedAt: day("2024-01-31")},
		// Bounds are full timestamps: a date-only end bound is midnight.
		{Status: models.LeadStatusPending, CreatedAt: day("2024-01-31").Add(9 * time.Hour)},
		{Status: models.LeadStatusPending, CreatedAt: time.Time{}},
	}

	res := Aggregate(leads, nil, january())

	assert.Equal(t, 2, res.TotalLeads)
	assert.Equal(t, map[string]int{"2024-01-01": 1, "2024-01-31": 1}, res.DateWiseStats.ToMap())
}

func TestAggregate_OpenBounds(t *testing.T) {
	leads := []models.Lead{
		{Status: models.LeadStatusPending, CreatedAt: day("2020-06-01")},
		{Status: models.LeadStatusPending, CreatedAt: day("2030-06-01")},
		{Status: models.LeadStatusPending},
	}

	res := Aggregate(leads, nil, models.AggregationParams{})

	assert.Equal(t, 2, res.TotalLeads)
}

func TestAggregate_CategoryAndUserFilters(t *testing.T) {
	leads := []models.Lead{
		{Status: models.LeadStatusPending, Category: "Loan", HRUserID: "u1", CreatedAt: day("2024-01-05")},
		{Status: models.LeadStatusPending, Category: "loan", HRUserID: "u1", CreatedAt: day("2024-01-05")},
		{Status: models.LeadStatusPending, Category: "Loan", HRUserID: "u2", CreatedAt: day("2024-01-05")},
	}

	params := january()
	params.Category = "Loan"
	params.HRUserID = "u1"

	res := Aggregate(leads, nil, params)

	assert.Equal(t, 1, res.TotalLeads)
}

func TestAggregate_UserDistributionNames(t *testing.T) {
	named := models.User{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com"}
	emailOnly := models.User{ID: primitive.NewObjectID(), Email: "ravi@example.com"}
	anonymous := models.User{ID: primitive.NewObjectID()}

	leads := []models.Lead{
		{HRUserID: named.ID.Hex(), CreatedAt: day("2024-01-05")},
		{HRUserID: named.ID.Hex(), CreatedAt: day("2024-01-06")},
		{HRUserID: emailOnly.ID.Hex(), CreatedAt: day("2024-01-06")},
		{HRUserID: anonymous.ID.Hex(), CreatedAt: day("2024-01-06")},
		{HRUserID: "ghost", CreatedAt: day("2024-01-07")},
		{HRUserID: "", CreatedAt: day("2024-01-07")},
	}

	res := Aggregate(leads, []models.User{named, emailOnly, anonymous}, january())

	assert.Equal(t, 6, res.TotalLeads)
	want := map[string]int{"Asha": 2, "ravi@example.com": 1, "User ghost": 1}
	want["User "+anonymous.ID.Hex()] = 1
	assert.Equal(t, want, res.UserDistribution.ToMap())
}

func TestAggregate_Properties(t *testing.T) {
	statuses := []models.LeadStatus{"pending", "approved", "completed", "rejected"}
	categories := []string{"Loan", "Insurance", ""}

	var leads []models.Lead
	for i := 0; i < 120; i++ {
		leads = append(leads, models.Lead{
			Status:    statuses[i%len(statuses)],
			Category:  categories[i%len(categories)],
			HRUserID:  []string{"a", "b"}[i%2],
			CreatedAt: day("2024-01-01").Add(time.Duration(i) * 7 * time.Hour),
		})
	}

	params := january()
	first := Aggregate(leads, nil, params)
	second := Aggregate(leads, nil, params)

	require.Greater(t, first.TotalLeads, 0)
	assert.Equal(t, first.TotalLeads, first.DateWiseStats.Sum())
	assert.Equal(t, first.TotalLeads, first.StatusDistribution.Sum())
	assert.Equal(t, first, second)
}

func TestBucketStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   models.LeadStatus
		wantOK bool
	}{
		{"", models.LeadStatusPending, true},
		{"pending", models.LeadStatusPending, true},
		{"approved", models.LeadStatusApproved, true},
		{"completed", models.LeadStatusCompleted, true},
		{"rejected", models.LeadStatusRejected, true},
		{"closed", "", false},
		{"PENDING", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := BucketStatus(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-01-05T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("05/01/2024")
	assert.Error(t, err)
}
