//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/testutil"
)

func day(d, h int) time.Time {
	return time.Date(2024, 2, d, h, 0, 0, 0, time.UTC)
}

func TestIntegration_PipelineMatchesLocalAggregation(t *testing.T) {
	db := testutil.StartMongo(t)
	ctx := context.Background()

	users := NewUserRepository(db.Database)
	leads := NewLeadRepository(db.Database)
	analyticsRepo := NewAnalyticsRepository(db.Database)

	alice := &models.User{Email: "alice@example.com", Name: "Alice", Role: models.RoleUser, Status: models.UserStatusApproved}
	require.NoError(t, users.Create(ctx, alice))

	for _, l := range []models.Lead{
		{CustomerName: "A", Category: "Loan", Status: models.LeadStatusPending, HRUserID: alice.ID.Hex(), CreatedAt: day(1, 9)},
		{CustomerName: "B", Category: "Loan", Status: models.LeadStatusApproved, HRUserID: alice.ID.Hex(), CreatedAt: day(1, 23)},
		{CustomerName: "C", Category: "Card", Status: "", HRUserID: "ghost", CreatedAt: day(2, 0)},
		{CustomerName: "D", Category: "", Status: models.LeadStatusClosed, CreatedAt: day(3, 12)},
		{CustomerName: "E", Category: "Card", Status: models.LeadStatusCompleted, HRUserID: alice.ID.Hex(), CreatedAt: day(10, 12)},
	} {
		lead := l
		require.NoError(t, leads.Create(ctx, &lead))
	}
	// Imported without a creation date; analytics skip it on both paths.
	_, err := db.Database.Collection("leads").InsertOne(ctx, bson.M{"customerName": "F", "category": "Loan", "status": "pending"})
	require.NoError(t, err)

	cases := []models.AggregationParams{
		{},
		{StartDate: day(1, 12), EndDate: day(3, 12)},
		{Category: "Card"},
		{HRUserID: alice.ID.Hex()},
	}
	for _, params := range cases {
		facets, err := analyticsRepo.Aggregate(ctx, params)
		require.NoError(t, err)

		owners, err := users.FindByIDs(ctx, analytics.UserIDs(*facets))
		require.NoError(t, err)
		server := analytics.FromGroups(*facets, owners)

		raw, err := leads.FindForAnalytics(ctx, params)
		require.NoError(t, err)
		local := analytics.Aggregate(raw, owners, params)

		assert.Equal(t, local.TotalLeads, server.TotalLeads)
		assert.Equal(t, local.DateWiseStats.ToMap(), server.DateWiseStats.ToMap())
		assert.Equal(t, local.StatusDistribution.ToMap(), server.StatusDistribution.ToMap())
		assert.Equal(t, local.CategoryDistribution.ToMap(), server.CategoryDistribution.ToMap())
		assert.Equal(t, local.UserDistribution.ToMap(), server.UserDistribution.ToMap())
	}

	facets, err := analyticsRepo.Aggregate(ctx, models.AggregationParams{})
	require.NoError(t, err)
	assert.Equal(t, 5, facets.Total)
	for _, g := range facets.ByDate {
		assert.NotEmpty(t, g.Key)
	}

	empty, err := analyticsRepo.Aggregate(ctx, models.AggregationParams{Category: "none"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
}

func TestIntegration_LeadListingAndUpdates(t *testing.T) {
	db := testutil.StartMongo(t)
	ctx := context.Background()
	leads := NewLeadRepository(db.Database)

	for i := 1; i <= 12; i++ {
		require.NoError(t, leads.Create(ctx, &models.Lead{
			CustomerName: "Lead",
			Category:     "Loan",
			Status:       models.LeadStatusPending,
			CreatedAt:    day(i, 8),
		}))
	}

	page, total, err := leads.List(ctx, models.LeadFilter{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, page, 5)
	assert.Equal(t, day(7, 8), page[0].CreatedAt.UTC())

	all, _, err := leads.List(ctx, models.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, all, 12)

	id := all[0].ID.Hex()
	require.NoError(t, leads.UpdateStatus(ctx, id, models.LeadStatusApproved))
	require.NoError(t, leads.Assign(ctx, id, "u9"))

	got, err := leads.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusApproved, got.Status)
	assert.Equal(t, "u9", got.HRUserID)

	approved, total, err := leads.List(ctx, models.LeadFilter{Status: models.LeadStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, approved, 1)

	err = leads.UpdateStatus(ctx, "65a000000000000000000000", models.LeadStatusClosed)
	assert.True(t, errors.Is(err, mongo.ErrNoDocuments))
}

func TestIntegration_UserRepository(t *testing.T) {
	db := testutil.StartMongo(t)
	ctx := context.Background()
	users := NewUserRepository(db.Database)

	u := &models.User{Email: "bob@example.com", Name: "Bob", Role: models.RoleUser, Status: models.UserStatusPending}
	require.NoError(t, users.Create(ctx, u))
	assert.Error(t, users.Create(ctx, &models.User{Email: "bob@example.com"}), "email index is unique")

	byEmail, err := users.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	require.NoError(t, users.UpdateStatus(ctx, u.ID.Hex(), models.UserStatusApproved))
	approved, err := users.List(ctx, models.UserFilter{Status: models.UserStatusApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)

	found, err := users.FindByIDs(ctx, []string{u.ID.Hex(), "not-an-id"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
