package analytics

import (
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

// FromGroups builds a result from counts that were already grouped by the
// database, applying the same bucketing rules as Aggregate.
func FromGroups(facets models.AnalyticsFacets, users []models.User) models.AggregationResult {
	var result models.AggregationResult
	if facets.Total == 0 {
		return result
	}

	names := userNames(users)
	result.TotalLeads = facets.Total
	result.StatusDistribution = newStatusDistribution()

	for _, g := range facets.ByDate {
		result.DateWiseStats.Inc(g.Key, g.Count)
	}
	for _, g := range facets.ByStatus {
		if status, ok := BucketStatus(g.Key); ok {
			result.StatusDistribution.Inc(string(status), g.Count)
		}
	}
	for _, g := range facets.ByCategory {
		if g.Key != "" {
			result.CategoryDistribution.Inc(g.Key, g.Count)
		}
	}
	for _, g := range facets.ByUser {
		if g.Key != "" {
			result.UserDistribution.Inc(names.resolve(g.Key), g.Count)
		}
	}

	return result
}

// UserIDs lists the distinct non-empty owner ids in the user facet.
func UserIDs(facets models.AnalyticsFacets) []string {
	ids := make([]string, 0, len(facets.ByUser))
	for _, g := range facets.ByUser {
		if g.Key != "" {
			ids = append(ids, g.Key)
		}
	}
	return ids
}
