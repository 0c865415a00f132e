package repository

import (
	"context"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AnalyticsRepository struct {
	leadCollection *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{
		leadCollection: db.Collection("leads"),
	}
}

type facetResult struct {
	Total []struct {
		N int `bson:"n"`
	} `bson:"total"`
	ByDate     []models.GroupCount `bson:"byDate"`
	ByStatus   []models.GroupCount `bson:"byStatus"`
	ByCategory []models.GroupCount `bson:"byCategory"`
	ByUser     []models.GroupCount `bson:"byUser"`
}

// Aggregate groups the matching leads by day, status, category and owner in
// a single round trip.
func (r *AnalyticsRepository) Aggregate(ctx context.Context, params models.AggregationParams) (*models.AnalyticsFacets, error) {
	cursor, err := r.leadCollection.Aggregate(ctx, AnalyticsPipeline(params))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []facetResult
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	facets := &models.AnalyticsFacets{}
	if len(results) == 0 {
		return facets, nil
	}

	res := results[0]
	if len(res.Total) > 0 {
		facets.Total = res.Total[0].N
	}
	facets.ByDate = res.ByDate
	facets.ByStatus = res.ByStatus
	facets.ByCategory = res.ByCategory
	facets.ByUser = res.ByUser

	return facets, nil
}

func AnalyticsPipeline(params models.AggregationParams) []bson.M {
	countBy := func(field interface{}, sort bson.D) []bson.M {
		return []bson.M{
			{"$group": bson.M{
				"_id":   field,
				"count": bson.M{"$sum": 1},
			}},
			{"$sort": sort},
		}
	}
	byCountDesc := bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}

	return []bson.M{
		{"$match": BuildAnalyticsMatch(params)},
		{"$facet": bson.M{
			"total": []bson.M{{"$count": "n"}},
			"byDate": countBy(bson.M{
				"$dateToString": bson.M{
					"format":   "%Y-%m-%d",
					"date":     "$createdAt",
					"timezone": "UTC",
				},
			}, bson.D{{Key: "_id", Value: 1}}),
			"byStatus":   countBy(bson.M{"$ifNull": []interface{}{"$status", ""}}, byCountDesc),
			"byCategory": countBy(bson.M{"$ifNull": []interface{}{"$category", ""}}, byCountDesc),
			"byUser":     countBy(bson.M{"$ifNull": []interface{}{"$hrUserId", ""}}, byCountDesc),
		}},
	}
}
