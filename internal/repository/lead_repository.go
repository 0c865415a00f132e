package repository

import (
	"context"
	"math"
	"time"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadRepository struct {
	collection *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{
		collection: db.Collection("leads"),
	}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now

	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, lead)
	return err
}

// FindByID returns mongo.ErrNoDocuments for unknown or malformed ids.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var lead models.Lead
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns one page of leads, newest first, plus the total match count.
// A zero Limit returns every match.
func (r *LeadRepository) List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, int, error) {
	query := BuildLeadQuery(filter)

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		findOptions.SetSkip(pageOffset(page, filter.Limit))
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	leads := []*models.Lead{}
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	return leads, int(total), nil
}

// FindForAnalytics loads the raw leads matching params.
func (r *LeadRepository) FindForAnalytics(ctx context.Context, params models.AggregationParams) ([]models.Lead, error) {
	cursor, err := r.collection.Find(ctx, BuildAnalyticsMatch(params))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error {
	return r.set(ctx, id, bson.M{"status": status})
}

func (r *LeadRepository) Assign(ctx context.Context, id, hrUserID string) error {
	return r.set(ctx, id, bson.M{"hrUserId": hrUserID})
}

func (r *LeadRepository) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	fields["updatedAt"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// BuildLeadQuery translates a listing filter into a Mongo query. Search is
// applied by the caller, not here.
func BuildLeadQuery(filter models.LeadFilter) bson.M {
	query := baseMatch(models.AggregationParams{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Category:  filter.Category,
		HRUserID:  filter.HRUserID,
	})
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

// BuildAnalyticsMatch mirrors analytics.Matches: inclusive timestamp bounds,
// exact category and owner. Leads without a creation date never match.
func BuildAnalyticsMatch(params models.AggregationParams) bson.M {
	query := baseMatch(params)
	if params.StartDate.IsZero() {
		createdAt, ok := query["createdAt"].(bson.M)
		if !ok {
			createdAt = bson.M{}
			query["createdAt"] = createdAt
		}
		createdAt["$gt"] = time.Time{}
	}
	return query
}

func baseMatch(params models.AggregationParams) bson.M {
	query := bson.M{}

	createdAt := bson.M{}
	if !params.StartDate.IsZero() {
		createdAt["$gte"] = params.StartDate
	}
	if !params.EndDate.IsZero() {
		createdAt["$lte"] = params.EndDate
	}
	if len(createdAt) > 0 {
		query["createdAt"] = createdAt
	}

	if params.Category != "" {
		query["category"] = params.Category
	}
	if params.HRUserID != "" {
		query["hrUserId"] = params.HRUserID
	}
	return query
}

// pageOffset saturates at math.MaxInt64 instead of wrapping.
func pageOffset(page, limit int) int64 {
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}
