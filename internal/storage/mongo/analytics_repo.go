package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"launderette_near/internal/domain"
)

const analyticsCollection = "analytics"

type eventDoc struct {
	ID          string    `bson:"_id"`
	Type        string    `bson:"type"`
	Query       string    `bson:"query,omitempty"`
	ListingID   string    `bson:"listing_id,omitempty"`
	ListingName string    `bson:"listing_name,omitempty"`
	Lat         *float64  `bson:"lat,omitempty"`
	Lng         *float64  `bson:"lng,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

type AnalyticsRepo struct{ coll *mongo.Collection }

func NewAnalyticsRepo(db *mongo.Database) *AnalyticsRepo {
	return &AnalyticsRepo{coll: db.Collection(analyticsCollection)}
}

// Insert appends one event. Events are write-once; there is no update path.
func (r *AnalyticsRepo) Insert(ctx context.Context, e *domain.AnalyticsEvent) error {
	doc := eventDoc{
		ID:          e.ID,
		Type:        string(e.Type),
		Query:       e.Query,
		ListingID:   e.ListingID,
		ListingName: e.ListingName,
		CreatedAt:   e.CreatedAt,
	}
	if e.Coords != nil {
		doc.Lat, doc.Lng = &e.Coords.Lat, &e.Coords.Lng
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

const summaryTopN = 10

// Summary aggregates event counts by type, the most frequent search queries,
// and the most viewed listings.
func (r *AnalyticsRepo) Summary(ctx context.Context) (domain.AnalyticsSummary, error) {
	var out domain.AnalyticsSummary

	byType, err := r.countByType(ctx)
	if err != nil {
		return out, err
	}
	out.Searches = byType[string(domain.EventSearch)]
	out.Views = byType[string(domain.EventView)]

	if out.TopQueries, err = r.topQueries(ctx); err != nil {
		return out, err
	}
	if out.TopListings, err = r.topListings(ctx); err != nil {
		return out, err
	}
	return out, nil
}

func (r *AnalyticsRepo) countByType(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate event types: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode event type counts: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Type] = row.Count
	}
	return out, nil
}

func (r *AnalyticsRepo) topQueries(ctx context.Context) ([]domain.QueryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "type", Value: string(domain.EventSearch)},
			{Key: "query", Value: bson.D{{Key: "$ne", Value: ""}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$query"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: summaryTopN}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate top queries: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Query string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode top queries: %w", err)
	}
	out := make([]domain.QueryCount, len(rows))
	for i, row := range rows {
		out[i] = domain.QueryCount{Query: row.Query, Count: row.Count}
	}
	return out, nil
}

func (r *AnalyticsRepo) topListings(ctx context.Context) ([]domain.ListingCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "type", Value: string(domain.EventView)},
			{Key: "listing_id", Value: bson.D{{Key: "$ne", Value: ""}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$listing_id"},
			{Key: "name", Value: bson.D{{Key: "$last", Value: "$listing_name"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: summaryTopN}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate top listings: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ListingID string `bson:"_id"`
		Name      string `bson:"name"`
		Count     int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode top listings: %w", err)
	}
	out := make([]domain.ListingCount, len(rows))
	for i, row := range rows {
		out[i] = domain.ListingCount{ListingID: row.ListingID, ListingName: row.Name, Count: row.Count}
	}
	return out, nil
}
