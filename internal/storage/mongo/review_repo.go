package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"launderette_near/internal/domain"
)

const reviewsCollection = "reviews"

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID string             `bson:"listing_id"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	Author    string             `bson:"author"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d reviewDoc) toDomain() domain.Review {
	return domain.Review{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		Author:    d.Author,
		CreatedAt: d.CreatedAt,
	}
}

type ReviewRepo struct{ coll *mongo.Collection }

func NewReviewRepo(db *mongo.Database) *ReviewRepo {
	return &ReviewRepo{coll: db.Collection(reviewsCollection)}
}

func (r *ReviewRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	doc := reviewDoc{
		ID:        primitive.NewObjectID(),
		ListingID: rv.ListingID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		Author:    rv.Author,
		CreatedAt: rv.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	rv.ID = doc.ID.Hex()
	return nil
}

func (r *ReviewRepo) ListByListing(ctx context.Context, listingID string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if pg.Limit > 0 {
		opts.SetLimit(int64(pg.Limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return domain.ReviewsPage{}, fmt.Errorf("find reviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return domain.ReviewsPage{}, fmt.Errorf("decode reviews: %w", err)
	}
	out := domain.ReviewsPage{Items: make([]domain.Review, len(docs))}
	for i, d := range docs {
		out.Items[i] = d.toDomain()
	}
	return out, nil
}

// RatingSummary aggregates (average, count) over a listing's reviews.
func (r *ReviewRepo) RatingSummary(ctx context.Context, listingID string) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "listing_id", Value: listingID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$listing_id"},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}
	defer cur.Close(ctx)

	var results []struct {
		AvgRating float64 `bson:"avg_rating"`
		Count     int64   `bson:"count"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("decode rating summary: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].AvgRating, results[0].Count, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
