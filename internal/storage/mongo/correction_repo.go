package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"launderette_near/internal/domain"
)

const correctionsCollection = "corrections"

// Correction ids are caller-generated UUIDs, so the document keeps them as
// plain strings rather than ObjectIDs.
type correctionDoc struct {
	ID            string     `bson:"_id"`
	ListingID     string     `bson:"listing_id"`
	Field         string     `bson:"field"`
	CurrentValue  string     `bson:"current_value"`
	ProposedValue string     `bson:"proposed_value"`
	Submitter     string     `bson:"submitter"`
	Notes         string     `bson:"notes,omitempty"`
	Status        string     `bson:"status"`
	ReviewedBy    *string    `bson:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `bson:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
}

func (d correctionDoc) toDomain() domain.Correction {
	return domain.Correction{
		ID:            d.ID,
		ListingID:     d.ListingID,
		Field:         d.Field,
		CurrentValue:  d.CurrentValue,
		ProposedValue: d.ProposedValue,
		Submitter:     d.Submitter,
		Notes:         d.Notes,
		Status:        domain.CorrectionStatus(d.Status),
		ReviewedBy:    d.ReviewedBy,
		ReviewedAt:    d.ReviewedAt,
		CreatedAt:     d.CreatedAt,
	}
}

type CorrectionRepo struct{ coll *mongo.Collection }

func NewCorrectionRepo(db *mongo.Database) *CorrectionRepo {
	return &CorrectionRepo{coll: db.Collection(correctionsCollection)}
}

func (r *CorrectionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *CorrectionRepo) Create(ctx context.Context, c *domain.Correction) error {
	doc := correctionDoc{
		ID:            c.ID,
		ListingID:     c.ListingID,
		Field:         c.Field,
		CurrentValue:  c.CurrentValue,
		ProposedValue: c.ProposedValue,
		Submitter:     c.Submitter,
		Notes:         c.Notes,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert correction: %w", err)
	}
	return nil
}

func (r *CorrectionRepo) Get(ctx context.Context, id string) (domain.Correction, error) {
	var doc correctionDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Correction{}, domain.ErrNotFound
		}
		return domain.Correction{}, fmt.Errorf("find correction: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CorrectionRepo) List(ctx context.Context, status *domain.CorrectionStatus) ([]domain.Correction, error) {
	filter := bson.M{}
	if status != nil {
		filter["status"] = string(*status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find corrections: %w", err)
	}
	defer cur.Close(ctx)

	var docs []correctionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode corrections: %w", err)
	}
	out := make([]domain.Correction, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *CorrectionRepo) Resolve(ctx context.Context, id string, status domain.CorrectionStatus, reviewer string) error {
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":      string(status),
		"reviewed_by": reviewer,
		"reviewed_at": now,
	}})
	if err != nil {
		return fmt.Errorf("resolve correction: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
