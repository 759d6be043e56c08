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

const listingsCollection = "listings"

type listingDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Address   string             `bson:"address"`
	City      string             `bson:"city"`
	Postcode  string             `bson:"postcode"`
	Lat       float64            `bson:"lat"`
	Lng       float64            `bson:"lng"`
	Features  []string           `bson:"features,omitempty"`
	Price     *string            `bson:"price,omitempty"`
	Premium   bool               `bson:"premium"`
	Hours     map[string]string  `bson:"hours,omitempty"`
	Phone     *string            `bson:"phone,omitempty"`
	Email     *string            `bson:"email,omitempty"`
	Website   *string            `bson:"website,omitempty"`
	Photos    []string           `bson:"photos,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func fromDomainListing(l *domain.Listing) (listingDoc, error) {
	d := listingDoc{
		Name:      l.Name,
		Address:   l.Address,
		City:      l.City,
		Postcode:  l.Postcode,
		Lat:       l.Lat,
		Lng:       l.Lng,
		Features:  l.Features,
		Premium:   l.Premium,
		Hours:     l.Hours,
		Phone:     l.Phone,
		Email:     l.Email,
		Website:   l.Website,
		Photos:    l.Photos,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if l.Price != nil {
		p := string(*l.Price)
		d.Price = &p
	}
	if l.ID != "" {
		oid, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return d, domain.ErrNotFound
		}
		d.ID = oid
	}
	return d, nil
}

func (d listingDoc) toDomain() domain.Listing {
	l := domain.Listing{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Address:   d.Address,
		City:      d.City,
		Postcode:  d.Postcode,
		Lat:       d.Lat,
		Lng:       d.Lng,
		Features:  d.Features,
		Premium:   d.Premium,
		Hours:     d.Hours,
		Phone:     d.Phone,
		Email:     d.Email,
		Website:   d.Website,
		Photos:    d.Photos,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Price != nil {
		p := domain.PriceTier(*d.Price)
		l.Price = &p
	}
	return l
}

type ListingRepo struct{ coll *mongo.Collection }

func NewListingRepo(db *mongo.Database) *ListingRepo {
	return &ListingRepo{coll: db.Collection(listingsCollection)}
}

// EnsureIndexes creates the city and premium lookup indexes. Failures are
// returned to the caller; existing indexes are a no-op.
func (r *ListingRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "premium", Value: -1}}},
	})
	return err
}

func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	doc, err := fromDomainListing(l)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID = doc.ID.Hex()
	return nil
}

func (r *ListingRepo) Get(ctx context.Context, id string) (domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Listing{}, domain.ErrNotFound
	}
	var doc listingDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Listing{}, domain.ErrNotFound
		}
		return domain.Listing{}, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepo) List(ctx context.Context, q domain.ListingsQuery) ([]domain.Listing, error) {
	filter := bson.M{}
	if q.City != nil {
		filter["city"] = *q.City
	}
	opts := options.Find().SetSort(bson.D{{Key: "premium", Value: -1}, {Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []listingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	out := make([]domain.Listing, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ListingRepo) Update(ctx context.Context, l *domain.Listing) error {
	l.UpdatedAt = time.Now().UTC()
	doc, err := fromDomainListing(l)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"name":       doc.Name,
		"address":    doc.Address,
		"city":       doc.City,
		"postcode":   doc.Postcode,
		"lat":        doc.Lat,
		"lng":        doc.Lng,
		"features":   doc.Features,
		"price":      doc.Price,
		"premium":    doc.Premium,
		"hours":      doc.Hours,
		"phone":      doc.Phone,
		"email":      doc.Email,
		"website":    doc.Website,
		"photos":     doc.Photos,
		"updated_at": doc.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepo) ApplyField(ctx context.Context, id, field, value string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("apply field: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
