package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"launderette_near/internal/domain"
)

const faqsCollection = "faqs"

type faqDoc struct {
	City      string     `bson:"_id"` // lowercase city is the document key
	Display   string     `bson:"display_city"`
	Entries   []faqEntry `bson:"entries"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

type faqEntry struct {
	Question string `bson:"question"`
	Answer   string `bson:"answer"`
}

type FaqRepo struct{ coll *mongo.Collection }

func NewFaqRepo(db *mongo.Database) *FaqRepo {
	return &FaqRepo{coll: db.Collection(faqsCollection)}
}

func (r *FaqRepo) Upsert(ctx context.Context, f domain.CityFaq) error {
	entries := make([]faqEntry, len(f.Entries))
	for i, e := range f.Entries {
		entries[i] = faqEntry{Question: e.Question, Answer: e.Answer}
	}
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": strings.ToLower(f.City)},
		faqDoc{City: strings.ToLower(f.City), Display: f.City, Entries: entries, UpdatedAt: f.UpdatedAt},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert faq: %w", err)
	}
	return nil
}

func (r *FaqRepo) Get(ctx context.Context, city string) (domain.CityFaq, error) {
	var doc faqDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": strings.ToLower(city)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.CityFaq{}, domain.ErrNotFound
		}
		return domain.CityFaq{}, fmt.Errorf("find faq: %w", err)
	}
	out := domain.CityFaq{City: doc.Display, UpdatedAt: doc.UpdatedAt}
	out.Entries = make([]domain.FaqEntry, len(doc.Entries))
	for i, e := range doc.Entries {
		out.Entries[i] = domain.FaqEntry{Question: e.Question, Answer: e.Answer}
	}
	return out, nil
}
