package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, l *Listing) error
	Get(ctx context.Context, id string) (Listing, error)
	List(ctx context.Context, q ListingsQuery) ([]Listing, error)
	Update(ctx context.Context, l *Listing) error
	// ApplyField writes a single allow-listed field value; used by the
	// correction-approval flow.
	ApplyField(ctx context.Context, id, field, value string) error
	Delete(ctx context.Context, id string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	ListByListing(ctx context.Context, listingID string, pg PageQuery) (ReviewsPage, error)
	// RatingSummary returns (average, count) over a listing's reviews.
	RatingSummary(ctx context.Context, listingID string) (float64, int64, error)
	Delete(ctx context.Context, id string) error
}

type CorrectionRepository interface {
	Create(ctx context.Context, c *Correction) error
	Get(ctx context.Context, id string) (Correction, error)
	List(ctx context.Context, status *CorrectionStatus) ([]Correction, error)
	Resolve(ctx context.Context, id string, status CorrectionStatus, reviewer string) error
}

type AnalyticsRepository interface {
	Insert(ctx context.Context, e *AnalyticsEvent) error
	Summary(ctx context.Context) (AnalyticsSummary, error)
}

type FaqRepository interface {
	Upsert(ctx context.Context, f CityFaq) error
	Get(ctx context.Context, city string) (CityFaq, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type GeocodeResult struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type Geocoder interface {
	Search(ctx context.Context, address string) ([]GeocodeResult, error)
}
