package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"launderette_near/internal/domain"
)

type QueryService struct {
	listings domain.ListingRepository
	reviews  domain.ReviewRepository
	faqs     domain.FaqRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(l domain.ListingRepository, r domain.ReviewRepository, f domain.FaqRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{listings: l, reviews: r, faqs: f, cache: c, cacheTTL: ttl}
}

// SearchQuery is the public search surface. City and Text narrow the
// collection before the filter/rank pipeline runs.
type SearchQuery struct {
	City    *string
	Text    string
	Filters SearchFilters
}

// SearchListings loads the (cached) listing collection and runs the
// filter/rank pipeline over it. Only the base collection is cached; ranking
// depends on the caller's position and clock, so it is recomputed per call.
func (s *QueryService) SearchListings(ctx context.Context, q SearchQuery, now time.Time) ([]domain.RankedListing, error) {
	ls, err := s.loadListings(ctx, q.City)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(q.Text); t != "" {
		ls = filterByText(ls, t)
	}
	return RankListings(ls, q.Filters, now), nil
}

func (s *QueryService) loadListings(ctx context.Context, city *string) ([]domain.Listing, error) {
	key := "listings:all"
	if city != nil {
		key = "listings:city:" + strings.ToLower(*city)
	}
	var ls []domain.Listing
	if ok, _ := s.cache.Get(ctx, key, &ls); ok {
		return ls, nil
	}
	ls, err := s.listings.List(ctx, domain.ListingsQuery{City: city})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, ls, int(s.cacheTTL.Seconds()))
	return ls, nil
}

func filterByText(ls []domain.Listing, t string) []domain.Listing {
	t = strings.ToLower(t)
	out := ls[:0:0]
	for _, l := range ls {
		if strings.Contains(strings.ToLower(l.Name), t) ||
			strings.Contains(strings.ToLower(l.Address), t) ||
			strings.Contains(strings.ToLower(l.City), t) {
			out = append(out, l)
		}
	}
	return out
}

// GetListing returns the listing plus its review rollup, cache-through.
func (s *QueryService) GetListing(ctx context.Context, id string) (domain.ListingView, error) {
	key := "listing:" + id
	var lv domain.ListingView
	if ok, _ := s.cache.Get(ctx, key, &lv); ok {
		return lv, nil
	}
	l, err := s.listings.Get(ctx, id)
	if err != nil {
		return domain.ListingView{}, err
	}
	lv = domain.ListingView{Listing: l}
	if avg, n, err := s.reviews.RatingSummary(ctx, id); err == nil && n > 0 {
		lv.AvgRating = &avg
		lv.ReviewCount = n
	}
	_ = s.cache.Set(ctx, key, lv, int(s.cacheTTL.Seconds()))
	return lv, nil
}

func (s *QueryService) ListReviews(ctx context.Context, listingID string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	key := fmt.Sprintf("reviews:%s:%d:%s", listingID, pg.Limit, pg.Sort)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	rs, err := s.reviews.ListByListing(ctx, listingID, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	// copy slice to avoid aliasing the repo's backing array
	cp := domain.ReviewsPage{}
	if n := len(rs.Items); n > 0 {
		cp.Items = make([]domain.Review, n)
		copy(cp.Items, rs.Items)
	}
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

func (s *QueryService) GetCityFaq(ctx context.Context, city string) (domain.CityFaq, error) {
	key := "faq:" + strings.ToLower(city)
	var f domain.CityFaq
	if ok, _ := s.cache.Get(ctx, key, &f); ok {
		return f, nil
	}
	f, err := s.faqs.Get(ctx, city)
	if err != nil {
		return domain.CityFaq{}, err
	}
	_ = s.cache.Set(ctx, key, f, int(s.cacheTTL.Seconds()))
	return f, nil
}
