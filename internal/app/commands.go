package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"launderette_near/internal/domain"
)

// AdminService owns every write path: listing CRUD, review moderation, the
// correction workflow, FAQ upserts, and analytics capture.
type AdminService struct {
	listings    domain.ListingRepository
	reviews     domain.ReviewRepository
	corrections domain.CorrectionRepository
	faqs        domain.FaqRepository
	analytics   domain.AnalyticsRepository
	cache       domain.Cache
}

func NewAdminService(
	l domain.ListingRepository,
	r domain.ReviewRepository,
	c domain.CorrectionRepository,
	f domain.FaqRepository,
	a domain.AnalyticsRepository,
	cache domain.Cache,
) *AdminService {
	return &AdminService{listings: l, reviews: r, corrections: c, faqs: f, analytics: a, cache: cache}
}

/* ---- listings ---- */

func (s *AdminService) CreateListing(ctx context.Context, l *domain.Listing) error {
	if err := s.listings.Create(ctx, l); err != nil {
		return err
	}
	s.invalidateCollections(ctx, l.City)
	return nil
}

func (s *AdminService) UpdateListing(ctx context.Context, l *domain.Listing) error {
	if err := s.listings.Update(ctx, l); err != nil {
		return err
	}
	s.invalidateListing(ctx, l.ID, l.City)
	return nil
}

func (s *AdminService) DeleteListing(ctx context.Context, id string) error {
	l, err := s.listings.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListing(ctx, id, l.City)
	return nil
}

/* ---- reviews ---- */

func (s *AdminService) AddReview(ctx context.Context, r *domain.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be 1-5", domain.ErrInvalidInput)
	}
	r.CreatedAt = time.Now().UTC()
	if err := s.reviews.Create(ctx, r); err != nil {
		return err
	}
	s.invalidateReviews(ctx, r.ListingID)
	_ = s.cache.Del(ctx, "listing:"+r.ListingID) // rating rollup changed
	return nil
}

func (s *AdminService) DeleteReview(ctx context.Context, id, listingID string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateReviews(ctx, listingID)
	_ = s.cache.Del(ctx, "listing:"+listingID)
	return nil
}

/* ---- corrections ---- */

// SubmitCorrection records a proposed single-field edit in pending state,
// snapshotting the field's current value when the target listing exists.
func (s *AdminService) SubmitCorrection(ctx context.Context, c *domain.Correction) error {
	c.ID = uuid.NewString()
	c.Status = domain.CorrectionPending
	c.CreatedAt = time.Now().UTC()
	if l, err := s.listings.Get(ctx, c.ListingID); err == nil {
		c.CurrentValue = listingField(l, c.Field)
	}
	return s.corrections.Create(ctx, c)
}

func (s *AdminService) ListCorrections(ctx context.Context, status *domain.CorrectionStatus) ([]domain.Correction, error) {
	return s.corrections.List(ctx, status)
}

// ApproveCorrection marks the correction approved and then writes the
// proposed value onto the target listing. The two writes are sequential and
// not transactional: a crash in between leaves an approved correction whose
// field was never applied.
func (s *AdminService) ApproveCorrection(ctx context.Context, id, reviewer string) error {
	c, err := s.corrections.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != domain.CorrectionPending {
		return domain.ErrAlreadyResolved
	}
	if !domain.EditableFields[c.Field] {
		return domain.ErrFieldNotEditable
	}
	if err := s.corrections.Resolve(ctx, id, domain.CorrectionApproved, reviewer); err != nil {
		return err
	}
	if err := s.listings.ApplyField(ctx, c.ListingID, c.Field, c.ProposedValue); err != nil {
		log.Error().Err(err).Str("correction", id).Str("listing", c.ListingID).
			Msg("correction approved but field apply failed")
		return err
	}
	l, lerr := s.listings.Get(ctx, c.ListingID)
	city := ""
	if lerr == nil {
		city = l.City
	}
	s.invalidateListing(ctx, c.ListingID, city)
	return nil
}

func (s *AdminService) RejectCorrection(ctx context.Context, id, reviewer string) error {
	c, err := s.corrections.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != domain.CorrectionPending {
		return domain.ErrAlreadyResolved
	}
	return s.corrections.Resolve(ctx, id, domain.CorrectionRejected, reviewer)
}

/* ---- faqs ---- */

func (s *AdminService) UpsertCityFaq(ctx context.Context, f domain.CityFaq) error {
	f.UpdatedAt = time.Now().UTC()
	if err := s.faqs.Upsert(ctx, f); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, "faq:"+strings.ToLower(f.City))
	return nil
}

/* ---- analytics ---- */

func (s *AdminService) RecordEvent(ctx context.Context, e *domain.AnalyticsEvent) error {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	return s.analytics.Insert(ctx, e)
}

func (s *AdminService) AnalyticsSummary(ctx context.Context) (domain.AnalyticsSummary, error) {
	return s.analytics.Summary(ctx)
}

/* ---- cache invalidation ---- */

func (s *AdminService) invalidateCollections(ctx context.Context, city string) {
	_ = s.cache.Del(ctx, "listings:all")
	if city != "" {
		_ = s.cache.Del(ctx, "listings:city:"+strings.ToLower(city))
	}
}

func (s *AdminService) invalidateListing(ctx context.Context, id, city string) {
	_ = s.cache.Del(ctx, "listing:"+id)
	s.invalidateCollections(ctx, city)
}

// invalidate the most common review cache variants
func (s *AdminService) invalidateReviews(ctx context.Context, listingID string) {
	for _, lim := range []int{50, 100, 200} {
		_ = s.cache.Del(ctx, fmt.Sprintf("reviews:%s:%d:%s", listingID, lim, "-created_at"))
	}
}

// listingField reads an allow-listed field off a listing for snapshotting.
func listingField(l domain.Listing, field string) string {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	switch field {
	case "name":
		return l.Name
	case "address":
		return l.Address
	case "city":
		return l.City
	case "postcode":
		return l.Postcode
	case "phone":
		return str(l.Phone)
	case "email":
		return str(l.Email)
	case "website":
		return str(l.Website)
	}
	return ""
}
