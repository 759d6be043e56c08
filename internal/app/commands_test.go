package app_test

import (
	"context"
	"errors"
	"testing"

	"launderette_near/internal/app"
	"launderette_near/internal/domain"
)

type fakeCorrections struct {
	byID     map[string]domain.Correction
	resolved map[string]domain.CorrectionStatus
}

func (f *fakeCorrections) Create(ctx context.Context, c *domain.Correction) error {
	if f.byID == nil {
		f.byID = map[string]domain.Correction{}
	}
	f.byID[c.ID] = *c
	return nil
}
func (f *fakeCorrections) Get(ctx context.Context, id string) (domain.Correction, error) {
	c, ok := f.byID[id]
	if !ok {
		return domain.Correction{}, domain.ErrNotFound
	}
	return c, nil
}
func (f *fakeCorrections) List(ctx context.Context, status *domain.CorrectionStatus) ([]domain.Correction, error) {
	var out []domain.Correction
	for _, c := range f.byID {
		if status == nil || c.Status == *status {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeCorrections) Resolve(ctx context.Context, id string, status domain.CorrectionStatus, reviewer string) error {
	if f.resolved == nil {
		f.resolved = map[string]domain.CorrectionStatus{}
	}
	f.resolved[id] = status
	c := f.byID[id]
	c.Status = status
	f.byID[id] = c
	return nil
}

type fakeAnalytics struct {
	events  []domain.AnalyticsEvent
	summary domain.AnalyticsSummary
}

func (f *fakeAnalytics) Insert(ctx context.Context, e *domain.AnalyticsEvent) error {
	f.events = append(f.events, *e)
	return nil
}
func (f *fakeAnalytics) Summary(ctx context.Context) (domain.AnalyticsSummary, error) {
	return f.summary, nil
}

func newAdmin(ls *fakeListings, cs *fakeCorrections) (*app.AdminService, *fakeCache) {
	cache := &fakeCache{}
	return app.NewAdminService(ls, &fakeReviews{}, cs, &fakeFaqs{}, &fakeAnalytics{}, cache), cache
}

func TestApproveCorrection_AppliesAllowListedField(t *testing.T) {
	ls := &fakeListings{byID: map[string]domain.Listing{
		"l1": {ID: "l1", Name: "Old Name", City: "Leeds"},
	}}
	cs := &fakeCorrections{byID: map[string]domain.Correction{
		"c1": {ID: "c1", ListingID: "l1", Field: "phone", ProposedValue: "0113 555 0101", Status: domain.CorrectionPending},
	}}
	svc, _ := newAdmin(ls, cs)

	if err := svc.ApproveCorrection(context.Background(), "c1", "admin@example.com"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if cs.resolved["c1"] != domain.CorrectionApproved {
		t.Fatal("correction status not set to approved")
	}
	if ls.applied["phone"] != "0113 555 0101" {
		t.Fatalf("field not applied: %v", ls.applied)
	}
}

func TestApproveCorrection_RejectsNonEditableField(t *testing.T) {
	ls := &fakeListings{byID: map[string]domain.Listing{"l1": {ID: "l1"}}}
	cs := &fakeCorrections{byID: map[string]domain.Correction{
		"c1": {ID: "c1", ListingID: "l1", Field: "premium", ProposedValue: "true", Status: domain.CorrectionPending},
	}}
	svc, _ := newAdmin(ls, cs)

	err := svc.ApproveCorrection(context.Background(), "c1", "admin")
	if !errors.Is(err, domain.ErrFieldNotEditable) {
		t.Fatalf("expected ErrFieldNotEditable, got %v", err)
	}
	if len(ls.applied) != 0 {
		t.Fatal("non-editable field must not be applied")
	}
}

func TestApproveCorrection_TerminalAfterResolve(t *testing.T) {
	cs := &fakeCorrections{byID: map[string]domain.Correction{
		"c1": {ID: "c1", ListingID: "l1", Field: "phone", Status: domain.CorrectionRejected},
	}}
	svc, _ := newAdmin(&fakeListings{}, cs)

	if err := svc.ApproveCorrection(context.Background(), "c1", "admin"); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestSubmitCorrection_SnapshotsCurrentValue(t *testing.T) {
	phone := "0113 555 0000"
	ls := &fakeListings{byID: map[string]domain.Listing{
		"l1": {ID: "l1", Phone: &phone},
	}}
	cs := &fakeCorrections{}
	svc, _ := newAdmin(ls, cs)

	c := &domain.Correction{ListingID: "l1", Field: "phone", ProposedValue: "0113 555 0101"}
	if err := svc.SubmitCorrection(context.Background(), c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.ID == "" || c.Status != domain.CorrectionPending {
		t.Fatalf("correction not initialized: %+v", c)
	}
	if c.CurrentValue != phone {
		t.Fatalf("current value not snapshotted, got %q", c.CurrentValue)
	}
}

func TestAddReview_ValidatesRating(t *testing.T) {
	svc, _ := newAdmin(&fakeListings{}, &fakeCorrections{})
	err := svc.AddReview(context.Background(), &domain.Review{ListingID: "l1", Rating: 6})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateListing_InvalidatesCollectionCaches(t *testing.T) {
	ls := &fakeListings{}
	svc, cache := newAdmin(ls, &fakeCorrections{})

	if err := svc.CreateListing(context.Background(), &domain.Listing{Name: "New", City: "Leeds"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	want := map[string]bool{"listings:all": true, "listings:city:leeds": true}
	for _, k := range cache.dels {
		delete(want, k)
	}
	if len(want) != 0 {
		t.Fatalf("missing cache invalidations: %v (got %v)", want, cache.dels)
	}
}

func TestRecordEvent_AssignsIDAndTimestamp(t *testing.T) {
	an := &fakeAnalytics{}
	svc := app.NewAdminService(&fakeListings{}, &fakeReviews{}, &fakeCorrections{}, &fakeFaqs{}, an, &fakeCache{})

	e := &domain.AnalyticsEvent{Type: domain.EventSearch, Query: "leeds"}
	if err := svc.RecordEvent(context.Background(), e); err != nil {
		t.Fatalf("record: %v", err)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("event not initialized: %+v", e)
	}
	if len(an.events) != 1 {
		t.Fatal("event not inserted")
	}
}
