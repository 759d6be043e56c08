package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"launderette_near/internal/app"
	"launderette_near/internal/domain"
)

type Handlers struct {
	Q         *app.QueryService
	Admin     *app.AdminService
	Geocoder  domain.Geocoder
	JWTSecret string
	BaseURL   string // public site base, used for sitemap URLs
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"` // field-level validation detail
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/launderettes", h.listLaunderettes)
	s.mux.Get("/v1/launderettes/{id}", h.getLaunderette)
	s.mux.Get("/v1/launderettes/{id}/reviews", h.listReviews)
	s.mux.Post("/v1/launderettes/{id}/reviews", h.addReview)
	s.mux.Post("/v1/corrections", h.submitCorrection)
	s.mux.Post("/v1/analytics/events", h.recordEvent)
	s.mux.Get("/v1/cities/{city}/faqs", h.getCityFaq)
	s.mux.Get("/v1/geocode", h.geocode)
	s.mux.Get("/sitemap.xml", h.sitemap)

	s.mux.Group(func(g chi.Router) {
		g.Use(RequireAdmin(h.JWTSecret))
		g.Post("/v1/launderettes", h.createLaunderette)
		g.Put("/v1/launderettes/{id}", h.updateLaunderette)
		g.Delete("/v1/launderettes/{id}", h.deleteLaunderette)
		g.Delete("/v1/reviews/{id}", h.deleteReview)
		g.Get("/v1/corrections", h.listCorrections)
		g.Put("/v1/corrections/{id}/approve", h.approveCorrection)
		g.Put("/v1/corrections/{id}/reject", h.rejectCorrection)
		g.Get("/v1/analytics/summary", h.analyticsSummary)
		g.Put("/v1/cities/{city}/faqs", h.upsertCityFaq)
	})
}

/* ---- response plumbing ---- */

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeValidation(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusBadRequest)
	p := problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusBadRequest, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto the response taxonomy. Anything
// unclassified is logged and returned as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrFieldNotEditable):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrAlreadyResolved):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

/* ---- listing DTOs ---- */

type listingJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	Postcode      string            `json:"postcode,omitempty"`
	Lat           float64           `json:"lat"`
	Lng           float64           `json:"lng"`
	Features      []string          `json:"features,omitempty"`
	Price         *string           `json:"price,omitempty"`
	Premium       bool              `json:"premium"`
	Hours         map[string]string `json:"hours,omitempty"`
	Phone         *string           `json:"phone,omitempty"`
	Email         *string           `json:"email,omitempty"`
	Website       *string           `json:"website,omitempty"`
	Photos        []string          `json:"photos,omitempty"`
	DistanceMiles *float64          `json:"distance_miles,omitempty"`
	AvgRating     *float64          `json:"avg_rating,omitempty"`
	ReviewCount   int64             `json:"review_count,omitempty"`
}

func toListingJSON(l domain.Listing) listingJSON {
	out := listingJSON{
		ID:       l.ID,
		Name:     l.Name,
		Address:  l.Address,
		City:     l.City,
		Postcode: l.Postcode,
		Lat:      l.Lat,
		Lng:      l.Lng,
		Features: l.Features,
		Premium:  l.Premium,
		Hours:    l.Hours,
		Phone:    l.Phone,
		Email:    l.Email,
		Website:  l.Website,
		Photos:   l.Photos,
	}
	if l.Price != nil {
		p := string(*l.Price)
		out.Price = &p
	}
	return out
}

// listingRequest is the admin write payload. Hours accepts either the compact
// schedule string ("Mon-Fri: 9:00am - 5:00pm, ...") or an already-expanded
// per-day map.
type listingRequest struct {
	Name     string          `json:"name"`
	Address  string          `json:"address"`
	City     string          `json:"city"`
	Postcode string          `json:"postcode"`
	Lat      *float64        `json:"lat"`
	Lng      *float64        `json:"lng"`
	Features []string        `json:"features"`
	Price    *string         `json:"price"`
	Premium  bool            `json:"premium"`
	Hours    json.RawMessage `json:"hours"`
	Phone    *string         `json:"phone"`
	Email    *string         `json:"email"`
	Website  *string         `json:"website"`
	Photos   []string        `json:"photos"`
}

func (req *listingRequest) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "required"
	}
	if strings.TrimSpace(req.Address) == "" {
		errs["address"] = "required"
	}
	if strings.TrimSpace(req.City) == "" {
		errs["city"] = "required"
	}
	if req.Lat == nil {
		errs["lat"] = "required"
	} else if math.IsNaN(*req.Lat) || *req.Lat < -90 || *req.Lat > 90 {
		errs["lat"] = "must be a latitude in degrees"
	}
	if req.Lng == nil {
		errs["lng"] = "required"
	} else if math.IsNaN(*req.Lng) || *req.Lng < -180 || *req.Lng > 180 {
		errs["lng"] = "must be a longitude in degrees"
	}
	if req.Price != nil && !domain.PriceTier(*req.Price).IsValid() {
		errs["price"] = "must be one of £, ££, £££"
	}
	return errs
}

func (req *listingRequest) toDomain() domain.Listing {
	l := domain.Listing{
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		City:     strings.TrimSpace(req.City),
		Postcode: strings.TrimSpace(req.Postcode),
		Features: req.Features,
		Premium:  req.Premium,
		Phone:    req.Phone,
		Email:    req.Email,
		Website:  req.Website,
		Photos:   req.Photos,
	}
	if req.Lat != nil {
		l.Lat = *req.Lat
	}
	if req.Lng != nil {
		l.Lng = *req.Lng
	}
	if req.Price != nil {
		p := domain.PriceTier(*req.Price)
		l.Price = &p
	}
	if len(req.Hours) > 0 {
		var compact string
		var perDay map[string]string
		if err := json.Unmarshal(req.Hours, &compact); err == nil {
			l.Hours = app.ParseOpeningHours(compact)
		} else if err := json.Unmarshal(req.Hours, &perDay); err == nil {
			l.Hours = make(map[string]string, len(perDay))
			for day, v := range perDay {
				l.Hours[strings.ToLower(day)] = v
			}
		}
	}
	return l
}

/* ---- listing handlers ---- */

func (h *Handlers) listLaunderettes(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()
	q := app.SearchQuery{Text: qp.Get("q")}
	if c := qp.Get("city"); c != "" {
		q.City = &c
	}
	if f := qp.Get("features"); f != "" {
		q.Filters.Features = strings.Split(f, ",")
	}
	if p := qp.Get("price"); p != "" {
		tier := domain.PriceTier(p)
		if !tier.IsValid() {
			writeValidation(w, map[string]string{"price": "must be one of £, ££, £££"})
			return
		}
		q.Filters.Price = &tier
	}
	q.Filters.OpenNow = qp.Get("open_now") == "true" || qp.Get("open_now") == "1"

	latS, lngS := qp.Get("lat"), qp.Get("lng")
	if latS != "" || lngS != "" {
		lat, errLat := strconv.ParseFloat(latS, 64)
		lng, errLng := strconv.ParseFloat(lngS, 64)
		if errLat != nil || errLng != nil {
			writeValidation(w, map[string]string{"lat": "lat and lng must both be numbers"})
			return
		}
		q.Filters.Origin = &domain.Coords{Lat: lat, Lng: lng}
	}

	out, err := h.Q.SearchListings(r.Context(), q, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]listingJSON, len(out))
	for i, rl := range out {
		items[i] = toListingJSON(rl.Listing)
		items[i].DistanceMiles = rl.DistanceMiles
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handlers) getLaunderette(w http.ResponseWriter, r *http.Request) {
	lv, err := h.Q.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := toListingJSON(lv.Listing)
	out.AvgRating = lv.AvgRating
	out.ReviewCount = lv.ReviewCount
	writeCachedJSON(w, r, out)
}

func (h *Handlers) createLaunderette(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	l := req.toDomain()
	if err := h.Admin.CreateListing(r.Context(), &l); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingJSON(l))
}

func (h *Handlers) updateLaunderette(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	l := req.toDomain()
	l.ID = chi.URLParam(r, "id")
	if err := h.Admin.UpdateListing(r.Context(), &l); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingJSON(l))
}

func (h *Handlers) deleteLaunderette(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.DeleteListing(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---- review handlers ---- */

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Author  string `json:"author"`
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeValidation(w, map[string]string{"limit": "must be an integer between 1 and 200"})
			return
		}
		limit = l
	}

	// Newest first; aligns with the (listing_id, created_at) index
	page := domain.PageQuery{Limit: limit, Sort: "-created_at"}
	out, err := h.Q.ListReviews(r.Context(), chi.URLParam(r, "id"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCachedJSON(w, r, out)
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	errs := map[string]string{}
	if req.Rating < 1 || req.Rating > 5 {
		errs["rating"] = "must be an integer between 1 and 5"
	}
	if strings.TrimSpace(req.Comment) == "" {
		errs["comment"] = "required"
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = "Anonymous"
	}

	rv := domain.Review{
		ListingID: chi.URLParam(r, "id"),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		Author:    author,
	}
	if err := h.Admin.AddReview(r.Context(), &rv); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	listingID := r.URL.Query().Get("listing_id")
	if err := h.Admin.DeleteReview(r.Context(), chi.URLParam(r, "id"), listingID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---- correction handlers ---- */

type correctionRequest struct {
	ListingID     string `json:"listing_id"`
	Field         string `json:"field"`
	ProposedValue string `json:"proposed_value"`
	Submitter     string `json:"submitter"`
	Notes         string `json:"notes"`
}

func (h *Handlers) submitCorrection(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	errs := map[string]string{}
	if req.ListingID == "" {
		errs["listing_id"] = "required"
	}
	if req.Field == "" {
		errs["field"] = "required"
	} else if !domain.EditableFields[req.Field] {
		errs["field"] = "not open to corrections"
	}
	if strings.TrimSpace(req.ProposedValue) == "" {
		errs["proposed_value"] = "required"
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	c := domain.Correction{
		ListingID:     req.ListingID,
		Field:         req.Field,
		ProposedValue: strings.TrimSpace(req.ProposedValue),
		Submitter:     req.Submitter,
		Notes:         req.Notes,
	}
	if err := h.Admin.SubmitCorrection(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) listCorrections(w http.ResponseWriter, r *http.Request) {
	var status *domain.CorrectionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.CorrectionStatus(s)
		switch st {
		case domain.CorrectionPending, domain.CorrectionApproved, domain.CorrectionRejected:
			status = &st
		default:
			writeValidation(w, map[string]string{"status": "must be pending, approved or rejected"})
			return
		}
	}
	out, err := h.Admin.ListCorrections(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

func (h *Handlers) approveCorrection(w http.ResponseWriter, r *http.Request) {
	err := h.Admin.ApproveCorrection(r.Context(), chi.URLParam(r, "id"), subjectFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.CorrectionApproved)})
}

func (h *Handlers) rejectCorrection(w http.ResponseWriter, r *http.Request) {
	err := h.Admin.RejectCorrection(r.Context(), chi.URLParam(r, "id"), subjectFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.CorrectionRejected)})
}

/* ---- analytics handlers ---- */

type eventRequest struct {
	Type        string   `json:"type"`
	Query       string   `json:"query"`
	ListingID   string   `json:"listing_id"`
	ListingName string   `json:"listing_name"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

func (h *Handlers) recordEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	t := domain.EventType(req.Type)
	if t != domain.EventSearch && t != domain.EventView {
		writeValidation(w, map[string]string{"type": "must be search or view"})
		return
	}

	e := domain.AnalyticsEvent{
		Type:        t,
		Query:       req.Query,
		ListingID:   req.ListingID,
		ListingName: req.ListingName,
	}
	if req.Lat != nil && req.Lng != nil {
		e.Coords = &domain.Coords{Lat: *req.Lat, Lng: *req.Lng}
	}
	if err := h.Admin.RecordEvent(r.Context(), &e); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Admin.AnalyticsSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

/* ---- faq handlers ---- */

type faqRequest struct {
	Entries []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"entries"`
}

func (h *Handlers) getCityFaq(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.GetCityFaq(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCachedJSON(w, r, out)
}

func (h *Handlers) upsertCityFaq(w http.ResponseWriter, r *http.Request) {
	var req faqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if len(req.Entries) == 0 {
		writeValidation(w, map[string]string{"entries": "at least one question/answer pair required"})
		return
	}
	f := domain.CityFaq{City: chi.URLParam(r, "city")}
	for _, e := range req.Entries {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			writeValidation(w, map[string]string{"entries": "question and answer are both required"})
			return
		}
		f.Entries = append(f.Entries, domain.FaqEntry{Question: e.Question, Answer: e.Answer})
	}
	if err := h.Admin.UpsertCityFaq(r.Context(), f); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

/* ---- geocode proxy ---- */

func (h *Handlers) geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeValidation(w, map[string]string{"address": "required"})
		return
	}
	out, err := h.Geocoder.Search(r.Context(), address)
	if err != nil {
		log.Error().Err(err).Str("address", address).Msg("geocode failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}
