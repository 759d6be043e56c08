package domain

import "time"

type EventType string

const (
	EventSearch EventType = "search"
	EventView   EventType = "view"
)

// AnalyticsEvent is an append-only record of a search or a listing view with
// denormalized context; it is never updated after insert.
type AnalyticsEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Query       string    `json:"query,omitempty"`
	ListingID   string    `json:"listing_id,omitempty"`
	ListingName string    `json:"listing_name,omitempty"`
	Coords      *Coords   `json:"coords,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type ListingCount struct {
	ListingID   string `json:"listing_id"`
	ListingName string `json:"listing_name"`
	Count       int64  `json:"count"`
}

// AnalyticsSummary is the aggregation view over the events collection.
type AnalyticsSummary struct {
	Searches    int64          `json:"searches"`
	Views       int64          `json:"views"`
	TopQueries  []QueryCount   `json:"top_queries"`
	TopListings []ListingCount `json:"top_listings"`
}
