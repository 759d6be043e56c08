package domain

import "time"

// Review belongs to exactly one listing. Reviews are write-once: created by
// any visitor, never edited, deletable only by an administrator.
type Review struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewsPage struct {
	Items []Review `json:"items"`
}
