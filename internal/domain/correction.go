package domain

import "time"

type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionApproved CorrectionStatus = "approved"
	CorrectionRejected CorrectionStatus = "rejected"
)

// Correction is a publicly submitted single-field edit to a listing. It is
// created pending and resolved exactly once by an administrator; approval
// writes ProposedValue onto the target listing for allow-listed fields.
type Correction struct {
	ID            string           `json:"id"`
	ListingID     string           `json:"listing_id"`
	Field         string           `json:"field"`
	CurrentValue  string           `json:"current_value"`
	ProposedValue string           `json:"proposed_value"`
	Submitter     string           `json:"submitter,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Status        CorrectionStatus `json:"status"`
	ReviewedBy    *string          `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// EditableFields is the allow-list of listing fields a correction may touch.
var EditableFields = map[string]bool{
	"name":     true,
	"address":  true,
	"city":     true,
	"postcode": true,
	"phone":    true,
	"email":    true,
	"website":  true,
}
