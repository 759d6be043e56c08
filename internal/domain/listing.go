package domain

import "time"

// PriceTier is one of the three display bands used across the directory.
type PriceTier string

const (
	PriceBudget   PriceTier = "£"
	PriceStandard PriceTier = "££"
	PricePremium  PriceTier = "£££"
)

func (p PriceTier) IsValid() bool {
	switch p {
	case PriceBudget, PriceStandard, PricePremium:
		return true
	}
	return false
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is one launderette directory entry. Hours maps lowercase day names
// ("monday".."sunday") to a display string like "9:00am - 5:00pm" or "Closed".
type Listing struct {
	ID        string
	Name      string
	Address   string
	City      string
	Postcode  string
	Lat, Lng  float64
	Features  []string
	Price     *PriceTier
	Premium   bool
	Hours     map[string]string
	Phone     *string
	Email     *string
	Website   *string
	Photos    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RankedListing is a Listing annotated by the search pipeline. DistanceMiles
// is nil when the caller supplied no reference coordinate.
type RankedListing struct {
	Listing
	DistanceMiles *float64
}

// ListingView is the single-listing read model, including the review rollup.
type ListingView struct {
	Listing
	AvgRating   *float64
	ReviewCount int64
}

type ListingsQuery struct {
	City *string
}

type PageQuery struct {
	Limit int
	Sort  string
}
