package app

import (
	"sort"
	"time"

	"launderette_near/internal/domain"
)

// SearchFilters narrows and orders the listing collection. Features combine
// with logical AND; Price is an exact tier match; Origin, when set, attaches
// a straight-line distance to every survivor.
type SearchFilters struct {
	Features []string
	Price    *domain.PriceTier
	OpenNow  bool
	Origin   *domain.Coords
}

// RankListings applies the filter stages in order (features, price, open-now),
// annotates distance from Origin, and sorts by premium flag first, then
// ascending distance. The sort is stable: listings without a computed
// distance keep their filtered order. Pure function; re-running it on the
// same inputs gives the same output.
func RankListings(ls []domain.Listing, f SearchFilters, now time.Time) []domain.RankedListing {
	out := make([]domain.RankedListing, 0, len(ls))
	for _, l := range ls {
		if !hasAllFeatures(l.Features, f.Features) {
			continue
		}
		if f.Price != nil && (l.Price == nil || *l.Price != *f.Price) {
			continue
		}
		if f.OpenNow && !IsOpenAt(l.Hours, now) {
			continue
		}
		rl := domain.RankedListing{Listing: l}
		if f.Origin != nil {
			d := DistanceMiles(f.Origin.Lat, f.Origin.Lng, l.Lat, l.Lng)
			rl.DistanceMiles = &d
		}
		out = append(out, rl)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Premium != b.Premium {
			return a.Premium
		}
		if a.DistanceMiles != nil && b.DistanceMiles != nil {
			return *a.DistanceMiles < *b.DistanceMiles
		}
		return false
	})
	return out
}

// hasAllFeatures is an AND match over exact feature strings. An empty wanted
// set passes everything.
func hasAllFeatures(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
