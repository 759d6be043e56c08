package app

import (
	"strconv"
	"strings"

	"launderette_near/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Seed files come from several scrapes and hand-built spreadsheets, so field
// names vary. Each logical field maps to the key paths seen in the wild.
var listingAliases = map[string][]string{
	"name":     {"name", "business_name", "title"},
	"address":  {"address", "address_raw", "full_address", "location.address", "address1"},
	"city":     {"city", "town", "locality", "location.city"},
	"postcode": {"postcode", "post_code", "postal_code", "zip"},
	"phone":    {"phone", "telephone", "phone_number", "contact.phone"},
	"email":    {"email", "contact.email"},
	"website":  {"website", "url", "web", "contact.website"},
	"hours":    {"opening_hours", "openingHours", "hours", "hours_text"},
	"price":    {"price", "price_tier", "price_range"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstAlias: first non-empty string for a named alias set.
func firstAlias(m map[string]any, key string) string {
	for _, p := range listingAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "51,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any holding strings or {url/src/name} objects.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					for _, key := range []string{"url", "src", "name"} {
						if u, ok := t[key].(string); ok && u != "" {
							out = append(out, u)
							break
						}
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/********** listing mapper **********/

// MapSeedListing converts one loose seed record into a Listing. Hours are
// parsed from the compact schedule string when the record carries one;
// otherwise an already-expanded per-day map is accepted verbatim.
func MapSeedListing(p map[string]any) domain.Listing {
	l := domain.Listing{
		Name:     firstAlias(p, "name"),
		Address:  firstAlias(p, "address"),
		City:     firstAlias(p, "city"),
		Postcode: firstAlias(p, "postcode"),
		Phone:    ptrStr(firstAlias(p, "phone")),
		Email:    ptrStr(firstAlias(p, "email")),
		Website:  ptrStr(firstAlias(p, "website")),
		Features: firstSliceStrings(p, "features", "amenities", "tags"),
		Photos:   firstSliceStrings(p, "photos", "images"),
	}

	if f := getFloatFlexible(p, "latitude", "lat", "location.lat"); f != nil {
		l.Lat = *f
	}
	if f := getFloatFlexible(p, "longitude", "lng", "lon", "location.lng", "location.lon"); f != nil {
		l.Lng = *f
	}

	if tier := domain.PriceTier(firstAlias(p, "price")); tier.IsValid() {
		l.Price = &tier
	}
	if b, ok := lookupAny(p, "premium").(bool); ok {
		l.Premium = b
	}

	if s := firstAlias(p, "hours"); s != "" {
		l.Hours = ParseOpeningHours(s)
	} else if raw, ok := lookupAny(p, "hours").(map[string]any); ok {
		hours := make(map[string]string, len(raw))
		for day, v := range raw {
			if s, ok := v.(string); ok {
				hours[strings.ToLower(day)] = s
			}
		}
		if len(hours) > 0 {
			l.Hours = hours
		}
	}

	return l
}
