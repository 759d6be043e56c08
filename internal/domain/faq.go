package domain

import "time"

type FaqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CityFaq is upserted as a single document per city; Entries keep their
// submitted order.
type CityFaq struct {
	City      string     `json:"city"`
	Entries   []FaqEntry `json:"entries"`
	UpdatedAt time.Time  `json:"updated_at"`
}
