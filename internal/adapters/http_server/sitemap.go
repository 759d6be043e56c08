package httpserver

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"launderette_near/internal/app"
)

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemap lists the homepage, one page per city and one page per listing.
func (h *Handlers) sitemap(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.SearchListings(r.Context(), app.SearchQuery{}, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: h.BaseURL + "/"}},
	}

	cities := map[string]bool{}
	for _, rl := range out {
		if c := strings.ToLower(strings.TrimSpace(rl.City)); c != "" && !cities[c] {
			cities[c] = true
		}
	}
	names := make([]string, 0, len(cities))
	for c := range cities {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.BaseURL + "/cities/" + url.PathEscape(c)})
	}

	for _, rl := range out {
		u := sitemapURL{Loc: h.BaseURL + "/launderettes/" + url.PathEscape(rl.ID)}
		if !rl.UpdatedAt.IsZero() {
			u.LastMod = rl.UpdatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		log.Error().Err(err).Msg("failed to write sitemap header")
		return
	}
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		log.Error().Err(err).Msg("failed to encode sitemap")
	}
}
