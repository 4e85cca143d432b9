// internal/models/sitemap.go
package models

// Change frequency values allowed by the sitemaps.org protocol.
const (
	FreqAlways  = "always"
	FreqHourly  = "hourly"
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
	FreqNever   = "never"
)

// ChangeFreqs lists every valid change frequency.
var ChangeFreqs = []string{
	FreqAlways, FreqHourly, FreqDaily, FreqWeekly, FreqMonthly, FreqYearly, FreqNever,
}

// URL describes a single sitemap entry before validation. At most one of the
// last-modified sources is consulted, in priority order:
// LastModFile > LastModDate > LastMod.
type URL struct {
	Loc         string   `json:"url"`
	LastMod     string   `json:"lastmod,omitempty"`     // ISO 8601, kept verbatim
	LastModDate string   `json:"lastmodDate,omitempty"` // date string, local time
	LastModFile string   `json:"lastmodFile,omitempty"` // path whose mtime is used
	ChangeFreq  string   `json:"changefreq,omitempty"`
	Priority    *float64 `json:"priority,omitempty"`
	Images      []string `json:"images,omitempty"`
}
