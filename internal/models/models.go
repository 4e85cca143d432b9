package models

import (
	"time"

	"github.com/google/uuid"
)

// SitemapURL is a stored member of the URL collection that feeds sitemap
// generation.
type SitemapURL struct {
	ID         uuid.UUID `json:"id"`
	Loc        string    `json:"url"`
	LastMod    string    `json:"lastmod,omitempty"`
	ChangeFreq string    `json:"changefreq,omitempty"`
	Priority   *float64  `json:"priority,omitempty"`
	Images     []string  `json:"images,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Entry converts a stored row into the entry record consumed by the
// sitemap renderer.
func (u *SitemapURL) Entry() URL {
	return URL{
		Loc:        u.Loc,
		LastMod:    u.LastMod,
		ChangeFreq: u.ChangeFreq,
		Priority:   u.Priority,
		Images:     u.Images,
	}
}
