package models

import (
	"time"

	"github.com/google/uuid"
)

// NewSitemapURL creates a stored URL with generated UUID and timestamps
func NewSitemapURL(loc string) *SitemapURL {
	now := time.Now()
	return &SitemapURL{
		ID:        uuid.New(),
		Loc:       loc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
