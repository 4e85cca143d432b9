package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/romangod6/kb-sitemap/internal/models"
)

type Store interface {
	Initialize() error
	Close() error

	// URL collection operations
	CreateURL(ctx context.Context, url *models.SitemapURL) error
	GetURL(ctx context.Context, id uuid.UUID) (*models.SitemapURL, error)
	ListURLs(ctx context.Context, limit, offset int) ([]*models.SitemapURL, error)
	ListAllURLs(ctx context.Context) ([]*models.SitemapURL, error)
	DeleteURL(ctx context.Context, id uuid.UUID) error
	DeleteURLByLoc(ctx context.Context, loc string) (int64, error)
}
