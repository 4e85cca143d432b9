package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/romangod6/kb-sitemap/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sitemap_urls (
            id UUID PRIMARY KEY,
            loc VARCHAR(2048) UNIQUE NOT NULL,
            lastmod VARCHAR(64),
            changefreq VARCHAR(16),
            priority DOUBLE PRECISION,
            images TEXT[],
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sitemap_urls_loc ON sitemap_urls(loc)`,
		`CREATE INDEX IF NOT EXISTS idx_sitemap_urls_created_at ON sitemap_urls(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) CreateURL(ctx context.Context, url *models.SitemapURL) error {
	query := `
        INSERT INTO sitemap_urls (id, loc, lastmod, changefreq, priority, images, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (loc) DO UPDATE SET
            lastmod = EXCLUDED.lastmod,
            changefreq = EXCLUDED.changefreq,
            priority = EXCLUDED.priority,
            images = EXCLUDED.images,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query,
		url.ID,
		url.Loc,
		url.LastMod,
		url.ChangeFreq,
		url.Priority,
		pq.Array(url.Images),
		url.CreatedAt,
		url.UpdatedAt,
	)

	return err
}

func (s *PostgresStore) GetURL(ctx context.Context, id uuid.UUID) (*models.SitemapURL, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, images, created_at, updated_at
        FROM sitemap_urls
        WHERE id = $1
    `

	url := &models.SitemapURL{}
	var priority sql.NullFloat64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&url.ID,
		&url.Loc,
		&url.LastMod,
		&url.ChangeFreq,
		&priority,
		pq.Array(&url.Images),
		&url.CreatedAt,
		&url.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if priority.Valid {
		p := priority.Float64
		url.Priority = &p
	}

	return url, nil
}

func (s *PostgresStore) ListURLs(ctx context.Context, limit, offset int) ([]*models.SitemapURL, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, images, created_at, updated_at
        FROM sitemap_urls
        ORDER BY created_at, id
        LIMIT $1 OFFSET $2
    `

	return s.queryURLs(ctx, query, limit, offset)
}

func (s *PostgresStore) ListAllURLs(ctx context.Context) ([]*models.SitemapURL, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, images, created_at, updated_at
        FROM sitemap_urls
        ORDER BY created_at, id
    `

	return s.queryURLs(ctx, query)
}

func (s *PostgresStore) DeleteURL(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sitemap_urls WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) DeleteURLByLoc(ctx context.Context, loc string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sitemap_urls WHERE loc = $1`, loc)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PostgresStore) queryURLs(ctx context.Context, query string, args ...interface{}) ([]*models.SitemapURL, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []*models.SitemapURL
	for rows.Next() {
		var url models.SitemapURL
		var priority sql.NullFloat64

		err := rows.Scan(
			&url.ID,
			&url.Loc,
			&url.LastMod,
			&url.ChangeFreq,
			&priority,
			pq.Array(&url.Images),
			&url.CreatedAt,
			&url.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		if priority.Valid {
			p := priority.Float64
			url.Priority = &p
		}

		urls = append(urls, &url)
	}

	return urls, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
