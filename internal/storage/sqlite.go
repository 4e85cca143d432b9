package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/kb-sitemap/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sitemap_urls (
            id TEXT PRIMARY KEY,
            loc TEXT UNIQUE NOT NULL,
            lastmod TEXT,
            changefreq TEXT,
            priority REAL,
            images TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
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

func (s *SQLiteStore) CreateURL(ctx context.Context, url *models.SitemapURL) error {
	query := `
        INSERT INTO sitemap_urls (id, loc, lastmod, changefreq, priority, images, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(loc) DO UPDATE SET
            lastmod = excluded.lastmod,
            changefreq = excluded.changefreq,
            priority = excluded.priority,
            images = excluded.images,
            updated_at = CURRENT_TIMESTAMP
    `

	imagesJSON, err := json.Marshal(url.Images)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		url.ID.String(),
		url.Loc,
		url.LastMod,
		url.ChangeFreq,
		nullFloat(url.Priority),
		string(imagesJSON),
		url.CreatedAt,
		url.UpdatedAt,
	)

	return err
}

func (s *SQLiteStore) GetURL(ctx context.Context, id uuid.UUID) (*models.SitemapURL, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, images, created_at, updated_at
        FROM sitemap_urls
        WHERE id = ?
    `

	rows, err := s.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls, err := scanURLs(rows)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, nil
	}

	return urls[0], nil
}

func (s *SQLiteStore) ListURLs(ctx context.Context, limit, offset int) ([]*models.SitemapURL, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, images, created_at, updated_at
        FROM sitemap_urls
        ORDER BY created_at, id
        LIMIT ? OFFSET ?
    `

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanURLs(rows)
}

func (s *SQLiteStore) ListAllURLs(ctx context.Context) ([]*models.SitemapURL, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, images, created_at, updated_at
        FROM sitemap_urls
        ORDER BY created_at, id
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanURLs(rows)
}

func (s *SQLiteStore) DeleteURL(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sitemap_urls WHERE id = ?`, id.String())
	return err
}

func (s *SQLiteStore) DeleteURLByLoc(ctx context.Context, loc string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sitemap_urls WHERE loc = ?`, loc)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanURLs(rows *sql.Rows) ([]*models.SitemapURL, error) {
	var urls []*models.SitemapURL
	for rows.Next() {
		var url models.SitemapURL
		var idStr, imagesJSON string
		var priority sql.NullFloat64

		err := rows.Scan(
			&idStr,
			&url.Loc,
			&url.LastMod,
			&url.ChangeFreq,
			&priority,
			&imagesJSON,
			&url.CreatedAt,
			&url.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		url.ID, _ = uuid.Parse(idStr)
		if priority.Valid {
			p := priority.Float64
			url.Priority = &p
		}
		json.Unmarshal([]byte(imagesJSON), &url.Images)

		urls = append(urls, &url)
	}

	return urls, rows.Err()
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
