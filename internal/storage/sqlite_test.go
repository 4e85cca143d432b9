package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/romangod6/kb-sitemap/internal/models"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test_sitemap.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Initialize(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	return s
}

func TestCreateAndGetURL(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	priority := 0.7
	url := models.NewSitemapURL("http://example.com/page")
	url.LastMod = "2024-06-01T10:00:00Z"
	url.ChangeFreq = models.FreqDaily
	url.Priority = &priority
	url.Images = []string{"http://example.com/a.png"}

	if err := s.CreateURL(ctx, url); err != nil {
		t.Fatalf("CreateURL failed: %v", err)
	}

	got, err := s.GetURL(ctx, url.ID)
	if err != nil {
		t.Fatalf("GetURL failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetURL returned nil for existing url")
	}

	if got.Loc != url.Loc {
		t.Errorf("Loc = %q, want %q", got.Loc, url.Loc)
	}
	if got.LastMod != url.LastMod {
		t.Errorf("LastMod = %q, want %q", got.LastMod, url.LastMod)
	}
	if got.ChangeFreq != url.ChangeFreq {
		t.Errorf("ChangeFreq = %q, want %q", got.ChangeFreq, url.ChangeFreq)
	}
	if got.Priority == nil || *got.Priority != priority {
		t.Errorf("Priority = %v, want %v", got.Priority, priority)
	}
	if len(got.Images) != 1 || got.Images[0] != url.Images[0] {
		t.Errorf("Images = %v, want %v", got.Images, url.Images)
	}
}

func TestGetURLNotFound(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.GetURL(context.Background(), models.NewSitemapURL("http://x").ID)
	if err != nil {
		t.Fatalf("GetURL failed: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing url")
	}
}

func TestCreateURLUpsertsOnLoc(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := models.NewSitemapURL("http://example.com/page")
	first.ChangeFreq = models.FreqWeekly
	if err := s.CreateURL(ctx, first); err != nil {
		t.Fatalf("CreateURL failed: %v", err)
	}

	second := models.NewSitemapURL("http://example.com/page")
	second.ChangeFreq = models.FreqHourly
	if err := s.CreateURL(ctx, second); err != nil {
		t.Fatalf("upsert CreateURL failed: %v", err)
	}

	urls, err := s.ListAllURLs(ctx)
	if err != nil {
		t.Fatalf("ListAllURLs failed: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url after upsert, got %d", len(urls))
	}
	if urls[0].ChangeFreq != models.FreqHourly {
		t.Errorf("ChangeFreq = %q, want %q after upsert", urls[0].ChangeFreq, models.FreqHourly)
	}
}

func TestListURLsOrderAndPagination(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	locs := []string{
		"http://example.com/a",
		"http://example.com/b",
		"http://example.com/c",
	}
	base := time.Now().Add(-time.Hour)
	for i, loc := range locs {
		url := models.NewSitemapURL(loc)
		url.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		url.UpdatedAt = url.CreatedAt
		if err := s.CreateURL(ctx, url); err != nil {
			t.Fatalf("CreateURL failed: %v", err)
		}
	}

	all, err := s.ListAllURLs(ctx)
	if err != nil {
		t.Fatalf("ListAllURLs failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(all))
	}
	for i, loc := range locs {
		if all[i].Loc != loc {
			t.Errorf("position %d = %q, want %q (insertion order)", i, all[i].Loc, loc)
		}
	}

	page, err := s.ListURLs(ctx, 2, 1)
	if err != nil {
		t.Fatalf("ListURLs failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 urls in page, got %d", len(page))
	}
	if page[0].Loc != locs[1] {
		t.Errorf("paged list starts at %q, want %q", page[0].Loc, locs[1])
	}
}

func TestDeleteURL(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	url := models.NewSitemapURL("http://example.com/gone")
	if err := s.CreateURL(ctx, url); err != nil {
		t.Fatalf("CreateURL failed: %v", err)
	}

	if err := s.DeleteURL(ctx, url.ID); err != nil {
		t.Fatalf("DeleteURL failed: %v", err)
	}

	got, err := s.GetURL(ctx, url.ID)
	if err != nil {
		t.Fatalf("GetURL failed: %v", err)
	}
	if got != nil {
		t.Error("url still present after delete")
	}
}

func TestDeleteURLByLoc(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.CreateURL(ctx, models.NewSitemapURL("http://example.com/x")); err != nil {
		t.Fatalf("CreateURL failed: %v", err)
	}

	n, err := s.DeleteURLByLoc(ctx, "http://example.com/x")
	if err != nil {
		t.Fatalf("DeleteURLByLoc failed: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteURLByLoc removed %d rows, want 1", n)
	}

	n, err = s.DeleteURLByLoc(ctx, "http://example.com/absent")
	if err != nil {
		t.Fatalf("DeleteURLByLoc failed: %v", err)
	}
	if n != 0 {
		t.Errorf("DeleteURLByLoc of absent loc removed %d rows, want 0", n)
	}
}
