package sitemap

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/romangod6/kb-sitemap/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func fixedStat(mtime time.Time) StatFunc {
	return func(path string) (time.Time, error) {
		return mtime, nil
	}
}

func failingStat(path string) (time.Time, error) {
	return time.Time{}, fmt.Errorf("stat %s: no such file", path)
}

func TestNewEntryMissingLocation(t *testing.T) {
	_, err := NewEntry(models.URL{}, false)
	if !errors.Is(err, ErrMissingLocation) {
		t.Fatalf("expected ErrMissingLocation, got %v", err)
	}

	// safe mode does not bypass the location requirement
	_, err = NewEntry(models.URL{}, true)
	if !errors.Is(err, ErrMissingLocation) {
		t.Fatalf("expected ErrMissingLocation in safe mode, got %v", err)
	}
}

func TestNewEntryProtocolValidation(t *testing.T) {
	_, err := NewEntry(models.URL{Loc: "foo"}, false)
	if !errors.Is(err, ErrMissingProtocol) {
		t.Fatalf("expected ErrMissingProtocol for %q, got %v", "foo", err)
	}

	if _, err := NewEntry(models.URL{Loc: "http://foo"}, false); err != nil {
		t.Fatalf("expected http://foo to validate, got %v", err)
	}

	// safe mode trusts the caller
	if _, err := NewEntry(models.URL{Loc: "foo"}, true); err != nil {
		t.Fatalf("expected safe mode to skip protocol check, got %v", err)
	}
}

func TestNewEntryPriorityValidation(t *testing.T) {
	for _, p := range []float64{1.5, -0.1} {
		_, err := NewEntry(models.URL{Loc: "http://example.com", Priority: floatPtr(p)}, false)
		if !errors.Is(err, ErrInvalidPriority) {
			t.Errorf("priority %v: expected ErrInvalidPriority, got %v", p, err)
		}
	}

	for _, p := range []float64{0, 0.5, 1} {
		if _, err := NewEntry(models.URL{Loc: "http://example.com", Priority: floatPtr(p)}, false); err != nil {
			t.Errorf("priority %v: expected success, got %v", p, err)
		}
	}

	// out-of-range priority is accepted in safe mode
	if _, err := NewEntry(models.URL{Loc: "http://example.com", Priority: floatPtr(1.5)}, true); err != nil {
		t.Errorf("safe mode priority 1.5: expected success, got %v", err)
	}
}

func TestNewEntryChangeFreqValidation(t *testing.T) {
	_, err := NewEntry(models.URL{Loc: "http://example.com", ChangeFreq: "sometimes"}, false)
	if !errors.Is(err, ErrInvalidChangeFreq) {
		t.Fatalf("expected ErrInvalidChangeFreq, got %v", err)
	}

	for _, freq := range models.ChangeFreqs {
		if _, err := NewEntry(models.URL{Loc: "http://example.com", ChangeFreq: freq}, false); err != nil {
			t.Errorf("changefreq %q: expected success, got %v", freq, err)
		}
	}
}

func TestEntryRenderDefaults(t *testing.T) {
	e, err := NewEntry(models.URL{Loc: "http://example.com/page"}, false)
	if err != nil {
		t.Fatalf("NewEntry failed: %v", err)
	}

	got := e.Render()
	want := "<url><loc>http://example.com/page</loc><changefreq>weekly</changefreq><priority>0.5</priority></url>"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if strings.Contains(got, "<lastmod>") {
		t.Error("unset lastmod leaked into output")
	}
}

func TestEntryRenderAllFields(t *testing.T) {
	e, err := NewEntry(models.URL{
		Loc:        "http://example.com/page",
		LastMod:    "2024-06-01T10:00:00Z",
		ChangeFreq: models.FreqDaily,
		Priority:   floatPtr(0.8),
		Images:     []string{"http://example.com/a.png", "http://example.com/b.png"},
	}, false)
	if err != nil {
		t.Fatalf("NewEntry failed: %v", err)
	}

	want := "<url>" +
		"<loc>http://example.com/page</loc>" +
		"<image:image><image:loc>http://example.com/a.png</image:loc></image:image>" +
		"<image:image><image:loc>http://example.com/b.png</image:loc></image:image>" +
		"<lastmod>2024-06-01T10:00:00Z</lastmod>" +
		"<changefreq>daily</changefreq>" +
		"<priority>0.8</priority>" +
		"</url>"
	if got := e.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestEntryRenderEscapesLocation(t *testing.T) {
	e, err := NewEntry(models.URL{Loc: "http://example.com/a?b=1&c=2"}, false)
	if err != nil {
		t.Fatalf("NewEntry failed: %v", err)
	}
	if !strings.Contains(e.Render(), "<loc>http://example.com/a?b=1&amp;c=2</loc>") {
		t.Errorf("location not escaped: %q", e.Render())
	}

	// safe mode keeps the location byte-for-byte
	e, err = NewEntry(models.URL{Loc: "http://example.com/a?b=1&amp;c=2"}, true)
	if err != nil {
		t.Fatalf("NewEntry failed: %v", err)
	}
	if !strings.Contains(e.Render(), "<loc>http://example.com/a?b=1&amp;c=2</loc>") {
		t.Errorf("safe location was re-escaped: %q", e.Render())
	}
}

func TestLastModResolutionOrder(t *testing.T) {
	mtime := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	fromDate, _ := time.ParseInLocation(lastModLayout, "2012-05-03", time.Local)

	tests := []struct {
		name string
		url  models.URL
		stat StatFunc
		want string
	}{
		{
			name: "file mtime wins over everything",
			url: models.URL{
				Loc:         "http://example.com",
				LastModFile: "/tmp/page.html",
				LastModDate: "2012-05-03",
				LastMod:     "2020-01-01T00:00:00Z",
			},
			stat: fixedStat(mtime),
			want: mtime.Format(time.RFC3339),
		},
		{
			name: "date string beats iso string",
			url: models.URL{
				Loc:         "http://example.com",
				LastModDate: "2012-05-03",
				LastMod:     "2020-01-01T00:00:00Z",
			},
			stat: failingStat,
			want: fromDate.Format(time.RFC3339),
		},
		{
			name: "iso string stored verbatim",
			url: models.URL{
				Loc:     "http://example.com",
				LastMod: "2020-01-01T00:00:00+02:00",
			},
			stat: failingStat,
			want: "2020-01-01T00:00:00+02:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := newEntry(tt.url, false, tt.stat)
			if err != nil {
				t.Fatalf("newEntry failed: %v", err)
			}
			if e.lastMod != tt.want {
				t.Errorf("lastMod = %q, want %q", e.lastMod, tt.want)
			}
		})
	}
}

func TestLastModFileStatError(t *testing.T) {
	_, err := newEntry(models.URL{Loc: "http://example.com", LastModFile: "/nope"}, false, failingStat)
	if err == nil {
		t.Fatal("expected error when stat fails")
	}
}

func TestLastModDateParseError(t *testing.T) {
	_, err := NewEntry(models.URL{Loc: "http://example.com", LastModDate: "not-a-date"}, false)
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}
