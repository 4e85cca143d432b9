package sitemap

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/romangod6/kb-sitemap/internal/models"
)

// MaxURLs is the sitemaps.org ceiling for a single document. Render refuses
// larger collections; callers with more URLs use an IndexBuilder.
const MaxURLs = 50000

const (
	xmlProlog   = `<?xml version="1.0" encoding="UTF-8"?>`
	urlsetOpen  = `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">`
	urlsetClose = `</urlset>`
)

// Document owns an ordered URL collection and renders it as a <urlset>
// document. Insertion order is rendering order. Mutating the collection does
// not invalidate the render cache; it expires by TTL or explicit
// InvalidateCache.
type Document struct {
	mu       sync.RWMutex
	entries  []models.URL
	hostname string
	cache    *renderCache
	stat     StatFunc
}

// DocumentOption configures a Document at construction.
type DocumentOption func(*Document)

// WithHostname prepends hostname to entry locations that do not already
// carry an http:// or https:// prefix.
func WithHostname(hostname string) DocumentOption {
	return func(d *Document) { d.hostname = hostname }
}

// WithCacheTTL bounds how long a rendered document is reused. Zero disables
// the cache.
func WithCacheTTL(ttl time.Duration) DocumentOption {
	return func(d *Document) { d.cache = newRenderCache(ttl) }
}

// NewDocument copies urls into a new document. The cache starts empty.
func NewDocument(urls []models.URL, opts ...DocumentOption) *Document {
	d := &Document{
		entries: append([]models.URL(nil), urls...),
		cache:   newRenderCache(0),
		stat:    osModTime,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add appends one entry and returns the new count.
func (d *Document) Add(u models.URL) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, u)
	return len(d.entries)
}

// AddLoc appends a bare location, normalized to an entry record at
// ingestion, and returns the new count.
func (d *Document) AddLoc(loc string) int {
	return d.Add(models.URL{Loc: loc})
}

// Remove drops every entry whose location exactly equals loc and returns
// how many were removed.
func (d *Document) Remove(loc string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.entries[:0]
	removed := 0
	for _, u := range d.entries {
		if u.Loc == loc {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	d.entries = kept
	return removed
}

// SetEntries replaces the whole collection. The cache is left untouched.
func (d *Document) SetEntries(urls []models.URL) {
	d.mu.Lock()
	d.entries = append([]models.URL(nil), urls...)
	d.mu.Unlock()
}

// Len reports the current entry count.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Cached returns the cached document without rendering, if still fresh.
func (d *Document) Cached() (string, bool) {
	return d.cache.Get()
}

// InvalidateCache forces the next Render to recompute.
func (d *Document) InvalidateCache() {
	d.cache.Invalidate()
}

// Render returns the full sitemap document. A fresh cache entry is returned
// as-is with no recomputation. Otherwise every entry is validated and
// rendered; the first invalid entry aborts the whole render.
func (d *Document) Render() (string, error) {
	if xml, ok := d.cache.Get(); ok {
		return xml, nil
	}

	d.mu.RLock()
	entries := append([]models.URL(nil), d.entries...)
	d.mu.RUnlock()

	if len(entries) > MaxURLs {
		return "", fmt.Errorf("%w: %d urls", ErrTooManyEntries, len(entries))
	}

	var b strings.Builder
	b.WriteString(xmlProlog)
	b.WriteString("\n")
	b.WriteString(urlsetOpen)
	b.WriteString("\n")
	for _, u := range entries {
		u.Loc = d.prefixHostname(u.Loc)
		e, err := newEntry(u, false, d.stat)
		if err != nil {
			return "", err
		}
		b.WriteString(e.Render())
		b.WriteString("\n")
	}
	b.WriteString(urlsetClose)

	out := b.String()
	d.cache.Set(out)
	return out, nil
}

// RenderResult carries the outcome of a non-blocking render.
type RenderResult struct {
	XML string
	Err error
}

// RenderAsync renders on a separate goroutine and never blocks the caller.
// The returned channel delivers exactly one result.
func (d *Document) RenderAsync() <-chan RenderResult {
	ch := make(chan RenderResult, 1)
	go func() {
		xml, err := d.Render()
		ch <- RenderResult{XML: xml, Err: err}
	}()
	return ch
}

func (d *Document) prefixHostname(loc string) string {
	return PrefixHostname(d.hostname, loc)
}

// PrefixHostname prepends hostname to loc unless loc already carries an
// http:// or https:// prefix (case-insensitive) or no hostname is set.
func PrefixHostname(hostname, loc string) string {
	if hostname == "" || hasScheme(loc) {
		return loc
	}
	return hostname + loc
}

func hasScheme(loc string) bool {
	lower := strings.ToLower(loc)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
