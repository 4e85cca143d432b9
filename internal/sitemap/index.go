package sitemap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/romangod6/kb-sitemap/internal/models"
)

const (
	// DefaultSitemapName is the filename stem for generated chunk files.
	DefaultSitemapName = "sitemap"

	indexOpen  = `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">`
	indexClose = `</sitemapindex>`
)

// FileWriter persists rendered documents. The default implementation writes
// through os.WriteFile; tests substitute their own.
type FileWriter interface {
	WriteFile(path string, data []byte) error
}

type osFileWriter struct{}

func (osFileWriter) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// IndexConfig holds the optional knobs for an IndexBuilder.
type IndexConfig struct {
	Hostname    string
	CacheTTL    time.Duration
	SitemapName string        // defaults to DefaultSitemapName
	ChunkSize   int           // unset or >= len(urls) means a single chunk
	Writer      FileWriter    // defaults to the os implementation
}

// IndexBuilder partitions a URL collection into fixed-size chunks, each
// rendered as its own sitemap document, plus an index document referencing
// every chunk file.
type IndexBuilder struct {
	chunks       []*Document
	filenames    []string
	targetFolder string
	hostname     string
	name         string
	writer       FileWriter
}

// NewIndexBuilder partitions urls into consecutive chunks of at most
// ChunkSize entries. targetFolder must already exist; it is checked, not
// created.
func NewIndexBuilder(urls []models.URL, targetFolder string, cfg *IndexConfig) (*IndexBuilder, error) {
	if cfg == nil {
		cfg = &IndexConfig{}
	}

	fi, err := os.Stat(targetFolder)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTargetFolderMissing, targetFolder)
	}

	name := cfg.SitemapName
	if name == "" {
		name = DefaultSitemapName
	}
	writer := cfg.Writer
	if writer == nil {
		writer = osFileWriter{}
	}

	b := &IndexBuilder{
		targetFolder: targetFolder,
		hostname:     cfg.Hostname,
		name:         name,
		writer:       writer,
	}

	size := cfg.ChunkSize
	if size <= 0 || size >= len(urls) {
		size = len(urls)
	}
	if size == 0 {
		size = 1 // empty collection still yields one empty chunk
	}

	for start := 0; start < len(urls) || len(b.chunks) == 0; start += size {
		end := start + size
		if end > len(urls) {
			end = len(urls)
		}
		doc := NewDocument(urls[start:end],
			WithHostname(cfg.Hostname),
			WithCacheTTL(cfg.CacheTTL),
		)
		idx := len(b.chunks)
		b.chunks = append(b.chunks, doc)
		b.filenames = append(b.filenames, fmt.Sprintf("%s-%d.xml", name, idx))
	}

	return b, nil
}

// ChunkCount reports how many sitemap files the builder produces.
func (b *IndexBuilder) ChunkCount() int { return len(b.chunks) }

// Filenames returns the generated chunk filenames in chunk order.
func (b *IndexBuilder) Filenames() []string {
	return append([]string(nil), b.filenames...)
}

// IndexFilename is the name of the index document.
func (b *IndexBuilder) IndexFilename() string {
	return fmt.Sprintf("%s-index.xml", b.name)
}

// RenderIndex produces the <sitemapindex> document referencing every chunk
// file by its {hostname}/{filename} location.
func (b *IndexBuilder) RenderIndex() string {
	var sb strings.Builder
	sb.WriteString(xmlProlog)
	sb.WriteString("\n")
	sb.WriteString(indexOpen)
	sb.WriteString("\n")
	for _, fname := range b.filenames {
		sb.WriteString("<sitemap><loc>")
		sb.WriteString(b.hostname)
		sb.WriteString("/")
		sb.WriteString(fname)
		sb.WriteString("</loc></sitemap>")
		sb.WriteString("\n")
	}
	sb.WriteString(indexClose)
	return sb.String()
}

// Write renders every chunk and persists all chunk files plus the index
// file concurrently. The first failure cancels the rest and is returned.
func (b *IndexBuilder) Write(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := range b.chunks {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			xml, err := b.chunks[i].Render()
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			path := filepath.Join(b.targetFolder, b.filenames[i])
			if err := b.writer.WriteFile(path, []byte(xml)); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(b.targetFolder, b.IndexFilename())
		if err := b.writer.WriteFile(path, []byte(b.RenderIndex())); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	})

	return g.Wait()
}
