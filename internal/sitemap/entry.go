package sitemap

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/romangod6/kb-sitemap/internal/models"
)

// Defaults applied when an entry leaves the field unset.
const (
	DefaultChangeFreq = models.FreqWeekly
	DefaultPriority   = 0.5
)

const lastModLayout = "2006-01-02"

// StatFunc reports the modification time of a file. It exists so entry
// construction can resolve lastmodFile without touching the real
// filesystem in tests.
type StatFunc func(path string) (time.Time, error)

func osModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

var validFreqs = func() map[string]bool {
	m := make(map[string]bool, len(models.ChangeFreqs))
	for _, f := range models.ChangeFreqs {
		m[f] = true
	}
	return m
}()

// Entry is a validated sitemap URL ready to be rendered as a <url> fragment.
type Entry struct {
	loc        string
	lastMod    string
	changeFreq string
	priority   float64
	images     []string
}

// NewEntry validates u and builds a renderable entry. With safe set the
// location, change frequency and priority are trusted as given: no protocol
// check, no escaping, no range checks.
func NewEntry(u models.URL, safe bool) (*Entry, error) {
	return newEntry(u, safe, osModTime)
}

func newEntry(u models.URL, safe bool, stat StatFunc) (*Entry, error) {
	if u.Loc == "" {
		return nil, ErrMissingLocation
	}

	e := &Entry{
		loc:        u.Loc,
		changeFreq: u.ChangeFreq,
		priority:   DefaultPriority,
	}
	if e.changeFreq == "" {
		e.changeFreq = DefaultChangeFreq
	}
	if u.Priority != nil {
		e.priority = *u.Priority
	}

	if !safe {
		parsed, err := url.Parse(u.Loc)
		if err != nil || parsed.Scheme == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingProtocol, u.Loc)
		}
		e.loc = html.EscapeString(u.Loc)

		if !validFreqs[e.changeFreq] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChangeFreq, e.changeFreq)
		}
		if e.priority < 0.0 || e.priority > 1.0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPriority, e.priority)
		}
	}

	lastMod, err := resolveLastMod(u, stat)
	if err != nil {
		return nil, err
	}
	e.lastMod = lastMod

	for _, img := range u.Images {
		if !safe {
			img = html.EscapeString(img)
		}
		e.images = append(e.images, img)
	}

	return e, nil
}

// resolveLastMod picks the last-modified value from the first source
// present: file mtime, then local date string, then the ISO string verbatim.
func resolveLastMod(u models.URL, stat StatFunc) (string, error) {
	switch {
	case u.LastModFile != "":
		mtime, err := stat(u.LastModFile)
		if err != nil {
			return "", fmt.Errorf("sitemap: stat %s: %w", u.LastModFile, err)
		}
		return mtime.Format(time.RFC3339), nil
	case u.LastModDate != "":
		t, err := time.ParseInLocation(lastModLayout, u.LastModDate, time.Local)
		if err != nil {
			return "", fmt.Errorf("sitemap: parse lastmod date %q: %w", u.LastModDate, err)
		}
		return t.Format(time.RFC3339), nil
	default:
		return u.LastMod, nil
	}
}

// Render produces the <url> fragment. Sub-elements appear in fixed order:
// loc, image blocks, lastmod, changefreq, priority. Unset fields emit
// nothing.
func (e *Entry) Render() string {
	var b strings.Builder
	b.WriteString("<url>")
	b.WriteString("<loc>")
	b.WriteString(e.loc)
	b.WriteString("</loc>")
	for _, img := range e.images {
		b.WriteString("<image:image><image:loc>")
		b.WriteString(img)
		b.WriteString("</image:loc></image:image>")
	}
	if e.lastMod != "" {
		b.WriteString("<lastmod>")
		b.WriteString(e.lastMod)
		b.WriteString("</lastmod>")
	}
	if e.changeFreq != "" {
		b.WriteString("<changefreq>")
		b.WriteString(e.changeFreq)
		b.WriteString("</changefreq>")
	}
	b.WriteString("<priority>")
	b.WriteString(strconv.FormatFloat(e.priority, 'f', -1, 64))
	b.WriteString("</priority>")
	b.WriteString("</url>")
	return b.String()
}
