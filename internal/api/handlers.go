package api

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/kb-sitemap/internal/models"
	"github.com/romangod6/kb-sitemap/internal/sitemap"
	"github.com/romangod6/kb-sitemap/internal/storage"
)

const sitemapContentType = "application/xml; charset=utf-8"

type Handler struct {
	store        storage.Store
	hostname     string
	targetFolder string
	doc          *sitemap.Document
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data  interface{} `json:"data"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func NewHandler(store storage.Store, hostname string, cacheTTL time.Duration, targetFolder string) *Handler {
	return &Handler{
		store:        store,
		hostname:     hostname,
		targetFolder: targetFolder,
		doc: sitemap.NewDocument(nil,
			sitemap.WithHostname(hostname),
			sitemap.WithCacheTTL(cacheTTL),
		),
	}
}

// ServeSitemap renders the full URL collection as a sitemap document.
// Repeated requests inside the cache TTL reuse the rendered bytes without
// touching the store.
func (h *Handler) ServeSitemap(c *gin.Context) {
	if xml, ok := h.doc.Cached(); ok {
		c.Data(http.StatusOK, sitemapContentType, []byte(xml))
		return
	}

	rows, err := h.store.ListAllURLs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch urls"})
		return
	}

	entries := make([]models.URL, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.Entry())
	}
	h.doc.SetEntries(entries)

	xml, err := h.doc.Render()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, sitemapContentType, []byte(xml))
}

// ServeSitemapFile serves a generated chunk or index file from the target
// folder.
func (h *Handler) ServeSitemapFile(c *gin.Context) {
	if h.targetFolder == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No generated sitemaps"})
		return
	}

	name := filepath.Base(c.Param("file"))
	if filepath.Ext(name) != ".xml" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid sitemap filename"})
		return
	}

	c.Header("Content-Type", sitemapContentType)
	c.File(filepath.Join(h.targetFolder, name))
}

func (h *Handler) ListURLs(c *gin.Context) {
	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	urls, err := h.store.ListURLs(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch urls"})
		return
	}

	if urls == nil {
		urls = []*models.SitemapURL{}
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:  urls,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) GetURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid url ID"})
		return
	}

	url, err := h.store.GetURL(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch url"})
		return
	}

	if url == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "URL not found"})
		return
	}

	c.JSON(http.StatusOK, url)
}

func (h *Handler) CreateURL(c *gin.Context) {
	var url models.SitemapURL
	if err := c.ShouldBindJSON(&url); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid url data"})
		return
	}

	// Entries are validated before they reach the store so a bad record
	// cannot poison every later render. Validation sees the same location
	// the renderer will: relative locs get the configured hostname first.
	entry := url.Entry()
	entry.Loc = sitemap.PrefixHostname(h.hostname, entry.Loc)
	if _, err := sitemap.NewEntry(entry, false); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if url.ID == uuid.Nil {
		url.ID = uuid.New()
	}

	now := time.Now()
	url.CreatedAt = now
	url.UpdatedAt = now

	if err := h.store.CreateURL(c.Request.Context(), &url); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create url"})
		return
	}

	h.doc.InvalidateCache()

	c.JSON(http.StatusCreated, url)
}

func (h *Handler) DeleteURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid url ID"})
		return
	}

	if err := h.store.DeleteURL(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete url"})
		return
	}

	h.doc.InvalidateCache()

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}
