package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/kb-sitemap/internal/storage"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

// ServerConfig carries the sitemap-facing settings the handlers need.
type ServerConfig struct {
	Port         int
	Hostname     string
	CacheTTL     time.Duration
	TargetFolder string
}

func NewServer(cfg *ServerConfig, store storage.Store) *Server {
	router := gin.Default()

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create handler
	handler := NewHandler(store, cfg.Hostname, cfg.CacheTTL, cfg.TargetFolder)

	// Sitemap documents
	router.GET("/sitemap.xml", handler.ServeSitemap)
	router.GET("/sitemaps/:file", handler.ServeSitemapFile)

	// Setup routes
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// URL collection routes
		urls := api.Group("/urls")
		{
			urls.GET("", handler.ListURLs)
			urls.GET("/:id", handler.GetURL)
			urls.POST("", handler.CreateURL)
			urls.DELETE("/:id", handler.DeleteURL)
		}
	}

	return &Server{
		router: router,
		port:   cfg.Port,
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
