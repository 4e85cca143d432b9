package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/kb-sitemap/config"
	"github.com/romangod6/kb-sitemap/internal/api"
	"github.com/romangod6/kb-sitemap/internal/models"
	"github.com/romangod6/kb-sitemap/internal/sitemap"
	"github.com/romangod6/kb-sitemap/internal/storage"
	"github.com/romangod6/kb-sitemap/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Initialize database tables
	if err := store.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database tables: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot generation of the chunked file set before serving
	if cfg.Sitemap.TargetFolder != "" {
		if err := generateFiles(ctx, cfg, store); err != nil {
			log.Fatalf("Failed to generate sitemap files: %v", err)
		}
	}

	// Initialize API server
	server := api.NewServer(&api.ServerConfig{
		Port:         cfg.Server.Port,
		Hostname:     cfg.Sitemap.Hostname,
		CacheTTL:     cfg.GetCacheTTL(),
		TargetFolder: cfg.Sitemap.TargetFolder,
	}, store)

	// Start the API server
	go func() {
		log.Printf("Starting API server on port %d", cfg.Server.Port)
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	// Wait for shutdown
	waitForShutdown(cancel, server)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Database.Driver == "postgres" {
		return storage.NewPostgresStore(cfg.Database.URL)
	}
	return storage.NewSQLiteStore(cfg.Database.Path)
}

func generateFiles(ctx context.Context, cfg *config.Config, store storage.Store) error {
	logger, err := utils.NewGenerationLogger(cfg.Sitemap.Hostname)
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.LogInfo("Starting sitemap generation for %s", cfg.Sitemap.Hostname)
	logger.LogInfo("  Target folder: %s", cfg.Sitemap.TargetFolder)
	logger.LogInfo("  Chunk size: %d", cfg.Sitemap.ChunkSize)

	rows, err := store.ListAllURLs(ctx)
	if err != nil {
		return err
	}
	logger.LogInfo("Loaded %d urls from store", len(rows))

	entries := make([]models.URL, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.Entry())
	}

	builder, err := sitemap.NewIndexBuilder(entries, cfg.Sitemap.TargetFolder, &sitemap.IndexConfig{
		Hostname:    cfg.Sitemap.Hostname,
		CacheTTL:    cfg.GetCacheTTL(),
		SitemapName: cfg.Sitemap.Name,
		ChunkSize:   cfg.Sitemap.ChunkSize,
	})
	if err != nil {
		return err
	}

	if err := builder.Write(ctx); err != nil {
		logger.LogError("Sitemap generation failed: %v", err)
		return err
	}

	logger.LogInfo("Wrote %d sitemap files and %s", builder.ChunkCount(), builder.IndexFilename())
	return nil
}

func waitForShutdown(cancel context.CancelFunc, server *api.Server) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down...")
	cancel()

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	log.Println("Server shut down gracefully")
}
