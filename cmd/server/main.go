package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akarihousing/news-backend/internal/app"
	"github.com/akarihousing/news-backend/internal/config"
	"github.com/akarihousing/news-backend/internal/db"
	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/pkg/storage"
	"github.com/akarihousing/news-backend/internal/render"
)

// documentName is the PostgreSQL row holding the collection.
const documentName = "news"

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.IDTokenAudience == "" {
		logger.Warn("IDTOKEN_AUDIENCE is not set; every write will be refused")
	}

	// Select store
	var store news.Store
	switch cfg.NewsStore {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("failed to connect to db", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pgStore := news.NewPgStore(pool, documentName)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare schema", "error", err)
			os.Exit(1)
		}
		store = pgStore
	default:
		st, err := storage.NewLocalStorage(cfg.DataDir)
		if err != nil {
			logger.Error("failed to open data dir", "dir", cfg.DataDir, "error", err)
			os.Exit(1)
		}
		store = news.NewFileStore(st, cfg.NewsFile)
	}

	container, err := app.NewContainer(app.Config{
		IsProduction:        cfg.IsProduction,
		Logger:              logger,
		Store:               store,
		TokenInfoURL:        cfg.TokenInfoURL,
		TokenInfoTimeout:    cfg.TokenInfoTimeout,
		Audience:            cfg.IDTokenAudience,
		ScriptAccessKeyHash: cfg.ScriptAccessKeyHash,
		Site:                render.Site(cfg.Site),
		NewsSourceURL:       cfg.NewsSourceURL,
		WriteRateLimit:      cfg.WriteRateLimit,
		WriteRateBurst:      cfg.WriteRateBurst,
	})
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info("server running", "addr", cfg.HTTPAddr, "store", cfg.NewsStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited gracefully")
}
