package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akarihousing/news-backend/internal/api"
	"github.com/akarihousing/news-backend/internal/auth"
	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/pkg/ratelimit"
	"github.com/akarihousing/news-backend/internal/render"
	"github.com/akarihousing/news-backend/internal/script"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	Logger       *slog.Logger

	Store news.Store

	// Verifier overrides the token introspection client, mainly for tests.
	Verifier         auth.Verifier
	TokenInfoURL     string
	TokenInfoTimeout time.Duration
	Audience         string

	ScriptAccessKeyHash string

	Site render.Site

	// NewsSourceURL switches the news pages to fetching the collection over HTTP.
	NewsSourceURL string

	WriteRateLimit float64
	WriteRateBurst int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	NewsService news.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	verifier := cfg.Verifier
	if verifier == nil {
		verifier = auth.NewTokenInfoVerifier(cfg.TokenInfoURL, cfg.TokenInfoTimeout)
	}
	accessKeys := auth.NewAccessKeyChecker(cfg.ScriptAccessKeyHash)

	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, err
	}

	// News Module
	newsService := news.NewService(cfg.Store)

	// Script Module
	scriptService := script.NewService(newsService, accessKeys)

	// Page Source
	var pageSource render.Source = render.ServiceSource(newsService)
	if cfg.NewsSourceURL != "" {
		pageSource = render.NewClient(cfg.NewsSourceURL, nil)
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:  cfg.IsProduction,
		Logger:        cfg.Logger,
		NewsService:   newsService,
		ScriptService: scriptService,
		Verifier:      verifier,
		Audience:      cfg.Audience,
		Renderer:      renderer,
		PageSource:    pageSource,
		Site:          cfg.Site,
		WriteLimiter:  ratelimit.NewRateLimiter(cfg.WriteRateLimit, cfg.WriteRateBurst),
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:      router,
		NewsService: newsService,
	}, nil
}
