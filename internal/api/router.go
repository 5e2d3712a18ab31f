package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarihousing/news-backend/internal/auth"
	"github.com/akarihousing/news-backend/internal/news"
	newsHttp "github.com/akarihousing/news-backend/internal/news/http"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/pkg/metrics"
	"github.com/akarihousing/news-backend/internal/pkg/ratelimit"
	"github.com/akarihousing/news-backend/internal/pkg/requestid"
	"github.com/akarihousing/news-backend/internal/render"
	renderHttp "github.com/akarihousing/news-backend/internal/render/http"
	"github.com/akarihousing/news-backend/internal/script"
	scriptHttp "github.com/akarihousing/news-backend/internal/script/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	Logger       *slog.Logger

	NewsService   news.Service
	ScriptService script.Service
	Verifier      auth.Verifier
	Audience      string

	Renderer   *render.Renderer
	PageSource render.Source
	Site       render.Site

	WriteLimiter *ratelimit.RateLimiter
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (request ID, logging, metrics, CORS)
// and registering routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(newsHttp.MethodNotAllowed)

	// Global Middleware:
	// - requestid: Reads or assigns X-Request-ID and stores it in the request context.
	// - logging: Structured access log carrying the request ID.
	// - metrics: Prometheus request counters and latency per route.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(requestid.Middleware(), logging.Middleware(logger), metrics.Middleware(), gin.Recovery())
	r.Use(CORS())

	writeMiddleware := []gin.HandlerFunc{}
	if cfg.WriteLimiter != nil {
		writeMiddleware = append(writeMiddleware, cfg.WriteLimiter.Middleware())
	}

	newsHandler := newsHttp.NewHandler(cfg.NewsService, cfg.Verifier, cfg.Audience)
	scriptHandler := scriptHttp.NewHandler(cfg.ScriptService)

	api := r.Group("/api")
	{
		newsHttp.RegisterRoutes(api, newsHandler, writeMiddleware...)
		scriptHttp.RegisterRoutes(api, scriptHandler, writeMiddleware...)
	}

	// The stored document, for static clients.
	r.GET("/data/news.json", newsHandler.Document)

	if cfg.Renderer != nil {
		source := cfg.PageSource
		if source == nil {
			source = render.ServiceSource(cfg.NewsService)
		}
		pageHandler := renderHttp.NewHandler(source, cfg.Renderer, cfg.Site)
		renderHttp.RegisterRoutes(r, pageHandler, SecureHeaders(cfg.IsProduction))
	}

	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", healthz(cfg.Verifier))

	return r
}

// healthChecker is implemented by dependencies that can report their own state.
type healthChecker interface {
	Healthy() bool
}

// healthz always answers 200 so the process stays in rotation; writes need
// the token endpoint, so an open breaker there is reported as degraded.
func healthz(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenInfo := "ok"
		if hc, ok := verifier.(healthChecker); ok && !hc.Healthy() {
			tokenInfo = "unavailable"
		}

		status := "ok"
		if tokenInfo != "ok" {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "tokeninfo": tokenInfo})
	}
}
