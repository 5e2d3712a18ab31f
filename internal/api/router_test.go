package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarihousing/news-backend/internal/auth"
	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/pkg/storage"
)

type stubVerifier struct {
	healthy bool
}

func (stubVerifier) Verify(ctx context.Context, token, audience string) (auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (v stubVerifier) Healthy() bool { return v.healthy }

func newTestRouter(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	cfg.NewsService = news.NewService(news.NewFileStore(st, "news.json"))
	cfg.Audience = "client-123.apps.googleusercontent.com"

	r := NewRouter(cfg)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		verifier auth.Verifier
		want     string
	}{
		{"endpoint reachable", stubVerifier{healthy: true}, `{"status":"ok","tokeninfo":"ok"}`},
		{"breaker open", stubVerifier{healthy: false}, `{"status":"degraded","tokeninfo":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, Config{Verifier: tt.verifier})

			w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestCORS_AllowsAnyOriginInProduction(t *testing.T) {
	r := newTestRouter(t, Config{IsProduction: true, Verifier: stubVerifier{healthy: true}})

	req := httptest.NewRequest(http.MethodOptions, "/api/news", nil)
	req.Header.Set("Origin", "https://partner.example.net")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/news", nil)
	req.Header.Set("Origin", "https://another.example.org")
	w = serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
