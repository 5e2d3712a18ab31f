package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/render"
)

type staticStore struct {
	items []news.Announcement
}

func (s *staticStore) Load(ctx context.Context) []news.Announcement {
	out := append([]news.Announcement{}, s.items...)
	news.SortByDate(out)
	return out
}

func (s *staticStore) Save(ctx context.Context, items []news.Announcement) error {
	s.items = items
	return nil
}

type failingSource struct{}

func (failingSource) Fetch(ctx context.Context) ([]news.Announcement, error) {
	return nil, render.ErrFetch
}

func newTestRouter(t *testing.T, items []news.Announcement) *gin.Engine {
	t.Helper()
	return newSourceRouter(t, render.ServiceSource(news.NewService(&staticStore{items: items})))
}

func newSourceRouter(t *testing.T, source render.Source) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	h := NewHandler(source, renderer, render.Site{Name: "Akari", LatestCount: 5, HomeCount: 1})
	h.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	r := gin.New()
	RegisterRoutes(r, h)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

var pageItems = []news.Announcement{
	{ID: "20250101-old", Date: "2025-01-01", Title: "Old", Excerpt: "old", Content: "old body"},
	{ID: "20251001-new", Date: "2025-10-01", Title: "New", Excerpt: "new", Content: "Line one\n\nLine two"},
}

func TestPage_List(t *testing.T) {
	w := get(newTestRouter(t, pageItems), "/news")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `data-view="list"`)
	assert.Contains(t, body, `href="/news?id=20251001-new"`)
	assert.Less(t, strings.Index(body, "20251001-new"), strings.Index(body, "20250101-old"), "newest first")
	assert.Contains(t, body, "&copy; 2026 Akari")
}

func TestPage_DetailPermalink(t *testing.T) {
	w := get(newTestRouter(t, pageItems), "/news?id=20251001-new")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-view="detail"`)
	assert.Contains(t, body, "<p>Line one</p>")
	assert.Contains(t, body, "<p>Line two</p>")
	assert.Contains(t, body, `href="/news"`)
}

func TestPage_UnknownPermalinkShowsList(t *testing.T) {
	w := get(newTestRouter(t, pageItems), "/news?id=nope")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-view="list"`)
	assert.Contains(t, body, "指定されたお知らせは見つかりませんでした。")
}

func TestLatest_HomeWidget(t *testing.T) {
	w := get(newTestRouter(t, pageItems), "/news/latest?utm=x")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/news?id=20251001-new"`)
	assert.NotContains(t, body, "20250101-old", "home widget shows HomeCount items")
}

func TestLatest_Empty(t *testing.T) {
	w := get(newTestRouter(t, nil), "/news/latest")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "現在表示できるお知らせはありません。")
}

func TestPage_FetchFailureShowsErrorState(t *testing.T) {
	w := get(newSourceRouter(t, failingSource{}), "/news?id=20251001-new")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `<p class="news-error">ニュースの取得に失敗しました。</p>`)
	assert.Contains(t, body, `data-view="list"`)
	assert.NotContains(t, body, "news-card")
	assert.Contains(t, body, "&copy; 2026 Akari")
}

func TestPage_RemoteSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pageItems)
	}))
	t.Cleanup(srv.Close)

	r := newSourceRouter(t, render.NewClient(srv.URL+"/data/news.json", srv.Client()))

	w := get(r, "/news?id=20250101-old")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>old body</p>")

	srv.Close()
	w = get(r, "/news")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), render.MsgFetchFailed)
}

func TestFragment(t *testing.T) {
	r := newTestRouter(t, pageItems)

	t.Run("detail", func(t *testing.T) {
		w := get(r, "/news/fragment?id=20251001-new")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.True(t, strings.HasPrefix(body, `<article class="news-article" data-current-id="20251001-new">`))
		assert.Contains(t, body, "<p>Line one</p>")
		assert.Contains(t, body, `href="/news"`)
		assert.NotContains(t, body, "<html")
	})

	t.Run("list", func(t *testing.T) {
		w := get(r, "/news/fragment")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `href="/news?id=20251001-new"`)
		assert.Contains(t, body, `href="/news?id=20250101-old"`)
		assert.NotContains(t, body, "<html")
	})

	t.Run("unknown id", func(t *testing.T) {
		w := get(r, "/news/fragment?id=nope")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), render.MsgNotFound)
	})

	t.Run("fetch failure", func(t *testing.T) {
		w := get(newSourceRouter(t, failingSource{}), "/news/fragment")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, `<p class="news-error">ニュースの取得に失敗しました。</p>`+"\n", w.Body.String())
	})
}

func TestSidebar(t *testing.T) {
	w := get(newTestRouter(t, pageItems), "/news/sidebar?id=20250101-old")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, `<ul class="news-latest">`))
	assert.Less(t, strings.Index(body, "20251001-new"), strings.Index(body, "20250101-old"))
	assert.Contains(t, body, `<li data-news-id="20250101-old" class="is-active">`)
}

func TestLatest_FetchFailure(t *testing.T) {
	w := get(newSourceRouter(t, failingSource{}), "/news/latest")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), render.MsgFetchFailed)
}
