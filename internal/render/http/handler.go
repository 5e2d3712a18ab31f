package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/render"
)

const htmlContentType = "text/html; charset=utf-8"

type Handler struct {
	source   render.Source
	renderer *render.Renderer
	site     render.Site
	now      func() time.Time
}

func NewHandler(source render.Source, renderer *render.Renderer, site render.Site) *Handler {
	return &Handler{source: source, renderer: renderer, site: site, now: time.Now}
}

// Page renders the news list, or the detail view when the id query
// parameter names an existing announcement. If the collection cannot be
// fetched the static error page is served instead.
func (h *Handler) Page(c *gin.Context) {
	items, err := h.source.Fetch(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("fetch news collection failed", "error", err)
		h.write(c, http.StatusBadGateway, func(buf *bytes.Buffer) error {
			return h.renderer.RenderPage(buf, render.ErrorPage(h.site, h.now()))
		})
		return
	}

	requestedID := c.Query(render.PermalinkParam)
	nav := render.NewNavigator(items, render.NewMemoryHistory(), c.Request.URL)
	nav.Init()

	page := render.NewPage(h.site, nav, requestedID, h.now())
	h.write(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.RenderPage(buf, page)
	})
}

// Fragment renders only the main column for the state a history entry
// describes: the detail of ?id=, or the list. Scripts call it on back and
// forward navigation, so it never records history of its own.
func (h *Handler) Fragment(c *gin.Context) {
	items, ok := h.fetch(c)
	if !ok {
		return
	}

	base := *c.Request.URL
	base.Path = "/news"
	base.RawQuery = ""

	entry := render.EntryFromQuery(c.Request.URL.Query())
	nav := render.NewNavigator(items, render.NewMemoryHistory(), &base)
	nav.Replay(entry)

	if a, ok := nav.Current(); ok {
		h.write(c, http.StatusOK, func(buf *bytes.Buffer) error {
			return h.renderer.RenderDetail(buf, render.NewDetail(a, &base))
		})
		return
	}
	if entry != nil {
		h.write(c, http.StatusNotFound, func(buf *bytes.Buffer) error {
			return h.renderer.RenderError(buf, render.MsgNotFound)
		})
		return
	}
	h.write(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.RenderCards(buf, render.Cards(items, &base, ""))
	})
}

// Latest renders the home page widget: the newest few announcements as cards
// linking to their permalinks.
func (h *Handler) Latest(c *gin.Context) {
	items, ok := h.fetch(c)
	if !ok {
		return
	}

	base := *c.Request.URL
	base.Path = "/news"
	base.RawQuery = ""

	cards := render.Cards(render.Latest(items, h.site.HomeCount), &base, "")
	h.write(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.RenderCards(buf, cards)
	})
}

// Sidebar renders the compact latest list shown next to other pages.
func (h *Handler) Sidebar(c *gin.Context) {
	items, ok := h.fetch(c)
	if !ok {
		return
	}

	base := *c.Request.URL
	base.Path = "/news"
	base.RawQuery = ""

	cards := render.Cards(render.Latest(items, h.site.LatestCount), &base, c.Query(render.PermalinkParam))
	h.write(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.RenderLatest(buf, cards)
	})
}

// fetch loads the collection for a fragment, answering with the error
// fragment when that fails.
func (h *Handler) fetch(c *gin.Context) ([]news.Announcement, bool) {
	items, err := h.source.Fetch(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("fetch news collection failed", "error", err)
		h.write(c, http.StatusBadGateway, func(buf *bytes.Buffer) error {
			return h.renderer.RenderError(buf, render.MsgFetchFailed)
		})
		return nil, false
	}
	return items, true
}

// write renders into a buffer first so a template error never leaves a
// half-written response.
func (h *Handler) write(c *gin.Context, status int, fn func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		logging.FromContext(c.Request.Context()).Error("render news page failed", "error", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}
