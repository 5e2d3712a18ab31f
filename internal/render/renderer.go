package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/akarihousing/news-backend/internal/news"
)

//go:embed templates/*.html
var templateFS embed.FS

// Messages shown in place of announcements.
const (
	MsgFetchFailed = "ニュースの取得に失敗しました。"
	MsgNotFound    = "指定されたお知らせは見つかりませんでした。最新の記事をご確認ください。"
)

// Card is one announcement in the list, sidebar or home views.
type Card struct {
	ID          string
	Date        string
	DisplayDate string
	Title       string
	Excerpt     string
	Href        string
	Active      bool
}

// Detail is the full view of one announcement.
type Detail struct {
	ID          string
	Date        string
	DisplayDate string
	Title       string
	Paragraphs  []string
	BackHref    string
}

// Renderer executes the embedded news templates. html/template escapes
// &, <, >, " and ' in every interpolated value.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse news templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Cards builds list cards for items, marking activeID.
func Cards(items []news.Announcement, base *url.URL, activeID string) []Card {
	cards := make([]Card, 0, len(items))
	for _, a := range items {
		cards = append(cards, Card{
			ID:          a.ID,
			Date:        a.Date,
			DisplayDate: FormatDate(a.Date),
			Title:       a.Title,
			Excerpt:     Excerpt(a),
			Href:        PermalinkURL(base, State{View: ViewDetail, ID: a.ID}),
			Active:      a.ID == activeID,
		})
	}
	return cards
}

// NewDetail builds the detail view of a.
func NewDetail(a news.Announcement, base *url.URL) *Detail {
	return &Detail{
		ID:          a.ID,
		Date:        a.Date,
		DisplayDate: FormatDate(a.Date),
		Title:       a.Title,
		Paragraphs:  Paragraphs(a.Content),
		BackHref:    PermalinkURL(base, ListState),
	}
}

// RenderCards writes the list fragment.
func (r *Renderer) RenderCards(w io.Writer, cards []Card) error {
	return r.tmpl.ExecuteTemplate(w, "cards", cards)
}

// RenderLatest writes the sidebar fragment.
func (r *Renderer) RenderLatest(w io.Writer, cards []Card) error {
	return r.tmpl.ExecuteTemplate(w, "latest", cards)
}

// RenderDetail writes the detail fragment.
func (r *Renderer) RenderDetail(w io.Writer, d *Detail) error {
	return r.tmpl.ExecuteTemplate(w, "detail", d)
}

// RenderError writes the static failure state.
func (r *Renderer) RenderError(w io.Writer, message string) error {
	return r.tmpl.ExecuteTemplate(w, "error", message)
}

// RenderPage writes a complete news page.
func (r *Renderer) RenderPage(w io.Writer, p *Page) error {
	// Render to a buffer first so a template error never leaves half a page.
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", p); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
