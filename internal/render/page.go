package render

import (
	"fmt"
	"time"
)

// Site carries the site-wide values the news page needs.
type Site struct {
	Name        string
	LatestCount int
	HomeCount   int
}

// Page is the data for a complete news page.
type Page struct {
	SiteName  string
	PageTitle string
	Heading   string
	View      string
	Cards     []Card
	Latest    []Card
	Detail    *Detail
	Notice    string
	Error     string
	Year      int
}

// NewPage builds the page for the navigator's current state. requestedID is
// the permalink id the visitor asked for, used to explain a fallback to the list.
func NewPage(site Site, nav *Navigator, requestedID string, now time.Time) *Page {
	loc := nav.Location()
	state := nav.State()

	p := &Page{
		SiteName:  site.Name,
		PageTitle: fmt.Sprintf("お知らせ一覧｜%s", site.Name),
		Heading:   "お知らせ",
		View:      state.View.String(),
		Latest:    Cards(Latest(nav.Items(), site.LatestCount), loc, state.ID),
		Year:      now.Year(),
	}

	if a, ok := nav.Current(); ok {
		p.PageTitle = fmt.Sprintf("%s｜お知らせ｜%s", a.Title, site.Name)
		p.Heading = "お知らせ｜" + a.Title
		p.Detail = NewDetail(a, loc)
		return p
	}

	p.Cards = Cards(nav.Items(), loc, "")
	if requestedID != "" {
		p.Notice = MsgNotFound
	}
	return p
}

// ErrorPage builds the static failure page shown when the collection could not be fetched.
func ErrorPage(site Site, now time.Time) *Page {
	return &Page{
		SiteName:  site.Name,
		PageTitle: fmt.Sprintf("お知らせ一覧｜%s", site.Name),
		Heading:   "お知らせ",
		View:      ViewList.String(),
		Error:     MsgFetchFailed,
		Year:      now.Year(),
	}
}
