package render

import (
	"context"
	"net/url"

	"github.com/akarihousing/news-backend/internal/news"
)

// Source supplies the collection a page is rendered from.
type Source interface {
	Fetch(ctx context.Context) ([]news.Announcement, error)
}

type serviceSource struct {
	service news.Service
}

// ServiceSource reads the collection straight from service. It never fails,
// since the store treats an unreadable document as empty.
func ServiceSource(service news.Service) Source {
	return serviceSource{service: service}
}

func (s serviceSource) Fetch(ctx context.Context) ([]news.Announcement, error) {
	return s.service.List(ctx), nil
}

// EntryFromQuery rebuilds the history entry a fragment request stands for.
// A request without the permalink parameter is the list view, reported as nil.
func EntryFromQuery(q url.Values) *Entry {
	id := q.Get(PermalinkParam)
	if id == "" {
		return nil
	}
	return &Entry{View: ViewDetail, ID: id}
}
