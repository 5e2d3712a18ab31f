package script

import (
	"context"

	"github.com/akarihousing/news-backend/internal/auth"
	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
)

// Service is the server side of the shared-key script protocol.
// Every call that touches the collection checks the access key first.
type Service interface {
	Enabled() bool
	VerifyKey(ctx context.Context, key string) bool
	FetchNews(ctx context.Context, key string) ([]news.Announcement, error)
	// SaveNews replaces the whole collection with items.
	SaveNews(ctx context.Context, key string, items []news.Announcement) ([]news.Announcement, error)
}

type service struct {
	news news.Service
	keys *auth.AccessKeyChecker
}

func NewService(newsService news.Service, keys *auth.AccessKeyChecker) Service {
	return &service{news: newsService, keys: keys}
}

func (s *service) Enabled() bool {
	return s.keys.Enabled()
}

func (s *service) VerifyKey(ctx context.Context, key string) bool {
	ok := s.keys.Check(key)
	if !ok {
		logging.FromContext(ctx).Warn("script access key rejected")
	}
	return ok
}

func (s *service) FetchNews(ctx context.Context, key string) ([]news.Announcement, error) {
	if err := s.guard(ctx, key); err != nil {
		return nil, err
	}
	return s.news.List(ctx), nil
}

func (s *service) SaveNews(ctx context.Context, key string, items []news.Announcement) ([]news.Announcement, error) {
	if err := s.guard(ctx, key); err != nil {
		return nil, err
	}
	return s.news.ReplaceAll(ctx, items)
}

func (s *service) guard(ctx context.Context, key string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if !s.VerifyKey(ctx, key) {
		return ErrAccessDenied
	}
	return nil
}
