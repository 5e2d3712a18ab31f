package news

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/pkg/metrics"
)

type Service interface {
	List(ctx context.Context) []Announcement
	GetByID(ctx context.Context, id string) (Announcement, error)
	// Save creates or updates one announcement. Validation failures are
	// returned as FieldErrors; storage failures wrap ErrSaveFailed.
	Save(ctx context.Context, in Input) (SaveResult, error)
	Delete(ctx context.Context, id string) error
	// ReplaceAll validates items and replaces the whole collection with them.
	ReplaceAll(ctx context.Context, items []Announcement) ([]Announcement, error)
}

type service struct {
	store Store

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context) []Announcement {
	items := s.store.Load(ctx)
	metrics.NewsItems.Set(float64(len(items)))
	return items
}

func (s *service) GetByID(ctx context.Context, id string) (Announcement, error) {
	a, ok := Find(ctx, s.store, id, nil)
	if !ok {
		return Announcement{}, ErrNotFound
	}
	return a, nil
}

func (s *service) Save(ctx context.Context, in Input) (SaveResult, error) {
	errs, data := Validate(in)
	if len(errs) > 0 {
		return SaveResult{}, errs
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.store.Load(ctx)

	id := SanitizeID(data.ID)
	if id == "" {
		id = Uniquify(DeriveID(data.Title, data.Date), IDs(items))
	}
	data.ID = id

	updated := false
	for i := range items {
		if items[i].ID == id {
			items[i] = data
			updated = true
			break
		}
	}
	if !updated {
		items = append(items, data)
	}
	SortByDate(items)

	operation := "create"
	if updated {
		operation = "update"
	}

	if err := s.store.Save(ctx, items); err != nil {
		metrics.RecordWrite(operation, err)
		return SaveResult{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	metrics.RecordWrite(operation, nil)
	metrics.NewsItems.Set(float64(len(items)))

	logging.FromContext(ctx).Info("announcement saved", "id", id, "updated", updated)
	return SaveResult{Item: data, Updated: updated}, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.store.Load(ctx)
	kept := make([]Announcement, 0, len(items))
	for _, a := range items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}

	if err := s.store.Save(ctx, kept); err != nil {
		metrics.RecordWrite("delete", err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	metrics.RecordWrite("delete", nil)
	metrics.NewsItems.Set(float64(len(kept)))

	logging.FromContext(ctx).Info("announcement deleted", "id", id)
	return nil
}

func (s *service) ReplaceAll(ctx context.Context, items []Announcement) ([]Announcement, error) {
	out := make([]Announcement, 0, len(items))
	seen := make(map[string]bool, len(items))

	for i, a := range items {
		errs, data := Validate(Input(a))
		if len(errs) > 0 {
			return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidPayload, i, errs)
		}
		data.ID = SanitizeID(data.ID)
		if data.ID == "" {
			return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidPayload, i, ErrIDRequired)
		}
		if seen[data.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, data.ID)
		}
		seen[data.ID] = true
		out = append(out, data)
	}
	SortByDate(out)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, out); err != nil {
		metrics.RecordWrite("replace", err)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	metrics.RecordWrite("replace", nil)
	metrics.NewsItems.Set(float64(len(out)))

	logging.FromContext(ctx).Info("announcements replaced", "count", len(out))
	return out, nil
}
