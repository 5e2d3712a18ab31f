package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/pkg/storage"
)

// Store persists the whole announcement collection as a single document.
type Store interface {
	// Load returns the collection sorted by date, newest first.
	// A missing, unreadable or malformed document loads as an empty collection.
	Load(ctx context.Context) []Announcement
	// Save replaces the stored collection with items.
	Save(ctx context.Context, items []Announcement) error
}

// Find scans items for id. When items is nil the collection is loaded from store.
func Find(ctx context.Context, store Store, id string, items []Announcement) (Announcement, bool) {
	if items == nil {
		items = store.Load(ctx)
	}
	for _, a := range items {
		if a.ID == id {
			return a, true
		}
	}
	return Announcement{}, false
}

// EncodeDocument renders items as the persisted JSON document:
// four-space indentation, non-ASCII and HTML characters left unescaped,
// trailing newline.
func EncodeDocument(items []Announcement) ([]byte, error) {
	if items == nil {
		items = []Announcement{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("encode announcements failed: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses a persisted document and sorts the result.
func DecodeDocument(data []byte) ([]Announcement, error) {
	var items []Announcement
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode announcements failed: %w", err)
	}
	if items == nil {
		// "null" is not a collection.
		return nil, errors.New("decode announcements failed: document is not an array")
	}
	SortByDate(items)
	return items, nil
}

// FileStore keeps the collection in one JSON file.
type FileStore struct {
	storage storage.Storage
	path    string
}

// NewFileStore creates a FileStore reading and writing path within st.
func NewFileStore(st storage.Storage, path string) *FileStore {
	return &FileStore{storage: st, path: path}
}

func (s *FileStore) Load(ctx context.Context) []Announcement {
	logger := logging.FromContext(ctx)

	rc, err := s.storage.Get(ctx, s.path)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("news document unreadable", "path", s.path, "error", err)
		}
		return []Announcement{}
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		logger.Warn("news document unreadable", "path", s.path, "error", err)
		return []Announcement{}
	}

	items, err := DecodeDocument(buf.Bytes())
	if err != nil {
		logger.Warn("news document malformed", "path", s.path, "error", err)
		return []Announcement{}
	}
	return items
}

func (s *FileStore) Save(ctx context.Context, items []Announcement) error {
	data, err := EncodeDocument(items)
	if err != nil {
		return err
	}
	if err := s.storage.Save(ctx, s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write news document failed: %w", err)
	}
	return nil
}
