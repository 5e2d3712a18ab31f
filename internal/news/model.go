package news

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrNotFound       = errors.New("announcement not found")
	ErrIDRequired     = errors.New("id is required")
	ErrSaveFailed     = errors.New("failed to save announcements")
	ErrDuplicateID    = errors.New("duplicate announcement id")
	ErrInvalidPayload = errors.New("invalid announcement payload")
)

// Announcement is one news item. The JSON form is the persisted document format.
type Announcement struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

// Input is a submitted record before validation. Every field is optional at this stage.
type Input struct {
	ID      string
	Date    string
	Title   string
	Excerpt string
	Content string
}

// SaveResult describes the outcome of a create-or-update.
type SaveResult struct {
	Item    Announcement
	Updated bool
}

// SortByDate orders items by date, newest first.
// Equal dates keep their relative order; unparseable dates sort last.
func SortByDate(items []Announcement) {
	keys := make(map[string]time.Time, len(items))
	key := func(date string) time.Time {
		if t, ok := keys[date]; ok {
			return t
		}
		t, _ := ParseDate(date)
		keys[date] = t
		return t
	}

	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i].Date).After(key(items[j].Date))
	})
}

// IDs returns the ids of items in order.
func IDs(items []Announcement) []string {
	ids := make([]string, len(items))
	for i, a := range items {
		ids[i] = a.ID
	}
	return ids
}
