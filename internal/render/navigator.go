package render

import (
	"net/url"

	"github.com/akarihousing/news-backend/internal/news"
)

// PermalinkParam is the query parameter naming the announcement in detail view.
const PermalinkParam = "id"

// Entry is one navigation history record.
type Entry struct {
	View View   `json:"view"`
	ID   string `json:"id,omitempty"`
	URL  string `json:"-"`
}

// History is the browser history seen by a Navigator.
type History interface {
	Push(e Entry)
	Replace(e Entry)
}

// Navigator owns the view state for one loaded collection and keeps the
// history in step with it. Programmatic navigation and history replay both
// go through Transition; only programmatic navigation pushes entries.
type Navigator struct {
	items   []news.Announcement
	state   State
	history History
	base    url.URL

	replaying bool
}

// NewNavigator creates a navigator over items. location is the page URL the
// collection was loaded on.
func NewNavigator(items []news.Announcement, history History, location *url.URL) *Navigator {
	n := &Navigator{items: items, state: ListState, history: history}
	if location != nil {
		n.base = *location
	}
	return n
}

// Init selects the initial view from the permalink parameter and records it
// with Replace so the first entry is not duplicated.
func (n *Navigator) Init() State {
	id := n.base.Query().Get(PermalinkParam)

	if id != "" {
		n.state = Transition(n.items, n.state, Select(id))
	} else {
		n.state = Transition(n.items, n.state, Back())
	}
	n.history.Replace(n.entry())
	return n.state
}

// Select shows the detail view for id and reports whether id exists.
func (n *Navigator) Select(id string) bool {
	n.apply(Select(id))
	return n.state.View == ViewDetail
}

// Back returns to the list view.
func (n *Navigator) Back() {
	n.apply(Back())
}

// Replay applies an entry delivered by browser back/forward navigation.
// A nil entry is treated as the list view.
func (n *Navigator) Replay(e *Entry) {
	n.replaying = true
	defer func() { n.replaying = false }()

	if e == nil || e.View == ViewList {
		n.apply(Back())
		return
	}
	n.apply(Select(e.ID))
}

// State returns the current state.
func (n *Navigator) State() State {
	return n.state
}

// Items returns the collection the navigator was built over.
func (n *Navigator) Items() []news.Announcement {
	return n.items
}

// Current returns the selected announcement in detail view.
func (n *Navigator) Current() (news.Announcement, bool) {
	if n.state.View != ViewDetail {
		return news.Announcement{}, false
	}
	for _, a := range n.items {
		if a.ID == n.state.ID {
			return a, true
		}
	}
	return news.Announcement{}, false
}

func (n *Navigator) apply(e Event) {
	n.state = Transition(n.items, n.state, e)
	if !n.replaying {
		n.history.Push(n.entry())
	}
}

func (n *Navigator) entry() Entry {
	return Entry{View: n.state.View, ID: n.state.ID, URL: PermalinkURL(&n.base, n.state)}
}

// PermalinkURL returns base with the permalink parameter set for detail
// states and removed for list states. Other query parameters are kept.
func PermalinkURL(base *url.URL, s State) string {
	u := *base
	q := u.Query()
	if s.View == ViewDetail {
		q.Set(PermalinkParam, s.ID)
	} else {
		q.Del(PermalinkParam)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// MemoryHistory is an in-memory History with browser-like back/forward.
type MemoryHistory struct {
	entries []Entry
	index   int
}

// NewMemoryHistory returns a history holding a single list entry.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: []Entry{{View: ViewList}}}
}

// Push drops any forward entries and appends e.
func (h *MemoryHistory) Push(e Entry) {
	h.entries = append(h.entries[:h.index+1], e)
	h.index = len(h.entries) - 1
}

// Replace overwrites the current entry.
func (h *MemoryHistory) Replace(e Entry) {
	h.entries[h.index] = e
}

// Back moves one entry back and returns it.
func (h *MemoryHistory) Back() (Entry, bool) {
	if h.index == 0 {
		return Entry{}, false
	}
	h.index--
	return h.entries[h.index], true
}

// Forward moves one entry forward and returns it.
func (h *MemoryHistory) Forward() (Entry, bool) {
	if h.index >= len(h.entries)-1 {
		return Entry{}, false
	}
	h.index++
	return h.entries[h.index], true
}

// Current returns the entry the history is positioned at.
func (h *MemoryHistory) Current() Entry {
	return h.entries[h.index]
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	return len(h.entries)
}

// Location returns the page URL for the current state.
func (n *Navigator) Location() *url.URL {
	u, err := url.Parse(PermalinkURL(&n.base, n.state))
	if err != nil {
		u := n.base
		return &u
	}
	return u
}
