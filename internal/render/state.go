// Package render implements the public news views: a two-state list/detail
// machine, a history adapter that replays browser navigation through the same
// transitions, and the HTML fragments for each view.
package render

import "github.com/akarihousing/news-backend/internal/news"

// View is one of the two mutually exclusive news views.
type View int

const (
	ViewList View = iota
	ViewDetail
)

func (v View) String() string {
	if v == ViewDetail {
		return "detail"
	}
	return "list"
}

// State is the current view and, for ViewDetail, the selected id.
type State struct {
	View View
	ID   string
}

// ListState is the initial state.
var ListState = State{View: ViewList}

type eventKind int

const (
	eventSelect eventKind = iota
	eventBack
)

// Event drives Transition.
type Event struct {
	kind eventKind
	id   string
}

// Select asks for the detail view of id.
func Select(id string) Event { return Event{kind: eventSelect, id: id} }

// Back asks for the list view.
func Back() Event { return Event{kind: eventBack} }

// Transition returns the state reached from s by e. Selecting an id that
// is not in items lands on the list view.
func Transition(items []news.Announcement, s State, e Event) State {
	switch e.kind {
	case eventSelect:
		for _, a := range items {
			if a.ID == e.id {
				return State{View: ViewDetail, ID: a.ID}
			}
		}
		return ListState
	case eventBack:
		return ListState
	}
	return s
}
