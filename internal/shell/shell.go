// Package shell holds the per-session UI state of the documentation index:
// whether the sidebar menu is open and the current search. Handlers are
// given a *Shell explicitly; nothing here is package-level state.
package shell

import (
	"sync"

	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/events"
)

// SidebarEvent is the payload of events.SidebarToggled.
type SidebarEvent struct {
	Open bool `json:"open"`
}

// Shell owns the state of one browsing session over a card snapshot.
type Shell struct {
	mu       sync.Mutex
	cards    []cards.Card
	bus      *events.Bus
	menuOpen bool
	query    string
	result   cards.Result
}

// New returns a Shell over snapshot. Events are published on bus; a nil bus
// gets a private one.
func New(snapshot []cards.Card, bus *events.Bus) *Shell {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Shell{
		cards:  snapshot,
		bus:    bus,
		result: cards.Filter(snapshot, ""),
	}
}

// Bus returns the bus the shell publishes on.
func (s *Shell) Bus() *events.Bus { return s.bus }

// Cards returns the card snapshot.
func (s *Shell) Cards() []cards.Card { return s.cards }

// MenuOpen reports whether the sidebar is open.
func (s *Shell) MenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuOpen
}

// ToggleSidebar flips the sidebar and returns the new state.
func (s *Shell) ToggleSidebar() bool {
	s.mu.Lock()
	s.menuOpen = !s.menuOpen
	open := s.menuOpen
	s.mu.Unlock()

	s.bus.Publish(events.Event{Type: events.SidebarToggled, Payload: SidebarEvent{Open: open}})
	return open
}

// CloseSidebar closes the sidebar if it is open and reports whether it was.
func (s *Shell) CloseSidebar() bool {
	s.mu.Lock()
	if !s.menuOpen {
		s.mu.Unlock()
		return false
	}
	s.menuOpen = false
	s.mu.Unlock()

	s.bus.Publish(events.Event{Type: events.SidebarToggled, Payload: SidebarEvent{Open: false}})
	return true
}

// Search filters the snapshot with query and remembers the result.
func (s *Shell) Search(query string) cards.Result {
	res := cards.Filter(s.cards, query)

	s.mu.Lock()
	s.query = res.Query
	s.result = res
	s.mu.Unlock()

	if res.Query == "" {
		s.bus.Publish(events.Event{Type: events.SearchCleared, Payload: res})
	} else {
		s.bus.Publish(events.Event{Type: events.Searched, Payload: res})
	}
	return res
}

// ClearSearch resets the search so every card is shown.
func (s *Shell) ClearSearch() cards.Result {
	return s.Search("")
}

// Query returns the normalized query of the last search.
func (s *Shell) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Result returns the result of the last search.
func (s *Shell) Result() cards.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Escape closes the sidebar and clears an active search.
func (s *Shell) Escape() (closedSidebar, clearedSearch bool) {
	closedSidebar = s.CloseSidebar()
	if s.Query() != "" {
		s.ClearSearch()
		clearedSearch = true
	}
	return closedSidebar, clearedSearch
}
