// Package events is a small in-process publish/subscribe bus with revocable
// subscriptions.
package events

import "sync"

// Type names an event kind.
type Type string

const (
	SidebarToggled Type = "sidebar_toggle"
	Searched       Type = "search"
	SearchCleared  Type = "search_cleared"
)

// Event is delivered to every handler subscribed to its Type.
type Event struct {
	Type    Type
	Payload any
}

// Handler receives events. Handlers run synchronously on the publisher's
// goroutine.
type Handler func(Event)

// Bus dispatches events to subscribed handlers.
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[Type]map[uint64]Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Type]map[uint64]Handler)}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus  *Bus
	typ  Type
	id   uint64
	once sync.Once
}

// Subscribe registers h for events of type t.
func (b *Bus) Subscribe(t Type, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	if b.handlers[t] == nil {
		b.handlers[t] = make(map[uint64]Handler)
	}
	b.handlers[t][id] = h
	return &Subscription{bus: b, typ: t, id: id}
}

// Unsubscribe removes the handler. Calling it more than once is safe.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		delete(s.bus.handlers[s.typ], s.id)
		if len(s.bus.handlers[s.typ]) == 0 {
			delete(s.bus.handlers, s.typ)
		}
	})
}

// Publish delivers e to the current subscribers of e.Type.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[e.Type]))
	for _, h := range b.handlers[e.Type] {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}

// Count returns the number of handlers subscribed to t.
func (b *Bus) Count(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}

// Scope collects subscriptions so they can be released together.
type Scope struct {
	bus    *Bus
	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

// NewScope returns a Scope bound to b.
func (b *Bus) NewScope() *Scope {
	return &Scope{bus: b}
}

// Subscribe registers h within the scope. After Close it registers nothing
// and returns nil.
func (s *Scope) Subscribe(t Type, h Handler) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	sub := s.bus.Subscribe(t, h)
	s.subs = append(s.subs, sub)
	return sub
}

// Close unsubscribes everything registered through the scope.
func (s *Scope) Close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.closed = true
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
