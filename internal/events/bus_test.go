package events

import "testing"

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var got []any
	sub := bus.Subscribe(Searched, func(e Event) { got = append(got, e.Payload) })
	bus.Subscribe(SidebarToggled, func(Event) { t.Error("wrong type delivered") })

	bus.Publish(Event{Type: Searched, Payload: "conc"})
	if len(got) != 1 || got[0] != "conc" {
		t.Fatalf("got %v, want [conc]", got)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Publish(Event{Type: Searched, Payload: "again"})
	if len(got) != 1 {
		t.Errorf("handler ran after Unsubscribe: %v", got)
	}
	if n := bus.Count(Searched); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestScopeClose(t *testing.T) {
	bus := NewBus()
	scope := bus.NewScope()

	calls := 0
	scope.Subscribe(Searched, func(Event) { calls++ })
	scope.Subscribe(SearchCleared, func(Event) { calls++ })
	if bus.Count(Searched) != 1 || bus.Count(SearchCleared) != 1 {
		t.Fatal("scope subscriptions not registered")
	}

	scope.Close()
	bus.Publish(Event{Type: Searched})
	bus.Publish(Event{Type: SearchCleared})
	if calls != 0 {
		t.Errorf("calls = %d after Close, want 0", calls)
	}
	if sub := scope.Subscribe(Searched, func(Event) {}); sub != nil {
		t.Error("Subscribe after Close should return nil")
	}
	if bus.Count(Searched) != 0 {
		t.Error("closed scope registered a handler")
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	var sub *Subscription
	calls := 0
	sub = bus.Subscribe(SidebarToggled, func(Event) {
		calls++
		sub.Unsubscribe()
	})

	bus.Publish(Event{Type: SidebarToggled})
	bus.Publish(Event{Type: SidebarToggled})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
