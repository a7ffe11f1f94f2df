package service

import "testing"

func TestEventBusPublish(t *testing.T) {
	bus := NewEventBus()
	fast := make(chan Event, 1)
	slow := make(chan Event) // unbuffered with no reader
	bus.Subscribe(fast)
	bus.Subscribe(slow)

	bus.Publish(Event{Type: EventEntityCreated})

	select {
	case ev := <-fast:
		if ev.Type != EventEntityCreated {
			t.Errorf("expected %s, got %s", EventEntityCreated, ev.Type)
		}
	default:
		t.Fatal("expected event on buffered subscriber")
	}
}

func TestNilEventBusPublish(t *testing.T) {
	var bus *EventBus
	bus.Publish(Event{Type: EventEntityDeleted})
}
