package service

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestBroadcastHubDeliversInRegistrationOrder(t *testing.T) {
	h := NewBroadcastHub(zap.NewNop())
	var got []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		h.Subscribe("room", func(payload any) {
			got = append(got, name+":"+payload.(string))
		})
	}
	h.Publish("room", "hello")

	want := []string{"a:hello", "b:hello", "c:hello"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBroadcastHubScopesRooms(t *testing.T) {
	h := NewBroadcastHub(zap.NewNop())
	var a, b int
	h.Subscribe("room-a", func(any) { a++ })
	h.Subscribe("room-b", func(any) { b++ })

	h.Publish("room-a", "x")
	if a != 1 || b != 0 {
		t.Fatalf("expected only room-a delivery, got a=%d b=%d", a, b)
	}
}

func TestBroadcastHubRemovesEmptyRooms(t *testing.T) {
	h := NewBroadcastHub(zap.NewNop())
	unsubA := h.Subscribe("room", func(any) {})
	unsubB := h.Subscribe("room", func(any) {})
	if h.RoomCount() != 1 || h.SubscriberCount("room") != 2 {
		t.Fatalf("expected 1 room with 2 subscribers, got %d rooms, %d subscribers", h.RoomCount(), h.SubscriberCount("room"))
	}

	unsubA()
	unsubA()
	if h.SubscriberCount("room") != 1 {
		t.Fatalf("expected repeated unsubscribe to remove one subscriber, got %d", h.SubscriberCount("room"))
	}
	unsubB()
	if h.RoomCount() != 0 {
		t.Fatalf("expected room to be removed, got %d rooms", h.RoomCount())
	}

	// Publishing to a room without subscribers is a no-op.
	h.Publish("room", "late")
	h.Publish("never-seen", "x")
}

func TestBroadcastHubSnapshotSurvivesUnsubscribeDuringPublish(t *testing.T) {
	h := NewBroadcastHub(zap.NewNop())
	var calls []string
	var unsubSecond func()
	h.Subscribe("room", func(any) {
		calls = append(calls, "first")
		unsubSecond()
		h.Subscribe("room", func(any) { calls = append(calls, "late") })
	})
	unsubSecond = h.Subscribe("room", func(any) { calls = append(calls, "second") })

	h.Publish("room", "x")

	want := []string{"first", "second"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v from the snapshot, got %v", want, calls)
	}
	if h.SubscriberCount("room") != 2 {
		t.Fatalf("expected first and late subscribers to remain, got %d", h.SubscriberCount("room"))
	}
}

func TestBroadcastHubPanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	h := NewBroadcastHub(zap.NewNop())
	delivered := 0
	h.Subscribe("room", func(any) { panic("boom") })
	h.Subscribe("room", func(any) { delivered++ })

	h.Publish("room", "x")
	if delivered != 1 {
		t.Fatalf("expected delivery after panic, got %d", delivered)
	}
}
