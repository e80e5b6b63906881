package service

import (
	"sync"

	"go.uber.org/zap"
)

// Subscriber receives one published payload. Delivery is fire-and-forget.
type Subscriber func(payload any)

type subscription struct {
	fn Subscriber
}

// Broadcaster is what the classroom services publish through.
type Broadcaster interface {
	Publish(room string, payload any)
}

// BroadcastHub fans out room events to live stream subscribers.
// Nothing is queued: a subscriber only sees payloads published while it is registered.
type BroadcastHub struct {
	mu    sync.RWMutex
	rooms map[string][]*subscription // room -> subscribers in registration order
	log   *zap.Logger
}

// NewBroadcastHub creates an empty hub.
func NewBroadcastHub(log *zap.Logger) *BroadcastHub {
	return &BroadcastHub{
		rooms: make(map[string][]*subscription),
		log:   log,
	}
}

// Subscribe registers fn for room and returns the function that unregisters it.
// The returned function is safe to call more than once.
func (h *BroadcastHub) Subscribe(room string, fn Subscriber) func() {
	sub := &subscription{fn: fn}
	h.mu.Lock()
	h.rooms[room] = append(h.rooms[room], sub)
	n := len(h.rooms[room])
	h.mu.Unlock()

	h.log.Debug("subscriber registered", zap.String("room", room), zap.Int("subscribers", n))

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(room, sub) })
	}
}

func (h *BroadcastHub) unsubscribe(room string, sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	kept := make([]*subscription, 0, len(subs))
	for _, s := range subs {
		if s != sub {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(h.rooms, room)
	} else {
		h.rooms[room] = kept
	}
	h.log.Debug("subscriber unregistered", zap.String("room", room), zap.Int("subscribers", len(kept)))
}

// Publish hands payload to every subscriber of room, in registration order.
// Subscribers run on a snapshot taken under the lock, so they may subscribe or unsubscribe freely.
func (h *BroadcastHub) Publish(room string, payload any) {
	h.mu.RLock()
	subs, ok := h.rooms[room]
	if !ok {
		h.mu.RUnlock()
		return
	}
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)
	h.mu.RUnlock()

	for _, s := range snapshot {
		h.deliver(room, s, payload)
	}
}

func (h *BroadcastHub) deliver(room string, s *subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("subscriber panicked", zap.String("room", room), zap.Any("panic", r))
		}
	}()
	s.fn(payload)
}

// RoomCount returns the number of rooms with at least one subscriber.
func (h *BroadcastHub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// SubscriberCount returns number of subscribers in a room.
func (h *BroadcastHub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
