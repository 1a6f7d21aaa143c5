package broadcast

import "sync"

// Event is a command or notice pushed to one connected window.
// Type is used as the SSE "event:" name, Data is an arbitrary JSON-serialisable body.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub keeps one buffered channel per connected window.
// It is process-local; cross-instance fan-out goes through the SNS mirror.
type Hub struct {
	// clients maps window id -> chan Event.
	clients sync.Map
}

// NewHub constructs a Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a window and returns its event channel plus an
// unsubscribe function that must be called on disconnect.
func (h *Hub) Subscribe(windowID string) (<-chan Event, func()) {
	ch := make(chan Event, 32)
	h.clients.Store(windowID, ch)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.clients.CompareAndDelete(windowID, ch)
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Send delivers ev to one window. It reports false when the window is not
// connected or too slow to keep up.
func (h *Hub) Send(windowID string, ev Event) bool {
	v, ok := h.clients.Load(windowID)
	if !ok {
		return false
	}
	return offer(v.(chan Event), ev)
}

// Publish delivers ev to every connected window and returns how many took it.
// Slow consumers are skipped to avoid blocking producer code.
func (h *Hub) Publish(ev Event) int {
	n := 0
	h.clients.Range(func(_, v interface{}) bool {
		if offer(v.(chan Event), ev) {
			n++
		}
		return true
	})
	return n
}

func offer(ch chan Event, ev Event) (sent bool) {
	// A concurrent unsubscribe may close ch between Load and send.
	defer func() {
		if recover() != nil {
			sent = false
		}
	}()
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
