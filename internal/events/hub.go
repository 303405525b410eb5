package events

import (
	"sync"

	"github.com/google/uuid"

	"potato-chat/internal/channel"
)

// Event is what subscribers receive when a channel changes.
type Event struct {
	Type    string           `json:"type"` // "message"
	Message *channel.Message `json:"message,omitempty"`
}

const subscriberBuffer = 16

// Hub fans out channel events to websocket subscribers. A subscriber that
// cannot keep up has events dropped rather than blocking the sender.
type Hub struct {
	mu   sync.Mutex
	subs map[uint]map[string]chan Event // channelID -> subscriberID -> events
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[string]chan Event)}
}

// Subscribe registers a listener on a channel and returns its id and event
// stream. The caller must Unsubscribe when done.
func (h *Hub) Subscribe(channelID uint) (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[channelID] == nil {
		h.subs[channelID] = make(map[string]chan Event)
	}
	h.subs[channelID][id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(channelID uint, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subs[channelID]; ok {
		if ch, ok := subs[id]; ok {
			close(ch)
			delete(subs, id)
		}
		if len(subs) == 0 {
			delete(h.subs, channelID)
		}
	}
}

// Broadcast delivers an event to every subscriber of a channel without
// blocking; full subscriber buffers are skipped.
func (h *Hub) Broadcast(channelID uint, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[channelID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports how many listeners a channel currently has.
func (h *Hub) SubscriberCount(channelID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[channelID])
}
