package chathub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// subscriber channel buffer; a subscriber that falls this far behind
// starts losing messages instead of blocking the sender.
const subscriberBuffer = 16

// Hub fans new chat messages out to live subscribers. There is a single
// room, so subscribers are keyed only by a generated id.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan *domain.ChatMessage
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{subs: make(map[string]chan *domain.ChatMessage)}
}

// Subscribe registers a new subscriber and returns its id together with
// the channel messages arrive on. The caller must Unsubscribe when done.
func (h *Hub) Subscribe() (string, <-chan *domain.ChatMessage) {
	id := uuid.NewString()
	ch := make(chan *domain.ChatMessage, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids
// are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers msg to every subscriber without blocking: a
// subscriber with a full buffer misses the message.
func (h *Hub) Publish(msg *domain.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
