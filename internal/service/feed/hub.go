package feed

import (
	"sync"

	"github.com/zhouzirui/staffbook/backend/internal/logging"
	model "github.com/zhouzirui/staffbook/backend/internal/model/employee"
)

var logger = logging.For("feed")

const defaultBuffer = 32

// Hub fans store change events out to websocket and SSE subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan model.Event
	nextID uint64
	buffer int
	closed bool
	onDrop func()
}

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets the per-subscriber channel capacity.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithDropHook is called once for every event dropped for a slow subscriber.
func WithDropHook(fn func()) Option {
	return func(h *Hub) { h.onDrop = fn }
}

// NewHub returns an empty Hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subs:   make(map[uint64]chan model.Event),
		buffer: defaultBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a subscriber. The returned cancel func is idempotent
// and closes the channel.
func (h *Hub) Subscribe() (<-chan model.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan model.Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	logger.Debug("subscriber joined", "subscriber", id, "total", len(h.subs))

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(ch)
	logger.Debug("subscriber left", "subscriber", id, "total", len(h.subs))
}

// Publish delivers ev to every subscriber without blocking.
func (h *Hub) Publish(ev model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			logger.Debug("dropping event for slow subscriber", "subscriber", id, "type", ev.Type)
			if h.onDrop != nil {
				h.onDrop()
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later Subscribe calls get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
