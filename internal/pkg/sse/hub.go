package sse

import (
	"sync"
)

// Event is one server-sent event.
type Event struct {
	Topic string
	Event string
	Data  interface{}
}

// Hub fans events out to subscribers of a topic. Slow subscribers miss
// events instead of blocking publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
	onChange    func(total int)
}

type Option func(*Hub)

// WithBuffer sets the per-subscriber channel size (default 10).
func WithBuffer(size int) Option {
	return func(h *Hub) { h.bufferSize = size }
}

// WithSubscriberGauge is called with the total subscriber count after each change.
func WithSubscriberGauge(fn func(total int)) Option {
	return func(h *Hub) { h.onChange = fn }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  10,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a subscriber for topic and returns its channel and an
// unsubscribe function. The channel is closed on unsubscribe.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	ch := make(chan Event, h.bufferSize)
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}
	total := h.totalLocked()
	h.mu.Unlock()
	h.notify(total)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
			total := h.totalLocked()
			h.mu.Unlock()
			h.notify(total)
		})
	}

	return ch, cleanup
}

// Publish sends event to every subscriber of topic without blocking.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Topic = topic
	for ch := range h.subscribers[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalLocked()
}

func (h *Hub) totalLocked() int {
	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

func (h *Hub) notify(total int) {
	if h.onChange != nil {
		h.onChange(total)
	}
}
