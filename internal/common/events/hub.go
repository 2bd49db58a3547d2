package events

import "sync"

// Hub fans snapshots out to subscribers keyed by session id. Slow
// subscribers only ever miss intermediate values, never the latest one.
type Hub[T any] struct {
	mu   sync.Mutex
	key  func(T) string
	subs map[string]map[chan T]struct{}
}

func NewHub[T any](key func(T) string) *Hub[T] {
	return &Hub[T]{key: key, subs: map[string]map[chan T]struct{}{}}
}

// Subscribe registers for values published under id. The returned func
// unsubscribes and closes the channel; it is safe to call more than once.
func (h *Hub[T]) Subscribe(id string) (<-chan T, func()) {
	ch := make(chan T, 4)

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = map[chan T]struct{}{}
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[id], ch)
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[h.key(v)] {
		select {
		case ch <- v:
		default:
			// drop the oldest queued value to make room for the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Subscribers reports how many subscribers id has.
func (h *Hub[T]) Subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}
