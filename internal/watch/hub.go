package watch

import (
	"slices"
	"sync"
	"time"

	applog "anynow/internal/log"
	"anynow/internal/storage"
)

const listenerBuffer = 16

type listener struct {
	keys []string
	ch   chan storage.Event
}

func (l *listener) wants(key string) bool {
	return len(l.keys) == 0 || slices.Contains(l.keys, key)
}

// Hub fans storage change events out to listeners. A listener that does not
// keep up loses events; publishers never block.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]*listener
	nextID int
	detach func()
	closed bool
	once   sync.Once
}

// NewHub forwards every write made through store to the hub's listeners.
func NewHub(store *storage.Store) *Hub {
	h := &Hub{subs: make(map[int]*listener)}
	if store != nil {
		h.detach = store.OnChange(h.Publish)
	}
	return h
}

// Listen returns a channel of events for keys (all keys when none are given)
// and a cancel func that closes it.
func (h *Hub) Listen(keys ...string) (<-chan storage.Event, func()) {
	l := &listener{keys: keys, ch: make(chan storage.Event, listenerBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(l.ch)
		return l.ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = l
	h.mu.Unlock()

	var once sync.Once
	return l.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(l.ch)
			}
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(ev storage.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range h.subs {
		if !l.wants(ev.Key) {
			continue
		}
		select {
		case l.ch <- ev:
		default:
			applog.Component("watch").WithField("key", ev.Key).Debug("watch.hub.drop")
		}
	}
}

// Listeners reports how many listeners are attached.
func (h *Hub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close detaches from the store and closes every listener channel, which
// ends open update streams. Later Listen calls get a closed channel.
// Safe to call more than once.
func (h *Hub) Close() {
	h.once.Do(func() {
		if h.detach != nil {
			h.detach()
		}
		h.mu.Lock()
		defer h.mu.Unlock()
		h.closed = true
		for id, l := range h.subs {
			delete(h.subs, id)
			close(l.ch)
		}
	})
}
