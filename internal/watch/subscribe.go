package watch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	applog "anynow/internal/log"
	"anynow/internal/storage"
)

// DefaultInterval is how often a subscription re-reads its snapshot.
const DefaultInterval = 2 * time.Second

// FetchFunc returns the serialized state a subscription compares between checks.
type FetchFunc func(ctx context.Context) (string, error)

// Subscription polls a snapshot and calls onChange whenever it differs from
// the previous one. The first successful check always counts as a change.
type Subscription struct {
	name     string
	interval time.Duration
	fetch    FetchFunc
	onChange func(snapshot string)

	poke   chan struct{}
	cancel chan struct{}
	done   chan struct{}
	once   sync.Once

	last string
	seen bool
}

// Subscribe checks once before returning and then every interval until Stop
// is called or ctx ends.
func Subscribe(ctx context.Context, name string, interval time.Duration, fetch FetchFunc, onChange func(string)) *Subscription {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Subscription{
		name:     name,
		interval: interval,
		fetch:    fetch,
		onChange: onChange,
		poke:     make(chan struct{}, 1),
		cancel:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.check(ctx)
	go s.background(ctx)
	return s
}

func (s *Subscription) background(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.cancel:
			return
		case <-s.poke:
			s.check(ctx)
			ticker.Reset(s.interval)
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *Subscription) check(ctx context.Context) {
	snap, err := s.fetch(ctx)
	if err != nil {
		applog.Component("watch").WithError(err).WithField("sub", s.name).Warn("watch.fetch.fail")
		return
	}
	if s.seen && snap == s.last {
		return
	}
	s.last, s.seen = snap, true
	s.onChange(snap)
}

// Poke asks for an immediate check. Pokes arriving while one is pending are
// merged.
func (s *Subscription) Poke() {
	select {
	case s.poke <- struct{}{}:
	default:
	}
}

// Stop ends the subscription. It is safe to call more than once.
func (s *Subscription) Stop() {
	s.once.Do(func() { close(s.cancel) })
}

// Done is closed once the polling goroutine has exited.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// RawKey fetches the stored blob of one key.
func RawKey(store *storage.Store, key string) FetchFunc {
	return func(ctx context.Context) (string, error) {
		return store.Raw(ctx, key)
	}
}

// JSON serializes whatever value returns, e.g. a cached view of the catalog.
func JSON(value func() any) FetchFunc {
	return func(context.Context) (string, error) {
		b, err := json.Marshal(value())
		return string(b), err
	}
}

// Group is a set of per-key subscriptions stopped together.
type Group struct {
	subs []*Subscription
}

// WatchKeys subscribes to every key separately and reports which one changed.
func WatchKeys(ctx context.Context, store *storage.Store, interval time.Duration, keys []string, onChange func(key string)) *Group {
	g := &Group{}
	for _, k := range keys {
		g.subs = append(g.subs, Subscribe(ctx, k, interval, RawKey(store, k), func(string) { onChange(k) }))
	}
	return g
}

func (g *Group) Poke() {
	for _, s := range g.subs {
		s.Poke()
	}
}

func (g *Group) Stop() {
	for _, s := range g.subs {
		s.Stop()
	}
}

// Wait blocks until every subscription goroutine has exited.
func (g *Group) Wait() {
	for _, s := range g.subs {
		<-s.Done()
	}
}
