package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	applog "anynow/internal/log"
)

// KeyPrefix namespaces every key the shop writes.
const KeyPrefix = "anynow_"

// Event reports a completed write or removal of a key (unprefixed).
type Event struct {
	Key string    `json:"key"`
	At  time.Time `json:"at"`
}

// Store encodes values as JSON blobs in a Backend. Writes replace the whole
// value; concurrent writers from other processes simply overwrite each other.
type Store struct {
	backend Backend

	mu        sync.RWMutex
	listeners map[int]func(Event)
	nextID    int
}

func NewStore(b Backend) *Store {
	return &Store{backend: b, listeners: make(map[int]func(Event))}
}

func (s *Store) Backend() Backend { return s.backend }

func fullKey(key string) string { return KeyPrefix + key }

// Load decodes key into dst. A missing key or an undecodable blob reports
// found=false; only backend failures return an error.
func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.backend.Get(ctx, fullKey(key))
	if err != nil {
		applog.Component("storage").WithError(err).WithField("key", key).Error("storage.load.fail")
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		applog.Component("storage").WithError(err).WithField("key", key).Warn("storage.decode.fail")
		return false, nil
	}
	return true, nil
}

// Raw returns the stored blob as-is, "" when missing.
func (s *Store) Raw(ctx context.Context, key string) (string, error) {
	raw, _, err := s.backend.Get(ctx, fullKey(key))
	if err != nil {
		return "", fmt.Errorf("raw %s: %w", key, err)
	}
	return raw, nil
}

func (s *Store) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, fullKey(key), string(b)); err != nil {
		applog.Component("storage").WithError(err).WithField("key", key).Error("storage.save.fail")
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, fullKey(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

// Keys lists unprefixed keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.backend.Keys(ctx, fullKey(prefix))
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, KeyPrefix)
	}
	return keys, nil
}

// OnChange registers fn for every write made through this Store and returns
// a function that unregisters it.
func (s *Store) OnChange(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(key string) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	ev := Event{Key: key, At: time.Now().UTC()}
	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) Close() error { return s.backend.Close() }
