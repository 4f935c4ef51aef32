// Package kvstore defines the external key-value abstraction backing the
// graph snapshot, the reputation cache, and the rate-limit counters. All
// three are owned by a shared external store per the service's data model:
// the core never treats any of them as its own durable state.
package kvstore

import (
	"container/list"
	"context"
	"strconv"
	"sync"
	"time"
)

// Store is the minimal contract the core needs from its external KV
// dependency: opaque byte gets/puts with TTL, and an atomic counter
// increment used by the rate limiter.
type Store interface {
	// Get returns the stored value for key, or ok=false on miss or expiry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key with the given TTL. TTL <= 0 means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Increment atomically increments the counter at key and returns the
	// post-increment value. If the key does not yet exist, it is created
	// with the given TTL; an existing key's TTL is left untouched (renewed
	// only when a fresh window starts), matching a rolling-window counter.
	// The running count is also readable through Get, as a decimal string,
	// without mutating it — mirroring how a real counter-backed KV (e.g.
	// Redis INCR/GET) behaves.
	Increment(ctx context.Context, key string, ttl time.Duration) (count int64, err error)
}

// MemoryStore is an in-memory Store with LRU eviction, suitable as the
// default local/test backend. Production deployments point Store at a real
// external KV service instead.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	lru     *list.List
	maxSize int
}

type entry struct {
	key     string
	value   []byte
	count   int64
	expires time.Time
	elem    *list.Element
}

// NewMemoryStore creates an in-memory store capped at maxSize entries.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && now.After(e.expires) {
		s.removeLocked(e)
		return nil, false, nil
	}
	s.lru.MoveToFront(e.elem)
	return e.value, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.value = value
		if ttl > 0 {
			e.expires = now.Add(ttl)
		} else {
			e.expires = time.Time{}
		}
		s.lru.MoveToFront(e.elem)
		return nil
	}

	s.evictIfFullLocked()
	e := &entry{key: key, value: value}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	e.elem = s.lru.PushFront(e)
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok && !e.expires.IsZero() && now.After(e.expires) {
		s.removeLocked(e)
		ok = false
	}
	if !ok {
		s.evictIfFullLocked()
		e = &entry{key: key}
		if ttl > 0 {
			e.expires = now.Add(ttl)
		}
		e.elem = s.lru.PushFront(e)
		s.entries[key] = e
	} else {
		s.lru.MoveToFront(e.elem)
	}
	e.count++
	e.value = strconv.AppendInt(e.value[:0], e.count, 10)
	return e.count, nil
}

func (s *MemoryStore) evictIfFullLocked() {
	if len(s.entries) < s.maxSize {
		return
	}
	back := s.lru.Back()
	if back == nil {
		return
	}
	s.removeLocked(back.Value.(*entry))
}

func (s *MemoryStore) removeLocked(e *entry) {
	s.lru.Remove(e.elem)
	delete(s.entries, e.key)
}
