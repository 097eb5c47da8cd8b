package principal

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches resolved principals keyed by token digest.
//
// TTL semantics: positive expires after the duration, zero uses the store
// default, negative never expires.
type Store interface {
	Get(ctx context.Context, key string) (Principal, error)
	Set(ctx context.Context, key string, p Principal, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	expiresAt time.Time // zero value = never expires
	value     Principal
	key       string
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process Store with TTL expiry and LRU eviction once
// maxEntries is reached. A janitor goroutine sweeps expired entries until
// Close is called.
type MemoryStore struct {
	items      map[string]*list.Element
	eviction   *list.List
	done       chan struct{}
	defaultTTL time.Duration
	maxEntries int
	mu         sync.Mutex
	closed     bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryTTL sets the TTL used when Set is called with ttl == 0.
// Default: 5 minutes.
func WithMemoryTTL(d time.Duration) MemoryOption {
	return func(m *MemoryStore) { m.defaultTTL = d }
}

// WithMaxEntries bounds the store size. Zero means unbounded.
// Default: 10000.
func WithMaxEntries(n int) MemoryOption {
	return func(m *MemoryStore) { m.maxEntries = n }
}

// NewMemoryStore creates a MemoryStore. A positive cleanup interval starts
// the background janitor.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		items:      make(map[string]*list.Element),
		eviction:   list.New(),
		done:       make(chan struct{}),
		defaultTTL: 5 * time.Minute,
		maxEntries: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	if cleanupInterval > 0 {
		go m.janitor(cleanupInterval)
	}
	return m
}

// Get returns the cached principal or ErrNotFound. A hit marks the entry as
// recently used.
func (m *MemoryStore) Get(_ context.Context, key string) (Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return Principal{}, ErrNotFound
	}
	e := elem.Value.(*memoryEntry)
	if e.expired(time.Now()) {
		m.remove(elem)
		return Principal{}, ErrNotFound
	}
	m.eviction.MoveToFront(elem)
	return e.value, nil
}

// Set stores p under key.
func (m *MemoryStore) Set(_ context.Context, key string, p Principal, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*memoryEntry)
		e.value = p
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		if oldest := m.eviction.Back(); oldest != nil {
			m.remove(oldest)
		}
	}
	m.items[key] = m.eviction.PushFront(&memoryEntry{key: key, value: p, expiresAt: expiresAt})
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor. It is idempotent.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *MemoryStore) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memoryEntry).expired(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

// remove must be called with mu held.
func (m *MemoryStore) remove(elem *list.Element) {
	m.eviction.Remove(elem)
	delete(m.items, elem.Value.(*memoryEntry).key)
}

// RedisStore is a Store backed by Redis. Principals are stored as JSON
// under "<prefix>:<key>".
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewRedisStore wraps client. The client lifecycle stays with the caller.
//
// Example:
//
//	client, err := principal.OpenRedis(ctx, os.Getenv("REDIS_URL"))
//	store := principal.NewRedisStore(client, "principals", 10*time.Minute)
func NewRedisStore(client redis.UniversalClient, prefix string, defaultTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

// Get returns the cached principal or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, key string) (Principal, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	var p Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return Principal{}, errors.Join(ErrUnmarshal, err)
	}
	return p, nil
}

// Set stores p as JSON. A negative ttl persists the key without expiry.
func (r *RedisStore) Set(ctx context.Context, key string, p Principal, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	// Redis reads 0 as "no expiration".
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *RedisStore) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
