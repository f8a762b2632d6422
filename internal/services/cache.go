package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	"fpl-go-dashboard/internal/config"
	"fpl-go-dashboard/internal/logging"
)

// Generic in-memory cache with type safety
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	// Start cleanup goroutine
	go c.cleanup(cleanupInterval(ttl))

	return c
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

// GetOrCreate returns the live entry for key, creating it with build when
// missing or expired. Reads slide the expiration forward.
func (c *Cache[K, V]) GetOrCreate(key K, build func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if item, ok := c.items[key]; ok && now.Before(item.expiration) {
		item.expiration = now.Add(c.ttl)
		return item.value
	}
	v := build()
	c.items[key] = &cacheItem[V]{value: v, expiration: now.Add(c.ttl)}
	return v
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine
func (c *Cache[K, V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) cleanup(every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiration) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

const snapshotCollection = "feed_snapshots"

type snapshot struct {
	Payload []byte
	SavedAt time.Time
}

type snapshotDoc struct {
	Payload string    `firestore:"payload"`
	SavedAt time.Time `firestore:"saved_at"`
}

// SnapshotStore keeps the last live copy of each supplementary feed, in
// memory and optionally in Firestore so it survives restarts.
type SnapshotStore struct {
	ttl             time.Duration
	firestoreClient *firestore.Client
	memory          *Cache[string, snapshot]
	log             *logrus.Entry
}

// NewSnapshotStore creates the store. Firestore is used only when a project is
// configured; a failed connection falls back to memory only.
func NewSnapshotStore(ctx context.Context, cfg *config.Config) *SnapshotStore {
	s := &SnapshotStore{
		ttl:    cfg.SnapshotTTL,
		memory: NewCache[string, snapshot](cfg.SnapshotTTL),
		log:    logging.WithComponent("snapshots"),
	}

	if cfg.FirestoreEnabled() {
		client, err := firestore.NewClient(ctx, cfg.FirestoreProject)
		if err != nil {
			// Log error but don't fail - fallback to in-memory only
			s.log.WithError(err).Warn("Failed to initialize Firestore, keeping snapshots in memory")
		} else {
			s.firestoreClient = client
		}
	}
	return s
}

// NewMemorySnapshotStore creates a store without Firestore
func NewMemorySnapshotStore(ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		ttl:    ttl,
		memory: NewCache[string, snapshot](ttl),
		log:    logging.WithComponent("snapshots"),
	}
}

// Load decodes the snapshot stored under key into out and returns when it was
// saved.
func (s *SnapshotStore) Load(ctx context.Context, key string, out any) (time.Time, bool) {
	// Try in-memory cache first
	if snap, found := s.memory.Get(key); found {
		if err := json.Unmarshal(snap.Payload, out); err == nil {
			return snap.SavedAt, true
		}
	}

	// Try Firestore
	if s.firestoreClient != nil {
		doc, err := s.firestoreClient.Collection(snapshotCollection).Doc(key).Get(ctx)
		if err == nil {
			var stored snapshotDoc
			if err := doc.DataTo(&stored); err == nil && time.Since(stored.SavedAt) < s.ttl {
				if err := json.Unmarshal([]byte(stored.Payload), out); err == nil {
					s.memory.Set(key, snapshot{Payload: []byte(stored.Payload), SavedAt: stored.SavedAt})
					return stored.SavedAt, true
				}
			}
		}
	}

	return time.Time{}, false
}

// Save stores v under key
func (s *SnapshotStore) Save(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	now := time.Now()

	// Store in memory
	s.memory.Set(key, snapshot{Payload: payload, SavedAt: now})

	// Store in Firestore
	if s.firestoreClient != nil {
		_, err := s.firestoreClient.Collection(snapshotCollection).Doc(key).Set(ctx, snapshotDoc{
			Payload: string(payload),
			SavedAt: now,
		})
		if err != nil {
			return fmt.Errorf("persist snapshot %s: %w", key, err)
		}
	}
	return nil
}

// Persistent reports whether snapshots are written to Firestore
func (s *SnapshotStore) Persistent() bool {
	return s.firestoreClient != nil
}

// Close closes the Firestore client
func (s *SnapshotStore) Close() error {
	s.memory.Close()
	if s.firestoreClient != nil {
		return s.firestoreClient.Close()
	}
	return nil
}
