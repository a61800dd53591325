package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gorewood/standup/internal/sheet"
)

// itemTTL bounds how long an unclaimed item is kept.
const itemTTL = time.Hour

type storeItem[T any] struct {
	value     T
	expiresAt time.Time
}

// store is an in-memory map of values keyed by random ids. Expired entries
// are purged on every access.
type store[T any] struct {
	mu    sync.Mutex
	items map[string]storeItem[T]
	now   func() time.Time
}

func newStore[T any]() *store[T] {
	return &store[T]{items: make(map[string]storeItem[T]), now: time.Now}
}

func (s *store[T]) put(v T) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()
	id := uuid.NewString()
	s.items[id] = storeItem[T]{value: v, expiresAt: s.now().Add(itemTTL)}
	return id
}

func (s *store[T]) get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()
	it, ok := s.items[id]
	return it.value, ok
}

// take removes and returns a value.
func (s *store[T]) take(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()
	it, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	return it.value, ok
}

func (s *store[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *store[T]) purgeExpiredLocked() {
	now := s.now()
	for id, it := range s.items {
		if now.After(it.expiresAt) {
			delete(s.items, id)
		}
	}
}

// download is a generated guide file.
type download struct {
	path string
	name string
}

type (
	pendingStore  = store[[]sheet.Change]
	downloadStore = store[download]
)

func newPendingStore() *pendingStore   { return newStore[[]sheet.Change]() }
func newDownloadStore() *downloadStore { return newStore[download]() }
