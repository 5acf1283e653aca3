package lockstore

import (
	"sync"
	"time"
)

type entry struct {
	fields    map[string]string
	expiresAt time.Time // zero means no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps entries in process memory. Expired entries are dropped
// lazily on access.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
	// optional: a background janitor could be added if you want
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*entry),
	}
}

// plainField carries entries written through Set/Get so that the plain and
// field variants share one map.
const plainField = "value"

func (s *MemoryStore) live(key string) (*entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		delete(s.data, key) // cleanup expired
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) SetFieldIfAbsent(key, field, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		e = &entry{fields: make(map[string]string)}
		s.data[key] = e
	}
	if _, exists := e.fields[field]; exists {
		return false
	}
	e.fields[field] = value
	return true
}

func (s *MemoryStore) GetField(key, field string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return "", false
	}
	v, ok := e.fields[field]
	return v, ok
}

func (s *MemoryStore) SetField(key, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		e = &entry{fields: make(map[string]string)}
		s.data[key] = e
	}
	e.fields[field] = value
}

func (s *MemoryStore) DeleteField(key, field string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return
	}
	delete(e.fields, field)
	if len(e.fields) == 0 {
		delete(s.data, key)
	}
}

func (s *MemoryStore) Set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = &entry{
		fields:    map[string]string{plainField: value},
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return "", false
	}
	v, ok := e.fields[plainField]
	return v, ok
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

func (s *MemoryStore) Expire(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return false
	}
	e.expiresAt = time.Now().Add(ttl)
	return true
}
