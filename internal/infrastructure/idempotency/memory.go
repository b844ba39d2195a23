package idempotency

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	resp      *Response
	expiresAt time.Time
}

// MemoryStore implementación en memoria, para una sola instancia y tests.
// Las entradas vencidas se descartan al consultarlas.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

// lookup devuelve la entrada vigente; borra la vencida. Requiere mu tomado.
func (s *MemoryStore) lookup(key string) (memEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memEntry{}, false
	}
	return e, true
}

func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(key); ok {
		return false, nil
	}
	s.entries[key] = memEntry{expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Response, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(key)
	if !ok {
		return nil, false, nil
	}
	if e.resp == nil {
		return nil, true, nil
	}
	cp := *e.resp
	cp.Body = append([]byte(nil), e.resp.Body...)
	return &cp, true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, resp Response, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp.Body = append([]byte(nil), resp.Body...)
	s.entries[key] = memEntry{resp: &resp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
