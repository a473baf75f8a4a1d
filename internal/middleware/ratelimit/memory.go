package ratelimit

import (
	"context"
	"sync"
	"time"
)

// staleAfter is how long an idle client is kept before cleanup drops it.
const staleAfter = 10 * time.Minute

// MemoryStore counts hits in process. It is the default for a single
// server instance.
type MemoryStore struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
	now          func() time.Time
}

type clientInfo struct {
	windowStart time.Time
	lastRequest time.Time
	requests    int64
}

// NewMemoryStore starts a goroutine that drops idle clients every
// cleanupInterval until Stop.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
		now:         time.Now,
	}
	go s.startCleanup(cleanupInterval)
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	client, ok := s.clients[key]
	if !ok || now.Sub(client.windowStart) >= window {
		s.clients[key] = &clientInfo{windowStart: now, lastRequest: now, requests: 1}
		return 1, nil
	}

	client.requests++
	client.lastRequest = now
	return client.requests, nil
}

func (s *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupStaleEntries()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanupStaleEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-staleAfter)
	removed := 0
	for key, client := range s.clients {
		if client.lastRequest.Before(cutoff) {
			delete(s.clients, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) ActiveClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *MemoryStore) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}
