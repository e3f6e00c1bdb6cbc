package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryBucket struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore keeps buckets in process. It is only suitable for a single
// instance and for tests.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*memoryBucket),
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, bucket string, expiresAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, b := range s.buckets {
		if !now.Before(b.expiresAt) {
			delete(s.buckets, key)
		}
	}

	b, ok := s.buckets[bucket]
	if !ok {
		b = &memoryBucket{expiresAt: expiresAt}
		s.buckets[bucket] = b
	}
	b.count++

	return b.count, nil
}
