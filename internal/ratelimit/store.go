package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Store counts requests per key over fixed windows. Entries live in process
// memory; a periodic sweep drops entries whose window has elapsed so the map
// stays bounded.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*entry
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// SweepInterval is how often the background sweep runs.
const SweepInterval = 5 * time.Minute

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
		now:     time.Now,
	}
}

// Allow records one request for key under a fixed window of max requests per
// window duration. It returns whether the request may proceed and, when
// denied, the whole seconds until the window resets (rounded up, at least 1).
func (s *Store) Allow(key string, max int, window time.Duration) (bool, int) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !e.resetAt.After(now) {
		s.entries[key] = &entry{count: 1, resetAt: now.Add(window)}
		return true, 0
	}

	if e.count >= max {
		retryAfter := int(math.Ceil(e.resetAt.Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	e.count++
	return true, 0
}

// Sweep removes entries whose window has already elapsed.
func (s *Store) Sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if !e.resetAt.After(now) {
			delete(s.entries, key)
		}
	}
}

// Len reports the current number of tracked keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start launches the background sweep loop. Stop terminates it.
func (s *Store) Start() {
	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(SweepInterval)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.Sweep()
			case <-s.done:
				return
			}
		}
	}()
}

func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
}
