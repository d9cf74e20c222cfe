package http

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore hands out one token bucket per machine id. Machines without
// an override share the default rate and burst.
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	overrides    map[string]struct{}
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		overrides:    make(map[string]struct{}),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(machineID string) *rate.Limiter {
	s.mu.RLock()
	limiter, exists := s.limiters[machineID]
	s.mu.RUnlock()
	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another request may have created it while we waited
	if limiter, exists = s.limiters[machineID]; !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[machineID] = limiter
	}
	return limiter
}

// SetLimiter replaces the bucket of machineID, discarding tokens already spent.
func (s *RateLimiterStore) SetLimiter(machineID string, machineRate rate.Limit, machineBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[machineID] = rate.NewLimiter(machineRate, machineBurst)
	s.overrides[machineID] = struct{}{}
}

func (s *RateLimiterStore) IsOverridden(machineID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.overrides[machineID]
	return ok
}

// Len is the number of machines holding a bucket.
func (s *RateLimiterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}
