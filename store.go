package abuseguard

import (
	"sync"
	"time"
)

// InMemoryReportCache implements ReportCache with in-memory storage
type InMemoryReportCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	reported map[string]time.Time
}

func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	return &InMemoryReportCache{
		ttl:      ttl,
		reported: make(map[string]time.Time),
	}
}

func (s *InMemoryReportCache) Acquire(ip string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, exists := s.reported[ip]; exists && now.Sub(last) < s.ttl {
		return false
	}
	s.reported[ip] = now
	return true
}

func (s *InMemoryReportCache) Last(ip string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, exists := s.reported[ip]
	return last, exists
}

// Sweep drops entries that can no longer suppress a report and returns how
// many were removed.
func (s *InMemoryReportCache) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for ip, last := range s.reported {
		if now.Sub(last) >= s.ttl {
			delete(s.reported, ip)
			removed++
		}
	}
	return removed
}

func (s *InMemoryReportCache) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reported)
}
