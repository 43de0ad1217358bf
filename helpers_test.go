package abuseguard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	reports []Report
	err     error
	panics  bool
	release chan struct{}
}

func (s *recordingSender) Name() string {
	return "recording"
}

func (s *recordingSender) Send(ctx context.Context, report Report) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	s.reports = append(s.reports, report)
	s.mu.Unlock()
	if s.panics {
		panic("sender exploded")
	}
	return s.err
}

func (s *recordingSender) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func (s *recordingSender) last() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[len(s.reports)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errTransport = errors.New("connection refused")

func newTestGuard(t *testing.T, cfg Config) (*Guard, *recordingSender, *fakeClock) {
	t.Helper()
	sender, ok := cfg.Sender.(*recordingSender)
	if !ok {
		sender = &recordingSender{}
		cfg.Sender = sender
	}
	clock := newFakeClock()
	if cfg.APIKey == "" {
		cfg.APIKey = "test-api-key"
	}
	cfg.Clock = clock.Now
	g, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g, sender, clock
}

type staticRequest struct {
	path string
	ip   string
}

func (r staticRequest) Path() string     { return r.path }
func (r staticRequest) ClientIP() string { return r.ip }
