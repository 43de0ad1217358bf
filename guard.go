package abuseguard

import (
	"context"
	"sync"
	"time"
)

// Guard is the reporting engine shared by every framework adapter. Create
// one with New per mounted middleware; instances never share state.
type Guard struct {
	config     Config
	matcher    *PathMatcher
	dispatcher *dispatcher
	done       chan struct{}
	closeOnce  sync.Once
}

// New validates cfg, applies defaults and resolves the suspicious path
// list. It fails with ErrMissingAPIKey when no API key is set.
func New(cfg Config) (*Guard, error) {
	if err := NewDefaultConfigValidator().Validate(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	g := &Guard{
		config:     cfg,
		matcher:    NewPathMatcher(ResolvePaths(cfg.Paths, cfg.AdditionalPaths)),
		dispatcher: newDispatcher(&cfg),
		done:       make(chan struct{}),
	}
	if cfg.SweepInterval > 0 {
		go g.sweepLoop(cfg.SweepInterval)
	}
	return g, nil
}

// SuspiciousPaths returns a copy of the resolved path list.
func (g *Guard) SuspiciousPaths() []string {
	return g.matcher.Paths()
}

func (g *Guard) IsSuspicious(path string) bool {
	return g.matcher.Match(path)
}

// Report submits ip in the background unless it was reported within the
// cache TTL. The first non-empty categories value overrides the default.
func (g *Guard) Report(ip, comment string, categories ...string) {
	g.dispatcher.report(ip, comment, categories...)
}

// ReportSync is Report on the caller's goroutine. It returns ErrSuppressed
// for duplicates, ErrClosed after Close, and the transport error, if any.
func (g *Guard) ReportSync(ctx context.Context, ip, comment string, categories ...string) error {
	return g.dispatcher.reportSync(ctx, ip, comment, categories...)
}

// Inspect applies the adapter contract to one request: a suspicious path
// from a known client IP is reported with the path as comment. It reports
// whether a report was requested and never blocks on the outcome.
func (g *Guard) Inspect(req RequestInfo) bool {
	path := req.Path()
	if !g.matcher.Match(path) {
		return false
	}
	ip := req.ClientIP()
	if ip == "" || ip == UnknownIP {
		g.config.Logger.Debug().Str("path", path).Msg("Suspicious path from unresolvable client IP")
		return false
	}
	g.Report(ip, path)
	return true
}

func (g *Guard) Metrics() MetricsCollector {
	return g.config.Metrics
}

// Close stops the sweeper and waits for in-flight reports.
func (g *Guard) Close() {
	g.closeOnce.Do(func() {
		close(g.done)
		g.dispatcher.close()
	})
}

func (g *Guard) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *Guard) sweep() int {
	removed := g.config.Cache.Sweep(g.config.Clock())
	g.config.Metrics.SetGauge(MetricCacheEntries, float64(g.config.Cache.Len()), nil)
	if removed > 0 {
		g.config.Logger.Debug().Int("removed", removed).Msg("Swept expired report cache entries")
	}
	return removed
}
