package abuseguard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// dispatcher deduplicates report attempts and sends the survivors in the
// background. The cache entry is written before the network call, so a
// failed report still consumes the suppression window.
type dispatcher struct {
	cache      ReportCache
	sender     Sender
	categories string
	timeout    time.Duration
	inFlight   *semaphore.Weighted // nil when unbounded
	logger     zerolog.Logger
	metrics    MetricsCollector
	clock      Clock

	// mu orders wg.Add against close: report holds it shared from the
	// closed check until the goroutine is registered.
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func newDispatcher(cfg *Config) *dispatcher {
	d := &dispatcher{
		cache:      cfg.Cache,
		sender:     cfg.Sender,
		categories: cfg.Categories,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger.With().Str("sender", cfg.Sender.Name()).Logger(),
		metrics:    cfg.Metrics,
		clock:      cfg.Clock,
	}
	if cfg.MaxInFlight > 0 {
		d.inFlight = semaphore.NewWeighted(int64(cfg.MaxInFlight))
	}
	return d
}

// report launches the send and returns immediately. Errors never reach the
// caller. With a bounded dispatcher, a report over the limit waits in its
// own goroutine for a free slot; it is never dropped.
func (d *dispatcher) report(ip, comment string, categories ...string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn().Str("ip", ip).Msg("Reporter closed, ignoring report")
		return
	}
	if !d.acquire(ip) {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if d.inFlight != nil {
			if !d.inFlight.TryAcquire(1) {
				d.metrics.IncrementCounter(MetricReportsQueued, nil)
				d.logger.Debug().Str("ip", ip).Msg("Too many reports in flight, waiting for a slot")
				// Background never cancels, so Acquire cannot fail.
				_ = d.inFlight.Acquire(context.Background(), 1)
			}
			defer d.inFlight.Release(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		_ = d.send(ctx, ip, comment, categories)
	}()
}

// reportSync runs the same pipeline on the caller's goroutine.
func (d *dispatcher) reportSync(ctx context.Context, ip, comment string, categories ...string) error {
	d.mu.RLock()
	closed := d.closed
	d.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if !d.acquire(ip) {
		return ErrSuppressed
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.send(ctx, ip, comment, categories)
}

// acquire is the atomic check-then-record step.
func (d *dispatcher) acquire(ip string) bool {
	d.metrics.IncrementCounter(MetricReportsAttempted, nil)
	acquired := d.cache.Acquire(ip, d.clock())
	d.metrics.SetGauge(MetricCacheEntries, float64(d.cache.Len()), nil)
	if !acquired {
		d.metrics.IncrementCounter(MetricReportsSuppressed, nil)
		d.logger.Info().Str("ip", ip).Msg("Skipping duplicate report")
	}
	return acquired
}

func (d *dispatcher) send(ctx context.Context, ip, comment string, categories []string) (err error) {
	report := Report{
		ID:         uuid.NewString(),
		IP:         ip,
		Categories: d.pickCategories(categories),
		Comment:    comment,
		Timestamp:  d.clock(),
	}
	logger := d.logger.With().Str("report_id", report.ID).Str("ip", ip).Logger()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("abuseguard: sender panicked: %v", r)
			d.metrics.IncrementCounter(MetricReportsFailed, nil)
			logger.Error().Err(err).Msg("Failed to report IP")
		}
	}()

	start := time.Now()
	err = d.sender.Send(ctx, report)
	d.metrics.ObserveHistogram(MetricReportDuration, time.Since(start).Seconds(), nil)
	if err != nil {
		d.metrics.IncrementCounter(MetricReportsFailed, nil)
		logger.Error().Err(err).Msg("Failed to report IP")
		return err
	}

	d.metrics.IncrementCounter(MetricReportsSent, nil)
	logger.Info().Str("comment", comment).Str("categories", report.Categories).Msg("Reported IP")
	return nil
}

func (d *dispatcher) pickCategories(overrides []string) string {
	for _, c := range overrides {
		if c != "" {
			return c
		}
	}
	return d.categories
}

// close stops accepting reports and waits for in-flight ones.
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
