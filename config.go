package abuseguard

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultEndpoint    = "https://api.abuseipdb.com/api/v2/report"
	DefaultCategories  = "21" // Web App Attack
	DefaultCacheTTL    = time.Hour
	DefaultTimeout     = 10 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("abuseguard: an AbuseIPDB API key is required")
	ErrInvalidConfig = errors.New("abuseguard: invalid configuration")
	ErrSuppressed    = errors.New("abuseguard: report suppressed as duplicate")
	ErrClosed        = errors.New("abuseguard: reporter closed")
)

// Config holds all settings for a Guard. Only APIKey is required.
type Config struct {
	// AbuseIPDB API key, sent in the Key header.
	APIKey string

	// Paths replaces the built-in suspicious path list when non-nil.
	Paths []string

	// AdditionalPaths are appended to the defaults when Paths is nil.
	AdditionalPaths []string

	// Category codes sent with each report. Default: "21"
	Categories string

	// Minimum time between two reports for the same IP. Default: 1h
	CacheTTL time.Duration

	// Report endpoint. Default: AbuseIPDB v2 report URL
	Endpoint string

	// Timeout applied to each outbound report. Default: 10s
	Timeout time.Duration

	// When positive, at most this many outbound reports run at once; the
	// rest wait for a slot. Default: 0 (unbounded)
	MaxInFlight int

	// When positive, expired cache entries are removed on this interval.
	// Default: 0 (entries are kept for the life of the Guard)
	SweepInterval time.Duration

	// Logger receives skip, success and failure events. Default: disabled
	Logger *zerolog.Logger

	Sender  Sender
	Cache   ReportCache
	Metrics MetricsCollector
	Clock   Clock
}

func (c *Config) applyDefaults() {
	if c.Categories == "" {
		c.Categories = DefaultCategories
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.Metrics == nil {
		c.Metrics = NewInMemoryMetricsCollector()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Cache == nil {
		c.Cache = NewInMemoryReportCache(c.CacheTTL)
	}
	if c.Sender == nil {
		c.Sender = NewAbuseIPDBSender(c.Endpoint, c.APIKey)
	}
}
