// Package fiberguard mounts an abuseguard.Guard as Fiber middleware.
package fiberguard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/oarkflow/abuseguard"
)

// Config for the Fiber adapter
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// TrustForwarded reads the client IP from X-Forwarded-For before
	// falling back to c.IP().
	TrustForwarded bool
}

// request adapts *fiber.Ctx to abuseguard.RequestInfo. Fiber reuses its
// buffers once the handler returns, so every value is copied before it can
// reach the background report.
type request struct {
	c              *fiber.Ctx
	trustForwarded bool
}

func (r request) Path() string {
	return utils.CopyString(r.c.Path())
}

func (r request) ClientIP() string {
	if r.trustForwarded {
		if ip := abuseguard.FirstForwardedFor(r.c.Get(fiber.HeaderXForwardedFor)); ip != "" {
			return utils.CopyString(ip)
		}
	}
	if ip := r.c.IP(); ip != "" {
		return utils.CopyString(ip)
	}
	return abuseguard.UnknownIP
}

// New returns a handler that reports suspicious requests and always calls
// the next handler.
func New(g *abuseguard.Guard, config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}
		g.Inspect(request{c: c, trustForwarded: cfg.TrustForwarded})
		return c.Next()
	}
}

// Report is the manual entry point for handlers that want to report a
// client outside the path check.
func Report(g *abuseguard.Guard, c *fiber.Ctx, comment string, categories ...string) bool {
	ip := request{c: c}.ClientIP()
	if ip == abuseguard.UnknownIP {
		return false
	}
	g.Report(ip, utils.CopyString(comment), categories...)
	return true
}
