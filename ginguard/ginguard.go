// Package ginguard mounts an abuseguard.Guard as Gin middleware.
package ginguard

import (
	"github.com/gin-gonic/gin"

	"github.com/oarkflow/abuseguard"
)

type request struct {
	c *gin.Context
}

func (r request) Path() string {
	return r.c.Request.URL.Path
}

// ClientIP honours the engine's trusted proxy settings.
func (r request) ClientIP() string {
	if ip := r.c.ClientIP(); ip != "" {
		return ip
	}
	return abuseguard.UnknownIP
}

// New returns a handler that reports suspicious requests and always calls
// the next handler.
func New(g *abuseguard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		g.Inspect(request{c: c})
		c.Next()
	}
}

// Report is the manual entry point for handlers that want to report a
// client outside the path check.
func Report(g *abuseguard.Guard, c *gin.Context, comment string, categories ...string) bool {
	ip := request{c: c}.ClientIP()
	if ip == abuseguard.UnknownIP {
		return false
	}
	g.Report(ip, comment, categories...)
	return true
}
