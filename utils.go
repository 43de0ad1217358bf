package abuseguard

import (
	"net"
	"net/http"
	"strings"
)

// UnknownIP marks a client address that could not be resolved
const UnknownIP = "unknown"

// ClientIPFromRequest reads the client IP from X-Forwarded-For, X-Real-IP
// or RemoteAddr, in that order. Header values are taken at face value.
func ClientIPFromRequest(r *http.Request) string {
	if ip := FirstForwardedFor(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := stripPort(r.RemoteAddr); ip != "" {
		return ip
	}
	return UnknownIP
}

// FirstForwardedFor returns the left-most entry of an X-Forwarded-For value.
func FirstForwardedFor(header string) string {
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
