package abuseguard

import "strings"

// DefaultSuspiciousPaths are the prefixes most commonly probed by scanners.
var DefaultSuspiciousPaths = []string{
	"/wp-login.php",
	"/xmlrpc.php",
	"/.env",
	"/admin",
	"/phpmyadmin",
	"/wp-admin",
	"/wp-content",
	"/wp-includes",
	"/shell",
	"/login.php",
}

// ResolvePaths returns paths verbatim when it is non-nil, otherwise the
// defaults followed by additional.
func ResolvePaths(paths, additional []string) []string {
	if paths != nil {
		resolved := make([]string, len(paths))
		copy(resolved, paths)
		return resolved
	}
	resolved := make([]string, 0, len(DefaultSuspiciousPaths)+len(additional))
	resolved = append(resolved, DefaultSuspiciousPaths...)
	return append(resolved, additional...)
}

// PathMatcher decides whether a request path starts with a suspicious prefix.
type PathMatcher struct {
	prefixes []string
}

func NewPathMatcher(prefixes []string) *PathMatcher {
	m := &PathMatcher{prefixes: make([]string, len(prefixes))}
	copy(m.prefixes, prefixes)
	return m
}

// Match is a plain prefix test, no normalization.
func (m *PathMatcher) Match(path string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Paths returns a copy of the configured prefixes.
func (m *PathMatcher) Paths() []string {
	paths := make([]string, len(m.prefixes))
	copy(paths, m.prefixes)
	return paths
}
