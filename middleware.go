package abuseguard

import "net/http"

// HTTPRequest adapts *http.Request to RequestInfo
type HTTPRequest struct {
	*http.Request
}

func (r HTTPRequest) Path() string {
	return r.URL.Path
}

func (r HTTPRequest) ClientIP() string {
	return ClientIPFromRequest(r.Request)
}

// Handler returns middleware compatible with net/http, chi, gorilla/mux, and
// any router that accepts func(http.Handler) http.Handler. The request is
// always forwarded to next.
func (g *Guard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.Inspect(HTTPRequest{r})
		next.ServeHTTP(w, r)
	})
}
