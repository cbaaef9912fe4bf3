// Package httpserver builds the service's http.Server. Timeouts live here,
// not on individual handlers: the grant confirmation callback is reached by
// end users returning from an authorization server, so slow-client limits
// must not be left at the Go defaults (unbounded).
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server with bounded read/write behavior. The write timeout
// leaves headroom over the 30s request-context timeout applied by the router
// middleware, so handlers time out first and can still write an error body.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
