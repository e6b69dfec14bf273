package httpserver

import (
	"net/http"
	"time"
)

// New builds the KYC API server. ReadHeaderTimeout guards against slow
// clients holding connections open before the router's per-request timeout
// applies; IdleTimeout reclaims keep-alive connections between polls.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
