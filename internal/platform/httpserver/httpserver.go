package httpserver

import (
	"net/http"
	"time"
)

// New builds the process server. The API carries small JSON payloads only
// (requests, decisions, gate scans), so the read deadlines are kept tight;
// the write deadline still clears the router's 30s handler timeout so the
// handler, not the server, decides how a slow request ends. Gate terminals
// reuse their connections between scans, hence the generous idle window.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
