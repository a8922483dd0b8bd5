// Package handler serves the readiness endpoint.
package handler

import (
	"context"
	"net/http"

	"aido/backend/internal/httpx"
)

// Pinger checks a backing resource (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server answers GET /healthz. A nil pinger skips the DB check.
type Server struct {
	db Pinger
}

// NewServer returns a health handler that pings db for readiness.
func NewServer(db Pinger) *Server {
	return &Server{db: db}
}

// Check reports readiness: 200 when the database responds, 503 otherwise.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
