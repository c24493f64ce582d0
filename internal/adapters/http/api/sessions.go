// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/okian/arena/internal/domain/session"
)

// SessionDependencies defines the interface for session lifecycle operations.
type SessionDependencies interface {
	StartSession(ctx context.Context, ipAddress, userAgent string) *session.Session
	EndSession(ctx context.Context, id string) error
}

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandlePostSession handles POST /sessions requests.
func (h *SessionsHandler) HandlePostSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	ip := clientIP(r)
	s := h.deps.StartSession(r.Context(), ip, r.UserAgent())
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: s.ID,
		StartTime: s.StartTime.UTC().Format(time.RFC3339Nano),
	})
}

// HandleDeleteSession handles DELETE /sessions/{session_id} requests.
func (h *SessionsHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /sessions/
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.EndSession(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ended"})
}

// clientIP extracts the caller's address, trusting X-Forwarded-For when set.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
