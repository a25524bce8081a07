package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inmo24x7/backoffice/internal/notify"
)

// handleGetRouting returns the notification routing preferences.
// GET /api/notifications
func (s *Server) handleGetRouting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

// handlePutRouting replaces the routing preferences from the panel's save
// action.
// PUT /api/notifications
func (s *Server) handlePutRouting(w http.ResponseWriter, r *http.Request) {
	var routing notify.Routing
	if err := json.NewDecoder(r.Body).Decode(&routing); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	s.prefs.Apply(routing)
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

// handleToggleChannel flips one channel.
// POST /api/notifications/{channel}/toggle
func (s *Server) handleToggleChannel(w http.ResponseWriter, r *http.Request) {
	ch := notify.Channel(r.PathValue("channel"))
	if _, err := s.prefs.Toggle(ch); err != nil {
		if errors.Is(err, notify.ErrUnknownChannel) {
			writeJSONError(w, http.StatusNotFound, "unknown_channel", "no such notification channel")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "toggle_failed", "could not toggle the channel")
		return
	}
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}
