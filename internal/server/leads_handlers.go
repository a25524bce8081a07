package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/leads"
)

// handleListLeads returns the active page of the lead table.
// GET /api/leads?page=N&refresh=1
func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("refresh") != "" || s.leads.State() == leads.FetchIdle {
		s.leads.Refresh(r.Context())
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "bad_page", "page must be a number")
			return
		}
		s.leads.SetPage(page)
	}

	writeJSON(w, http.StatusOK, s.leads.Snapshot())
}

// handleDeleteLead removes one lead remotely and locally, then returns the
// adjusted page.
// DELETE /api/leads/{id}
func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "bad_id", "lead id required")
		return
	}

	if err := s.leads.Remove(r.Context(), id); err != nil {
		s.logger.Warn("lead deletion failed", zap.String("id", id), zap.Error(err))
		writeJSONError(w, http.StatusBadGateway, "delete_failed", "could not delete the lead")
		return
	}

	writeJSON(w, http.StatusOK, s.leads.Snapshot())
}
