package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/leads"
	"github.com/inmo24x7/backoffice/internal/session"
)

// handleDashboard renders the admin panel. The lead table is fetched on the
// first visit; later visits reuse the cached list until the API refreshes it.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.leads.State() == leads.FetchIdle {
		s.leads.Refresh(r.Context())
	}

	data := DashboardPageData{
		Leads:   s.leads.Snapshot(),
		Files:   s.files.List(),
		Routing: s.prefs.Snapshot(),
	}
	if id := session.IdentityFromContext(r.Context()); id != nil {
		user := id.User
		data.User = &user
	}

	if err := s.pages.Render(w, "dashboard", data); err != nil {
		s.logger.Error("failed to render dashboard", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
