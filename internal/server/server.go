// Package server wires together the backoffice subsystems and exposes the
// HTTP server. main() builds a Server, calls Run, done.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/auth"
	"github.com/inmo24x7/backoffice/internal/chat"
	"github.com/inmo24x7/backoffice/internal/config"
	"github.com/inmo24x7/backoffice/internal/knowledge"
	"github.com/inmo24x7/backoffice/internal/leads"
	"github.com/inmo24x7/backoffice/internal/notify"
	"github.com/inmo24x7/backoffice/internal/session"
)

// SessionStore is the slice of the session store the server needs beyond
// what the gate already holds.
type SessionStore interface {
	Create(userID, email, accessToken string) (*session.Session, error)
	Delete(token string) error
}

// Server is the assembled backoffice.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	provider auth.Provider
	sessions SessionStore
	gate     *session.Gate

	leads  *leads.Store
	bridge *chat.Bridge
	prefs  *notify.Preferences
	files  *knowledge.Intake

	pages *pageTemplates

	httpServer *http.Server
}

// Deps carries the subsystems main() constructs.
type Deps struct {
	Provider auth.Provider
	Sessions SessionStore
	Gate     *session.Gate
	Leads    *leads.Store
	Bridge   *chat.Bridge
	Prefs    *notify.Preferences
	Files    *knowledge.Intake
}

// New builds a fully-wired Server from config.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		provider: deps.Provider,
		sessions: deps.Sessions,
		gate:     deps.Gate,
		leads:    deps.Leads,
		bridge:   deps.Bridge,
		prefs:    deps.Prefs,
		files:    deps.Files,
	}

	pages, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.pages = pages

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      limitRequestBodies(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Login is the only public view. With auth disabled the gate makes it
	// unreachable and every visit lands on the dashboard.
	mux.Handle("GET /login", s.gate.Public(http.HandlerFunc(s.handleLoginPage)))
	mux.Handle("POST /login", s.gate.Public(http.HandlerFunc(s.handleLogin)))
	mux.Handle("POST /logout", http.HandlerFunc(s.handleLogout))

	// The dashboard and its aliases render the same protected page.
	for _, pattern := range []string{"GET /{$}", "GET /dashboard", "GET /leads", "GET /panel"} {
		mux.Handle(pattern, s.gate.Protected(http.HandlerFunc(s.handleDashboard)))
	}

	// JSON API behind the same gate.
	mux.Handle("GET /api/leads", s.gate.Protected(http.HandlerFunc(s.handleListLeads)))
	mux.Handle("DELETE /api/leads/{id}", s.gate.Protected(http.HandlerFunc(s.handleDeleteLead)))

	mux.Handle("POST /api/chat/message", s.gate.Protected(http.HandlerFunc(s.bridge.HandleSend)))
	mux.Handle("GET /api/chat/log", s.gate.Protected(http.HandlerFunc(s.bridge.HandleLog)))
	mux.Handle("GET /api/chat/ws", s.gate.Protected(http.HandlerFunc(s.bridge.HandleWS)))

	mux.Handle("GET /api/knowledge/files", s.gate.Protected(http.HandlerFunc(s.handleListFiles)))
	mux.Handle("POST /api/knowledge/files", s.gate.Protected(http.HandlerFunc(s.handleAddFile)))
	mux.Handle("DELETE /api/knowledge/files/{id}", s.gate.Protected(http.HandlerFunc(s.handleRemoveFile)))

	mux.Handle("GET /api/notifications", s.gate.Protected(http.HandlerFunc(s.handleGetRouting)))
	mux.Handle("PUT /api/notifications", s.gate.Protected(http.HandlerFunc(s.handlePutRouting)))
	mux.Handle("POST /api/notifications/{channel}/toggle", s.gate.Protected(http.HandlerFunc(s.handleToggleChannel)))

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Scrape endpoint stays outside the gate.
	mux.Handle("GET /metrics", promhttp.Handler())

	// Any other path goes back to the protected root.
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	}))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting backoffice",
		zap.String("addr", s.cfg.ListenAddr),
		zap.String("api_url", s.cfg.APIURL),
		zap.Bool("auth_enabled", s.cfg.AuthEnabled),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the assembled routing stack, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
