// inmo24x7 backoffice — the admin panel behind the real-estate chat agent.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/apiclient"
	"github.com/inmo24x7/backoffice/internal/auth"
	"github.com/inmo24x7/backoffice/internal/chat"
	"github.com/inmo24x7/backoffice/internal/config"
	"github.com/inmo24x7/backoffice/internal/knowledge"
	"github.com/inmo24x7/backoffice/internal/leads"
	"github.com/inmo24x7/backoffice/internal/notify"
	"github.com/inmo24x7/backoffice/internal/server"
	"github.com/inmo24x7/backoffice/internal/session"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Identity: real provider behind the flag, always-authenticated stub
	// otherwise.
	var provider auth.Provider
	if cfg.AuthEnabled {
		provider = auth.NewGoTrue(auth.GoTrueConfig{
			BaseURL: cfg.AuthURL,
			AnonKey: cfg.AuthAnonKey,
			Logger:  logger.Named("auth"),
		})
	} else {
		provider = auth.NewStub()
		logger.Info("auth disabled, running with the stub identity")
	}

	// Local sessions only matter when the real provider is on.
	var sessions *session.Store
	if cfg.AuthEnabled {
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			logger.Fatal("cannot create data dir", zap.String("dir", cfg.DataDir), zap.Error(err))
		}
		dbPath := filepath.Join(cfg.DataDir, "sessions.db")
		sessions, err = session.NewStore(dbPath, cfg.SessionLifetime)
		if err != nil {
			logger.Fatal("cannot open session store", zap.String("path", dbPath), zap.Error(err))
		}
		defer sessions.Close()
		logger.Info("session store opened", zap.String("path", dbPath))
	}

	var validator session.Validator
	if sessions != nil {
		validator = sessions
	}
	gate := session.NewGate(cfg.AuthEnabled, provider, validator, logger.Named("gate"))
	defer gate.Close()

	// Outbound client to the chatbot backend. The bearer token rides along
	// from the request context, so each admin call is made as that admin.
	api := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIURL,
		Token:   session.TokenFromContext,
	})

	leadStore := leads.NewStore(leads.NewClient(api, logger.Named("leads")), cfg.PageSize, logger.Named("leads"))
	bridge := chat.NewBridge(chat.NewClient(api), chat.NewLog(), logger.Named("chat"))
	prefs := notify.NewPreferences()
	files := knowledge.NewIntake(logger.Named("knowledge"))

	var sessionStore server.SessionStore
	if sessions != nil {
		sessionStore = sessions
	}
	deps := server.Deps{
		Provider: provider,
		Sessions: sessionStore,
		Gate:     gate,
		Leads:    leadStore,
		Bridge:   bridge,
		Prefs:    prefs,
		Files:    files,
	}
	srv, err := server.New(cfg, deps, logger.Named("server"))
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	// Expired local sessions are swept hourly.
	if sessions != nil {
		sweeper := cron.New()
		if _, err := sweeper.AddFunc("@hourly", func() {
			if n, err := sessions.Cleanup(); err != nil {
				logger.Warn("session cleanup failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("expired sessions removed", zap.Int("count", n))
			}
		}); err != nil {
			logger.Warn("cannot schedule session cleanup", zap.Error(err))
		}
		sweeper.Start()
		defer func() {
			stopCtx := sweeper.Stop()
			select {
			case <-stopCtx.Done():
			case <-time.After(5 * time.Second):
			}
		}()
	}

	logger.Info("backoffice starting",
		zap.String("version", version),
		zap.String("commit", commit),
	)
	if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
