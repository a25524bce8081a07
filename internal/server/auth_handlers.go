package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/metrics"
	"github.com/inmo24x7/backoffice/internal/session"
)

// invalidCredentialsMessage is what admins see for a rejected login. The
// provider's own wording is matched and replaced so the page never leaks
// raw backend text for the common case.
const invalidCredentialsMessage = "Credenciales inválidas. Verifica tu email y contraseña."

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, LoginPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, LoginPageData{Error: "Solicitud inválida."})
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		s.renderLogin(w, LoginPageData{Error: "Email y contraseña son obligatorios.", Email: email})
		return
	}

	sess, err := s.provider.SignIn(r.Context(), email, password)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		s.logger.Info("login rejected", zap.String("email", email), zap.Error(err))
		s.renderLogin(w, LoginPageData{Error: loginErrorMessage(err), Email: email})
		return
	}

	local, err := s.sessions.Create(sess.User.ID, sess.User.Email, sess.AccessToken)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		s.logger.Error("failed to create session", zap.Error(err))
		s.renderLogin(w, LoginPageData{Error: "No se pudo iniciar sesión. Intenta nuevamente.", Email: email})
		return
	}

	metrics.Logins.WithLabelValues("ok").Inc()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    local.ID,
		Path:     "/",
		Expires:  local.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// loginErrorMessage localizes the provider's bad-credentials error; every
// other provider message passes through verbatim.
func loginErrorMessage(err error) string {
	if strings.Contains(strings.ToLower(err.Error()), "invalid login credentials") {
		return invalidCredentialsMessage
	}
	return err.Error()
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" && s.sessions != nil {
		res := s.gate.Resolve(r)

		if err := s.sessions.Delete(cookie.Value); err != nil {
			s.logger.Warn("failed to delete session", zap.Error(err))
		}
		// Best effort: the local session is already gone, so a provider
		// failure here cannot keep the visitor signed in.
		if res.AccessToken != "" {
			if err := s.provider.SignOut(r.Context(), res.AccessToken); err != nil {
				s.logger.Warn("provider sign-out failed", zap.Error(err))
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) renderLogin(w http.ResponseWriter, data LoginPageData) {
	if err := s.pages.Render(w, "login", data); err != nil {
		s.logger.Error("failed to render login page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
