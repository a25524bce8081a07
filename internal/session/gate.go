package session

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/auth"
)

// CookieName is the browser cookie for authenticated backoffice sessions.
const CookieName = "backoffice_session"

const loginPath = "/login"

// State is the gate's view of a visitor. It replaces the ambiguous
// loading/authenticated boolean pair with one tagged value.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

// Resolution is the outcome of resolving one request against the gate.
type Resolution struct {
	State       State
	User        *auth.User
	AccessToken string
}

// Validator is the slice of the session store the gate needs.
type Validator interface {
	Validate(token string) (*Session, error)
	DeleteByAccessToken(accessToken string) error
}

// Gate decides whether a visitor may see protected content or must be sent
// to the login view, and keeps that decision live against the provider's
// auth change stream. Protected and Public routes share one subscription.
type Gate struct {
	enabled  bool
	provider auth.Provider
	sessions Validator
	logger   *zap.Logger
	sub      auth.Subscription
}

// NewGate builds the route gate and subscribes to the provider change stream.
func NewGate(enabled bool, provider auth.Provider, sessions Validator, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{
		enabled:  enabled,
		provider: provider,
		sessions: sessions,
		logger:   logger,
	}
	if provider != nil {
		g.sub = provider.Subscribe(g.onAuthEvent)
	}
	return g
}

// Close detaches the change-stream subscription.
func (g *Gate) Close() {
	if g.sub != nil {
		g.sub.Unsubscribe()
	}
}

// Resolve computes the authentication state for one request. With the flag
// off the visitor is definitionally authenticated and the provider is never
// consulted. Any failure along the cookie → session → identity chain resolves
// to Unauthenticated, never to an error surface.
func (g *Gate) Resolve(r *http.Request) Resolution {
	if !g.enabled {
		return Resolution{State: StateAuthenticated}
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Resolution{State: StateUnauthenticated}
	}
	if g.sessions == nil || g.provider == nil {
		return Resolution{State: StateUnauthenticated}
	}

	sess, err := g.sessions.Validate(cookie.Value)
	if err != nil {
		return Resolution{State: StateUnauthenticated}
	}

	user, err := g.provider.CurrentUser(r.Context(), sess.AccessToken)
	if err != nil || user == nil {
		return Resolution{State: StateUnauthenticated}
	}

	return Resolution{State: StateAuthenticated, User: user, AccessToken: sess.AccessToken}
}

// Protected gates a subtree: unauthenticated visitors are redirected to the
// login view (API calls get a 401 instead of a redirect). The resolved
// identity is placed in the request context.
func (g *Gate) Protected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := g.Resolve(r)
		if res.State != StateAuthenticated {
			if isAPIPath(r.URL.Path) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}` + "\n"))
				return
			}
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		if res.User != nil {
			r = r.WithContext(WithIdentity(r.Context(), Identity{User: *res.User, AccessToken: res.AccessToken}))
		}
		next.ServeHTTP(w, r)
	})
}

// Public gates the login view: with the flag off the view is unreachable and
// always redirects to the protected root, as does an authenticated visitor.
func (g *Gate) Public(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.enabled {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if g.Resolve(r).State == StateAuthenticated {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// onAuthEvent handles provider change-stream events. A sign-out wins over any
// earlier identity query: the matching local sessions die immediately.
func (g *Gate) onAuthEvent(evt auth.Event) {
	if evt.Type != auth.EventSignedOut || evt.Session == nil || evt.Session.AccessToken == "" {
		return
	}
	if g.sessions == nil {
		return
	}
	if err := g.sessions.DeleteByAccessToken(evt.Session.AccessToken); err != nil {
		g.logger.Warn("failed to invalidate sessions after sign-out", zap.Error(err))
	}
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
