package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/inmo24x7/backoffice/internal/auth"
)

// countingProvider records identity queries and lets tests drive the
// change stream by hand.
type countingProvider struct {
	mu      sync.Mutex
	queries int
	user    *auth.User
	err     error
	events  []func(auth.Event)
}

func (p *countingProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return nil, errors.New("not used")
}

func (p *countingProvider) SignOut(ctx context.Context, accessToken string) error { return nil }

func (p *countingProvider) CurrentUser(ctx context.Context, accessToken string) (*auth.User, error) {
	p.mu.Lock()
	p.queries++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.user, nil
}

func (p *countingProvider) Subscribe(fn func(auth.Event)) auth.Subscription {
	p.mu.Lock()
	p.events = append(p.events, fn)
	p.mu.Unlock()
	return noopSub{}
}

func (p *countingProvider) emit(evt auth.Event) {
	p.mu.Lock()
	handlers := append([]func(auth.Event){}, p.events...)
	p.mu.Unlock()
	for _, fn := range handlers {
		fn(evt)
	}
}

func (p *countingProvider) queryCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries
}

type noopSub struct{}

func (noopSub) Unsubscribe() {}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestProtectedDisabledAuthRendersChildWithoutProviderCalls(t *testing.T) {
	provider := &countingProvider{}
	gate := NewGate(false, provider, nil, nil)
	defer gate.Close()

	var called bool
	rec := httptest.NewRecorder()
	gate.Protected(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatal("child was not rendered")
	}
	if provider.queryCount() != 0 {
		t.Fatalf("provider was queried %d times, want 0", provider.queryCount())
	}
}

func TestPublicDisabledAuthRedirectsToRoot(t *testing.T) {
	gate := NewGate(false, &countingProvider{}, nil, nil)
	defer gate.Close()

	var called bool
	rec := httptest.NewRecorder()
	gate.Public(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if called {
		t.Fatal("login view should be unreachable with auth disabled")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d -> %q, want 302 -> /", rec.Code, rec.Header().Get("Location"))
	}
}

func TestProtectedWithoutCookieRedirectsToLogin(t *testing.T) {
	provider := &countingProvider{user: &auth.User{ID: "u-1"}}
	gate := NewGate(true, provider, tempStore(t, time.Hour), nil)
	defer gate.Close()

	var called bool
	rec := httptest.NewRecorder()
	gate.Protected(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Fatal("child must not render unauthenticated")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("got %d -> %q, want 302 -> /login", rec.Code, rec.Header().Get("Location"))
	}
}

func TestProtectedAPIPathGetsJSON401(t *testing.T) {
	gate := NewGate(true, &countingProvider{}, tempStore(t, time.Hour), nil)
	defer gate.Close()

	var called bool
	rec := httptest.NewRecorder()
	gate.Protected(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leads", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedValidSessionRendersChildWithIdentity(t *testing.T) {
	store := tempStore(t, time.Hour)
	provider := &countingProvider{user: &auth.User{ID: "u-1", Email: "admin@example.com"}}
	gate := NewGate(true, provider, store, nil)
	defer gate.Close()

	sess, err := store.Create("u-1", "admin@example.com", "provider-token")
	if err != nil {
		t.Fatal(err)
	}

	var gotToken string
	handler := gate.Protected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = TokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotToken != "provider-token" {
		t.Fatalf("context token = %q, want provider token", gotToken)
	}
	if provider.queryCount() != 1 {
		t.Fatalf("provider queried %d times, want 1", provider.queryCount())
	}
}

func TestProtectedIdentityQueryFailureFailsOpenTowardLogin(t *testing.T) {
	store := tempStore(t, time.Hour)
	provider := &countingProvider{err: errors.New("provider unreachable")}
	gate := NewGate(true, provider, store, nil)
	defer gate.Close()

	sess, _ := store.Create("u-1", "a@b.c", "tok")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
	rec := httptest.NewRecorder()

	var called bool
	gate.Protected(okHandler(&called)).ServeHTTP(rec, req)

	if called || rec.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got called=%v code=%d", called, rec.Code)
	}
}

func TestPublicAuthenticatedRedirectsAndUnauthenticatedRenders(t *testing.T) {
	store := tempStore(t, time.Hour)
	provider := &countingProvider{user: &auth.User{ID: "u-1"}}
	gate := NewGate(true, provider, store, nil)
	defer gate.Close()

	// Unauthenticated: login view renders.
	var called bool
	rec := httptest.NewRecorder()
	gate.Public(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if !called {
		t.Fatal("login view should render for anonymous visitor")
	}

	// Authenticated: redirected to the protected root.
	sess, _ := store.Create("u-1", "a@b.c", "tok")
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
	rec = httptest.NewRecorder()
	called = false
	gate.Public(okHandler(&called)).ServeHTTP(rec, req)
	if called || rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 302 -> /, got called=%v code=%d loc=%q", called, rec.Code, rec.Header().Get("Location"))
	}
}

func TestSignOutEventInvalidatesLocalSession(t *testing.T) {
	store := tempStore(t, time.Hour)
	provider := &countingProvider{user: &auth.User{ID: "u-1"}}
	gate := NewGate(true, provider, store, nil)
	defer gate.Close()

	sess, _ := store.Create("u-1", "a@b.c", "tok-live")

	provider.emit(auth.Event{Type: auth.EventSignedOut, Session: &auth.Session{AccessToken: "tok-live"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
	rec := httptest.NewRecorder()

	var called bool
	gate.Protected(okHandler(&called)).ServeHTTP(rec, req)
	if called {
		t.Fatal("session should have been invalidated by the sign-out event")
	}
}
