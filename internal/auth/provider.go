// Package auth defines the identity provider boundary for the backoffice.
//
// The provider is selected once at startup: a real GoTrue-style client when
// authentication is enabled, an always-authenticated stub when it is not.
// Nothing outside this package branches on the feature flag to talk to the
// provider.
package auth

import (
	"context"
	"errors"
)

// ErrAuthDisabled is returned by SignIn when the stub provider is active.
var ErrAuthDisabled = errors.New("authentication disabled")

// User is the authenticated identity returned by the provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a provider session: the bearer token used for backend calls
// plus the identity it belongs to.
type Session struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// EventType classifies auth change-stream events.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is one entry of the provider's auth change stream.
type Event struct {
	Type    EventType
	Session *Session
}

// Subscription is a live handle on the auth change stream.
type Subscription interface {
	Unsubscribe()
}

// Provider is the capability interface over the third-party auth service.
type Provider interface {
	// SignIn exchanges credentials for a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignOut invalidates the session behind the access token.
	SignOut(ctx context.Context, accessToken string) error

	// CurrentUser resolves the identity behind an access token. A nil user
	// without an error never happens; callers treat any error as "no user".
	CurrentUser(ctx context.Context, accessToken string) (*User, error)

	// Subscribe registers a handler for auth state changes. Handlers run
	// synchronously on the goroutine emitting the event.
	Subscribe(fn func(Event)) Subscription
}
