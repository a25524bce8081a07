package session

import (
	"context"

	"github.com/inmo24x7/backoffice/internal/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated visitor stored in request context.
type Identity struct {
	User        auth.User
	AccessToken string
}

// WithIdentity stores the resolved identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, &id)
}

// IdentityFromContext retrieves the authenticated identity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey).(*Identity)
	return id
}

// TokenFromContext returns the provider access token bound to the request,
// or "" when the visitor is anonymous or auth is disabled.
func TokenFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.AccessToken
	}
	return ""
}
