package auth

import "context"

// Stub is the provider used when authentication is disabled: every identity
// query yields the same synthetic user, sign-out does nothing, the change
// stream never fires, and interactive sign-in is rejected.
type Stub struct {
	user User
}

// NewStub creates the disabled-auth provider.
func NewStub() *Stub {
	return &Stub{user: User{ID: "mock-user", Email: "mock@example.com"}}
}

func (s *Stub) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return nil, ErrAuthDisabled
}

func (s *Stub) SignOut(ctx context.Context, accessToken string) error {
	return nil
}

func (s *Stub) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	u := s.user
	return &u, nil
}

func (s *Stub) Subscribe(fn func(Event)) Subscription {
	return noopSubscription{}
}
