package session

import (
	"path/filepath"
	"testing"
	"time"
)

func tempStore(t *testing.T, lifetime time.Duration) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "sessions.db"), lifetime)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreCreateAndValidate(t *testing.T) {
	s := tempStore(t, time.Hour)

	sess, err := s.Create("u-1", "admin@example.com", "provider-token")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("empty session id")
	}

	got, err := s.Validate(sess.ID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.UserID != "u-1" || got.Email != "admin@example.com" || got.AccessToken != "provider-token" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestStoreValidateUnknownToken(t *testing.T) {
	s := tempStore(t, time.Hour)

	if _, err := s.Validate("nope"); err != ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	s := tempStore(t, time.Millisecond)

	sess, err := s.Create("u-1", "a@b.c", "tok")
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := s.Validate(sess.ID); err != ErrSessionExpired {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	// Expired row was removed.
	if _, err := s.Validate(sess.ID); err != ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound after expiry delete", err)
	}
}

func TestStoreDeleteByAccessToken(t *testing.T) {
	s := tempStore(t, time.Hour)

	a, _ := s.Create("u-1", "a@b.c", "tok-shared")
	b, _ := s.Create("u-1", "a@b.c", "tok-shared")
	c, _ := s.Create("u-2", "x@y.z", "tok-other")

	if err := s.DeleteByAccessToken("tok-shared"); err != nil {
		t.Fatalf("DeleteByAccessToken: %v", err)
	}

	if _, err := s.Validate(a.ID); err != ErrSessionNotFound {
		t.Errorf("session a should be gone, err = %v", err)
	}
	if _, err := s.Validate(b.ID); err != ErrSessionNotFound {
		t.Errorf("session b should be gone, err = %v", err)
	}
	if _, err := s.Validate(c.ID); err != nil {
		t.Errorf("session c should survive, err = %v", err)
	}
}

func TestStoreCleanup(t *testing.T) {
	s := tempStore(t, time.Millisecond)

	_, _ = s.Create("u-1", "a@b.c", "tok-1")
	_, _ = s.Create("u-2", "x@y.z", "tok-2")

	time.Sleep(5 * time.Millisecond)

	n, err := s.Cleanup()
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 2 {
		t.Fatalf("cleaned %d sessions, want 2", n)
	}
}
