package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inmo24x7/backoffice/internal/session"
)

func TestClientSetsCallerHeaders(t *testing.T) {
	var gotSource, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSource = r.Header.Get(SourceTypeHeader)
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL + "/", Token: session.TokenFromContext})

	ctx := session.WithIdentity(context.Background(), session.Identity{AccessToken: "tok-1"})
	var out map[string]bool
	if err := client.Get(ctx, "/api/leads", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotSource != "backoffice" {
		t.Errorf("%s = %q", SourceTypeHeader, gotSource)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if !out["ok"] {
		t.Error("response not decoded")
	}
}

func TestClientOmitsAuthorizationWithoutSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, Token: session.TokenFromContext})
	if err := client.Get(context.Background(), "/api/leads", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestClientSurfacesRemoteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	err := client.Delete(context.Background(), "/api/leads/1")
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("err = %v, want remote error 500", err)
	}
}

func TestClientPostEncodesPayload(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	payload := map[string]string{"userId": "u-1", "text": "hola"}
	if err := client.Post(context.Background(), "/message", payload, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !strings.Contains(gotBody, `"userId":"u-1"`) {
		t.Errorf("body = %q", gotBody)
	}
}
