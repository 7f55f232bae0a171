package updates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLatest_StripsVersionPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.2.3"}`))
	}))
	defer srv.Close()

	latest, err := NewCheckerWithURL(srv.URL).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != "1.2.3" {
		t.Errorf("Latest() = %q, want 1.2.3", latest)
	}
}

func TestLatest_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewCheckerWithURL(srv.URL).Latest(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response, got nil")
	}
}

func TestLatest_EmptyTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewCheckerWithURL(srv.URL).Latest(context.Background()); err == nil {
		t.Fatal("expected error for missing tag, got nil")
	}
}
