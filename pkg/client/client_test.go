package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch_Headers(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithCSRFToken("csrf-1"))
	resp, err := c.Fetch(context.Background(), http.MethodPut, "/iapi/elections/1/text", "orgTok", map[string]string{"name": "x"})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d, want 204", resp.StatusCode)
	}
	if resp.Body != nil {
		t.Errorf("Body = %s, want nil for 204", resp.Body)
	}

	want := map[string]string{
		"Csrf-Token":     "csrf-1",
		"X-Access-Token": "orgTok",
		"Cache-Control":  "no-store",
		"Content-Type":   "application/json",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("header %s = %q, want %q", k, got.Get(k), v)
		}
	}
	if got.Get("X-Request-Id") == "" {
		t.Error("X-Request-Id not set")
	}
}

func TestFetch_NoCSRFOnSafeMethods(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode([]string{"UTC"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, WithCSRFToken("csrf-1"))
	if _, err := c.Fetch(context.Background(), http.MethodGet, "/iapi/timeZones", "", nil); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if v := got.Get("Csrf-Token"); v != "" {
		t.Errorf("Csrf-Token = %q on GET, want none", v)
	}
	if v := got.Get("X-Access-Token"); v != "" {
		t.Errorf("X-Access-Token = %q without a token, want none", v)
	}
	if v := got.Get("Content-Type"); v != "" {
		t.Errorf("Content-Type = %q without a body, want none", v)
	}
}

func TestFetch_DiscoversCSRFToken(t *testing.T) {
	landings := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			landings++
			http.SetCookie(w, &http.Cookie{Name: "PLAY_SESSION", Value: "abc", Path: "/"})
			io.WriteString(w, `<html><head><META Name="csrf-token" content="from-meta"/></head></html>`) //nolint:errcheck
			return
		}
		if r.Header.Get("Csrf-Token") != "from-meta" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if c, err := r.Cookie("PLAY_SESSION"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	for range 2 {
		resp, err := c.Fetch(context.Background(), http.MethodDelete, "/iapi/elections/1", "t", nil)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("StatusCode = %d, want 204", resp.StatusCode)
		}
	}
	if landings != 1 {
		t.Errorf("landing page fetched %d times, want 1", landings)
	}
}

func TestFindCSRFMeta_Missing(t *testing.T) {
	got, err := findCSRFMeta(strings.NewReader(`<html><head><meta name="viewport" content="x"></head></html>`))
	if err != nil {
		t.Fatalf("findCSRFMeta() error: %v", err)
	}
	if got != "" {
		t.Errorf("token = %q, want empty", got)
	}
}

func TestFetch_RefusesRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			t.Error("redirect was followed")
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Fetch(context.Background(), http.MethodGet, "/iapi/elections/1", "t", nil)
	if !errors.Is(err, ErrRedirect) {
		t.Fatalf("error = %v, want ErrRedirect", err)
	}
}

func TestFetch_BestEffortJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "<html>not json</html>") //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Fetch(context.Background(), http.MethodGet, "/", "", nil)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Body != nil {
		t.Errorf("Body = %s, want nil", resp.Body)
	}
	if err := resp.Decode(&struct{}{}); err == nil {
		t.Error("Decode() of a missing body should fail")
	}
}

func TestFetch_StatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
		json.NewEncoder(w).Encode(map[string]string{"error": "gone"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Fetch(context.Background(), http.MethodGet, "/iapi/elections/1", "t", nil)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if resp.OK() {
		t.Error("OK() = true for 410")
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetElection(context.Background(), 1, "t", "UTC")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := err.Error(); !strings.Contains(got, "boom") || !strings.Contains(got, "HTTP 500") {
		t.Errorf("error = %q, want it to contain 'HTTP 500' and 'boom'", got)
	}
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Error("IsStatus(err, 500) = false")
	}
}

func TestHTTPError_NoBody(t *testing.T) {
	err := &HTTPError{StatusCode: http.StatusForbidden}
	if got := err.Error(); got != "HTTP 403: Forbidden" {
		t.Errorf("Error() = %q", got)
	}
	if err.HTTPStatus() != http.StatusForbidden {
		t.Errorf("HTTPStatus() = %d", err.HTTPStatus())
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.Fetch(ctx, http.MethodGet, "/iapi/timeZones", "", nil)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestCSRFToken_FollowsSameOriginRedirect(t *testing.T) {
	var gotCSRF string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.Redirect(w, r, "/de/", http.StatusFound)
		case "/de/":
			io.WriteString(w, `<html><head><meta name="csrf-token" content="tok-de"></head></html>`) //nolint:errcheck
		default:
			gotCSRF = r.Header.Get("Csrf-Token")
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Fetch(context.Background(), http.MethodPut, "/iapi/elections/1/text", "t", map[string]string{}); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if gotCSRF != "tok-de" {
		t.Errorf("Csrf-Token = %q, want %q", gotCSRF, "tok-de")
	}
}

func TestCSRFToken_RefusesCrossOriginRedirect(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("cross-origin redirect was followed")
	}))
	defer other.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/", http.StatusFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CSRFToken(context.Background())
	if !errors.Is(err, ErrRedirect) {
		t.Fatalf("error = %v, want ErrRedirect", err)
	}
}
