package handlers

import (
	"net/http"
	"testing"

	"microwave/internal/service"
)

// The middleware is exercised through /logs, its only protected route.

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	auth := &mockAuth{validateOK: true}
	r := newTestRouter(&service.Service{Authorization: auth, EventLog: &mockEventLog{}})

	w := performRequest(r, http.MethodGet, "/logs", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if auth.validateCalls != 0 {
		t.Fatalf("token validated despite missing header")
	}
}

func TestAuthMiddleware_BadScheme(t *testing.T) {
	auth := &mockAuth{validateOK: true}
	r := newTestRouter(&service.Service{Authorization: auth, EventLog: &mockEventLog{}})

	hd := http.Header{}
	hd.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := performRequest(r, http.MethodGet, "/logs", hd)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	auth := &mockAuth{validateOK: false}
	r := newTestRouter(&service.Service{Authorization: auth, EventLog: &mockEventLog{}})

	w := performRequest(r, http.MethodGet, "/logs", authHeader("expired"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if auth.lastValidated != "expired" {
		t.Fatalf("validated %q, want %q", auth.lastValidated, "expired")
	}
}

func TestAuthMiddleware_ValidTokenPassesThrough(t *testing.T) {
	auth := &mockAuth{validateOK: true}
	r := newTestRouter(&service.Service{Authorization: auth, EventLog: &mockEventLog{}})

	w := performRequest(r, http.MethodGet, "/logs", authHeader("good"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", w.Code, w.Body.String())
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"", "", false},
		{"Bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"Token abc", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		hd := http.Header{}
		if tc.header != "" {
			hd.Set("Authorization", tc.header)
		}
		// bearerToken only reads the header, so any authed route works for setup.
		auth := &mockAuth{validateOK: true}
		r := newTestRouter(&service.Service{Authorization: auth, EventLog: &mockEventLog{}})
		w := performRequest(r, http.MethodGet, "/logs", hd)

		if tc.ok && w.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want 200", tc.header, w.Code)
		}
		if !tc.ok && w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", tc.header, w.Code)
		}
		if tc.ok && auth.lastValidated != tc.token {
			t.Errorf("header %q: validated %q, want %q", tc.header, auth.lastValidated, tc.token)
		}
	}
}
