package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"caseclash/internal/security"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"hello": "world"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "something went wrong")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["error"] != "something went wrong" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var v struct {
		Guess string `json:"guess"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"guess":"x","extra":1}`))
	if err := decodeJSON(req, &v); err == nil {
		t.Error("decodeJSON() accepted unknown field")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"guess":"migraine"}`))
	if err := decodeJSON(req, &v); err != nil {
		t.Errorf("decodeJSON() error = %v", err)
	}
	if v.Guess != "migraine" {
		t.Errorf("Guess = %q", v.Guess)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "remote addr with port", remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "forwarded single", remoteAddr: "10.0.0.1:1234", forwarded: "203.0.113.7", want: "203.0.113.7"},
		{name: "forwarded chain", remoteAddr: "10.0.0.1:1234", forwarded: "203.0.113.7, 10.0.0.2", want: "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute)
	handler := RateLimit(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// A different client has its own budget.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status for second client = %d, want 200", rec.Code)
	}
}

func TestRequireAuthMissingToken(t *testing.T) {
	handler := RequireAuth(nil, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called without a token")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status for non-bearer auth = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
