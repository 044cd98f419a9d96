package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"caseclash/internal/security"
	"caseclash/internal/service"
)

type contextKey string

const playerIDKey contextKey = "playerID"

// PlayerID returns the authenticated player ID from the request context
func PlayerID(r *http.Request) string {
	id, _ := r.Context().Value(playerIDKey).(string)
	return id
}

// Logging logs each request with its duration
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// RequireAuth validates the bearer token and puts the player ID on the
// request context
func RequireAuth(auth *service.AuthService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		playerID, err := auth.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), playerIDKey, playerID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects requests over the limiter's budget, keyed by client IP
func RateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !limiter.Allow(ip) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
