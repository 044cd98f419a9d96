package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		expected bool
	}{
		{
			name:     "future expiry",
			session:  Session{ExpiresAt: time.Now().Add(1 * time.Hour)},
			expected: false,
		},
		{
			name:     "past expiry",
			session:  Session{ExpiresAt: time.Now().Add(-1 * time.Minute)},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.IsExpired(); got != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPasswordResetTokenIsExpired(t *testing.T) {
	fresh := PasswordResetToken{ExpiresAt: time.Now().Add(30 * time.Minute)}
	if fresh.IsExpired() {
		t.Error("fresh token reported expired")
	}
	stale := PasswordResetToken{ExpiresAt: time.Now().Add(-30 * time.Minute)}
	if !stale.IsExpired() {
		t.Error("stale token reported valid")
	}
}
