package models

import "time"

// Player represents an account in the system.
type Player struct {
	ID            string // uuid
	Email         string
	PasswordHash  string
	DisplayName   string
	OAuthProvider string
	OAuthSubject  string
	IsPro         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an issued API token. The ID doubles as the JWT "jti"
// claim so logout can revoke a token before it expires.
type Session struct {
	ID        string
	PlayerID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PasswordResetToken represents a single-use password reset token.
type PasswordResetToken struct {
	Token     string
	PlayerID  string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// IsExpired reports whether the reset token has expired.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
