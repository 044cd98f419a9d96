package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"caseclash/internal/models"
	"caseclash/internal/repository"
	"caseclash/internal/security"
	"caseclash/internal/validation"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const passwordResetTokenDuration = 1 * time.Hour

// AuthService handles registration, login and token lifecycle. Access tokens
// are JWTs whose jti is a session row ID, so logout revokes them server-side.
type AuthService struct {
	players         *repository.PlayerRepository
	email           *EmailService
	jwtSecret       []byte
	sessionDuration time.Duration
	appBaseURL      string
}

// NewAuthService creates a new auth service
func NewAuthService(players *repository.PlayerRepository, email *EmailService, jwtSecret string, sessionDuration time.Duration, appBaseURL string) *AuthService {
	return &AuthService{
		players:         players,
		email:           email,
		jwtSecret:       []byte(jwtSecret),
		sessionDuration: sessionDuration,
		appBaseURL:      appBaseURL,
	}
}

// Register creates a new player account and returns it with an access token
func (s *AuthService) Register(email, password, displayName string) (*models.Player, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, "", err
	}

	existing, err := s.players.GetPlayerByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	player, err := s.players.CreatePlayer(email, hash, displayName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create player: %w", err)
	}

	go func() {
		if err := s.email.SendWelcomeEmail(player.Email, player.DisplayName); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", player.Email, err)
		}
	}()

	token, err := s.issueToken(player.ID)
	if err != nil {
		return nil, "", err
	}
	return player, token, nil
}

// Login verifies credentials and returns the player with an access token
func (s *AuthService) Login(email, password string) (*models.Player, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	player, err := s.players.GetPlayerByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up player: %w", err)
	}
	if player == nil || player.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}
	if !security.CheckPassword(password, player.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(player.ID)
	if err != nil {
		return nil, "", err
	}
	return player, token, nil
}

// OAuthLogin finds or creates the player for a verified OAuth identity and
// returns an access token. An existing account with the same email is linked
// rather than duplicated.
func (s *AuthService) OAuthLogin(provider, subject, email, displayName string) (*models.Player, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	player, err := s.players.GetPlayerByOAuth(provider, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up player: %w", err)
	}

	if player == nil && email != "" {
		player, err = s.players.GetPlayerByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to look up player: %w", err)
		}
		if player != nil {
			if err := s.players.LinkOAuthProvider(player.ID, provider, subject); err != nil {
				return nil, "", fmt.Errorf("failed to link provider: %w", err)
			}
		}
	}

	if player == nil {
		if displayName == "" {
			displayName = "Player"
		}
		// OAuth-only accounts carry no password; password login stays disabled
		// until the player sets one via reset.
		player, err = s.players.CreatePlayer(email, "", displayName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create player: %w", err)
		}
		if err := s.players.LinkOAuthProvider(player.ID, provider, subject); err != nil {
			return nil, "", fmt.Errorf("failed to link provider: %w", err)
		}

		go func() {
			if err := s.email.SendWelcomeEmail(player.Email, player.DisplayName); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", player.Email, err)
			}
		}()
	}

	token, err := s.issueToken(player.ID)
	if err != nil {
		return nil, "", err
	}
	return player, token, nil
}

// issueToken creates a session row and signs a JWT bound to it
func (s *AuthService) issueToken(playerID string) (string, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	if _, err := s.players.CreateSession(sessionID, playerID, expiresAt); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   playerID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a JWT and its backing session, returning the player ID
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return "", err
	}

	session, err := s.players.GetSession(claims.ID)
	if err != nil {
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || session.IsExpired() || session.PlayerID != claims.Subject {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Logout revokes the session behind a token. An already-revoked token is not
// an error.
func (s *AuthService) Logout(tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return ErrInvalidToken
	}
	return s.players.DeleteSession(claims.ID)
}

func (s *AuthService) parseClaims(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequestPasswordReset creates a reset token and emails it. Unknown emails
// succeed silently so the endpoint cannot be used to probe accounts.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	player, err := s.players.GetPlayerByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to look up player: %w", err)
	}
	if player == nil {
		return nil
	}

	token, err := security.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	expiresAt := time.Now().Add(passwordResetTokenDuration)
	if err := s.players.CreatePasswordResetToken(token, player.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appBaseURL, token)
	go func() {
		if err := s.email.SendPasswordResetEmail(player.Email, player.DisplayName, resetURL); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", player.Email, err)
		}
	}()
	return nil
}

// ResetPassword consumes a reset token and sets a new password. All of the
// player's sessions and outstanding tokens are invalidated.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	resetToken, err := s.players.GetPasswordResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if resetToken == nil || resetToken.Used || resetToken.IsExpired() {
		return ErrInvalidToken
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.players.UpdatePassword(resetToken.PlayerID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.players.MarkPasswordResetTokenAsUsed(token); err != nil {
		return fmt.Errorf("failed to mark token used: %w", err)
	}
	if err := s.players.DeletePlayerSessions(resetToken.PlayerID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return s.players.DeletePlayerPasswordResetTokens(resetToken.PlayerID)
}

// CleanupExpired removes expired sessions and reset tokens, called from the
// server's background maintenance loop
func (s *AuthService) CleanupExpired() {
	if err := s.players.DeleteExpiredSessions(); err != nil {
		log.Printf("Failed to clean up expired sessions: %v", err)
	}
	if err := s.players.DeleteExpiredPasswordResetTokens(); err != nil {
		log.Printf("Failed to clean up expired reset tokens: %v", err)
	}
}
