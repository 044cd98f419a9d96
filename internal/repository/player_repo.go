package repository

import (
	"database/sql"
	"time"

	"caseclash/internal/database"
	"caseclash/internal/models"

	"github.com/google/uuid"
)

// PlayerRepository handles player, session and reset-token database operations
type PlayerRepository struct {
	db database.DBTX
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db database.DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer creates a new player account
func (r *PlayerRepository) CreatePlayer(email, passwordHash, displayName string) (*models.Player, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO players (id, email, password_hash, display_name)
		VALUES (?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, id, email, passwordHash, displayName); err != nil {
		return nil, err
	}

	return r.GetPlayerByID(id)
}

// GetPlayerByID retrieves a player by ID, or nil if not found
func (r *PlayerRepository) GetPlayerByID(id string) (*models.Player, error) {
	query := `
		SELECT id, email, password_hash, display_name, oauth_provider, oauth_subject,
		       is_pro, created_at, updated_at
		FROM players
		WHERE id = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, id))
}

// GetPlayerByEmail retrieves a player by email, or nil if not found
func (r *PlayerRepository) GetPlayerByEmail(email string) (*models.Player, error) {
	query := `
		SELECT id, email, password_hash, display_name, oauth_provider, oauth_subject,
		       is_pro, created_at, updated_at
		FROM players
		WHERE email = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, email))
}

// GetPlayerByOAuth retrieves a player by OAuth provider and subject, or nil if not found
func (r *PlayerRepository) GetPlayerByOAuth(provider, subject string) (*models.Player, error) {
	query := `
		SELECT id, email, password_hash, display_name, oauth_provider, oauth_subject,
		       is_pro, created_at, updated_at
		FROM players
		WHERE oauth_provider = ? AND oauth_subject = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, provider, subject))
}

func (r *PlayerRepository) scanPlayer(row *sql.Row) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID,
		&player.Email,
		&player.PasswordHash,
		&player.DisplayName,
		&player.OAuthProvider,
		&player.OAuthSubject,
		&player.IsPro,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}

// LinkOAuthProvider associates an OAuth identity with an existing player
func (r *PlayerRepository) LinkOAuthProvider(playerID, provider, subject string) error {
	query := `
		UPDATE players
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, provider, subject, playerID)
	return err
}

// UpdatePassword updates a player's password hash
func (r *PlayerRepository) UpdatePassword(playerID, passwordHash string) error {
	query := `
		UPDATE players
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, passwordHash, playerID)
	return err
}

// SetPro updates a player's pro entitlement flag
func (r *PlayerRepository) SetPro(playerID string, isPro bool) error {
	query := `
		UPDATE players
		SET is_pro = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, isPro, playerID)
	return err
}

// CreateSession creates a new session row
func (r *PlayerRepository) CreateSession(sessionID, playerID string, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, player_id, expires_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.Exec(query, sessionID, playerID, expiresAt); err != nil {
		return nil, err
	}
	return r.GetSession(sessionID)
}

// GetSession retrieves a session by ID, or nil if not found
func (r *PlayerRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, player_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.PlayerID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session
func (r *PlayerRepository) DeleteSession(sessionID string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	_, err := r.db.Exec(query, sessionID)
	return err
}

// DeletePlayerSessions removes all sessions belonging to a player
func (r *PlayerRepository) DeletePlayerSessions(playerID string) error {
	query := "DELETE FROM sessions WHERE player_id = ?"
	_, err := r.db.Exec(query, playerID)
	return err
}

// DeleteExpiredSessions removes all expired sessions
func (r *PlayerRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at < ?"
	_, err := r.db.Exec(query, time.Now())
	return err
}

// CreatePasswordResetToken creates a single-use password reset token
func (r *PlayerRepository) CreatePasswordResetToken(token, playerID string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (token, player_id, expires_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(query, token, playerID, expiresAt)
	return err
}

// GetPasswordResetToken retrieves a reset token, or nil if not found
func (r *PlayerRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	query := `
		SELECT token, player_id, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = ?
	`
	t := &models.PasswordResetToken{}
	err := r.db.QueryRow(query, token).Scan(
		&t.Token,
		&t.PlayerID,
		&t.ExpiresAt,
		&t.Used,
		&t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// MarkPasswordResetTokenAsUsed marks a reset token as consumed
func (r *PlayerRepository) MarkPasswordResetTokenAsUsed(token string) error {
	query := "UPDATE password_reset_tokens SET used = ? WHERE token = ?"
	_, err := r.db.Exec(query, true, token)
	return err
}

// DeletePlayerPasswordResetTokens removes all reset tokens for a player
func (r *PlayerRepository) DeletePlayerPasswordResetTokens(playerID string) error {
	query := "DELETE FROM password_reset_tokens WHERE player_id = ?"
	_, err := r.db.Exec(query, playerID)
	return err
}

// DeleteExpiredPasswordResetTokens removes all expired reset tokens
func (r *PlayerRepository) DeleteExpiredPasswordResetTokens() error {
	query := "DELETE FROM password_reset_tokens WHERE expires_at < ?"
	_, err := r.db.Exec(query, time.Now())
	return err
}
