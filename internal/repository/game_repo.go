package repository

import (
	"caseclash/internal/database"
	"caseclash/internal/models"
)

// GameRepository persists finalized game records
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

// Insert writes a finalized game record and returns its ID
func (r *GameRepository) Insert(g *models.GameRecord) (int64, error) {
	query := `
		INSERT INTO games (player_id, case_id, won, guess_count, hints_at_win, score, daily_case, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query,
		g.PlayerID, g.CaseID, g.Won, g.GuessCount, g.HintsAtWin, g.Score, g.DailyCase, g.PlayedAt)
}

// ListRecent returns a player's most recent games, newest first
func (r *GameRepository) ListRecent(playerID string, limit int) ([]models.GameRecord, error) {
	query := `
		SELECT id, player_id, case_id, won, guess_count, hints_at_win, score, daily_case, played_at
		FROM games
		WHERE player_id = ?
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var g models.GameRecord
		err := rows.Scan(&g.ID, &g.PlayerID, &g.CaseID, &g.Won, &g.GuessCount,
			&g.HintsAtWin, &g.Score, &g.DailyCase, &g.PlayedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, g)
	}
	return records, rows.Err()
}

// HasPlayedCase reports whether the player already has a finalized game for
// a case
func (r *GameRepository) HasPlayedCase(playerID, caseID string) (bool, error) {
	query := "SELECT COUNT(*) FROM games WHERE player_id = ? AND case_id = ?"
	var count int
	if err := r.db.QueryRow(query, playerID, caseID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Leaderboard returns the top players by total score
func (r *GameRepository) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT l.player_id, p.display_name, l.total_score, l.games_played, l.games_won
		FROM ledgers l
		JOIN players p ON p.id = l.player_id
		ORDER BY l.total_score DESC, l.games_won DESC, p.display_name
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		err := rows.Scan(&e.PlayerID, &e.DisplayName, &e.TotalScore, &e.GamesPlayed, &e.GamesWon)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListAll returns every game record, used by the backup tooling
func (r *GameRepository) ListAll() ([]models.GameRecord, error) {
	query := `
		SELECT id, player_id, case_id, won, guess_count, hints_at_win, score, daily_case, played_at
		FROM games
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var g models.GameRecord
		err := rows.Scan(&g.ID, &g.PlayerID, &g.CaseID, &g.Won, &g.GuessCount,
			&g.HintsAtWin, &g.Score, &g.DailyCase, &g.PlayedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, g)
	}
	return records, rows.Err()
}
