package repository

import (
	"time"

	"caseclash/internal/achievements"
	"caseclash/internal/database"
)

// UnlockedAchievement is one row of a player's achievement history
type UnlockedAchievement struct {
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// AchievementRepository persists unlocked achievements per player
type AchievementRepository struct {
	db database.DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// GetSet loads the player's unlocked achievement IDs as a set
func (r *AchievementRepository) GetSet(playerID string) (achievements.Set, error) {
	query := "SELECT achievement_id FROM player_achievements WHERE player_id = ?"
	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := achievements.NewSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set.Add(id)
	}
	return set, rows.Err()
}

// ListUnlocked returns the player's achievements with unlock timestamps,
// oldest first
func (r *AchievementRepository) ListUnlocked(playerID string) ([]UnlockedAchievement, error) {
	query := `
		SELECT achievement_id, unlocked_at
		FROM player_achievements
		WHERE player_id = ?
		ORDER BY unlocked_at, achievement_id
	`
	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocked []UnlockedAchievement
	for rows.Next() {
		var a UnlockedAchievement
		if err := rows.Scan(&a.AchievementID, &a.UnlockedAt); err != nil {
			return nil, err
		}
		unlocked = append(unlocked, a)
	}
	return unlocked, rows.Err()
}

// Unlock records newly unlocked achievements. IDs already present are
// skipped so replays cannot double-award.
func (r *AchievementRepository) Unlock(playerID string, ids []string, unlockedAt time.Time) error {
	checkQuery := "SELECT COUNT(*) FROM player_achievements WHERE player_id = ? AND achievement_id = ?"
	insertQuery := "INSERT INTO player_achievements (player_id, achievement_id, unlocked_at) VALUES (?, ?, ?)"

	for _, id := range ids {
		var count int
		if err := r.db.QueryRow(checkQuery, playerID, id).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := r.db.Exec(insertQuery, playerID, id, unlockedAt); err != nil {
			return err
		}
	}
	return nil
}
