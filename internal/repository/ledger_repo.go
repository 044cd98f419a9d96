package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"caseclash/internal/database"
	"caseclash/internal/progression"
)

const dateLayout = "2006-01-02"

// LedgerRepository persists per-player progression ledgers. Dates are stored
// as calendar-day strings so streak arithmetic is not affected by the server
// timezone or driver time handling.
type LedgerRepository struct {
	db database.DBTX
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db database.DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Get loads a player's ledger, or nil if the player has never played
func (r *LedgerRepository) Get(playerID string) (*progression.Ledger, error) {
	query := `
		SELECT player_id, games_played, games_won, current_streak, max_streak, total_score,
		       guesses_1, guesses_2, guesses_3, guesses_4, guesses_5,
		       last_played_date, freezes_available, last_freeze_reset, freeze_used_today,
		       first_hint_wins, category_stats
		FROM ledgers
		WHERE player_id = ?
	`

	l := progression.NewLedger("")
	var lastPlayed, lastFreeze sql.NullString
	var categoryJSON string

	err := r.db.QueryRow(query, playerID).Scan(
		&l.PlayerID,
		&l.GamesPlayed,
		&l.GamesWon,
		&l.CurrentStreak,
		&l.MaxStreak,
		&l.TotalScore,
		&l.GuessHistogram[0],
		&l.GuessHistogram[1],
		&l.GuessHistogram[2],
		&l.GuessHistogram[3],
		&l.GuessHistogram[4],
		&lastPlayed,
		&l.FreezesAvailable,
		&lastFreeze,
		&l.FreezeUsedToday,
		&l.FirstHintWins,
		&categoryJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if l.LastPlayedDate, err = parseDate(lastPlayed); err != nil {
		return nil, fmt.Errorf("ledger %s: bad last_played_date: %w", playerID, err)
	}
	if l.LastFreezeReset, err = parseDate(lastFreeze); err != nil {
		return nil, fmt.Errorf("ledger %s: bad last_freeze_reset: %w", playerID, err)
	}

	if categoryJSON != "" {
		if err := json.Unmarshal([]byte(categoryJSON), &l.CategoryStats); err != nil {
			return nil, fmt.Errorf("ledger %s: bad category_stats: %w", playerID, err)
		}
	}
	if l.CategoryStats == nil {
		l.CategoryStats = make(map[string]progression.CategoryStat)
	}

	return l, nil
}

// Save writes the ledger, updating the existing row or inserting a new one.
// Run inside a transaction when the caller needs the read-modify-write to be
// atomic with other game finalization writes.
func (r *LedgerRepository) Save(l *progression.Ledger) error {
	categoryJSON, err := json.Marshal(l.CategoryStats)
	if err != nil {
		return fmt.Errorf("marshal category_stats: %w", err)
	}

	update := `
		UPDATE ledgers
		SET games_played = ?, games_won = ?, current_streak = ?, max_streak = ?, total_score = ?,
		    guesses_1 = ?, guesses_2 = ?, guesses_3 = ?, guesses_4 = ?, guesses_5 = ?,
		    last_played_date = ?, freezes_available = ?, last_freeze_reset = ?, freeze_used_today = ?,
		    first_hint_wins = ?, category_stats = ?, updated_at = CURRENT_TIMESTAMP
		WHERE player_id = ?
	`
	result, err := r.db.Exec(update,
		l.GamesPlayed, l.GamesWon, l.CurrentStreak, l.MaxStreak, l.TotalScore,
		l.GuessHistogram[0], l.GuessHistogram[1], l.GuessHistogram[2], l.GuessHistogram[3], l.GuessHistogram[4],
		formatDate(l.LastPlayedDate), l.FreezesAvailable, formatDate(l.LastFreezeReset), l.FreezeUsedToday,
		l.FirstHintWins, string(categoryJSON),
		l.PlayerID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	insert := `
		INSERT INTO ledgers (player_id, games_played, games_won, current_streak, max_streak, total_score,
		                     guesses_1, guesses_2, guesses_3, guesses_4, guesses_5,
		                     last_played_date, freezes_available, last_freeze_reset, freeze_used_today,
		                     first_hint_wins, category_stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(insert,
		l.PlayerID,
		l.GamesPlayed, l.GamesWon, l.CurrentStreak, l.MaxStreak, l.TotalScore,
		l.GuessHistogram[0], l.GuessHistogram[1], l.GuessHistogram[2], l.GuessHistogram[3], l.GuessHistogram[4],
		formatDate(l.LastPlayedDate), l.FreezesAvailable, formatDate(l.LastFreezeReset), l.FreezeUsedToday,
		l.FirstHintWins, string(categoryJSON),
	)
	return err
}

// ListAll loads every ledger, used by the backup tooling
func (r *LedgerRepository) ListAll() ([]*progression.Ledger, error) {
	query := "SELECT player_id FROM ledgers ORDER BY player_id"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ledgers := make([]*progression.Ledger, 0, len(ids))
	for _, id := range ids {
		l, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		if l != nil {
			ledgers = append(ledgers, l)
		}
	}
	return ledgers, nil
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
