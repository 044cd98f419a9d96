package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"caseclash/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string              `json:"version"`
	ExportedAt   time.Time           `json:"exported_at"`
	Players      []PlayerBackup      `json:"players"`
	Ledgers      []LedgerBackup      `json:"ledgers"`
	Achievements []AchievementBackup `json:"achievements"`
	Games        []GameBackup        `json:"games"`
	Cases        []CaseBackup        `json:"cases"`
}

// PlayerBackup represents a player record for backup
type PlayerBackup struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	DisplayName   string    `json:"display_name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsPro         bool      `json:"is_pro"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LedgerBackup represents a progression ledger row for backup. Dates keep
// their stored calendar-day form and category stats their stored JSON.
type LedgerBackup struct {
	PlayerID         string  `json:"player_id"`
	GamesPlayed      int     `json:"games_played"`
	GamesWon         int     `json:"games_won"`
	CurrentStreak    int     `json:"current_streak"`
	MaxStreak        int     `json:"max_streak"`
	TotalScore       int     `json:"total_score"`
	Guesses          [5]int  `json:"guesses"`
	LastPlayedDate   *string `json:"last_played_date"`
	FreezesAvailable int     `json:"freezes_available"`
	LastFreezeReset  *string `json:"last_freeze_reset"`
	FreezeUsedToday  bool    `json:"freeze_used_today"`
	FirstHintWins    int     `json:"first_hint_wins"`
	CategoryStats    string  `json:"category_stats"`
}

// AchievementBackup represents an unlocked achievement for backup
type AchievementBackup struct {
	PlayerID      string    `json:"player_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// GameBackup represents a finalized game record for backup
type GameBackup struct {
	ID         int64     `json:"id"`
	PlayerID   string    `json:"player_id"`
	CaseID     string    `json:"case_id"`
	Won        bool      `json:"won"`
	GuessCount int       `json:"guess_count"`
	HintsAtWin int       `json:"hints_at_win"`
	Score      int       `json:"score"`
	DailyCase  bool      `json:"daily_case"`
	PlayedAt   time.Time `json:"played_at"`
}

// CaseBackup represents a catalog case row for backup
type CaseBackup struct {
	ID           string `json:"id"`
	Diagnosis    string `json:"diagnosis"`
	Alternatives string `json:"alternatives"`
	Hints        string `json:"hints"`
	Category     string `json:"category"`
	Difficulty   int    `json:"difficulty"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportPlayers(backup); err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}
	if err := s.exportLedgers(backup); err != nil {
		return fmt.Errorf("failed to export ledgers: %w", err)
	}
	if err := s.exportAchievements(backup); err != nil {
		return fmt.Errorf("failed to export achievements: %w", err)
	}
	if err := s.exportGames(backup); err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}
	if err := s.exportCases(backup); err != nil {
		return fmt.Errorf("failed to export cases: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d players, %d ledgers, %d achievements, %d games, %d cases",
		len(backup.Players), len(backup.Ledgers), len(backup.Achievements),
		len(backup.Games), len(backup.Cases))

	return nil
}

// Import restores a database from a backup file. The target database is
// expected to be freshly migrated and empty.
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importPlayers(backup.Players); err != nil {
		return fmt.Errorf("failed to import players: %w", err)
	}
	if err := s.importCases(backup.Cases); err != nil {
		return fmt.Errorf("failed to import cases: %w", err)
	}
	if err := s.importLedgers(backup.Ledgers); err != nil {
		return fmt.Errorf("failed to import ledgers: %w", err)
	}
	if err := s.importAchievements(backup.Achievements); err != nil {
		return fmt.Errorf("failed to import achievements: %w", err)
	}
	if err := s.importGames(backup.Games); err != nil {
		return fmt.Errorf("failed to import games: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportPlayers(backup *BackupData) error {
	query := `
		SELECT id, email, password_hash, display_name, oauth_provider, oauth_subject,
		       is_pro, created_at, updated_at
		FROM players ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p PlayerBackup
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName,
			&p.OAuthProvider, &p.OAuthSubject, &p.IsPro, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Players = append(backup.Players, p)
	}
	return rows.Err()
}

func (s *BackupService) exportLedgers(backup *BackupData) error {
	query := `
		SELECT player_id, games_played, games_won, current_streak, max_streak, total_score,
		       guesses_1, guesses_2, guesses_3, guesses_4, guesses_5,
		       last_played_date, freezes_available, last_freeze_reset, freeze_used_today,
		       first_hint_wins, category_stats
		FROM ledgers ORDER BY player_id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l LedgerBackup
		var lastPlayed, lastFreeze sql.NullString
		if err := rows.Scan(&l.PlayerID, &l.GamesPlayed, &l.GamesWon, &l.CurrentStreak,
			&l.MaxStreak, &l.TotalScore,
			&l.Guesses[0], &l.Guesses[1], &l.Guesses[2], &l.Guesses[3], &l.Guesses[4],
			&lastPlayed, &l.FreezesAvailable, &lastFreeze, &l.FreezeUsedToday,
			&l.FirstHintWins, &l.CategoryStats); err != nil {
			return err
		}
		if lastPlayed.Valid {
			l.LastPlayedDate = &lastPlayed.String
		}
		if lastFreeze.Valid {
			l.LastFreezeReset = &lastFreeze.String
		}
		backup.Ledgers = append(backup.Ledgers, l)
	}
	return rows.Err()
}

func (s *BackupService) exportAchievements(backup *BackupData) error {
	query := "SELECT player_id, achievement_id, unlocked_at FROM player_achievements ORDER BY player_id, achievement_id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AchievementBackup
		if err := rows.Scan(&a.PlayerID, &a.AchievementID, &a.UnlockedAt); err != nil {
			return err
		}
		backup.Achievements = append(backup.Achievements, a)
	}
	return rows.Err()
}

func (s *BackupService) exportGames(backup *BackupData) error {
	query := `
		SELECT id, player_id, case_id, won, guess_count, hints_at_win, score, daily_case, played_at
		FROM games ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GameBackup
		if err := rows.Scan(&g.ID, &g.PlayerID, &g.CaseID, &g.Won, &g.GuessCount,
			&g.HintsAtWin, &g.Score, &g.DailyCase, &g.PlayedAt); err != nil {
			return err
		}
		backup.Games = append(backup.Games, g)
	}
	return rows.Err()
}

func (s *BackupService) exportCases(backup *BackupData) error {
	query := "SELECT id, diagnosis, alternatives, hints, category, difficulty FROM cases ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CaseBackup
		if err := rows.Scan(&c.ID, &c.Diagnosis, &c.Alternatives, &c.Hints, &c.Category, &c.Difficulty); err != nil {
			return err
		}
		backup.Cases = append(backup.Cases, c)
	}
	return rows.Err()
}

func (s *BackupService) importPlayers(players []PlayerBackup) error {
	log.Printf("Importing %d players...", len(players))
	for _, p := range players {
		query := `
			INSERT INTO players (id, email, password_hash, display_name, oauth_provider, oauth_subject,
			                     is_pro, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := s.db.Exec(query, p.ID, p.Email, p.PasswordHash, p.DisplayName,
			p.OAuthProvider, p.OAuthSubject, p.IsPro, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import player %s: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importLedgers(ledgers []LedgerBackup) error {
	log.Printf("Importing %d ledgers...", len(ledgers))
	for _, l := range ledgers {
		query := `
			INSERT INTO ledgers (player_id, games_played, games_won, current_streak, max_streak, total_score,
			                     guesses_1, guesses_2, guesses_3, guesses_4, guesses_5,
			                     last_played_date, freezes_available, last_freeze_reset, freeze_used_today,
			                     first_hint_wins, category_stats)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := s.db.Exec(query, l.PlayerID, l.GamesPlayed, l.GamesWon, l.CurrentStreak,
			l.MaxStreak, l.TotalScore,
			l.Guesses[0], l.Guesses[1], l.Guesses[2], l.Guesses[3], l.Guesses[4],
			nullIfNil(l.LastPlayedDate), l.FreezesAvailable, nullIfNil(l.LastFreezeReset),
			l.FreezeUsedToday, l.FirstHintWins, l.CategoryStats)
		if err != nil {
			return fmt.Errorf("failed to import ledger for %s: %w", l.PlayerID, err)
		}
	}
	return nil
}

func (s *BackupService) importAchievements(achievements []AchievementBackup) error {
	log.Printf("Importing %d achievements...", len(achievements))
	for _, a := range achievements {
		query := "INSERT INTO player_achievements (player_id, achievement_id, unlocked_at) VALUES (?, ?, ?)"
		if _, err := s.db.Exec(query, a.PlayerID, a.AchievementID, a.UnlockedAt); err != nil {
			return fmt.Errorf("failed to import achievement %s for %s: %w", a.AchievementID, a.PlayerID, err)
		}
	}
	return nil
}

func (s *BackupService) importGames(games []GameBackup) error {
	log.Printf("Importing %d games...", len(games))
	for _, g := range games {
		query := `
			INSERT INTO games (player_id, case_id, won, guess_count, hints_at_win, score, daily_case, played_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := s.db.Exec(query, g.PlayerID, g.CaseID, g.Won, g.GuessCount,
			g.HintsAtWin, g.Score, g.DailyCase, g.PlayedAt)
		if err != nil {
			return fmt.Errorf("failed to import game %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importCases(cases []CaseBackup) error {
	log.Printf("Importing %d cases...", len(cases))
	for _, c := range cases {
		query := `
			INSERT INTO cases (id, diagnosis, alternatives, hints, category, difficulty)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err := s.db.Exec(query, c.ID, c.Diagnosis, c.Alternatives, c.Hints, c.Category, c.Difficulty)
		if err != nil {
			return fmt.Errorf("failed to import case %s: %w", c.ID, err)
		}
	}
	return nil
}

func nullIfNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
