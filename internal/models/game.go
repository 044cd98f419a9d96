package models

import "time"

// GameRecord is the immutable history row written when a session finalizes.
// The live session itself is discarded; this record is what survives.
type GameRecord struct {
	ID         int64     `json:"id"`
	PlayerID   string    `json:"playerId"`
	CaseID     string    `json:"caseId"`
	Won        bool      `json:"won"`
	GuessCount int       `json:"guessCount"`
	HintsAtWin int       `json:"hintsAtWin"`
	Score      int       `json:"score"`
	DailyCase  bool      `json:"dailyCase"`
	PlayedAt   time.Time `json:"playedAt"`
}

// LeaderboardEntry exposes the ledger fields a remote leaderboard consumes.
// The push itself happens outside this service.
type LeaderboardEntry struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	TotalScore  int    `json:"totalScore"`
	GamesPlayed int    `json:"gamesPlayed"`
	GamesWon    int    `json:"gamesWon"`
}
