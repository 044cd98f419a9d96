package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"caseclash/internal/achievements"
	"caseclash/internal/catalog"
	"caseclash/internal/clock"
	"caseclash/internal/daily"
	"caseclash/internal/database"
	"caseclash/internal/game"
	"caseclash/internal/models"
	"caseclash/internal/progression"
	"caseclash/internal/repository"
)

var ErrNoActiveSession = errors.New("no active session")

// SessionView is the session state exposed to clients. Only revealed hints
// are included and the diagnosis never appears while the session is live.
type SessionView struct {
	CaseID        string   `json:"caseId"`
	Category      string   `json:"category"`
	Difficulty    int      `json:"difficulty"`
	DailyCase     bool     `json:"dailyCase"`
	Hints         []string `json:"hints"`
	HintsRevealed int      `json:"hintsRevealed"`
	Guesses       []string `json:"guesses"`
	State         string   `json:"state"`
	CanRevealHint bool     `json:"canRevealHint"`
}

// GuessResult is the response to a submitted guess. Terminal fields are
// populated only once the session has finished.
type GuessResult struct {
	SessionView
	Correct         bool     `json:"correct"`
	Score           int      `json:"score,omitempty"`
	Diagnosis       string   `json:"diagnosis,omitempty"`
	CurrentStreak   int      `json:"currentStreak,omitempty"`
	NewAchievements []string `json:"newAchievements,omitempty"`
}

// PlayerStats is the progression summary exposed to clients
type PlayerStats struct {
	GamesPlayed      int                                 `json:"gamesPlayed"`
	GamesWon         int                                 `json:"gamesWon"`
	CurrentStreak    int                                 `json:"currentStreak"`
	MaxStreak        int                                 `json:"maxStreak"`
	TotalScore       int                                 `json:"totalScore"`
	GuessHistogram   [5]int                              `json:"guessHistogram"`
	FreezesAvailable int                                 `json:"freezesAvailable"`
	FirstHintWins    int                                 `json:"firstHintWins"`
	CategoryStats    map[string]progression.CategoryStat `json:"categoryStats"`
	StreakAtRisk     bool                                `json:"streakAtRisk"`
	CanSaveStreak    bool                                `json:"canSaveStreak"`
}

type activeSession struct {
	session *game.Session
	daily   bool
}

// progressionStore folds a terminal session into durable progression. It
// returns the post-game streak and the newly unlocked achievement IDs.
type progressionStore interface {
	Finalize(playerID string, sess *game.Session, daily bool, now time.Time) (int, []string, error)
}

// GameService orchestrates live sessions against the catalog and folds
// finished games into durable progression. Live sessions are in-memory only;
// an unfinished session is lost on restart, finished games are not.
type GameService struct {
	mu     sync.Mutex
	active map[string]*activeSession // keyed by player ID, one session each

	cat      *catalog.Catalog
	selector *daily.Selector
	clk      clock.Clock

	db      *database.DB
	players *repository.PlayerRepository
	games   *repository.GameRepository
	store   progressionStore
}

// NewGameService creates a new game service
func NewGameService(cat *catalog.Catalog, clk clock.Clock, db *database.DB, players *repository.PlayerRepository, games *repository.GameRepository) *GameService {
	return &GameService{
		active:   make(map[string]*activeSession),
		cat:      cat,
		selector: daily.NewSelector(cat, clk),
		clk:      clk,
		db:       db,
		players:  players,
		games:    games,
		store:    &dbProgressionStore{db: db, players: players},
	}
}

// DailyCase returns today's case ID without starting a session
func (s *GameService) DailyCase() (*catalog.Case, error) {
	return s.selector.Today()
}

// StartDaily starts a session against today's case
func (s *GameService) StartDaily(playerID string) (*SessionView, error) {
	c, err := s.selector.Today()
	if err != nil {
		return nil, err
	}
	return s.start(playerID, c, true), nil
}

// StartCase starts a session against a specific case. Any unfinished session
// the player had is discarded.
func (s *GameService) StartCase(playerID, caseID string) (*SessionView, error) {
	c, err := s.cat.Get(caseID)
	if err != nil {
		return nil, err
	}
	isDaily := s.selector.IsDailyCase(c.ID, s.clk.Now())
	return s.start(playerID, c, isDaily), nil
}

func (s *GameService) start(playerID string, c *catalog.Case, isDaily bool) *SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := &activeSession{session: game.NewSession(c), daily: isDaily}
	s.active[playerID] = active
	return s.view(active)
}

// SessionState returns the player's current session
func (s *GameService) SessionState(playerID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.active[playerID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s.view(active), nil
}

// RevealHint reveals the next hint on the player's session
func (s *GameService) RevealHint(playerID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.active[playerID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if err := active.session.RevealNextHint(); err != nil {
		return nil, err
	}
	return s.view(active), nil
}

// SubmitGuess applies one guess to the player's session. When the guess ends
// the session the game is finalized: the ledger is updated, achievements are
// evaluated and the history row is written, all in one transaction. The live
// session is removed either way once terminal.
func (s *GameService) SubmitGuess(playerID, guess string) (*GuessResult, error) {
	s.mu.Lock()
	active, ok := s.active[playerID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	sess := active.session
	if err := sess.SubmitGuess(guess); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	result := &GuessResult{
		SessionView: *s.view(active),
		Correct:     sess.State == game.Won,
	}

	if sess.State == game.Playing {
		s.mu.Unlock()
		return result, nil
	}

	delete(s.active, playerID)
	s.mu.Unlock()

	result.Score = sess.Score
	result.Diagnosis = sess.Case().Diagnosis

	streak, unlocked, err := s.store.Finalize(playerID, sess, active.daily, s.clk.Now())
	if err != nil {
		// The player still gets their result; progression catches up on the
		// next finalized game.
		log.Printf("Failed to finalize game for player %s: %v", playerID, err)
		return result, nil
	}
	result.CurrentStreak = streak
	result.NewAchievements = unlocked
	return result, nil
}

// dbProgressionStore is the transactional progressionStore over the database
type dbProgressionStore struct {
	db      *database.DB
	players *repository.PlayerRepository
}

func (s *dbProgressionStore) Finalize(playerID string, sess *game.Session, daily bool, now time.Time) (int, []string, error) {
	player, err := s.players.GetPlayerByID(playerID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return 0, nil, fmt.Errorf("player %s not found", playerID)
	}

	won := sess.State == game.Won

	tx, err := s.db.Begin()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ledgerRepo := repository.NewLedgerRepository(tx)
	achievementRepo := repository.NewAchievementRepository(tx)
	gameRepo := repository.NewGameRepository(tx)

	ledger, err := ledgerRepo.Get(playerID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if ledger == nil {
		ledger = progression.NewLedger(playerID)
	}

	ledger.RecordGame(won, len(sess.Guesses), sess.Score, player.IsPro, now)
	if won && sess.HintsAtWin == 1 {
		ledger.FirstHintWins++
	}
	ledger.RecordCategory(sess.Case().Category, won)

	set, err := achievementRepo.GetSet(playerID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	facts := achievements.GameFacts{
		Won:        won,
		GuessCount: len(sess.Guesses),
		HintsAtWin: sess.HintsAtWin,
		Score:      sess.Score,
		Category:   sess.Case().Category,
		DailyCase:  daily,
	}
	unlocked := achievements.Evaluate(ledger, set, facts)

	if err := ledgerRepo.Save(ledger); err != nil {
		return 0, nil, fmt.Errorf("failed to save ledger: %w", err)
	}
	if err := achievementRepo.Unlock(playerID, unlocked, now); err != nil {
		return 0, nil, fmt.Errorf("failed to save achievements: %w", err)
	}

	record := &models.GameRecord{
		PlayerID:   playerID,
		CaseID:     sess.CaseID,
		Won:        won,
		GuessCount: len(sess.Guesses),
		HintsAtWin: sess.HintsAtWin,
		Score:      sess.Score,
		DailyCase:  daily,
		PlayedAt:   now,
	}
	if _, err := gameRepo.Insert(record); err != nil {
		return 0, nil, fmt.Errorf("failed to save game record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit: %w", err)
	}
	return ledger.CurrentStreak, unlocked, nil
}

// Stats returns the player's progression summary
func (s *GameService) Stats(playerID string) (*PlayerStats, error) {
	player, err := s.players.GetPlayerByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return nil, fmt.Errorf("player %s not found", playerID)
	}

	ledger, err := repository.NewLedgerRepository(s.db).Get(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if ledger == nil {
		ledger = progression.NewLedger(playerID)
	}

	now := s.clk.Now()
	return &PlayerStats{
		GamesPlayed:      ledger.GamesPlayed,
		GamesWon:         ledger.GamesWon,
		CurrentStreak:    ledger.CurrentStreak,
		MaxStreak:        ledger.MaxStreak,
		TotalScore:       ledger.TotalScore,
		GuessHistogram:   ledger.GuessHistogram,
		FreezesAvailable: ledger.FreezesAvailable,
		FirstHintWins:    ledger.FirstHintWins,
		CategoryStats:    ledger.CategoryStats,
		StreakAtRisk:     ledger.IsStreakAtRisk(now),
		CanSaveStreak:    ledger.CanSaveStreak(player.IsPro, now),
	}, nil
}

// SaveStreak spends a streak freeze to forgive a single missed day. Returns
// false when the player is not eligible.
func (s *GameService) SaveStreak(playerID string) (bool, error) {
	player, err := s.players.GetPlayerByID(playerID)
	if err != nil {
		return false, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return false, fmt.Errorf("player %s not found", playerID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ledgerRepo := repository.NewLedgerRepository(tx)
	ledger, err := ledgerRepo.Get(playerID)
	if err != nil {
		return false, fmt.Errorf("failed to load ledger: %w", err)
	}
	if ledger == nil {
		return false, nil
	}

	now := s.clk.Now()
	ledger.CheckWeeklyFreezeReset(player.IsPro, now)
	saved := ledger.SaveStreakWithFreeze(player.IsPro, now)

	if err := ledgerRepo.Save(ledger); err != nil {
		return false, fmt.Errorf("failed to save ledger: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return saved, nil
}

// Achievements returns the player's unlocked achievements, oldest first
func (s *GameService) Achievements(playerID string) ([]repository.UnlockedAchievement, error) {
	return repository.NewAchievementRepository(s.db).ListUnlocked(playerID)
}

// RecentGames returns the player's most recent finalized games
func (s *GameService) RecentGames(playerID string, limit int) ([]models.GameRecord, error) {
	return s.games.ListRecent(playerID, limit)
}

// Leaderboard returns the top players by total score
func (s *GameService) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	return s.games.Leaderboard(limit)
}

// Cases lists the catalog without answers, for case browsing
func (s *GameService) Cases() []*catalog.Case {
	return s.cat.All()
}

// Case looks up a single case by content ID
func (s *GameService) Case(id string) (*catalog.Case, error) {
	return s.cat.Get(id)
}

func (s *GameService) view(active *activeSession) *SessionView {
	sess := active.session
	return &SessionView{
		CaseID:        sess.CaseID,
		Category:      sess.Case().Category,
		Difficulty:    sess.Case().Difficulty,
		DailyCase:     active.daily,
		Hints:         sess.RevealedHints(),
		HintsRevealed: sess.HintsRevealed,
		Guesses:       append([]string(nil), sess.Guesses...),
		State:         sess.State.String(),
		CanRevealHint: sess.CanRevealHint(),
	}
}
