package progression

import (
	"time"

	"caseclash/internal/clock"
)

// FreezeResetWeekday is the designated weekday on which pro players receive
// their weekly streak freeze.
const FreezeResetWeekday = time.Monday

// CategoryStat tracks wins and total games for one case category.
type CategoryStat struct {
	Wins  int
	Total int
}

// Ledger is the durable per-player progression aggregate. One instance per
// player, created on first play, folded forward on every finalized game.
// All calendar-day decisions take the current time as an argument; the ledger
// itself never reads the wall clock.
type Ledger struct {
	PlayerID        string
	GamesPlayed     int
	GamesWon        int
	CurrentStreak   int
	MaxStreak       int
	TotalScore      int
	GuessHistogram  [5]int // index = guesses used - 1
	LastPlayedDate  *time.Time
	FreezesAvailable int
	LastFreezeReset *time.Time
	FreezeUsedToday bool
	FirstHintWins   int
	CategoryStats   map[string]CategoryStat
}

// NewLedger returns an empty ledger for a player.
func NewLedger(playerID string) *Ledger {
	return &Ledger{
		PlayerID:      playerID,
		CategoryStats: make(map[string]CategoryStat),
	}
}

// RecordGame folds one finalized game into the ledger.
//
// A win on the first play of a new consecutive day extends the streak; a gap
// of more than one day restarts it at 1; a second game on the same day leaves
// it alone. A loss resets the streak to 0 only when it is the first game of
// the day — an earlier win today is not erased by a later loss.
func (l *Ledger) RecordGame(won bool, guessCount, score int, isPro bool, now time.Time) {
	l.CheckWeeklyFreezeReset(isPro, now)

	l.GamesPlayed++

	firstGame := l.LastPlayedDate == nil
	daysBetween := 0
	if !firstGame {
		daysBetween = clock.DaysBetween(*l.LastPlayedDate, now)
	}

	if won {
		l.GamesWon++
		l.TotalScore += score

		switch {
		case firstGame:
			l.CurrentStreak = 1
		case daysBetween == 0:
			// Already played today; streak unchanged.
		case daysBetween == 1:
			l.CurrentStreak++
		default:
			l.CurrentStreak = 1
		}
		if l.CurrentStreak > l.MaxStreak {
			l.MaxStreak = l.CurrentStreak
		}

		if guessCount >= 1 && guessCount <= len(l.GuessHistogram) {
			l.GuessHistogram[guessCount-1]++
		}
	} else if firstGame || daysBetween >= 1 {
		l.CurrentStreak = 0
	}

	today := clock.StartOfDay(now)
	l.LastPlayedDate = &today
}

// RecordCategory updates the per-category win/total counters. Called by the
// game orchestration before achievement evaluation.
func (l *Ledger) RecordCategory(category string, won bool) {
	if category == "" {
		return
	}
	if l.CategoryStats == nil {
		l.CategoryStats = make(map[string]CategoryStat)
	}
	stat := l.CategoryStats[category]
	stat.Total++
	if won {
		stat.Wins++
	}
	l.CategoryStats[category] = stat
}

// CheckWeeklyFreezeReset replenishes the weekly streak freeze for pro
// players. Non-pro players always hold zero freezes. A grant happens on the
// first ever check, on the designated reset weekday when the last grant was
// not already on that weekday, or after seven or more days without a grant.
func (l *Ledger) CheckWeeklyFreezeReset(isPro bool, now time.Time) {
	if !isPro {
		l.FreezesAvailable = 0
		return
	}

	grant := false
	switch {
	case l.LastFreezeReset == nil:
		grant = true
	case now.Weekday() == FreezeResetWeekday && l.LastFreezeReset.Weekday() != FreezeResetWeekday:
		grant = true
	case clock.DaysBetween(*l.LastFreezeReset, now) >= 7:
		grant = true
	}

	if grant {
		l.FreezesAvailable = 1
		l.FreezeUsedToday = false
		today := clock.StartOfDay(now)
		l.LastFreezeReset = &today
	}
}

// CanSaveStreak reports whether a streak freeze can be spent right now: the
// player is pro, has a live streak and an unused freeze, and exactly one full
// day was missed (a two-day gap since the last play). Any other gap is
// ineligible.
func (l *Ledger) CanSaveStreak(isPro bool, now time.Time) bool {
	if !isPro || l.CurrentStreak <= 0 || l.FreezesAvailable <= 0 || l.FreezeUsedToday {
		return false
	}
	if l.LastPlayedDate == nil {
		return false
	}
	return clock.DaysBetween(*l.LastPlayedDate, now) == 2
}

// SaveStreakWithFreeze spends one freeze to forgive the missed day. It
// rewrites LastPlayedDate to yesterday so the next win computes a one-day
// gap and extends the streak; no play record is fabricated for the missed
// day. Returns false without changes when ineligible.
func (l *Ledger) SaveStreakWithFreeze(isPro bool, now time.Time) bool {
	if !l.CanSaveStreak(isPro, now) {
		return false
	}
	l.FreezesAvailable--
	l.FreezeUsedToday = true
	yesterday := clock.StartOfDay(now).AddDate(0, 0, -1)
	l.LastPlayedDate = &yesterday
	return true
}

// IsStreakAtRisk reports whether the streak will break without action: a
// live streak and a gap of two or more days since the last play. Broader
// than the freeze window on purpose; it only drives prompting.
func (l *Ledger) IsStreakAtRisk(now time.Time) bool {
	if l.CurrentStreak <= 0 || l.LastPlayedDate == nil {
		return false
	}
	return clock.DaysBetween(*l.LastPlayedDate, now) >= 2
}
