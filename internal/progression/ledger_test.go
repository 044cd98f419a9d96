package progression

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func playedOn(l *Ledger, t time.Time) {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	l.LastPlayedDate = &d
}

func TestRecordGameFirstEver(t *testing.T) {
	l := NewLedger("p1")
	l.RecordGame(true, 2, 250, false, day(2026, 3, 10))

	if l.GamesPlayed != 1 || l.GamesWon != 1 {
		t.Errorf("GamesPlayed/GamesWon = %d/%d, want 1/1", l.GamesPlayed, l.GamesWon)
	}
	if l.CurrentStreak != 1 || l.MaxStreak != 1 {
		t.Errorf("CurrentStreak/MaxStreak = %d/%d, want 1/1", l.CurrentStreak, l.MaxStreak)
	}
	if l.TotalScore != 250 {
		t.Errorf("TotalScore = %d, want 250", l.TotalScore)
	}
	if l.GuessHistogram[1] != 1 {
		t.Errorf("GuessHistogram[1] = %d, want 1", l.GuessHistogram[1])
	}
	if l.LastPlayedDate == nil || l.LastPlayedDate.Day() != 10 {
		t.Errorf("LastPlayedDate = %v, want March 10", l.LastPlayedDate)
	}
}

func TestRecordGameStreakArithmetic(t *testing.T) {
	tests := []struct {
		name          string
		lastPlayed    time.Time
		startStreak   int
		now           time.Time
		won           bool
		expectStreak  int
	}{
		{
			name:        "win next day extends",
			lastPlayed:  day(2026, 3, 10),
			startStreak: 5,
			now:         day(2026, 3, 11),
			won:         true,
			expectStreak: 6,
		},
		{
			name:        "win same day unchanged",
			lastPlayed:  day(2026, 3, 10),
			startStreak: 5,
			now:         day(2026, 3, 10),
			won:         true,
			expectStreak: 5,
		},
		{
			name:        "win after gap resets to 1",
			lastPlayed:  day(2026, 3, 10),
			startStreak: 5,
			now:         day(2026, 3, 13),
			won:         true,
			expectStreak: 1,
		},
		{
			name:        "loss on first game of new day resets to 0",
			lastPlayed:  day(2026, 3, 10),
			startStreak: 5,
			now:         day(2026, 3, 11),
			won:         false,
			expectStreak: 0,
		},
		{
			name:        "loss later the same day leaves streak alone",
			lastPlayed:  day(2026, 3, 10),
			startStreak: 5,
			now:         day(2026, 3, 10),
			won:         false,
			expectStreak: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger("p1")
			playedOn(l, tt.lastPlayed)
			l.CurrentStreak = tt.startStreak
			l.MaxStreak = tt.startStreak

			l.RecordGame(tt.won, 3, 100, false, tt.now)

			if l.CurrentStreak != tt.expectStreak {
				t.Errorf("CurrentStreak = %d, want %d", l.CurrentStreak, tt.expectStreak)
			}
			if l.LastPlayedDate == nil || l.LastPlayedDate.Day() != tt.now.Day() {
				t.Errorf("LastPlayedDate = %v, want day %d", l.LastPlayedDate, tt.now.Day())
			}
		})
	}
}

func TestRecordGameLossFirstEver(t *testing.T) {
	l := NewLedger("p1")
	l.RecordGame(false, 5, 0, false, day(2026, 3, 10))

	if l.GamesPlayed != 1 || l.GamesWon != 0 {
		t.Errorf("GamesPlayed/GamesWon = %d/%d, want 1/0", l.GamesPlayed, l.GamesWon)
	}
	if l.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", l.CurrentStreak)
	}
	if l.TotalScore != 0 {
		t.Errorf("TotalScore = %d, want 0", l.TotalScore)
	}
}

func TestMaxStreakTracksHighWater(t *testing.T) {
	l := NewLedger("p1")
	l.RecordGame(true, 1, 400, false, day(2026, 3, 10))
	l.RecordGame(true, 1, 400, false, day(2026, 3, 11))
	l.RecordGame(true, 1, 400, false, day(2026, 3, 12))
	if l.MaxStreak != 3 {
		t.Fatalf("MaxStreak = %d, want 3", l.MaxStreak)
	}

	// Break the streak, win again: max must survive.
	l.RecordGame(true, 1, 400, false, day(2026, 3, 20))
	if l.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", l.CurrentStreak)
	}
	if l.MaxStreak != 3 {
		t.Errorf("MaxStreak = %d, want 3", l.MaxStreak)
	}
}

func TestRecordCategory(t *testing.T) {
	l := NewLedger("p1")
	l.RecordCategory("Respiratory", true)
	l.RecordCategory("Respiratory", false)
	l.RecordCategory("Cardiology", true)
	l.RecordCategory("", true) // ignored

	if stat := l.CategoryStats["Respiratory"]; stat.Wins != 1 || stat.Total != 2 {
		t.Errorf("Respiratory = %+v, want {Wins:1 Total:2}", stat)
	}
	if stat := l.CategoryStats["Cardiology"]; stat.Wins != 1 || stat.Total != 1 {
		t.Errorf("Cardiology = %+v, want {Wins:1 Total:1}", stat)
	}
	if len(l.CategoryStats) != 2 {
		t.Errorf("CategoryStats size = %d, want 2", len(l.CategoryStats))
	}
}

func TestCheckWeeklyFreezeReset(t *testing.T) {
	monday := day(2026, 3, 9) // 2026-03-09 is a Monday
	wednesday := day(2026, 3, 11)

	t.Run("non pro always zero", func(t *testing.T) {
		l := NewLedger("p1")
		l.FreezesAvailable = 1
		l.CheckWeeklyFreezeReset(false, monday)
		if l.FreezesAvailable != 0 {
			t.Errorf("FreezesAvailable = %d, want 0", l.FreezesAvailable)
		}
	})

	t.Run("first grant", func(t *testing.T) {
		l := NewLedger("p1")
		l.FreezeUsedToday = true
		l.CheckWeeklyFreezeReset(true, wednesday)
		if l.FreezesAvailable != 1 {
			t.Errorf("FreezesAvailable = %d, want 1", l.FreezesAvailable)
		}
		if l.FreezeUsedToday {
			t.Error("FreezeUsedToday should reset on grant")
		}
		if l.LastFreezeReset == nil {
			t.Fatal("LastFreezeReset not set")
		}
	})

	t.Run("no double grant within week", func(t *testing.T) {
		l := NewLedger("p1")
		l.CheckWeeklyFreezeReset(true, wednesday)
		l.FreezesAvailable = 0 // spent
		l.CheckWeeklyFreezeReset(true, day(2026, 3, 12))
		if l.FreezesAvailable != 0 {
			t.Errorf("FreezesAvailable = %d, want 0 (no mid-week regrant)", l.FreezesAvailable)
		}
	})

	t.Run("grants on reset weekday", func(t *testing.T) {
		l := NewLedger("p1")
		l.CheckWeeklyFreezeReset(true, wednesday)
		l.FreezesAvailable = 0
		nextMonday := day(2026, 3, 16)
		l.CheckWeeklyFreezeReset(true, nextMonday)
		if l.FreezesAvailable != 1 {
			t.Errorf("FreezesAvailable = %d, want 1 on Monday", l.FreezesAvailable)
		}
	})

	t.Run("no regrant same monday", func(t *testing.T) {
		l := NewLedger("p1")
		l.CheckWeeklyFreezeReset(true, monday)
		l.FreezesAvailable = 0
		l.CheckWeeklyFreezeReset(true, monday.Add(3*time.Hour))
		if l.FreezesAvailable != 0 {
			t.Errorf("FreezesAvailable = %d, want 0 (already granted this Monday)", l.FreezesAvailable)
		}
	})

	t.Run("seven day fallback", func(t *testing.T) {
		l := NewLedger("p1")
		l.CheckWeeklyFreezeReset(true, wednesday)
		l.FreezesAvailable = 0
		l.CheckWeeklyFreezeReset(true, day(2026, 3, 18))
		if l.FreezesAvailable != 1 {
			t.Errorf("FreezesAvailable = %d, want 1 after 7 days", l.FreezesAvailable)
		}
	})
}

func TestCanSaveStreak(t *testing.T) {
	base := func() *Ledger {
		l := NewLedger("p1")
		l.CurrentStreak = 5
		l.FreezesAvailable = 1
		playedOn(l, day(2026, 3, 10))
		return l
	}
	now := day(2026, 3, 12) // exactly 2 days after last play

	tests := []struct {
		name     string
		mutate   func(*Ledger)
		isPro    bool
		now      time.Time
		expected bool
	}{
		{name: "eligible", mutate: func(l *Ledger) {}, isPro: true, now: now, expected: true},
		{name: "not pro", mutate: func(l *Ledger) {}, isPro: false, now: now, expected: false},
		{name: "no streak", mutate: func(l *Ledger) { l.CurrentStreak = 0 }, isPro: true, now: now, expected: false},
		{name: "no quota", mutate: func(l *Ledger) { l.FreezesAvailable = 0 }, isPro: true, now: now, expected: false},
		{name: "already used today", mutate: func(l *Ledger) { l.FreezeUsedToday = true }, isPro: true, now: now, expected: false},
		{name: "gap of one day", mutate: func(l *Ledger) {}, isPro: true, now: day(2026, 3, 11), expected: false},
		{name: "gap of three days", mutate: func(l *Ledger) {}, isPro: true, now: day(2026, 3, 13), expected: false},
		{name: "never played", mutate: func(l *Ledger) { l.LastPlayedDate = nil }, isPro: true, now: now, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base()
			tt.mutate(l)
			if got := l.CanSaveStreak(tt.isPro, tt.now); got != tt.expected {
				t.Errorf("CanSaveStreak() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSaveStreakWithFreeze(t *testing.T) {
	l := NewLedger("p1")
	l.CurrentStreak = 5
	l.FreezesAvailable = 1
	playedOn(l, day(2026, 3, 10))
	now := day(2026, 3, 12)

	if !l.SaveStreakWithFreeze(true, now) {
		t.Fatal("SaveStreakWithFreeze() = false, want true")
	}
	if l.FreezesAvailable != 0 {
		t.Errorf("FreezesAvailable = %d, want 0", l.FreezesAvailable)
	}
	if !l.FreezeUsedToday {
		t.Error("FreezeUsedToday = false, want true")
	}
	if l.LastPlayedDate == nil || l.LastPlayedDate.Day() != 11 {
		t.Errorf("LastPlayedDate = %v, want backdated to March 11", l.LastPlayedDate)
	}

	// Single use: immediately ineligible again.
	if l.CanSaveStreak(true, now) {
		t.Error("CanSaveStreak() = true right after a successful save")
	}
	if l.SaveStreakWithFreeze(true, now) {
		t.Error("second SaveStreakWithFreeze() succeeded")
	}

	// A win today now computes a one-day gap and extends the streak.
	l.RecordGame(true, 1, 400, true, now)
	if l.CurrentStreak != 6 {
		t.Errorf("CurrentStreak after rescue win = %d, want 6", l.CurrentStreak)
	}
}

func TestSaveStreakIneligibleGapUnchanged(t *testing.T) {
	l := NewLedger("p1")
	l.CurrentStreak = 5
	l.FreezesAvailable = 1
	playedOn(l, day(2026, 3, 10))
	now := day(2026, 3, 13) // 3-day gap

	if l.SaveStreakWithFreeze(true, now) {
		t.Fatal("SaveStreakWithFreeze() succeeded on a 3-day gap")
	}
	if l.FreezesAvailable != 1 || l.FreezeUsedToday {
		t.Error("failed save must not consume the freeze")
	}
	if l.LastPlayedDate.Day() != 10 {
		t.Errorf("LastPlayedDate = %v, want unchanged", l.LastPlayedDate)
	}
}

func TestIsStreakAtRisk(t *testing.T) {
	tests := []struct {
		name       string
		streak     int
		lastPlayed *time.Time
		now        time.Time
		expected   bool
	}{
		{name: "gap 2 at risk", streak: 3, lastPlayed: ptr(day(2026, 3, 10)), now: day(2026, 3, 12), expected: true},
		{name: "gap 5 at risk", streak: 3, lastPlayed: ptr(day(2026, 3, 10)), now: day(2026, 3, 15), expected: true},
		{name: "gap 1 safe", streak: 3, lastPlayed: ptr(day(2026, 3, 10)), now: day(2026, 3, 11), expected: false},
		{name: "no streak", streak: 0, lastPlayed: ptr(day(2026, 3, 10)), now: day(2026, 3, 15), expected: false},
		{name: "never played", streak: 3, lastPlayed: nil, now: day(2026, 3, 15), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger("p1")
			l.CurrentStreak = tt.streak
			if tt.lastPlayed != nil {
				playedOn(l, *tt.lastPlayed)
			}
			if got := l.IsStreakAtRisk(tt.now); got != tt.expected {
				t.Errorf("IsStreakAtRisk() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGuessHistogramBounds(t *testing.T) {
	l := NewLedger("p1")
	l.RecordGame(true, 0, 100, false, day(2026, 3, 10)) // out of range, ignored
	l.RecordGame(true, 6, 100, false, day(2026, 3, 10)) // out of range, ignored
	l.RecordGame(true, 5, 100, false, day(2026, 3, 10))

	var total int
	for _, n := range l.GuessHistogram {
		total += n
	}
	if total != 1 {
		t.Errorf("histogram total = %d, want 1", total)
	}
	if l.GuessHistogram[4] != 1 {
		t.Errorf("GuessHistogram[4] = %d, want 1", l.GuessHistogram[4])
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
