package achievements

import (
	"sort"

	"caseclash/internal/progression"
)

// Set is the monotonically growing collection of achievement IDs a player has
// unlocked. Unlocks are never revoked.
type Set map[string]struct{}

// NewSet returns an empty achievement set.
func NewSet() Set {
	return make(Set)
}

// Has reports whether id is already unlocked.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add unlocks id. Adding an already-unlocked ID is a no-op.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// IDs returns the unlocked IDs in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GameFacts carries the last-game information the rules need beyond the
// ledger itself.
type GameFacts struct {
	Won        bool
	GuessCount int
	HintsAtWin int
	Score      int
	Category   string
	DailyCase  bool
}

type rule struct {
	id   string
	pred func(l *progression.Ledger, f GameFacts) bool
}

// rules is the fixed evaluation order. Adding a rule means adding a row, not
// new control flow.
var rules = []rule{
	{"first_win", func(l *progression.Ledger, f GameFacts) bool { return l.GamesWon >= 1 }},
	{"daily_first_win", func(l *progression.Ledger, f GameFacts) bool { return f.Won && f.DailyCase }},
	{"streak_3", streakRule(3)},
	{"streak_7", streakRule(7)},
	{"streak_14", streakRule(14)},
	{"streak_30", streakRule(30)},
	{"streak_100", streakRule(100)},
	{"first_hint_win", func(l *progression.Ledger, f GameFacts) bool { return f.Won && f.HintsAtWin == 1 }},
	{"score_400", func(l *progression.Ledger, f GameFacts) bool { return f.Won && f.Score >= 400 }},
	{"first_hint_win_10", func(l *progression.Ledger, f GameFacts) bool { return l.FirstHintWins >= 10 }},
	{"comeback_win", func(l *progression.Ledger, f GameFacts) bool { return f.Won && f.HintsAtWin == 5 }},
	{"games_10", gamesRule(10)},
	{"games_50", gamesRule(50)},
	{"games_100", gamesRule(100)},
	{"games_500", gamesRule(500)},
	{"total_score_1000", totalScoreRule(1000)},
	{"total_score_5000", totalScoreRule(5000)},
	{"total_score_10000", totalScoreRule(10000)},
	{"total_score_50000", totalScoreRule(50000)},
	{"level_resident", totalScoreRule(5000)},
	{"level_fellow", totalScoreRule(10000)},
	{"level_attending", totalScoreRule(40000)},
}

func streakRule(n int) func(*progression.Ledger, GameFacts) bool {
	return func(l *progression.Ledger, f GameFacts) bool { return l.CurrentStreak >= n }
}

func gamesRule(n int) func(*progression.Ledger, GameFacts) bool {
	return func(l *progression.Ledger, f GameFacts) bool { return l.GamesPlayed >= n }
}

func totalScoreRule(n int) func(*progression.Ledger, GameFacts) bool {
	return func(l *progression.Ledger, f GameFacts) bool { return l.TotalScore >= n }
}

// categoryPerfectThreshold is the minimum cases in a category before the
// perfection achievement can fire.
const categoryPerfectThreshold = 10

// Evaluate scans the post-update ledger plus last-game facts and unlocks
// anything newly satisfied. It returns the newly unlocked IDs in evaluation
// order; re-satisfying an already-unlocked rule is a no-op, so running it
// again with the same inputs returns nothing.
func Evaluate(l *progression.Ledger, set Set, facts GameFacts) []string {
	var unlocked []string

	for _, r := range rules {
		if set.Has(r.id) {
			continue
		}
		if r.pred(l, facts) {
			set.Add(r.id)
			unlocked = append(unlocked, r.id)
		}
	}

	// Per-category perfection: every category with enough volume and a
	// flawless record gets its own ID. Sorted for a deterministic pass.
	categories := make([]string, 0, len(l.CategoryStats))
	for cat := range l.CategoryStats {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		stat := l.CategoryStats[cat]
		if stat.Total < categoryPerfectThreshold || stat.Wins != stat.Total {
			continue
		}
		id := CategoryPerfectID(cat)
		if set.Has(id) {
			continue
		}
		set.Add(id)
		unlocked = append(unlocked, id)
	}

	return unlocked
}

// CategoryPerfectID returns the achievement ID for a perfect record in the
// given category.
func CategoryPerfectID(category string) string {
	return "category_perfect_" + slug(category)
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
