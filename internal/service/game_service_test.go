package service

import (
	"strings"
	"testing"
	"time"

	"caseclash/internal/catalog"
	"caseclash/internal/clock"
	"caseclash/internal/game"
)

// stubStore records finalized games without a database
type stubStore struct {
	finalized int
	lastDaily bool
	streak    int
	unlocked  []string
}

func (s *stubStore) Finalize(playerID string, sess *game.Session, daily bool, now time.Time) (int, []string, error) {
	s.finalized++
	s.lastDaily = daily
	return s.streak, s.unlocked, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.CaseInput{
		{
			Diagnosis:    "Appendicitis",
			Alternatives: []string{"acute appendicitis"},
			Hints:        []string{"h1", "h2", "h3", "h4", "h5"},
			Category:     "surgery",
			Difficulty:   2,
		},
		{
			Diagnosis:  "Migraine",
			Hints:      []string{"h1", "h2", "h3", "h4", "h5"},
			Category:   "neurology",
			Difficulty: 1,
		},
		{
			Diagnosis:  "Pneumonia",
			Hints:      []string{"h1", "h2", "h3", "h4", "h5"},
			Category:   "pulmonology",
			Difficulty: 1,
		},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func testGameService(t *testing.T) (*GameService, *stubStore) {
	t.Helper()
	clk := clock.Fixed(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	svc := NewGameService(testCatalog(t), clk, nil, nil, nil)
	store := &stubStore{streak: 1}
	svc.store = store
	return svc, store
}

func TestStartCaseRevealsOnlyFirstHint(t *testing.T) {
	svc, _ := testGameService(t)
	caseID := catalog.ContentID("Migraine")

	view, err := svc.StartCase("player-1", caseID)
	if err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}

	if view.CaseID != caseID {
		t.Errorf("CaseID = %q, want %q", view.CaseID, caseID)
	}
	if view.HintsRevealed != 1 || len(view.Hints) != 1 {
		t.Errorf("got %d hints revealed (%d in view), want 1", view.HintsRevealed, len(view.Hints))
	}
	if view.State != "playing" {
		t.Errorf("State = %q, want playing", view.State)
	}
	if !view.CanRevealHint {
		t.Error("CanRevealHint = false at session start")
	}
}

func TestStartCaseUnknownID(t *testing.T) {
	svc, _ := testGameService(t)
	if _, err := svc.StartCase("player-1", "no-such-case"); err != catalog.ErrCaseNotFound {
		t.Errorf("StartCase() error = %v, want ErrCaseNotFound", err)
	}
}

func TestStartCaseReplacesUnfinishedSession(t *testing.T) {
	svc, _ := testGameService(t)
	first := catalog.ContentID("Migraine")
	second := catalog.ContentID("Pneumonia")

	if _, err := svc.StartCase("player-1", first); err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}
	if _, err := svc.StartCase("player-1", second); err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}

	view, err := svc.SessionState("player-1")
	if err != nil {
		t.Fatalf("SessionState() error = %v", err)
	}
	if view.CaseID != second {
		t.Errorf("active CaseID = %q, want %q", view.CaseID, second)
	}
}

func TestSessionStateWithoutSession(t *testing.T) {
	svc, _ := testGameService(t)
	if _, err := svc.SessionState("player-1"); err != ErrNoActiveSession {
		t.Errorf("SessionState() error = %v, want ErrNoActiveSession", err)
	}
}

func TestWrongGuessRevealsNextHint(t *testing.T) {
	svc, _ := testGameService(t)
	caseID := catalog.ContentID("Migraine")
	if _, err := svc.StartCase("player-1", caseID); err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}

	result, err := svc.SubmitGuess("player-1", "tension headache")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if result.Correct {
		t.Error("Correct = true for wrong guess")
	}
	if result.State != "playing" {
		t.Errorf("State = %q, want playing", result.State)
	}
	if result.HintsRevealed != 2 {
		t.Errorf("HintsRevealed = %d, want 2", result.HintsRevealed)
	}
	if result.Diagnosis != "" {
		t.Errorf("Diagnosis leaked on live session: %q", result.Diagnosis)
	}
}

func TestRevealHintAdvances(t *testing.T) {
	svc, _ := testGameService(t)
	caseID := catalog.ContentID("Migraine")
	if _, err := svc.StartCase("player-1", caseID); err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}

	for want := 2; want <= 5; want++ {
		view, err := svc.RevealHint("player-1")
		if err != nil {
			t.Fatalf("RevealHint() error = %v", err)
		}
		if view.HintsRevealed != want {
			t.Errorf("HintsRevealed = %d, want %d", view.HintsRevealed, want)
		}
	}

	if _, err := svc.RevealHint("player-1"); err == nil {
		t.Error("RevealHint() succeeded past the last hint")
	}
}

func TestAlternativeDiagnosisAccepted(t *testing.T) {
	svc, store := testGameService(t)
	caseID := catalog.ContentID("Appendicitis")
	if _, err := svc.StartCase("player-1", caseID); err != nil {
		t.Fatalf("StartCase() error = %v", err)
	}

	result, err := svc.SubmitGuess("player-1", "  ACUTE   appendicitis ")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if !result.Correct {
		t.Error("Correct = false for accepted alternative")
	}
	if result.State != "won" {
		t.Errorf("State = %q, want won", result.State)
	}
	if result.Score != 400 {
		t.Errorf("Score = %d, want 400", result.Score)
	}
	if result.Diagnosis != "Appendicitis" {
		t.Errorf("Diagnosis = %q, want Appendicitis", result.Diagnosis)
	}
	if store.finalized != 1 {
		t.Errorf("finalized %d games, want 1", store.finalized)
	}
	if result.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", result.CurrentStreak)
	}

	// The terminal session is gone.
	if _, err := svc.SessionState("player-1"); err != ErrNoActiveSession {
		t.Errorf("SessionState() after win error = %v, want ErrNoActiveSession", err)
	}
}

func TestDailyCaseIsDeterministic(t *testing.T) {
	svc, _ := testGameService(t)

	first, err := svc.DailyCase()
	if err != nil {
		t.Fatalf("DailyCase() error = %v", err)
	}
	second, err := svc.DailyCase()
	if err != nil {
		t.Fatalf("DailyCase() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("daily case changed between calls: %q vs %q", first.ID, second.ID)
	}

	view, err := svc.StartDaily("player-1")
	if err != nil {
		t.Fatalf("StartDaily() error = %v", err)
	}
	if !view.DailyCase {
		t.Error("DailyCase = false on a daily session")
	}
	if view.CaseID != first.ID {
		t.Errorf("StartDaily CaseID = %q, want %q", view.CaseID, first.ID)
	}
}

func TestCasesListHasNoAnswersInIDs(t *testing.T) {
	svc, _ := testGameService(t)
	cases := svc.Cases()
	if len(cases) != 3 {
		t.Fatalf("Cases() returned %d cases, want 3", len(cases))
	}
	for _, c := range cases {
		if strings.Contains(c.ID, " ") || len(c.ID) != 16 {
			t.Errorf("case ID %q is not a 16-char content ID", c.ID)
		}
	}
}
