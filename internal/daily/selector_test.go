package daily

import (
	"fmt"
	"testing"
	"time"

	"caseclash/internal/catalog"
	"caseclash/internal/clock"
)

func testCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	inputs := make([]catalog.CaseInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, catalog.CaseInput{
			Diagnosis: fmt.Sprintf("Condition %d", i),
			Hints: []string{
				"hint one", "hint two", "hint three", "hint four", "hint five",
			},
			Category:   "General",
			Difficulty: 3,
		})
	}
	cat, err := catalog.New(inputs)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func TestCaseForIsDeterministic(t *testing.T) {
	date := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	cat := testCatalog(t, 20)

	s1 := NewSelector(cat, clock.Fixed(date))
	s2 := NewSelector(cat, clock.Fixed(date.Add(9*time.Hour))) // same day, later

	a, err := s1.Today()
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		b, err := s2.Today()
		if err != nil {
			t.Fatalf("Today() error = %v", err)
		}
		if a.ID != b.ID {
			t.Fatalf("same date picked different cases: %s vs %s", a.ID, b.ID)
		}
	}
}

func TestCaseForVariesAcrossDates(t *testing.T) {
	cat := testCatalog(t, 50)
	s := NewSelector(cat, clock.System())

	seen := make(map[string]int)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		c, err := s.CaseFor(start.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("CaseFor() error = %v", err)
		}
		seen[c.ID]++
	}

	// With 50 cases over 60 days a single repeated pick would be suspicious.
	if len(seen) < 10 {
		t.Errorf("only %d distinct cases over 60 days", len(seen))
	}
}

func TestCaseForIndependentOfLoadOrder(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	inputs := []catalog.CaseInput{
		{Diagnosis: "Asthma", Hints: []string{"a", "b", "c", "d", "e"}, Category: "Respiratory", Difficulty: 1},
		{Diagnosis: "Migraine", Hints: []string{"a", "b", "c", "d", "e"}, Category: "Neurology", Difficulty: 2},
		{Diagnosis: "Gout", Hints: []string{"a", "b", "c", "d", "e"}, Category: "Rheumatology", Difficulty: 3},
	}
	reversed := []catalog.CaseInput{inputs[2], inputs[1], inputs[0]}

	cat1, err := catalog.New(inputs)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	cat2, err := catalog.New(reversed)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	a, err := NewSelector(cat1, clock.Fixed(date)).Today()
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	b, err := NewSelector(cat2, clock.Fixed(date)).Today()
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("load order changed the daily case: %s vs %s", a.ID, b.ID)
	}
}

func TestEmptyCatalog(t *testing.T) {
	cat, err := catalog.New(nil)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	s := NewSelector(cat, clock.System())
	if _, err := s.Today(); err != ErrEmptyCatalog {
		t.Errorf("Today() error = %v, want ErrEmptyCatalog", err)
	}
}

func TestIsDailyCase(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	cat := testCatalog(t, 10)
	s := NewSelector(cat, clock.Fixed(date))

	today, err := s.Today()
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if !s.IsDailyCase(today.ID, date) {
		t.Error("IsDailyCase() = false for today's case")
	}
	if s.IsDailyCase("deadbeefdeadbeef", date) {
		t.Error("IsDailyCase() = true for unknown ID")
	}
}
