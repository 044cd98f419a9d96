package daily

import (
	"errors"
	"time"

	"caseclash/internal/catalog"
	"caseclash/internal/clock"
)

var ErrEmptyCatalog = errors.New("catalog has no cases")

// Numerical Recipes LCG constants. The generator only needs to be
// reproducible everywhere, not statistically strong.
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// Selector picks the single case every player sees on a given calendar date.
// Selection is a pure function of the date and the catalog's sorted content
// IDs, so process, device and load order cannot change the result.
type Selector struct {
	cat *catalog.Catalog
	clk clock.Clock
}

// NewSelector creates a selector over cat using clk for "today".
func NewSelector(cat *catalog.Catalog, clk clock.Clock) *Selector {
	return &Selector{cat: cat, clk: clk}
}

// Today returns today's case.
func (s *Selector) Today() (*catalog.Case, error) {
	return s.CaseFor(s.clk.Now())
}

// CaseFor returns the case for t's calendar date.
func (s *Selector) CaseFor(t time.Time) (*catalog.Case, error) {
	ids := s.cat.IDs()
	if len(ids) == 0 {
		return nil, ErrEmptyCatalog
	}

	seed := clock.DateSeed(t)
	next := uint64(seed)*lcgMultiplier + lcgIncrement
	idx := int(next % uint64(len(ids)))

	return s.cat.Get(ids[idx])
}

// IsDailyCase reports whether caseID is the daily case for t's date.
func (s *Selector) IsDailyCase(caseID string, t time.Time) bool {
	c, err := s.CaseFor(t)
	if err != nil {
		return false
	}
	return c.ID == caseID
}
