package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// HintCount is the fixed number of ordered hints every case carries.
const HintCount = 5

var ErrCaseNotFound = errors.New("case not found")

// Case is an immutable catalog entry. The ID is derived from the normalized
// canonical diagnosis, so it stays stable across load order, storage backend
// and process restarts.
type Case struct {
	ID           string
	Diagnosis    string
	Alternatives []string
	Hints        []string
	Category     string
	Difficulty   int

	// answers holds the normalized diagnosis and alternative names for guess
	// matching.
	answers map[string]struct{}
}

// CaseInput is the storage/JSON representation of a case before it is
// validated and assigned a content ID.
type CaseInput struct {
	Diagnosis    string   `json:"diagnosis"`
	Alternatives []string `json:"alternatives"`
	Hints        []string `json:"hints"`
	Category     string   `json:"category"`
	Difficulty   int      `json:"difficulty"`
}

// Catalog is a read-only lookup of cases by content ID.
type Catalog struct {
	byID      map[string]*Case
	sortedIDs []string
}

// Normalize canonicalizes free text for comparison: trim, lowercase, and
// collapse internal whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContentID returns the stable identifier for a diagnosis: the first 16 hex
// characters of the SHA-256 of its normalized text.
func ContentID(diagnosis string) string {
	sum := sha256.Sum256([]byte(Normalize(diagnosis)))
	return hex.EncodeToString(sum[:])[:16]
}

// New builds a catalog from validated inputs. Duplicate diagnoses (after
// normalization) are rejected because they would collide on content ID.
func New(inputs []CaseInput) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Case, len(inputs))}

	for i, in := range inputs {
		cs, err := buildCase(in)
		if err != nil {
			return nil, fmt.Errorf("case %d (%q): %w", i, in.Diagnosis, err)
		}
		if _, exists := c.byID[cs.ID]; exists {
			return nil, fmt.Errorf("case %d (%q): duplicate diagnosis", i, in.Diagnosis)
		}
		c.byID[cs.ID] = cs
		c.sortedIDs = append(c.sortedIDs, cs.ID)
	}

	// Selection order must not depend on input order.
	sort.Strings(c.sortedIDs)

	return c, nil
}

// LoadFile reads a JSON array of cases from path and builds a catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var inputs []CaseInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return New(inputs)
}

func buildCase(in CaseInput) (*Case, error) {
	if Normalize(in.Diagnosis) == "" {
		return nil, errors.New("diagnosis is required")
	}
	if len(in.Hints) != HintCount {
		return nil, fmt.Errorf("expected %d hints, got %d", HintCount, len(in.Hints))
	}
	for i, h := range in.Hints {
		if strings.TrimSpace(h) == "" {
			return nil, fmt.Errorf("hint %d is empty", i+1)
		}
	}
	if in.Difficulty < 1 || in.Difficulty > 5 {
		return nil, fmt.Errorf("difficulty %d out of range 1-5", in.Difficulty)
	}

	answers := map[string]struct{}{
		Normalize(in.Diagnosis): {},
	}
	for _, alt := range in.Alternatives {
		if n := Normalize(alt); n != "" {
			answers[n] = struct{}{}
		}
	}

	return &Case{
		ID:           ContentID(in.Diagnosis),
		Diagnosis:    in.Diagnosis,
		Alternatives: append([]string(nil), in.Alternatives...),
		Hints:        append([]string(nil), in.Hints...),
		Category:     in.Category,
		Difficulty:   in.Difficulty,
		answers:      answers,
	}, nil
}

// Matches reports whether guess (already normalized by the caller or not)
// names this case's diagnosis or one of its accepted alternatives.
func (c *Case) Matches(guess string) bool {
	_, ok := c.answers[Normalize(guess)]
	return ok
}

// Get returns the case with the given content ID.
func (c *Catalog) Get(id string) (*Case, error) {
	cs, ok := c.byID[id]
	if !ok {
		return nil, ErrCaseNotFound
	}
	return cs, nil
}

// IDs returns all content IDs in lexicographic order. The daily selector
// indexes into this slice, so the ordering must be deterministic.
func (c *Catalog) IDs() []string {
	return c.sortedIDs
}

// Len returns the number of cases in the catalog.
func (c *Catalog) Len() int {
	return len(c.sortedIDs)
}

// All returns the cases in sorted-ID order.
func (c *Catalog) All() []*Case {
	cases := make([]*Case, 0, len(c.sortedIDs))
	for _, id := range c.sortedIDs {
		cases = append(cases, c.byID[id])
	}
	return cases
}
