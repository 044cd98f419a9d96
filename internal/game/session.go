package game

import (
	"errors"

	"caseclash/internal/catalog"
)

// MaxGuesses is the hard cap on guesses per session. In practice the hint
// system terminates a session on the fifth wrong guess (the fifth hint is
// already out), but the cap is kept as a safety net.
const MaxGuesses = 5

var (
	ErrEmptyGuess      = errors.New("guess is empty")
	ErrDuplicateGuess  = errors.New("guess already submitted")
	ErrSessionTerminal = errors.New("session already finished")
	ErrNoMoreHints     = errors.New("all hints revealed")
)

// State is the lifecycle state of a guess session. Won and Lost are terminal;
// a session never leaves a terminal state.
type State int

const (
	Playing State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Session tracks one player's run at a single case: the guesses submitted so
// far, how many hints are out, and the outcome once terminal. It is not safe
// for concurrent use; one logical caller mutates it at a time.
type Session struct {
	CaseID        string
	Guesses       []string // normalized, insertion order
	HintsRevealed int      // 1..catalog.HintCount, never decreases
	HintsAtWin    int      // snapshot taken at the moment of winning, 0 otherwise
	State         State
	Score         int // valid only once State is terminal

	c *catalog.Case
}

// NewSession starts a session against c. The first hint is free and already
// revealed.
func NewSession(c *catalog.Case) *Session {
	return &Session{
		CaseID:        c.ID,
		HintsRevealed: 1,
		State:         Playing,
		c:             c,
	}
}

// Case returns the case this session is playing.
func (s *Session) Case() *catalog.Case {
	return s.c
}

// SubmitGuess normalizes and applies one guess. Empty and duplicate guesses
// are rejected without changing any state. A correct guess wins the session,
// snapshots HintsAtWin and reveals the remaining hints for review. A wrong
// guess reveals the next hint, or loses the session when all hints were
// already out before the guess.
func (s *Session) SubmitGuess(text string) error {
	if s.State != Playing {
		return ErrSessionTerminal
	}

	normalized := catalog.Normalize(text)
	if normalized == "" {
		return ErrEmptyGuess
	}
	for _, prev := range s.Guesses {
		if prev == normalized {
			return ErrDuplicateGuess
		}
	}

	s.Guesses = append(s.Guesses, normalized)

	if s.c.Matches(normalized) {
		s.HintsAtWin = s.HintsRevealed
		s.HintsRevealed = catalog.HintCount
		s.State = Won
		s.Score = ScoreFor(len(s.Guesses), s.HintsAtWin)
		return nil
	}

	if s.HintsRevealed >= catalog.HintCount {
		// That was the final chance.
		s.State = Lost
		s.Score = 0
		return nil
	}

	s.HintsRevealed++

	s.forceLossIfOutOfGuesses()
	return nil
}

// forceLossIfOutOfGuesses loses the session once the guess cap is reached
// while still playing. Unreachable through SubmitGuess alone — hint
// exhaustion ends the session on the fifth guess first — but kept so a
// future change to hint pacing cannot leave a session playing forever.
func (s *Session) forceLossIfOutOfGuesses() {
	if s.State == Playing && len(s.Guesses) >= MaxGuesses {
		s.State = Lost
		s.Score = 0
	}
}

// CanRevealHint reports whether a manual hint reveal is currently allowed.
func (s *Session) CanRevealHint() bool {
	return s.State == Playing && s.HintsRevealed < catalog.HintCount
}

// RevealNextHint reveals one more hint on demand. Scoring is unaffected by
// manual reveals until the moment of winning, when the current reveal count
// is snapshotted.
func (s *Session) RevealNextHint() error {
	if s.State != Playing {
		return ErrSessionTerminal
	}
	if s.HintsRevealed >= catalog.HintCount {
		return ErrNoMoreHints
	}
	s.HintsRevealed++
	return nil
}

// RevealedHints returns the hint texts visible so far, in order.
func (s *Session) RevealedHints() []string {
	return s.c.Hints[:s.HintsRevealed]
}

// ScoreFor computes the score for a won session from the number of guesses
// used and the hints revealed when the winning guess landed:
//
//	max(0, 500 - 100*guesses - 50*max(0, hintsAtWin-1))
//
// Lost sessions always score 0.
func ScoreFor(guessCount, hintsAtWin int) int {
	hintPenalty := hintsAtWin - 1
	if hintPenalty < 0 {
		hintPenalty = 0
	}
	score := 500 - 100*guessCount - 50*hintPenalty
	if score < 0 {
		score = 0
	}
	return score
}
