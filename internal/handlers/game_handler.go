package handlers

import (
	"errors"
	"log"
	"net/http"

	"caseclash/internal/catalog"
	"caseclash/internal/game"
	"caseclash/internal/service"
)

// GameHandler handles the gameplay endpoints
type GameHandler struct {
	games *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// caseSummary describes a case without revealing hints or answers
type caseSummary struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Daily handles GET /api/daily, returning today's case summary
func (h *GameHandler) Daily(w http.ResponseWriter, r *http.Request) {
	c, err := h.games.DailyCase()
	if err != nil {
		log.Printf("Failed to select daily case: %v", err)
		writeError(w, http.StatusInternalServerError, "no daily case available")
		return
	}
	writeJSON(w, http.StatusOK, caseSummary{ID: c.ID, Category: c.Category, Difficulty: c.Difficulty})
}

// ListCases handles GET /api/cases
func (h *GameHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases := h.games.Cases()
	summaries := make([]caseSummary, 0, len(cases))
	for _, c := range cases {
		summaries = append(summaries, caseSummary{ID: c.ID, Category: c.Category, Difficulty: c.Difficulty})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// CaseDetail handles GET /api/cases/{id}. Hints and answers stay hidden
// until a session is started.
func (h *GameHandler) CaseDetail(w http.ResponseWriter, r *http.Request) {
	c, err := h.games.Case(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, "case not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load case")
		return
	}
	writeJSON(w, http.StatusOK, caseSummary{ID: c.ID, Category: c.Category, Difficulty: c.Difficulty})
}

// StartDaily handles POST /api/game/daily
func (h *GameHandler) StartDaily(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.StartDaily(PlayerID(r))
	if err != nil {
		log.Printf("Failed to start daily game: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to start game")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// StartCase handles POST /api/game/case/{id}
func (h *GameHandler) StartCase(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.StartCase(PlayerID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, "case not found")
			return
		}
		log.Printf("Failed to start game: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to start game")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// State handles GET /api/game
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.SessionState(PlayerID(r))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			writeError(w, http.StatusNotFound, "no active session")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Guess handles POST /api/game/guess
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Guess string `json:"guess"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.games.SubmitGuess(PlayerID(r), req.Guess)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			writeError(w, http.StatusNotFound, "no active session")
		case errors.Is(err, game.ErrEmptyGuess):
			writeError(w, http.StatusBadRequest, "guess is empty")
		case errors.Is(err, game.ErrDuplicateGuess):
			writeError(w, http.StatusBadRequest, "guess already submitted")
		case errors.Is(err, game.ErrSessionTerminal):
			writeError(w, http.StatusConflict, "session already finished")
		default:
			log.Printf("Failed to submit guess: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to submit guess")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Hint handles POST /api/game/hint
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.RevealHint(PlayerID(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			writeError(w, http.StatusNotFound, "no active session")
		case errors.Is(err, game.ErrNoMoreHints):
			writeError(w, http.StatusConflict, "all hints revealed")
		case errors.Is(err, game.ErrSessionTerminal):
			writeError(w, http.StatusConflict, "session already finished")
		default:
			writeError(w, http.StatusInternalServerError, "failed to reveal hint")
		}
		return
	}
	writeJSON(w, http.StatusOK, view)
}
