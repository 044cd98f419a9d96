package handlers

import (
	"log"
	"net/http"
	"strconv"

	"caseclash/internal/models"
	"caseclash/internal/repository"
	"caseclash/internal/service"
)

// StatsHandler handles progression, achievement and leaderboard endpoints
type StatsHandler struct {
	games *service.GameService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(games *service.GameService) *StatsHandler {
	return &StatsHandler{games: games}
}

// Stats handles GET /api/stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.games.Stats(PlayerID(r))
	if err != nil {
		log.Printf("Failed to load stats: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Achievements handles GET /api/achievements
func (h *StatsHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := h.games.Achievements(PlayerID(r))
	if err != nil {
		log.Printf("Failed to load achievements: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load achievements")
		return
	}
	if unlocked == nil {
		unlocked = []repository.UnlockedAchievement{}
	}
	writeJSON(w, http.StatusOK, unlocked)
}

// SaveStreak handles POST /api/streak/save
func (h *StatsHandler) SaveStreak(w http.ResponseWriter, r *http.Request) {
	saved, err := h.games.SaveStreak(PlayerID(r))
	if err != nil {
		log.Printf("Failed to save streak: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save streak")
		return
	}
	if !saved {
		writeError(w, http.StatusConflict, "streak cannot be saved")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "streak saved"})
}

// History handles GET /api/games?limit=n
func (h *StatsHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	records, err := h.games.RecentGames(PlayerID(r), limit)
	if err != nil {
		log.Printf("Failed to load game history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []models.GameRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Leaderboard handles GET /api/leaderboard
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.games.Leaderboard(25)
	if err != nil {
		log.Printf("Failed to load leaderboard: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
