package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db               *store.Database
	teams            *repository.TeamRepository
	games            *repository.GameRepository
	stats            *repository.StatsRepository
	players          *repository.PlayerRepository
	statsService     *service.StatsService
	standingsService *service.StandingsService
	playerService    *service.PlayerService
	logger           zerolog.Logger
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, logger zerolog.Logger) *Handler {
	return &Handler{
		db:               db,
		teams:            repository.NewTeamRepository(db),
		games:            repository.NewGameRepository(db),
		stats:            repository.NewStatsRepository(db),
		players:          repository.NewPlayerRepository(db),
		statsService:     service.NewStatsService(db),
		standingsService: service.NewStandingsService(db),
		playerService:    service.NewPlayerService(db),
		logger:           logger,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "courtside",
	})
}

// GetSummary returns database-wide counts
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statsService.Summary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build summary", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetTeams returns all teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// GetGamesByDate returns all games on a specific date
func (h *Handler) GetGamesByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	games, err := h.games.GetByDateRange(r.Context(), date, date.Add(24*time.Hour-time.Second))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch games", err)
		return
	}

	respondJSON(w, http.StatusOK, games)
}

// GetGame returns one game by its basketball-reference identifier
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	game, err := h.games.GetByGameID(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Game not found", err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// GetGameBoxScore returns a game with its player stat lines
func (h *Handler) GetGameBoxScore(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	game, err := h.games.GetByGameID(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Game not found", err)
		return
	}

	lines, err := h.stats.GetPlayerStatsByGame(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch box score", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game":         game,
		"player_stats": lines,
	})
}

// GetStandings returns a season's standings, recomputed from stored games
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(mux.Vars(r)["season"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season (use the ending year, e.g. 2024)", err)
		return
	}

	standings, err := h.standingsService.Recompute(r.Context(), season)
	if err != nil {
		respondError(w, http.StatusNotFound, "No standings available", err)
		return
	}

	respondJSON(w, http.StatusOK, standings)
}

// SearchPlayers returns players whose name matches the query
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Missing name parameter", nil)
		return
	}

	players, err := h.players.SearchByName(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search players", err)
		return
	}

	respondJSON(w, http.StatusOK, players)
}

// GetPlayerReport returns a player's profile and per-season aggregates
func (h *Handler) GetPlayerReport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Missing name parameter", nil)
		return
	}

	report, err := h.playerService.Report(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusNotFound, "Player not found", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
