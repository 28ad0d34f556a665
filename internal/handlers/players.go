package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/playpredict/forecast-api/internal/models"
)

// maxSearchLimit caps /players/search results
const maxSearchLimit = 50

// ListPlayers returns known players, optionally filtered by role or position
// @Summary List Players
// @Tags Players
// @Produce json
// @Param role query string false "passer, rusher, receiver or QB/RB/WR/TE"
// @Success 200 {object} models.PlayersResponse
// @Failure 400 {object} map[string]string
// @Router /players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("role")
	role, ok := models.ParseRole(raw)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Unknown role "+raw)
		return
	}

	players := h.prediction.ListKnownPlayers(role)
	if players == nil {
		players = []models.KnownPlayer{}
	}
	h.jsonResponse(w, http.StatusOK, models.PlayersResponse{Role: string(role), Players: players})
}

// SearchPlayers finds players whose name contains the query
// @Summary Search Players
// @Tags Players
// @Produce json
// @Param query query string true "Name fragment"
// @Param limit query int false "Max results (default 10, max 50)"
// @Success 200 {object} models.PlayersResponse
// @Failure 400 {object} map[string]string
// @Router /players/search [get]
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		h.errorResponse(w, http.StatusBadRequest, "query is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	players := h.prediction.SearchPlayers(query, limit)
	if players == nil {
		players = []models.KnownPlayer{}
	}
	h.jsonResponse(w, http.StatusOK, models.PlayersResponse{Players: players})
}

// ListTeams returns every team code present in the play history
// @Summary List Teams
// @Tags Players
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /teams [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams := h.prediction.ListKnownTeams()
	if teams == nil {
		teams = []string{}
	}
	h.jsonResponse(w, http.StatusOK, map[string][]string{"teams": teams})
}
