package handlers

import (
	"net/http"

	"github.com/playpredict/forecast-api/internal/models"
)

// ReloadSnapshot queues a reload of the play and defense data
// @Summary Reload Snapshot
// @Description Queues a rebuild of the in-memory snapshot from the configured data source
// @Tags System
// @Produce json
// @Security AdminToken
// @Success 202 {object} models.ReloadResponse
// @Failure 401 {object} map[string]string
// @Failure 503 {object} models.ReloadResponse "Reload queue full"
// @Router /system/reload [post]
func (h *Handler) ReloadSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.reloads == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Reloads are not enabled")
		return
	}

	id, queued := h.reloads.Enqueue("api")
	if !queued {
		h.jsonResponse(w, http.StatusServiceUnavailable, models.ReloadResponse{RequestID: id, Queued: false})
		return
	}

	h.logger.Infow("Snapshot reload requested", "requestID", id, "remote", r.RemoteAddr)
	h.jsonResponse(w, http.StatusAccepted, models.ReloadResponse{RequestID: id, Queued: true})
}

// SnapshotInfo describes the snapshot in service
// @Summary Snapshot Info
// @Tags System
// @Produce json
// @Success 200 {object} models.SnapshotInfo
// @Router /system/snapshot [get]
func (h *Handler) SnapshotInfo(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.prediction.SnapshotInfo())
}

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var apiEndpoints = []endpoint{
	{"GET", "/api/predict/player?player=&opponent=&week=", "Predict a player's production against an opponent"},
	{"POST", "/api/predict/batch", "Predict several player/opponent pairs"},
	{"GET", "/api/players?role=", "List known players, optionally by role or position"},
	{"GET", "/api/players/search?query=&limit=", "Search players by name"},
	{"GET", "/api/teams", "List known team codes"},
	{"GET", "/api/system/snapshot", "Describe the loaded data snapshot"},
	{"POST", "/api/system/reload", "Queue a snapshot reload (admin)"},
}

// Index lists the API endpoints
// @Summary API Index
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"name":      "forecast-api",
		"endpoints": apiEndpoints,
	})
}
