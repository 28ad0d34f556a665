package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/playpredict/forecast-api/internal/logic"
	"github.com/playpredict/forecast-api/internal/models"
)

// PredictPlayer returns a player's expected production against an opponent
// @Summary Predict Player
// @Tags Predictions
// @Produce json
// @Param player query string true "Player name as it appears in play-by-play (e.g. J.Allen)"
// @Param opponent query string true "Opponent team code"
// @Param week query int false "Week to predict"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "No history for player or no defense data for opponent"
// @Router /predict/player [get]
func (h *Handler) PredictPlayer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.PredictRequest{
		Player:   strings.TrimSpace(q.Get("player")),
		Opponent: strings.TrimSpace(q.Get("opponent")),
	}
	if raw := strings.TrimSpace(q.Get("week")); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "week must be an integer")
			return
		}
		req.Week = &week
	}

	if err := h.validate(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.prediction.Predict(r.Context(), req.Query())
	if err != nil {
		status, msg := h.predictionError(err, req)
		h.errorResponse(w, status, msg)
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// PredictBatch runs several predictions in one request
// @Summary Batch Predict
// @Tags Predictions
// @Accept json
// @Produce json
// @Param request body models.BatchPredictRequest true "Queries"
// @Success 200 {object} models.BatchPredictResponse
// @Failure 400 {object} map[string]string
// @Router /predict/batch [post]
func (h *Handler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchPredictRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Queries) > h.maxBatchSize {
		h.errorResponse(w, http.StatusBadRequest, "too many queries in batch, max "+strconv.Itoa(h.maxBatchSize))
		return
	}

	items := make([]models.BatchPredictItem, len(req.Queries))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.batchConcurrency)

	for i, query := range req.Queries {
		items[i].Query = query
		g.Go(func() error {
			result, err := h.prediction.Predict(ctx, query.Query())
			if err != nil {
				if isCanceled(err) {
					return err
				}
				_, msg := h.predictionError(err, query)
				items[i].Error = msg
				return nil
			}
			items[i].Result = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		h.logger.Warnw("Batch prediction aborted", "error", err, "queries", len(req.Queries))
		h.errorResponse(w, http.StatusServiceUnavailable, "Request canceled")
		return
	}

	h.jsonResponse(w, http.StatusOK, models.BatchPredictResponse{Results: items})
}

// predictionError maps engine errors to a status and client message. "No
// result" outcomes are 404s; anything else is logged as a server fault.
func (h *Handler) predictionError(err error, req models.PredictRequest) (int, string) {
	switch {
	case errors.Is(err, logic.ErrPlayerNotFound):
		return http.StatusNotFound, "No data found for player " + req.Player
	case errors.Is(err, logic.ErrOpponentNotFound):
		return http.StatusNotFound, "No defense data found for opponent " + strings.ToUpper(req.Opponent)
	case isCanceled(err):
		return http.StatusServiceUnavailable, "Request canceled"
	}
	h.logger.Errorw("Prediction failed", "error", err, "player", req.Player, "opponent", req.Opponent)
	return http.StatusInternalServerError, "Failed to compute prediction"
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
