package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kickoffxi/lineup-api/internal/logic"
	"github.com/kickoffxi/lineup-api/internal/models"
	"github.com/kickoffxi/lineup-api/internal/store"
)

const maxHistoryLimit = 100

// serviceError maps prediction errors onto HTTP statuses
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error, op, team string) {
	switch {
	case errors.Is(err, logic.ErrTeamNotFound):
		h.errorResponse(w, r, http.StatusNotFound, "Team not found")
	case errors.Is(err, logic.ErrSquadUnavailable):
		h.errorResponse(w, r, http.StatusServiceUnavailable, "Prediction unavailable for this team")
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warnw("Request timed out", "op", op, "team", team, "request_id", requestID(r.Context()))
		h.errorResponse(w, r, http.StatusGatewayTimeout, "Upstream data timed out")
	default:
		h.logger.Errorw("Request failed", "op", op, "team", team, "error", err, "request_id", requestID(r.Context()))
		h.errorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// PredictLineup predicts the starting eleven for a team
// @Summary Predict lineup
// @Description Predicts formation, starting XI and substitutes for the team's next (or given) fixture
// @Tags Predictions
// @Produce json
// @Security ApiKey
// @Param team path string true "Team name"
// @Param fixture query int false "Fixture ID"
// @Param news query bool false "Use news signals" default(true)
// @Param injuries query bool false "Use injury signals" default(true)
// @Param form query bool false "Use player form" default(true)
// @Param historical query bool false "Use recent lineups" default(true)
// @Success 200 {object} models.LineupPrediction
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /predict/{team} [get]
func (h *Handler) PredictLineup(w http.ResponseWriter, r *http.Request) {
	team, ok := h.nameParam(w, r, "team")
	if !ok {
		return
	}

	req := models.NewPredictionRequest(team)
	q := r.URL.Query()
	if v := q.Get("fixture"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 0 {
			h.errorResponse(w, r, http.StatusBadRequest, "Invalid fixture id")
			return
		}
		req.FixtureID = id
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"news", &req.UseNews},
		{"injuries", &req.UseInjuries},
		{"form", &req.UseForm},
		{"historical", &req.UseHistorical},
	}
	for _, f := range flags {
		v, err := queryFlag(q, f.key, true)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "Invalid value for "+f.key)
			return
		}
		*f.dst = v
	}
	req.CreatedBy = "api:" + clientID(r.Context())

	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid prediction request")
		return
	}

	pred, err := h.prediction.PredictLineup(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err, "predict", team)
		return
	}
	h.jsonResponse(w, http.StatusOK, pred)
}

// GetPrediction returns one stored prediction
// @Summary Get stored prediction
// @Tags Predictions
// @Produce json
// @Security ApiKey
// @Param id path string true "Prediction ID"
// @Success 200 {object} models.PredictionRecord
// @Failure 404 {object} models.ErrorResponse
// @Router /predictions/{id} [get]
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid prediction id")
		return
	}
	if h.history == nil {
		h.errorResponse(w, r, http.StatusServiceUnavailable, "Prediction history unavailable")
		return
	}

	rec, err := h.history.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.errorResponse(w, r, http.StatusNotFound, "Prediction not found")
		return
	}
	if err != nil {
		h.serviceError(w, r, err, "get_prediction", "")
		return
	}
	h.jsonResponse(w, http.StatusOK, rec)
}

// RecentPredictions lists the latest stored predictions
// @Summary Recent predictions
// @Tags Predictions
// @Produce json
// @Security ApiKey
// @Param limit query int false "Max rows (1-100)" default(10)
// @Success 200 {array} models.PredictionRecord
// @Router /predictions/recent [get]
func (h *Handler) RecentPredictions(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r.URL.Query(), 10, maxHistoryLimit)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid limit")
		return
	}
	if h.history == nil {
		h.errorResponse(w, r, http.StatusServiceUnavailable, "Prediction history unavailable")
		return
	}

	recs, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.serviceError(w, r, err, "recent_predictions", "")
		return
	}
	h.jsonResponse(w, http.StatusOK, recs)
}

// TeamPredictions lists a team's stored predictions
// @Summary Team prediction history
// @Tags Predictions
// @Produce json
// @Security ApiKey
// @Param team path string true "Team name"
// @Param limit query int false "Max rows (1-100)" default(10)
// @Success 200 {array} models.PredictionRecord
// @Router /teams/{team}/predictions [get]
func (h *Handler) TeamPredictions(w http.ResponseWriter, r *http.Request) {
	team, ok := h.nameParam(w, r, "team")
	if !ok {
		return
	}
	limit, ok := queryLimit(r.URL.Query(), 10, maxHistoryLimit)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid limit")
		return
	}
	if h.history == nil {
		h.errorResponse(w, r, http.StatusServiceUnavailable, "Prediction history unavailable")
		return
	}

	recs, err := h.history.RecentByTeam(r.Context(), team, limit)
	if err != nil {
		h.serviceError(w, r, err, "team_predictions", team)
		return
	}
	h.jsonResponse(w, http.StatusOK, recs)
}

// LastLineup returns the team's most recent actual lineup
// @Summary Last lineup
// @Tags Teams
// @Produce json
// @Security ApiKey
// @Param team path string true "Team name"
// @Success 200 {object} models.LastLineupResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /teams/{team}/last-lineup [get]
func (h *Handler) LastLineup(w http.ResponseWriter, r *http.Request) {
	team, ok := h.nameParam(w, r, "team")
	if !ok {
		return
	}
	resp, err := h.prediction.LastLineup(r.Context(), team)
	if err != nil {
		h.serviceError(w, r, err, "last_lineup", team)
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}
