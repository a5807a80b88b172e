package handlers

import (
	"net/http"
)

// TeamInjuries reports current injuries and suspensions
// @Summary Team injuries
// @Tags Analytics
// @Produce json
// @Security ApiKey
// @Param team path string true "Team name"
// @Success 200 {object} models.InjuriesResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /analytics/injuries/{team} [get]
func (h *Handler) TeamInjuries(w http.ResponseWriter, r *http.Request) {
	team, ok := h.nameParam(w, r, "team")
	if !ok {
		return
	}
	resp, err := h.prediction.TeamInjuries(r.Context(), team)
	if err != nil {
		h.serviceError(w, r, err, "team_injuries", team)
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// TeamNews returns lineup signals extracted from recent news
// @Summary Team news insight
// @Tags Analytics
// @Produce json
// @Security ApiKey
// @Param team path string true "Team name"
// @Success 200 {object} models.NewsInsight
// @Failure 404 {object} models.ErrorResponse
// @Router /analytics/news/{team} [get]
func (h *Handler) TeamNews(w http.ResponseWriter, r *http.Request) {
	team, ok := h.nameParam(w, r, "team")
	if !ok {
		return
	}
	insight, err := h.prediction.TeamNews(r.Context(), team)
	if err != nil {
		h.serviceError(w, r, err, "team_news", team)
		return
	}
	h.jsonResponse(w, http.StatusOK, insight)
}

// PlayerAvailability answers whether one player can play
// @Summary Player availability
// @Tags Analytics
// @Produce json
// @Security ApiKey
// @Param team path string true "Team name"
// @Param player path string true "Player name"
// @Success 200 {object} models.PlayerAvailability
// @Failure 404 {object} models.ErrorResponse
// @Router /analytics/player-availability/{team}/{player} [get]
func (h *Handler) PlayerAvailability(w http.ResponseWriter, r *http.Request) {
	team, ok := h.nameParam(w, r, "team")
	if !ok {
		return
	}
	player, ok := h.nameParam(w, r, "player")
	if !ok {
		return
	}
	resp, err := h.prediction.PlayerAvailability(r.Context(), team, player)
	if err != nil {
		h.serviceError(w, r, err, "player_availability", team)
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}
