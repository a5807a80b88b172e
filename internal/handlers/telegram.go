package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/swaggo/swag"

	_ "github.com/kickoffxi/lineup-api/internal/docs"
)

// TelegramWebhook receives bot updates pushed by Telegram
// @Summary Telegram webhook
// @Tags Bot
// @Accept json
// @Param X-Telegram-Bot-Api-Secret-Token header string true "Webhook secret"
// @Success 200
// @Failure 401 {object} models.ErrorResponse
// @Router /telegram/webhook [post]
func (h *Handler) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if h.bot == nil {
		h.errorResponse(w, r, http.StatusNotFound, "Webhook not enabled")
		return
	}
	secret := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
	if h.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		h.errorResponse(w, r, http.StatusUnauthorized, "Invalid webhook secret")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid update")
		return
	}

	h.bot.HandleUpdate(update)
	w.WriteHeader(http.StatusOK)
}

// SwaggerDoc serves the OpenAPI document
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		h.errorResponse(w, r, http.StatusInternalServerError, "Swagger document unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
