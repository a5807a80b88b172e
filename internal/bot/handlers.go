package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/logic"
	"github.com/kickoffxi/lineup-api/internal/models"
)

const commandTimeout = 30 * time.Second

const helpText = `<b>Available commands:</b>

/predict &lt;team&gt; - Predicted lineup for the next match
/injuries &lt;team&gt; - Injuries and suspensions
/subscribe &lt;team&gt; - Get notified when the predicted lineup changes
/unsubscribe &lt;team&gt; - Stop notifications for a team
/subscriptions - Teams you follow
/help - Show this message

<b>Examples:</b>
/predict Arsenal
/subscribe Liverpool`

// TeamLookup resolves team names against the local directory.
type TeamLookup interface {
	Lookup(name string) (models.TeamInfo, bool)
}

type Handler struct {
	service logic.PredictionService
	teams   TeamLookup
	subs    *Subscriptions
	logger  *zap.SugaredLogger
}

func NewHandler(service logic.PredictionService, teams TeamLookup, subs *Subscriptions, logger *zap.Logger) *Handler {
	if subs == nil {
		subs = NewSubscriptions()
	}
	return &Handler{service: service, teams: teams, subs: subs, logger: logger.Sugar()}
}

// Subscriptions exposes the registry shared with the scheduler.
func (h *Handler) Subscriptions() *Subscriptions {
	return h.subs
}

func (h *Handler) HandleCommand(update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	msg.ParseMode = tgbotapi.ModeHTML
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	chatID := update.Message.Chat.ID

	switch command {
	case "start":
		msg.Text = "👋 Welcome to the lineup predictor!\n\nUse /predict &lt;team&gt; to get a predicted starting XI.\nExample: /predict Arsenal"
	case "help":
		msg.Text = helpText
	case "predict":
		h.handlePredict(&msg, chatID, args)
	case "injuries":
		h.handleInjuries(&msg, args)
	case "subscribe":
		h.handleSubscribe(&msg, chatID, args)
	case "unsubscribe":
		h.handleUnsubscribe(&msg, chatID, args)
	case "subscriptions":
		h.handleSubscriptions(&msg, chatID)
	default:
		msg.Text = "I don't understand that command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handlePredict(msg *tgbotapi.MessageConfig, chatID int64, team string) {
	if team == "" {
		msg.Text = "❌ Please specify a team name.\nExample: /predict Arsenal"
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	req := models.NewPredictionRequest(team)
	req.CreatedBy = fmt.Sprintf("telegram:%d", chatID)
	pred, err := h.service.PredictLineup(ctx, req)
	if err != nil {
		msg.Text = h.failure("predict", team, chatID, err)
		return
	}
	msg.Text = FormatPrediction(pred)
}

func (h *Handler) handleInjuries(msg *tgbotapi.MessageConfig, team string) {
	if team == "" {
		msg.Text = "❌ Please specify a team name.\nExample: /injuries Chelsea"
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	resp, err := h.service.TeamInjuries(ctx, team)
	if err != nil {
		msg.Text = h.failure("injuries", team, msg.ChatID, err)
		return
	}
	msg.Text = FormatInjuries(resp)
}

func (h *Handler) handleSubscribe(msg *tgbotapi.MessageConfig, chatID int64, team string) {
	if team == "" {
		msg.Text = "❌ Please specify a team name.\nExample: /subscribe Arsenal"
		return
	}
	name, ok := h.canonical(team)
	if !ok {
		msg.Text = fmt.Sprintf("❌ I don't know a team called %s.", html.EscapeString(team))
		return
	}
	if !h.subs.Subscribe(chatID, name) {
		msg.Text = fmt.Sprintf("You already follow %s.", html.EscapeString(name))
		return
	}
	h.logger.Infow("Chat subscribed", "chatId", chatID, "team", name)
	msg.Text = fmt.Sprintf("✅ You will be notified when the predicted %s lineup changes.", html.EscapeString(name))
}

func (h *Handler) handleUnsubscribe(msg *tgbotapi.MessageConfig, chatID int64, team string) {
	if team == "" {
		msg.Text = "❌ Please specify a team name.\nExample: /unsubscribe Arsenal"
		return
	}
	name, _ := h.canonical(team)
	if !h.subs.Unsubscribe(chatID, name) {
		msg.Text = fmt.Sprintf("You were not following %s.", html.EscapeString(name))
		return
	}
	msg.Text = fmt.Sprintf("Unsubscribed from %s.", html.EscapeString(name))
}

func (h *Handler) handleSubscriptions(msg *tgbotapi.MessageConfig, chatID int64) {
	teams := h.subs.ForChat(chatID)
	if len(teams) == 0 {
		msg.Text = "You don't follow any teams yet. Use /subscribe &lt;team&gt;."
		return
	}
	for i, t := range teams {
		teams[i] = "• " + html.EscapeString(t)
	}
	msg.Text = "<b>Your teams:</b>\n" + strings.Join(teams, "\n")
}

// canonical maps a typed team name onto its directory spelling. Without a
// directory any name is accepted as typed.
func (h *Handler) canonical(team string) (string, bool) {
	if h.teams == nil {
		return team, true
	}
	info, ok := h.teams.Lookup(team)
	if !ok {
		return team, false
	}
	return info.Name, true
}

func (h *Handler) failure(op, team string, chatID int64, err error) string {
	switch {
	case errors.Is(err, logic.ErrTeamNotFound):
		h.logger.Warnw("Team not found", "op", op, "team", team, "chatId", chatID)
		return fmt.Sprintf("❌ Team %s not found.", html.EscapeString(team))
	case errors.Is(err, logic.ErrSquadUnavailable):
		h.logger.Warnw("Squad unavailable", "op", op, "team", team, "chatId", chatID)
		return "❌ Prediction unavailable for this team right now."
	default:
		h.logger.Errorw("Bot command failed", "op", op, "team", team, "chatId", chatID, "error", err)
		return "❌ An unexpected error occurred. Please try again later."
	}
}
