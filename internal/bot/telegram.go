package bot

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the subset of the Bot API used to reply.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type TelegramBot struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	handler *Handler
	logger  *zap.SugaredLogger
	wg      sync.WaitGroup
}

func NewTelegramBot(token string, handler *Handler, logger *zap.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	t := newTelegramBot(api, handler, logger)
	t.api = api
	return t, nil
}

func newTelegramBot(sender Sender, handler *Handler, logger *zap.Logger) *TelegramBot {
	return &TelegramBot{sender: sender, handler: handler, logger: logger.Sugar()}
}

// Start long-polls for updates until ctx is cancelled.
func (t *TelegramBot) Start(ctx context.Context) error {
	if t.api == nil {
		return errors.New("telegram bot not connected")
	}
	t.logger.Infow("Authorized on account", "username", t.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	t.serve(ctx, t.api.GetUpdatesChan(u))
	t.api.StopReceivingUpdates()
	t.wg.Wait()
	return nil
}

// serve hands each polled update to its own goroutine, so a slow /predict in
// one chat does not hold up the others. It returns when ctx is cancelled or
// the channel closes; callers wait on in-flight updates with Wait.
func (t *TelegramBot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.HandleUpdate(update)
		case <-ctx.Done():
			return
		}
	}
}

// HandleUpdate processes an update without blocking the caller.
func (t *TelegramBot) HandleUpdate(update tgbotapi.Update) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.dispatch(update)
	}()
}

// Wait blocks until in-flight updates are answered.
func (t *TelegramBot) Wait() {
	t.wg.Wait()
}

func (t *TelegramBot) dispatch(update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil || !update.Message.IsCommand() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.logger.Errorw("Panic handling update", "updateId", update.UpdateID, "panic", r)
		}
	}()

	chatID := update.Message.Chat.ID
	if strings.EqualFold(update.Message.Command(), "predict") {
		if _, err := t.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			t.logger.Warnw("Failed to send chat action", "chatId", chatID, "error", err)
		}
	}

	msg := t.handler.HandleCommand(update)
	if _, err := t.sender.Send(msg); err != nil {
		t.logger.Errorw("Error sending message", "chatId", chatID, "error", err)
	}
}

// Notify pushes an HTML message to a chat.
func (t *TelegramBot) Notify(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.sender.Send(msg); err != nil {
		t.logger.Errorw("Error sending notification", "chatId", chatID, "error", err)
		return err
	}
	return nil
}
