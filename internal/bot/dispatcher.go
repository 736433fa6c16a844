package bot

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/internal/telegram"
)

// Handle classifies update and runs the matching flow. Collaborator failures
// are turned into user-visible messages by the middleware chain, so the
// returned error is nil unless something outside the chain went wrong.
func (d *Dispatcher) Handle(ctx context.Context, update telebot.Update) error {
	action, ok := Classify(&update)
	if !ok {
		d.log.Debug("ignoring update", slog.Int("update_id", update.ID))
		return nil
	}

	return d.handler(ctx, action)
}

func (d *Dispatcher) route(ctx context.Context, action Action) error {
	switch a := action.(type) {
	case CommandAction:
		return d.handleCommand(ctx, a)
	case CallbackAction:
		return d.handleCallback(ctx, a)
	case TextAction:
		return d.handleText(ctx, a)
	default:
		return fmt.Errorf("unhandled action %T", action)
	}
}

// handleText continues a pending generation. Text without a pending flag is
// ignored.
func (d *Dispatcher) handleText(ctx context.Context, a TextAction) error {
	pending, err := d.awaitingTopic(ctx, a.ChatID)
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}

	d.Generate(ctx, a.ChatID, a.Text)

	if err := d.conv.Clear(ctx, a.ChatID); err != nil {
		d.log.Error("failed to clear conversation state", slog.Int64("chat_id", a.ChatID), slog.Any("error", err))
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string) {
	d.sendTo(ctx, chatRecipient(chatID), text)
}

func (d *Dispatcher) sendTo(ctx context.Context, to, text string) {
	if _, err := d.msgr.SendText(ctx, to, text); err != nil {
		d.log.Warn("failed to send message", slog.String("to", to), slog.Any("error", err))
	}
}

func (d *Dispatcher) sendKeyboard(ctx context.Context, chatID int64, text string, markup *telebot.ReplyMarkup) {
	if err := d.msgr.SendKeyboard(ctx, chatRecipient(chatID), text, markup); err != nil {
		d.log.Warn("failed to send keyboard", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

// notify is used by the middlewares to report failures to the chat.
func (d *Dispatcher) notify(ctx context.Context, chatID int64, text string) {
	d.send(ctx, chatID, text)
}

func chatRecipient(chatID int64) string {
	return telegram.ChatRecipient(chatID).Recipient()
}
