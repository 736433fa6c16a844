// Package telegram implements the outbound messaging gateway over telebot.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	telebot "gopkg.in/telebot.v3"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_requests_total",
			Help: "Bot API calls by method.",
		},
		[]string{"method"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_errors_total",
			Help: "Failed Bot API calls by method.",
		},
		[]string{"method"},
	)
)

// API is the subset of *telebot.Bot the gateway calls.
type API interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Edit(msg telebot.Editable, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Delete(msg telebot.Editable) error
	Len(chat *telebot.Chat) (int, error)
	Respond(c *telebot.Callback, resp ...*telebot.CallbackResponse) error
}

// Recipient addresses a chat by decimal id or @handle.
type Recipient string

func (r Recipient) Recipient() string {
	return string(r)
}

// ChatRecipient formats a numeric chat id as a Recipient.
func ChatRecipient(chatID int64) Recipient {
	return Recipient(strconv.FormatInt(chatID, 10))
}

// Gateway sends Markdown messages. Every call is independent; failures are
// logged, counted and returned.
type Gateway struct {
	api API
	log *slog.Logger
}

// NewGateway wraps api.
func NewGateway(api API, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{api: api, log: log}
}

func (g *Gateway) observe(method string, err error, attrs ...any) error {
	requestsTotal.WithLabelValues(method).Inc()
	if err == nil {
		return nil
	}

	errorsTotal.WithLabelValues(method).Inc()
	g.log.Error("telegram request failed", append([]any{slog.String("method", method), slog.Any("error", err)}, attrs...)...)
	return fmt.Errorf("telegram %s: %w", method, err)
}

// SendText sends text to the chat or channel to and returns the new message id.
func (g *Gateway) SendText(ctx context.Context, to, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	msg, err := g.api.Send(Recipient(to), text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err := g.observe("sendMessage", err, slog.String("to", to)); err != nil {
		return 0, err
	}
	if msg == nil {
		return 0, nil
	}
	return msg.ID, nil
}

// SendKeyboard sends text with an inline keyboard.
func (g *Gateway) SendKeyboard(ctx context.Context, to, text string, markup *telebot.ReplyMarkup) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := g.api.Send(Recipient(to), text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown, ReplyMarkup: markup})
	return g.observe("sendMessage", err, slog.String("to", to))
}

// EditText replaces the text of a previously sent message.
func (g *Gateway) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := g.api.Edit(stored(chatID, messageID), text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	return g.observe("editMessageText", err, slog.Int64("chat_id", chatID), slog.Int("message_id", messageID))
}

// Delete removes a message.
func (g *Gateway) Delete(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := g.api.Delete(stored(chatID, messageID))
	return g.observe("deleteMessage", err, slog.Int64("chat_id", chatID), slog.Int("message_id", messageID))
}

// SendPhoto posts the image at url with a Markdown caption.
func (g *Gateway) SendPhoto(ctx context.Context, to, url, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	photo := &telebot.Photo{File: telebot.FromURL(url), Caption: caption}
	_, err := g.api.Send(Recipient(to), photo, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	return g.observe("sendPhoto", err, slog.String("to", to))
}

// MemberCount returns the number of members of chatID, or -1 on any failure.
func (g *Gateway) MemberCount(ctx context.Context, chatID int64) int {
	if ctx.Err() != nil {
		return -1
	}

	count, err := g.api.Len(&telebot.Chat{ID: chatID})
	if g.observe("getChatMemberCount", err, slog.Int64("chat_id", chatID)) != nil {
		return -1
	}
	return count
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (g *Gateway) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := g.api.Respond(&telebot.Callback{ID: callbackID})
	return g.observe("answerCallbackQuery", err)
}

func stored(chatID int64, messageID int) telebot.StoredMessage {
	return telebot.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}
}
