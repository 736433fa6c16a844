package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	telebot "gopkg.in/telebot.v3"
)

// ClientConfig configures the telebot client.
type ClientConfig struct {
	Token   string
	APIURL  string
	Timeout time.Duration
	// Offline skips the getMe round trip at construction.
	Offline bool
}

// NewBot builds a telebot.Bot used only for outbound calls; updates arrive
// through the webhook handler, so no poller is started.
func NewBot(cfg ClientConfig) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.Token,
		URL:     cfg.APIURL,
		Client:  &http.Client{Timeout: cfg.Timeout},
		Offline: cfg.Offline,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}
	return bot, nil
}

// SetWebhook registers publicURL with Telegram. secret, when set, is echoed
// back by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func SetWebhook(bot *telebot.Bot, publicURL, secret string) error {
	err := bot.SetWebhook(&telebot.Webhook{
		Endpoint:    &telebot.WebhookEndpoint{PublicURL: publicURL},
		SecretToken: secret,
		AllowedUpdates: []string{
			"message",
			"channel_post",
			"callback_query",
		},
	})
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// Pinger checks that the bot token is accepted.
type Pinger struct {
	bot *telebot.Bot
}

// NewPinger wraps bot.
func NewPinger(bot *telebot.Bot) *Pinger {
	return &Pinger{bot: bot}
}

// Ping calls getMe.
func (p *Pinger) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.bot.Raw("getMe", nil); err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	return nil
}
