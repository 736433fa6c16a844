package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Proton-105/creator-bot/internal/telegram"
)

func newSetWebhookCMD() *cobra.Command {
	var url, secret string

	cmd := &cobra.Command{
		Use:   "set-webhook",
		Short: "Register the webhook URL with Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if url == "" {
				url = a.cfg.Bot.WebhookURL
			}
			if url == "" {
				return errors.New("no webhook url: pass --url or set bot.webhook_url")
			}
			if !cmd.Flags().Changed("secret") {
				secret = a.cfg.Bot.WebhookSecret
			}

			tb, err := telegram.NewBot(telegram.ClientConfig{
				Token:   a.cfg.Bot.Token,
				APIURL:  a.cfg.Bot.APIURL,
				Timeout: a.cfg.Bot.Timeout,
			})
			if err != nil {
				return err
			}

			if err := telegram.SetWebhook(tb, url, secret); err != nil {
				return err
			}

			a.log.Info("webhook registered", slog.String("url", url), slog.Bool("secret", secret != ""))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "public webhook URL (default bot.webhook_url)")
	cmd.Flags().StringVar(&secret, "secret", "", "secret token Telegram echoes back (default bot.webhook_secret)")

	return cmd
}
