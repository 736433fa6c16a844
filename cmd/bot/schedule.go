package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proton-105/creator-bot/internal/repository"
)

func newScheduleCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <chat-id> <topic>",
		Short: "Queue a topic for the next drain pass",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			chatID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id %q: %w", args[0], err)
			}
			topic := strings.TrimSpace(strings.Join(args[1:], " "))
			if topic == "" {
				return errors.New("topic must not be empty")
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			repo := repository.NewChatRepository(a.store, a.cfg.Groq.DefaultModel, a.log.Logger)

			// drain only visits known users
			if _, err := repo.RegisterUser(ctx, chatID); err != nil {
				return err
			}
			if err := repo.EnqueueTopic(ctx, strconv.FormatInt(chatID, 10), topic); err != nil {
				return err
			}

			pending, err := repo.ScheduledTopics(ctx, strconv.FormatInt(chatID, 10))
			if err != nil {
				return err
			}

			a.log.Info("topic scheduled", slog.Int64("chat_id", chatID), slog.Int("pending", len(pending)))
			return nil
		},
	}
}
