package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Proton-105/creator-bot/internal/domain"
	apperrors "github.com/Proton-105/creator-bot/internal/errors"
	"github.com/Proton-105/creator-bot/internal/state"
)

func (d *Dispatcher) handleCommand(ctx context.Context, a CommandAction) error {
	switch a.Command {
	case CommandStart:
		return d.start(ctx, a.ChatID)
	case CommandGenerate:
		if strings.TrimSpace(a.Args) == "" {
			return apperrors.NewValidationError("generate without a topic", d.texts.T("generate.reminder"))
		}
		d.Generate(ctx, a.ChatID, a.Args)
		return nil
	case CommandStats:
		return d.stats(ctx, a.ChatID)
	case CommandSettings:
		return d.settings(ctx, a.ChatID)
	case CommandAddChannel:
		return d.addChannel(ctx, a.ChatID, a.Args)
	case CommandTranslate:
		return d.translateText(ctx, a.ChatID, a.Args)
	default:
		d.log.Debug("unknown command", slog.Int64("chat_id", a.ChatID), slog.String("command", a.Token))
		d.send(ctx, a.ChatID, d.texts.T("commands.unknown"))
		return nil
	}
}

// start clears a pending flag before the dashboard goes out. A store failure
// is logged and the dashboard is still sent.
func (d *Dispatcher) start(ctx context.Context, chatID int64) error {
	pending, err := d.awaitingTopic(ctx, chatID)
	if err != nil || pending {
		if clearErr := d.conv.Clear(ctx, chatID); clearErr != nil {
			d.log.Error("failed to clear conversation state", slog.Int64("chat_id", chatID), slog.Any("error", clearErr))
		}
	}

	d.sendKeyboard(ctx, chatID, d.texts.T("dashboard.welcome"), d.kb.Dashboard())
	return nil
}

func (d *Dispatcher) stats(ctx context.Context, chatID int64) error {
	count := d.msgr.MemberCount(ctx, chatID)
	if count < 0 {
		d.send(ctx, chatID, d.texts.T("commands.stats_failed"))
		return nil
	}

	d.send(ctx, chatID, d.texts.Tf("commands.stats_count", map[string]string{"count": strconv.Itoa(count)}))
	return nil
}

func (d *Dispatcher) settings(ctx context.Context, chatID int64) error {
	d.sendKeyboard(ctx, chatID, d.texts.T("settings.title"), d.kb.Settings())
	return nil
}

func (d *Dispatcher) addChannel(ctx context.Context, chatID int64, channel string) error {
	if err := domain.ValidateChannel(channel); err != nil {
		return apperrors.NewValidationError(err.Error(), d.texts.T("commands.addchannel_invalid"))
	}

	added, err := d.repo.AddChannel(ctx, chatID, channel)
	if err != nil {
		return apperrors.NewStorageError("add channel", err)
	}

	args := map[string]string{"channel": escapeMarkdown(channel)}
	if !added {
		d.send(ctx, chatID, d.texts.Tf("commands.addchannel_duplicate", args))
		return nil
	}

	d.send(ctx, chatID, d.texts.Tf("commands.addchannel_added", args))
	return nil
}

// translateText expects "<language> <text>".
func (d *Dispatcher) translateText(ctx context.Context, chatID int64, args string) error {
	lang, text, _ := strings.Cut(args, " ")
	lang = strings.TrimSpace(lang)
	text = strings.TrimSpace(text)
	if lang == "" || text == "" {
		d.send(ctx, chatID, d.texts.T("commands.translate_usage"))
		return nil
	}

	if d.translate == nil {
		d.send(ctx, chatID, d.texts.T("commands.translate_failed"))
		return nil
	}

	translated, err := d.translate.Translate(ctx, text, lang)
	if err != nil {
		return apperrors.NewExternalAPIError("libretranslate", err).
			WithUserMessage(d.texts.T("commands.translate_failed"))
	}

	d.send(ctx, chatID, translated)
	return nil
}

func (d *Dispatcher) awaitingTopic(ctx context.Context, chatID int64) (bool, error) {
	current, err := d.conv.Get(ctx, chatID)
	if err != nil {
		return false, apperrors.NewStorageError("get conversation state", err)
	}
	return current == state.StateAwaitingTopic, nil
}
