package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/Proton-105/creator-bot/internal/errors"
	"github.com/Proton-105/creator-bot/internal/state"
)

// handleCallback routes a button press. Unknown payloads do nothing.
func (d *Dispatcher) handleCallback(ctx context.Context, a CallbackAction) error {
	chatID := a.ChatID
	cb := a.Callback

	switch cb.Kind {
	case CallbackSetModel:
		if err := d.repo.SetModel(ctx, chatID, cb.Arg); err != nil {
			return apperrors.NewStorageError("set model", err)
		}
		d.send(ctx, chatID, d.texts.Tf("models.selected", map[string]string{"model": escapeMarkdown(cb.Arg)}))
		return nil

	case CallbackSetActive:
		if err := d.repo.SetActiveChannel(ctx, chatID, cb.Arg); err != nil {
			return apperrors.NewStorageError("set active channel", err)
		}
		d.send(ctx, chatID, d.texts.Tf("channels.active_set", map[string]string{"channel": escapeMarkdown(cb.Arg)}))
		return nil

	case CallbackRemoveChannel:
		if _, err := d.repo.RemoveChannel(ctx, chatID, cb.Arg); err != nil {
			return apperrors.NewStorageError("remove channel", err)
		}
		d.send(ctx, chatID, d.texts.Tf("channels.removed", map[string]string{"channel": escapeMarkdown(cb.Arg)}))
		return d.channelManagement(ctx, chatID)

	case CallbackModelSettings:
		return d.modelSettings(ctx, chatID)

	case CallbackChannelManagement:
		return d.channelManagement(ctx, chatID)

	case CallbackAddChannel:
		d.send(ctx, chatID, d.texts.T("channels.add_instructions"))
		return nil

	case CallbackSetActiveChannel:
		channels, err := d.repo.Channels(ctx, chatID)
		if err != nil {
			return apperrors.NewStorageError("list channels", err)
		}
		if len(channels) == 0 {
			d.send(ctx, chatID, d.texts.T("channels.none_registered"))
			return nil
		}
		d.sendKeyboard(ctx, chatID, d.texts.T("channels.pick_active"), d.kb.ActiveChannelPicker(channels))
		return nil

	case CallbackGenerateArticle:
		if err := d.conv.Set(ctx, chatID, state.StateAwaitingTopic); err != nil {
			if errors.Is(err, state.ErrInvalidTransition) {
				return apperrors.NewStateError("generate requested from an unexpected state")
			}
			return apperrors.NewStorageError("set conversation state", err)
		}
		d.send(ctx, chatID, d.texts.T("generate.ask_topic"))
		return nil

	case CallbackSettings:
		return d.settings(ctx, chatID)

	case CallbackStats:
		return d.stats(ctx, chatID)

	case CallbackBackToMenu:
		return d.start(ctx, chatID)

	default:
		d.log.Debug("ignoring unknown callback", slog.Int64("chat_id", chatID), slog.String("data", cb.Raw))
		return nil
	}
}

func (d *Dispatcher) modelSettings(ctx context.Context, chatID int64) error {
	models := d.content.ListModels(ctx)
	if len(models) == 0 {
		d.send(ctx, chatID, d.texts.T("models.unavailable"))
		return nil
	}

	current, err := d.repo.Model(ctx, chatID)
	if err != nil {
		d.log.Warn("failed to read selected model", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}

	markup, _ := d.kb.Models(models)
	d.sendKeyboard(ctx, chatID, d.texts.Tf("models.title", map[string]string{"model": escapeMarkdown(current)}), markup)
	return nil
}

func (d *Dispatcher) channelManagement(ctx context.Context, chatID int64) error {
	channels, err := d.repo.Channels(ctx, chatID)
	if err != nil {
		return apperrors.NewStorageError("list channels", err)
	}

	active, hasActive, err := d.repo.ActiveChannel(ctx, chatID)
	if err != nil {
		return apperrors.NewStorageError("get active channel", err)
	}

	var b strings.Builder
	b.WriteString(d.texts.T("channels.title"))
	b.WriteString("\n\n")
	if hasActive {
		b.WriteString(d.texts.Tf("channels.active", map[string]string{"channel": escapeMarkdown(active)}))
	} else {
		b.WriteString(d.texts.T("channels.active_none"))
	}
	b.WriteString("\n\n")
	if len(channels) == 0 {
		b.WriteString(d.texts.T("channels.list_empty"))
	} else {
		b.WriteString(d.texts.T("channels.list_header"))
		for _, ch := range channels {
			b.WriteString("\n- ")
			b.WriteString(escapeMarkdown(ch))
		}
	}

	d.sendKeyboard(ctx, chatID, b.String(), d.kb.ChannelManagement(channels))
	return nil
}
