// Package keyboard builds the inline keyboards the bot sends.
package keyboard

import (
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/internal/i18n"
)

// Builder renders the bot's menus with labels from tr.
type Builder struct {
	tr  i18n.Translator
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(tr i18n.Translator, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{tr: tr, log: log}
}

// Dashboard is the /start menu.
func (b *Builder) Dashboard() *telebot.ReplyMarkup {
	return b.must(NewInlineKeyboard().
		AddRow(InlineButton{Text: b.tr.T("dashboard.generate_article"), Unique: CallbackGenerateArticle}).
		AddRow(InlineButton{Text: b.tr.T("dashboard.channel_management"), Unique: CallbackChannelManagement}).
		AddRow(
			InlineButton{Text: b.tr.T("dashboard.settings"), Unique: CallbackSettings},
			InlineButton{Text: b.tr.T("dashboard.statistics"), Unique: CallbackStats},
		))
}

// Settings is the /settings menu.
func (b *Builder) Settings() *telebot.ReplyMarkup {
	return b.must(NewInlineKeyboard().
		AddRow(InlineButton{Text: b.tr.T("settings.model_settings"), Unique: CallbackModelSettings}).
		AddRow(InlineButton{Text: b.tr.T("dashboard.channel_management"), Unique: CallbackChannelManagement}).
		AddRow(b.back(CallbackBackToMenu)))
}

// Models offers one button per model id. Ids that do not fit into callback
// data are skipped; the second result is the number of model buttons kept.
func (b *Builder) Models(models []string) (*telebot.ReplyMarkup, int) {
	kb := NewInlineKeyboard()
	kept := 0
	for _, model := range models {
		if _, err := EncodeCallback(CallbackSetModel, model); err != nil {
			b.log.Warn("skipping model button", slog.String("model", model), slog.Any("error", err))
			continue
		}
		kb.AddRow(InlineButton{Text: model, Unique: CallbackSetModel, Data: model})
		kept++
	}
	kb.AddRow(b.back(CallbackSettings))

	return b.must(kb), kept
}

// ChannelManagement lists one remove button per channel plus the add,
// set-active and back buttons.
func (b *Builder) ChannelManagement(channels []string) *telebot.ReplyMarkup {
	kb := NewInlineKeyboard()
	for _, ch := range channels {
		if _, err := EncodeCallback(CallbackRemoveChannel, ch); err != nil {
			b.log.Warn("skipping remove button", slog.String("channel", ch), slog.Any("error", err))
			continue
		}
		kb.AddRow(InlineButton{
			Text:   b.tr.Tf("channels.remove_button", map[string]string{"channel": ch}),
			Unique: CallbackRemoveChannel,
			Data:   ch,
		})
	}
	kb.AddRow(
		InlineButton{Text: b.tr.T("channels.add_button"), Unique: CallbackAddChannel},
		InlineButton{Text: b.tr.T("channels.set_active_button"), Unique: CallbackSetActiveChannel},
	)
	kb.AddRow(b.back(CallbackBackToMenu))

	return b.must(kb)
}

// ActiveChannelPicker offers one set_active button per channel.
func (b *Builder) ActiveChannelPicker(channels []string) *telebot.ReplyMarkup {
	kb := NewInlineKeyboard()
	for _, ch := range channels {
		if _, err := EncodeCallback(CallbackSetActive, ch); err != nil {
			b.log.Warn("skipping set active button", slog.String("channel", ch), slog.Any("error", err))
			continue
		}
		kb.AddRow(InlineButton{Text: ch, Unique: CallbackSetActive, Data: ch})
	}
	kb.AddRow(b.back(CallbackChannelManagement))

	return b.must(kb)
}

// GenerateAgain is attached to the completion notice.
func (b *Builder) GenerateAgain() *telebot.ReplyMarkup {
	return b.must(NewInlineKeyboard().
		AddRow(InlineButton{Text: b.tr.T("generate.again_button"), Unique: CallbackGenerateArticle}))
}

func (b *Builder) back(target string) InlineButton {
	return InlineButton{Text: b.tr.T("settings.back"), Unique: target}
}

// must is only used with buttons whose data was checked or is constant.
func (b *Builder) must(kb *InlineKeyboardBuilder) *telebot.ReplyMarkup {
	markup, err := kb.Build()
	if err != nil {
		if !errors.Is(err, ErrCallbackTooLong) {
			b.log.Error("failed to build keyboard", slog.Any("error", err))
		}
		return &telebot.ReplyMarkup{}
	}
	return markup
}
