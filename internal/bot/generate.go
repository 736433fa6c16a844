package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Proton-105/creator-bot/internal/generator"
	"github.com/Proton-105/creator-bot/pkg/metrics"
)

// captionLimit is the Bot API limit for photo captions.
const captionLimit = 1024

// Generate writes an article about topic, illustrates it and posts it to the
// chat's active channel, or to the chat itself when none is set. Progress is
// shown in a status message that is deleted at the end.
//
// Only an article failure stops the flow once the status message is out;
// image and posting failures fall back to posting the plain text.
func (d *Dispatcher) Generate(ctx context.Context, chatID int64, topic string) {
	chat := chatRecipient(chatID)
	log := d.log.With(slog.Int64("chat_id", chatID))

	if strings.TrimSpace(topic) == "" {
		d.send(ctx, chatID, d.texts.T("generate.reminder"))
		return
	}

	statusID, err := d.msgr.SendText(ctx, chat, d.texts.T("generate.status_article"))
	if err != nil {
		log.Error("failed to send status message, aborting generation", slog.Any("error", err))
		metrics.RecordGeneration("status", "failed")
		return
	}

	model, err := d.repo.Model(ctx, chatID)
	if err != nil {
		log.Warn("failed to read selected model, using default", slog.Any("error", err))
	}

	target := chat
	channel, hasChannel, err := d.repo.ActiveChannel(ctx, chatID)
	switch {
	case err != nil:
		log.Warn("failed to read active channel, posting to chat", slog.Any("error", err))
	case hasChannel:
		target = channel
	}

	article := d.content.Generate(ctx, generator.ArticlePrompt(topic), model)
	if !article.Success {
		metrics.RecordGeneration("article", "failed")
		log.Warn("article generation failed", slog.String("model", model), slog.String("reason", article.Content))
		d.editStatus(ctx, chatID, statusID, d.texts.Tf("generate.failed", map[string]string{"reason": escapeMarkdown(article.Content)}))
		return
	}
	metrics.RecordGeneration("article", "ok")

	d.editStatus(ctx, chatID, statusID, d.texts.T("generate.status_image"))
	d.publish(ctx, log, chatID, target, model, article.Content)

	if err := d.msgr.Delete(ctx, chatID, statusID); err != nil {
		log.Debug("failed to delete status message", slog.Int("message_id", statusID), slog.Any("error", err))
	}

	d.sendKeyboard(ctx, chatID, d.texts.T("generate.done"), d.kb.GenerateAgain())
}

// publish posts the article with an image when one can be made, and as plain
// text otherwise. Notices go to the chat, the article goes to target.
func (d *Dispatcher) publish(ctx context.Context, log *slog.Logger, chatID int64, target, model, article string) {
	if utf8.RuneCountInString(article) > captionLimit {
		metrics.RecordGeneration("photo", "caption_too_long")
		d.send(ctx, chatID, d.texts.Tf("generate.caption_too_long", map[string]string{"limit": strconv.Itoa(captionLimit)}))
		d.postWithoutImage(ctx, chatID, target, article)
		return
	}

	imagePrompt := d.content.Generate(ctx, generator.ImagePrompt(article), model)
	if !imagePrompt.Success {
		metrics.RecordGeneration("image_prompt", "failed")
		d.send(ctx, chatID, d.texts.Tf("generate.image_prompt_failed", map[string]string{"reason": escapeMarkdown(imagePrompt.Content)}))
		d.postWithoutImage(ctx, chatID, target, article)
		return
	}

	imageURL, err := d.images.Generate(ctx, imagePrompt.Content)
	if err != nil {
		metrics.RecordGeneration("image", "failed")
		log.Warn("image generation failed", slog.Any("error", err))
		d.send(ctx, chatID, d.texts.Tf("generate.image_failed", map[string]string{"reason": escapeMarkdown(err.Error())}))
		d.postWithoutImage(ctx, chatID, target, article)
		return
	}

	if err := d.msgr.SendPhoto(ctx, target, imageURL, article); err != nil {
		metrics.RecordGeneration("photo", "failed")
		log.Warn("failed to post photo", slog.String("target", target), slog.Any("error", err))
		d.send(ctx, chatID, d.texts.Tf("generate.photo_failed", map[string]string{"target": escapeMarkdown(target)}))
		d.postWithoutImage(ctx, chatID, target, article)
		return
	}
	metrics.RecordGeneration("photo", "ok")

	if target != chatRecipient(chatID) {
		d.send(ctx, chatID, d.texts.Tf("generate.channel_posted", map[string]string{"channel": escapeMarkdown(target)}))
	}
}

func (d *Dispatcher) postWithoutImage(ctx context.Context, chatID int64, target, article string) {
	d.send(ctx, chatID, d.texts.T("generate.without_image"))
	d.sendTo(ctx, target, article)
}

func (d *Dispatcher) editStatus(ctx context.Context, chatID int64, statusID int, text string) {
	if err := d.msgr.EditText(ctx, chatID, statusID, text); err != nil {
		d.log.Warn("failed to update status message", slog.Int64("chat_id", chatID), slog.Int("message_id", statusID), slog.Any("error", err))
	}
}
