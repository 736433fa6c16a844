// Package bot classifies Telegram updates and runs the conversation,
// generation and scheduling flows on top of the key-value store.
package bot

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/creator-bot/internal/errors"
	"github.com/Proton-105/creator-bot/internal/generator"
	"github.com/Proton-105/creator-bot/internal/i18n"
	"github.com/Proton-105/creator-bot/internal/repository"
	"github.com/Proton-105/creator-bot/internal/state"
)

// Messenger sends messages through the Bot API. Implemented by telegram.Gateway.
type Messenger interface {
	SendText(ctx context.Context, to, text string) (int, error)
	SendKeyboard(ctx context.Context, to, text string, markup *telebot.ReplyMarkup) error
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	SendPhoto(ctx context.Context, to, url, caption string) error
	// MemberCount returns -1 on any failure.
	MemberCount(ctx context.Context, chatID int64) int
}

// CallbackAnswerer acknowledges callback queries.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID string) error
}

// ContentGenerator produces text. Implemented by generator.Groq.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt, model string) generator.Result
	ListModels(ctx context.Context) []string
}

// ImageGenerator returns the URL of an image for prompt. Implemented by
// imagegen.Pollinations.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translator backs the /translate command. Implemented by translate.LibreTranslate.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Deps are the collaborators of a Dispatcher. Translate may be nil, in which
// case /translate always reports failure.
type Deps struct {
	Messenger    Messenger
	Content      ContentGenerator
	Images       ImageGenerator
	Translate    Translator
	Store        state.Store
	DefaultModel string
	Texts        i18n.Translator
	Errors       *apperrors.Handler
	Log          *slog.Logger
}

// Dispatcher handles one update at a time per call. It keeps no per-chat
// state of its own; everything lives in the store.
type Dispatcher struct {
	msgr      Messenger
	content   ContentGenerator
	images    ImageGenerator
	translate Translator
	conv      state.Conversation
	repo      *repository.ChatRepository
	kb        *keyboard.Builder
	texts     i18n.Translator
	errs      *apperrors.Handler
	log       *slog.Logger

	handler Handler
}

// NewDispatcher wires deps and installs the default middleware chain:
// recovery, error handling, logging, metrics and known-user registration.
func NewDispatcher(deps Deps) *Dispatcher {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	texts := deps.Texts
	if texts == nil {
		texts = i18n.MustLoad("en").Translator("")
	}

	errs := deps.Errors
	if errs == nil {
		errs = apperrors.NewHandler(log, false)
	}

	model := deps.DefaultModel
	if model == "" {
		model = generator.DefaultModel
	}

	d := &Dispatcher{
		msgr:      deps.Messenger,
		content:   deps.Content,
		images:    deps.Images,
		translate: deps.Translate,
		conv:      state.NewConversation(deps.Store, log),
		repo:      repository.NewChatRepository(deps.Store, model, log),
		kb:        keyboard.NewBuilder(texts, log),
		texts:     texts,
		errs:      errs,
		log:       log,
	}

	d.handler = Chain(d.route,
		RecoveryMiddleware(d.notify, errs, log),
		ErrorHandlingMiddleware(d.notify, errs),
		LoggingMiddleware(log),
		MetricsMiddleware(),
		KnownUserMiddleware(d.repo, log),
	)

	return d
}

// Repository exposes the typed store accessors, e.g. for the scheduler.
func (d *Dispatcher) Repository() *repository.ChatRepository {
	return d.repo
}
