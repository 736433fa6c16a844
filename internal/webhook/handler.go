// Package webhook serves the Telegram webhook and the small HTTP surface
// around it.
package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/pkg/logger"
)

// SecretTokenHeader carries the secret registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxUpdateSize bounds the request body read for one update.
const maxUpdateSize = 1 << 20

// Handler accepts Telegram updates. It always answers 200 OK so Telegram
// does not redeliver; updates that fail to decode, carry the wrong secret or
// cannot be enqueued are dropped and logged.
type Handler struct {
	secret   string
	enqueuer Enqueuer
	log      *slog.Logger
}

// NewHandler builds a webhook handler. An empty secret disables the header check.
func NewHandler(secret string, enqueuer Enqueuer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{secret: secret, enqueuer: enqueuer, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusOK)

	log := logger.FromContext(r.Context(), h.log)

	if r.Method != http.MethodPost {
		log.Debug("ignoring non-POST webhook request", slog.String("method", r.Method))
		return
	}

	if h.secret != "" {
		got := r.Header.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			log.Warn("dropping update with invalid secret token")
			return
		}
	}

	var update telebot.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateSize)).Decode(&update); err != nil {
		log.Warn("failed to decode update", slog.Any("error", err))
		return
	}

	if err := h.enqueuer.Enqueue(r.Context(), update); err != nil {
		log.Error("failed to enqueue update", slog.Int("update_id", update.ID), slog.Any("error", err))
		return
	}

	log.Debug("update accepted", slog.Int("update_id", update.ID))
}
