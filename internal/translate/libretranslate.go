// Package translate calls a LibreTranslate instance.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNoTranslation is returned when the response carries no translated text.
var ErrNoTranslation = errors.New("translation API returned no translation")

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// LibreTranslate posts to a /translate endpoint with automatic source detection.
type LibreTranslate struct {
	url    string
	apiKey string
	client *http.Client
	log    *slog.Logger
}

// NewLibreTranslate builds a client for the endpoint at url.
func NewLibreTranslate(url, apiKey string, timeout time.Duration, log *slog.Logger) *LibreTranslate {
	if log == nil {
		log = slog.Default()
	}

	return &LibreTranslate{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Translate returns text translated into target, an ISO 639-1 code.
func (l *LibreTranslate) Translate(ctx context.Context, text, target string) (string, error) {
	payload, err := json.Marshal(request{Q: text, Source: "auto", Target: target, APIKey: l.apiKey})
	if err != nil {
		return "", fmt.Errorf("encode translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		l.log.Error("translation request failed", slog.Any("error", err))
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read translate response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.log.Error("translation API error", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", fmt.Errorf("translate: status %d", resp.StatusCode)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if out.TranslatedText == "" {
		l.log.Error("translation API returned no translation", slog.String("error", out.Error))
		return "", ErrNoTranslation
	}

	return out.TranslatedText, nil
}
