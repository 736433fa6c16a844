// Package imagegen obtains illustration URLs from Pollinations.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds the pre-warm request.
const DefaultTimeout = 15 * time.Second

// ErrTimeout is returned when the image is not ready before the timeout.
var ErrTimeout = errors.New("image generation timed out")

// Pollinations renders images on demand at {base}/prompt/{prompt}. The URL is
// fetched once so Telegram finds the image already rendered.
type Pollinations struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	log     *slog.Logger
}

// NewPollinations builds a generator. A nil client uses http.DefaultClient.
func NewPollinations(baseURL string, timeout time.Duration, client *http.Client, log *slog.Logger) *Pollinations {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Pollinations{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  client,
		log:     log,
	}
}

// URL returns the image URL for prompt without fetching it.
func (p *Pollinations) URL(prompt string) string {
	return p.baseURL + "/prompt/" + url.PathEscape(prompt)
}

// Generate pre-warms the image for prompt and returns its URL.
func (p *Pollinations) Generate(ctx context.Context, prompt string) (string, error) {
	imageURL := p.URL(prompt)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			p.log.Warn("image generation timed out", slog.Duration("timeout", p.timeout))
			return "", ErrTimeout
		}
		return "", fmt.Errorf("failed to pre-warm image: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to pre-warm image: status %d", resp.StatusCode)
	}

	return imageURL, nil
}
