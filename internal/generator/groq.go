// Package generator produces article text with Groq's OpenAI-compatible API.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used for chats that never picked one.
const DefaultModel = "llama3-8b-8192"

// Result is the outcome of one generation. Content holds the text on success
// and a human-readable failure description otherwise.
type Result struct {
	Success bool
	Content string
}

// Config configures the Groq client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Groq talks to api.groq.com through go-openai.
type Groq struct {
	client *openai.Client
	log    *slog.Logger
}

// NewGroq builds a client for cfg.
func NewGroq(cfg Config, log *slog.Logger) *Groq {
	if log == nil {
		log = slog.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Groq{
		client: openai.NewClientWithConfig(clientCfg),
		log:    log,
	}
}

// Generate sends prompt as a single user message.
func (g *Groq) Generate(ctx context.Context, prompt, model string) Result {
	if model == "" {
		model = DefaultModel
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		g.log.Error("groq completion failed", slog.String("model", model), slog.Any("error", err))
		return Result{Content: describe(err)}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.log.Warn("groq returned no content", slog.String("model", model))
		return Result{Content: "No content generated."}
	}

	return Result{Success: true, Content: resp.Choices[0].Message.Content}
}

// ListModels returns the model ids Groq currently serves, in API order. An
// empty slice means the call failed or nothing is available.
func (g *Groq) ListModels(ctx context.Context) []string {
	list, err := g.client.ListModels(ctx)
	if err != nil {
		g.log.Error("groq list models failed", slog.Any("error", err))
		return []string{}
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Ping lists models and reports an error when none come back.
func (g *Groq) Ping(ctx context.Context) error {
	if len(g.ListModels(ctx)) == 0 {
		return fmt.Errorf("groq: no models available")
	}
	return nil
}

func describe(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Failed to generate article: %s (status %d).", apiErr.Message, apiErr.HTTPStatusCode)
	}
	return "Failed to generate article."
}
