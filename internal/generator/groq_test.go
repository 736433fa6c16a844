package generator

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroq(t *testing.T, handler http.HandlerFunc) *Groq {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGroq(Config{APIKey: "gsk_test", BaseURL: srv.URL + "/openai/v1/"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGroq_Generate(t *testing.T) {
	var gotModel, gotPrompt, gotAuth string

	g := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model
		gotPrompt = req.Messages[0].Content

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"*Launch Day*"},"finish_reason":"stop"}]}`)
	})

	res := g.Generate(context.Background(), ArticlePrompt("launch day"), "")

	assert.True(t, res.Success)
	assert.Equal(t, "*Launch Day*", res.Content)
	assert.Equal(t, DefaultModel, gotModel)
	assert.Contains(t, gotPrompt, "Topic: launch day")
	assert.Equal(t, "Bearer gsk_test", gotAuth)
}

func TestGroq_GenerateFailures(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		wantContent string
	}{
		{
			name:        "api error",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`,
			wantContent: "Failed to generate article: Invalid API Key (status 401).",
		},
		{
			name:        "empty choices",
			status:      http.StatusOK,
			body:        `{"id":"1","choices":[]}`,
			wantContent: "No content generated.",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			res := g.Generate(context.Background(), "prompt", "llama3-70b-8192")
			assert.False(t, res.Success)
			assert.Equal(t, tc.wantContent, res.Content)
		})
	}
}

func TestGroq_ListModels(t *testing.T) {
	g := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/openai/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"object":"list","data":[{"id":"llama3-8b-8192","object":"model"},{"id":"mixtral-8x7b-32768","object":"model"}]}`)
	})

	assert.Equal(t, []string{"llama3-8b-8192", "mixtral-8x7b-32768"}, g.ListModels(context.Background()))
	assert.NoError(t, g.Ping(context.Background()))
}

func TestGroq_ListModelsFailure(t *testing.T) {
	g := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	models := g.ListModels(context.Background())
	assert.NotNil(t, models)
	assert.Empty(t, models)
	assert.Error(t, g.Ping(context.Background()))
}

func TestPrompts(t *testing.T) {
	article := ArticlePrompt("go generics")
	assert.Contains(t, article, "go generics")
	assert.Contains(t, article, "do not use tables")

	image := ImagePrompt("*Go* is fun")
	assert.Contains(t, image, "*Go* is fun")
	assert.Contains(t, image, "one short paragraph")
}
