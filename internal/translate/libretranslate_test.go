package translate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibreTranslate_Translate(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		apiKey  string
		want    string
		wantErr error
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"translatedText":"Buenos días"}`,
			apiKey: "k",
			want:   "Buenos días",
		},
		{
			name:    "empty translation",
			status:  http.StatusOK,
			body:    `{"translatedText":""}`,
			wantErr: ErrNoTranslation,
		},
		{
			name:   "server error",
			status: http.StatusBadRequest,
			body:   `{"error":"Invalid target language"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var got request
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			l := NewLibreTranslate(srv.URL+"/translate", tc.apiKey, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
			out, err := l.Translate(context.Background(), "Good morning", "es")

			assert.Equal(t, "Good morning", got.Q)
			assert.Equal(t, "auto", got.Source)
			assert.Equal(t, "es", got.Target)
			assert.Equal(t, tc.apiKey, got.APIKey)

			if tc.want != "" {
				require.NoError(t, err)
				assert.Equal(t, tc.want, out)
				return
			}
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
