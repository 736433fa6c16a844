package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_AppliesDefaultsAndEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	path := writeConfig(t, "store:\n  driver: memory\nqueue:\n  mode: inline\nscheduler:\n  enabled: false\n")

	cfg, v, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "gsk_test", cfg.Groq.APIKey)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "inline", cfg.Queue.Mode)
	assert.Equal(t, "/webhook", cfg.Server.WebhookPath)
	assert.Equal(t, "llama3-8b-8192", cfg.Groq.DefaultModel)
	assert.Equal(t, 15*time.Second, cfg.Image.Timeout)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Groq.BaseURL)
}

func TestLoadFile_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		body    string
		wantErr bool
	}{
		{
			name:    "missing bot token",
			env:     map[string]string{"GROQ_API_KEY": "k"},
			body:    "store:\n  driver: memory\n",
			wantErr: true,
		},
		{
			name:    "unknown store driver",
			env:     map[string]string{"BOT_TOKEN": "t", "GROQ_API_KEY": "k"},
			body:    "store:\n  driver: etcd\n",
			wantErr: true,
		},
		{
			name:    "postgres without database name",
			env:     map[string]string{"BOT_TOKEN": "t", "GROQ_API_KEY": "k"},
			body:    "store:\n  driver: postgres\n",
			wantErr: true,
		},
		{
			name:    "scheduler with inline queue",
			env:     map[string]string{"BOT_TOKEN": "t", "GROQ_API_KEY": "k"},
			body:    "store:\n  driver: memory\nqueue:\n  mode: inline\n",
			wantErr: true,
		},
		{
			name: "valid buntdb config",
			env:  map[string]string{"BOT_TOKEN": "t", "GROQ_API_KEY": "k"},
			body: "store:\n  driver: buntdb\nbunt:\n  path: \":memory:\"\n",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "")
			t.Setenv("GROQ_API_KEY", "")
			for k, val := range tc.env {
				t.Setenv(k, val)
			}

			_, _, err := LoadFile(writeConfig(t, tc.body))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadFile_MissingFileFails(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "bot", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=bot sslmode=disable", cfg.DSN())
}
