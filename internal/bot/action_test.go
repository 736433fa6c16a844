package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"
)

func TestParseCallback(t *testing.T) {
	testCases := []struct {
		data     string
		wantKind CallbackKind
		wantArg  string
	}{
		{data: "set_model:llama3-8b-8192", wantKind: CallbackSetModel, wantArg: "llama3-8b-8192"},
		{data: "set_active:-1001234567890", wantKind: CallbackSetActive, wantArg: "-1001234567890"},
		{data: "remove_channel:@news", wantKind: CallbackRemoveChannel, wantArg: "@news"},
		{data: "set_model:a:b", wantKind: CallbackSetModel, wantArg: "a:b"},
		{data: "set_model:", wantKind: CallbackUnknown},
		{data: "set_model", wantKind: CallbackUnknown},
		{data: "model_settings", wantKind: CallbackModelSettings},
		{data: "channel_management", wantKind: CallbackChannelManagement},
		{data: "add_channel", wantKind: CallbackAddChannel},
		{data: "set_active_channel", wantKind: CallbackSetActiveChannel},
		{data: "generate_article", wantKind: CallbackGenerateArticle},
		{data: "settings", wantKind: CallbackSettings},
		{data: "stats", wantKind: CallbackStats},
		{data: "back_to_menu", wantKind: CallbackBackToMenu},
		{data: "settings:extra", wantKind: CallbackUnknown},
		{data: "xyz123", wantKind: CallbackUnknown},
		{data: "", wantKind: CallbackUnknown},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.data, func(t *testing.T) {
			cb := ParseCallback(tc.data)
			assert.Equal(t, tc.wantKind, cb.Kind)
			assert.Equal(t, tc.wantArg, cb.Arg)
			assert.Equal(t, tc.data, cb.Raw)
		})
	}
}

func TestClassify(t *testing.T) {
	chat := &telebot.Chat{ID: 5}

	testCases := []struct {
		name   string
		update *telebot.Update
		want   Action
		wantOK bool
	}{
		{
			name:   "nil update",
			update: nil,
		},
		{
			name:   "empty update",
			update: &telebot.Update{},
		},
		{
			name:   "command with argument",
			update: &telebot.Update{Message: &telebot.Message{Chat: chat, Text: "/generate  launch day "}},
			want:   CommandAction{ChatID: 5, Command: CommandGenerate, Token: "/generate", Args: "launch day"},
			wantOK: true,
		},
		{
			name:   "unknown command",
			update: &telebot.Update{Message: &telebot.Message{Chat: chat, Text: "/dance"}},
			want:   CommandAction{ChatID: 5, Command: CommandUnknown, Token: "/dance"},
			wantOK: true,
		},
		{
			name:   "plain text",
			update: &telebot.Update{Message: &telebot.Message{Chat: chat, Text: "launch day"}},
			want:   TextAction{ChatID: 5, Text: "launch day"},
			wantOK: true,
		},
		{
			name:   "channel post",
			update: &telebot.Update{ChannelPost: &telebot.Message{Chat: &telebot.Chat{ID: -1001234567890}, Text: "/stats"}},
			want:   CommandAction{ChatID: -1001234567890, Command: CommandStats, Token: "/stats"},
			wantOK: true,
		},
		{
			name:   "message without text",
			update: &telebot.Update{Message: &telebot.Message{Chat: chat}},
		},
		{
			name: "callback",
			update: &telebot.Update{Callback: &telebot.Callback{
				Data:    "stats",
				Message: &telebot.Message{Chat: chat},
			}},
			want:   CallbackAction{ChatID: 5, Callback: Callback{Kind: CallbackStats, Raw: "stats"}},
			wantOK: true,
		},
		{
			name:   "callback without message",
			update: &telebot.Update{Callback: &telebot.Callback{Data: "stats"}},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Classify(tc.update)
			require.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestActionNames(t *testing.T) {
	assert.Equal(t, "command:generate", CommandAction{Command: CommandGenerate}.Name())
	assert.Equal(t, "command:unknown", CommandAction{Token: "/dance"}.Name())
	assert.Equal(t, "callback:set_model", CallbackAction{Callback: Callback{Kind: CallbackSetModel}}.Name())
	assert.Equal(t, "callback:unknown", CallbackAction{}.Name())
	assert.Equal(t, "text", TextAction{}.Name())
}
