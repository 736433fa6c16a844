package keyboard_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/creator-bot/internal/bot/keyboard"
)

func TestEncodeCallback(t *testing.T) {
	tests := []struct {
		name      string
		unique    string
		data      string
		want      string
		wantError bool
	}{
		{
			name:   "with data",
			unique: keyboard.CallbackSetActive,
			data:   "-1001234567890",
			want:   "set_active:-1001234567890",
		},
		{
			name:   "without data",
			unique: keyboard.CallbackBackToMenu,
			want:   "back_to_menu",
		},
		{
			name:   "exactly at limit",
			unique: keyboard.CallbackSetModel,
			data:   strings.Repeat("m", keyboard.CallbackDataLimitBytes-len("set_model:")),
			want:   "set_model:" + strings.Repeat("m", keyboard.CallbackDataLimitBytes-len("set_model:")),
		},
		{
			name:      "exceeds limit",
			unique:    keyboard.CallbackSetModel,
			data:      strings.Repeat("m", keyboard.CallbackDataLimitBytes),
			wantError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := keyboard.EncodeCallback(tt.unique, tt.data)
			if tt.wantError {
				assert.ErrorIs(t, err, keyboard.ErrCallbackTooLong)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantUnique string
		wantData   string
		wantErr    bool
	}{
		{
			name:       "name and argument",
			input:      "remove_channel:@news",
			wantUnique: "remove_channel",
			wantData:   "@news",
		},
		{
			name:       "name only",
			input:      "model_settings",
			wantUnique: "model_settings",
		},
		{
			name:       "argument containing separator",
			input:      "set_model:org:model",
			wantUnique: "set_model",
			wantData:   "org:model",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			unique, data, err := keyboard.DecodeCallback(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUnique, unique)
			assert.Equal(t, tt.wantData, data)
		})
	}
}
