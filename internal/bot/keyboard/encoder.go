package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CallbackDataSeparator  = ":"
	CallbackDataLimitBytes = 64
)

// Callback names carried in inline button data. Names with an argument are
// encoded as name:arg.
const (
	CallbackSetModel          = "set_model"
	CallbackSetActive         = "set_active"
	CallbackRemoveChannel     = "remove_channel"
	CallbackModelSettings     = "model_settings"
	CallbackChannelManagement = "channel_management"
	CallbackAddChannel        = "add_channel"
	CallbackSetActiveChannel  = "set_active_channel"
	CallbackGenerateArticle   = "generate_article"
	CallbackSettings          = "settings"
	CallbackStats             = "stats"
	CallbackBackToMenu        = "back_to_menu"
)

// ErrCallbackTooLong is returned when encoded data would exceed Telegram's limit.
var ErrCallbackTooLong = errors.New("callback data too long")

func EncodeCallback(unique, data string) (string, error) {
	payload := unique
	if data != "" {
		payload = unique + CallbackDataSeparator + data
	}

	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrCallbackTooLong, len(payload), CallbackDataLimitBytes)
	}

	return payload, nil
}

// DecodeCallback splits on the first separator; the argument may itself
// contain separators.
func DecodeCallback(callbackData string) (unique, data string, err error) {
	if callbackData == "" {
		return "", "", errors.New("callback data is empty")
	}

	unique, data, _ = strings.Cut(callbackData, CallbackDataSeparator)
	return unique, data, nil
}
