// Package domain holds validation rules shared by bot components.
package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidChannel indicates a channel reference that is neither an @handle nor a channel id.
var ErrInvalidChannel = errors.New("invalid channel format")

var (
	channelHandlePattern = regexp.MustCompile(`^@[A-Za-z0-9_]+$`)
	channelIDPattern     = regexp.MustCompile(`^-100\d{10}$`)
)

// ValidateChannel reports whether ch is a postable channel reference:
// "@handle" or a supergroup/channel id such as -1001234567890.
func ValidateChannel(ch string) error {
	ch = strings.TrimSpace(ch)
	if channelHandlePattern.MatchString(ch) || channelIDPattern.MatchString(ch) {
		return nil
	}
	return ErrInvalidChannel
}
