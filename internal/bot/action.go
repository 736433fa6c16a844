package bot

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/internal/bot/keyboard"
)

// Action is the classified form of one inbound update. The set of
// implementations is closed: CommandAction, CallbackAction and TextAction.
type Action interface {
	Chat() int64
	// Name labels the action in logs and metrics.
	Name() string
	isAction()
}

// Command is a recognised slash command.
type Command string

const (
	CommandStart      Command = "/start"
	CommandGenerate   Command = "/generate"
	CommandStats      Command = "/stats"
	CommandSettings   Command = "/settings"
	CommandAddChannel Command = "/addchannel"
	CommandTranslate  Command = "/translate"
	// CommandUnknown is any other token starting with "/".
	CommandUnknown Command = ""
)

var knownCommands = map[string]Command{
	string(CommandStart):      CommandStart,
	string(CommandGenerate):   CommandGenerate,
	string(CommandStats):      CommandStats,
	string(CommandSettings):   CommandSettings,
	string(CommandAddChannel): CommandAddChannel,
	string(CommandTranslate):  CommandTranslate,
}

// CommandAction is a slash command with its trimmed argument string.
type CommandAction struct {
	ChatID  int64
	Command Command
	// Token is the leading token as typed, kept for unknown commands.
	Token string
	Args  string
}

func (a CommandAction) Chat() int64 { return a.ChatID }

func (a CommandAction) Name() string {
	if a.Command == CommandUnknown {
		return "command:unknown"
	}
	return "command:" + strings.TrimPrefix(string(a.Command), "/")
}

func (CommandAction) isAction() {}

// CallbackKind identifies an inline button action.
type CallbackKind string

const (
	CallbackSetModel          CallbackKind = keyboard.CallbackSetModel
	CallbackSetActive         CallbackKind = keyboard.CallbackSetActive
	CallbackRemoveChannel     CallbackKind = keyboard.CallbackRemoveChannel
	CallbackModelSettings     CallbackKind = keyboard.CallbackModelSettings
	CallbackChannelManagement CallbackKind = keyboard.CallbackChannelManagement
	CallbackAddChannel        CallbackKind = keyboard.CallbackAddChannel
	CallbackSetActiveChannel  CallbackKind = keyboard.CallbackSetActiveChannel
	CallbackGenerateArticle   CallbackKind = keyboard.CallbackGenerateArticle
	CallbackSettings          CallbackKind = keyboard.CallbackSettings
	CallbackStats             CallbackKind = keyboard.CallbackStats
	CallbackBackToMenu        CallbackKind = keyboard.CallbackBackToMenu
	CallbackUnknown           CallbackKind = ""
)

// withArgument lists the kinds matched by prefix; the rest match exactly.
var withArgument = map[string]CallbackKind{
	keyboard.CallbackSetModel:      CallbackSetModel,
	keyboard.CallbackSetActive:     CallbackSetActive,
	keyboard.CallbackRemoveChannel: CallbackRemoveChannel,
}

var exactCallbacks = map[string]CallbackKind{
	keyboard.CallbackModelSettings:     CallbackModelSettings,
	keyboard.CallbackChannelManagement: CallbackChannelManagement,
	keyboard.CallbackAddChannel:        CallbackAddChannel,
	keyboard.CallbackSetActiveChannel:  CallbackSetActiveChannel,
	keyboard.CallbackGenerateArticle:   CallbackGenerateArticle,
	keyboard.CallbackSettings:          CallbackSettings,
	keyboard.CallbackStats:             CallbackStats,
	keyboard.CallbackBackToMenu:        CallbackBackToMenu,
}

// Callback is a parsed callback payload.
type Callback struct {
	Kind CallbackKind
	Arg  string
	Raw  string
}

// ParseCallback maps raw button data onto a Callback. Payloads that match no
// known form, including prefixed kinds with an empty argument, are
// CallbackUnknown.
func ParseCallback(data string) Callback {
	cb := Callback{Kind: CallbackUnknown, Raw: data}

	if kind, ok := exactCallbacks[data]; ok {
		cb.Kind = kind
		return cb
	}

	name, arg, err := keyboard.DecodeCallback(data)
	if err != nil {
		return cb
	}
	if kind, ok := withArgument[name]; ok && arg != "" {
		cb.Kind = kind
		cb.Arg = arg
	}

	return cb
}

// CallbackAction is an inline button press.
type CallbackAction struct {
	ChatID   int64
	Callback Callback
}

func (a CallbackAction) Chat() int64 { return a.ChatID }

func (a CallbackAction) Name() string {
	if a.Callback.Kind == CallbackUnknown {
		return "callback:unknown"
	}
	return "callback:" + string(a.Callback.Kind)
}

func (CallbackAction) isAction() {}

// TextAction is plain text that may continue a pending conversation.
type TextAction struct {
	ChatID int64
	Text   string
}

func (a TextAction) Chat() int64 { return a.ChatID }

func (TextAction) Name() string { return "text" }

func (TextAction) isAction() {}

// Classify turns an update into an Action. ok is false for updates the bot
// does not act on: no callback and no message, a callback detached from a
// message, or a message without text.
func Classify(update *telebot.Update) (Action, bool) {
	if update == nil {
		return nil, false
	}

	if cb := update.Callback; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return nil, false
		}
		return CallbackAction{ChatID: cb.Message.Chat.ID, Callback: ParseCallback(cb.Data)}, true
	}

	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return nil, false
	}

	chatID := msg.Chat.ID
	if strings.HasPrefix(msg.Text, "/") {
		token, rest, _ := strings.Cut(msg.Text, " ")
		return CommandAction{
			ChatID:  chatID,
			Command: knownCommands[token],
			Token:   token,
			Args:    strings.TrimSpace(rest),
		}, true
	}

	return TextAction{ChatID: chatID, Text: msg.Text}, true
}
