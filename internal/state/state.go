package state

import "strconv"

// State represents a conversation flag value.
type State string

const (
	// StateIdle means no follow-up input is pending. It is never persisted.
	StateIdle State = "idle"
	// StateAwaitingTopic means the next free-text message is a generation prompt.
	StateAwaitingTopic State = "awaiting_topic"
)

// Key is a store key. Use the constructors below instead of building keys by hand.
type Key string

const (
	conversationKeyPrefix    = "user_state_"
	modelKeyPrefix           = "model_"
	activeChannelKeyPrefix   = "active_channel_"
	channelsKeyPrefix        = "channels_"
	scheduledTopicsKeyPrefix = "scheduled_topics_"
	usersKey                 = "users"
)

// ConversationKey addresses the conversation flag of a chat.
func ConversationKey(chatID int64) Key {
	return chatKey(conversationKeyPrefix, chatID)
}

// ModelKey addresses the selected model of a chat.
func ModelKey(chatID int64) Key {
	return chatKey(modelKeyPrefix, chatID)
}

// ActiveChannelKey addresses the active posting channel of a chat.
func ActiveChannelKey(chatID int64) Key {
	return chatKey(activeChannelKeyPrefix, chatID)
}

// ChannelsKey addresses the registered channel list of a chat.
func ChannelsKey(chatID int64) Key {
	return chatKey(channelsKeyPrefix, chatID)
}

// ScheduledTopicsKey addresses the pending topic queue of a user.
// The user is the decimal chat id as stored in the known users list.
func ScheduledTopicsKey(user string) Key {
	return Key(scheduledTopicsKeyPrefix + user)
}

// UsersKey addresses the known users list.
func UsersKey() Key {
	return Key(usersKey)
}

func chatKey(prefix string, chatID int64) Key {
	return Key(prefix + strconv.FormatInt(chatID, 10))
}
