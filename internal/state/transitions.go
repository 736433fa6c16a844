package state

// validTransitions contains the permitted non-reset transitions of the conversation flag.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAwaitingTopic,
	},
	StateAwaitingTopic: {
		StateAwaitingTopic,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
