package state

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{name: "idle to awaiting topic", from: StateIdle, to: StateAwaitingTopic, expected: true},
		{name: "awaiting topic re-armed", from: StateAwaitingTopic, to: StateAwaitingTopic, expected: true},
		{name: "awaiting topic back to idle", from: StateAwaitingTopic, to: StateIdle, expected: true},
		{name: "idle to idle", from: StateIdle, to: StateIdle, expected: true},
		{name: "unknown state to awaiting topic invalid", from: State("unknown"), to: StateAwaitingTopic, expected: false},
		{name: "idle to unknown state invalid", from: StateIdle, to: State("buying"), expected: false},
		{name: "any state to idle reset", from: State("whatever"), to: StateIdle, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%s -> %s) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
