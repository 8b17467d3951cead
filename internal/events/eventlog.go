// Package events holds the human-readable history shown next to the character.
package events

import "sync"

// Capacity is the number of messages the log retains.
const Capacity = 10

// ResetMessage is the single entry left after a reset.
const ResetMessage = "Reset to birth."

// EventLog keeps the most recent messages, newest first.
type EventLog struct {
	mu      sync.RWMutex
	entries []string
}

// NewEventLog creates a log seeded with initial messages (newest first).
// Seeds beyond Capacity are dropped from the old end.
func NewEventLog(seed ...string) *EventLog {
	el := &EventLog{entries: make([]string, 0, Capacity+1)}
	for i := len(seed) - 1; i >= 0; i-- {
		el.Record(seed[i])
	}
	return el
}

// Record prepends a message and evicts the oldest once the cap is exceeded.
// Empty messages are ignored.
func (el *EventLog) Record(msg string) {
	if msg == "" {
		return
	}
	el.mu.Lock()
	defer el.mu.Unlock()

	el.entries = append(el.entries, "")
	copy(el.entries[1:], el.entries)
	el.entries[0] = msg
	if len(el.entries) > Capacity {
		el.entries = el.entries[:Capacity]
	}
}

// Reset replaces the contents with ResetMessage.
func (el *EventLog) Reset() {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.entries = append(el.entries[:0], ResetMessage)
}

// Entries returns a copy of the log, newest first.
func (el *EventLog) Entries() []string {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]string, len(el.entries))
	copy(out, el.entries)
	return out
}

// Latest returns the most recent message, or "" when the log is empty.
func (el *EventLog) Latest() string {
	el.mu.RLock()
	defer el.mu.RUnlock()
	if len(el.entries) == 0 {
		return ""
	}
	return el.entries[0]
}

// Len reports how many messages are held.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.entries)
}
