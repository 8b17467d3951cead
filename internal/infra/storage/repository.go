// Package storage provides the journal: an append-only audit trail of the
// actions applied to a character. Nothing restores simulation state from it.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by repositories used after Close.
var ErrClosed = errors.New("journal closed")

// JournalEntry is one applied action as stored.
type JournalEntry struct {
	ID        string    `json:"id" db:"id" bson:"_id"`
	SessionID string    `json:"session_id" db:"session_id" bson:"session_id"`
	Sequence  int64     `json:"sequence" db:"sequence" bson:"sequence"`
	Timestamp time.Time `json:"timestamp" db:"timestamp" bson:"timestamp"`
	ActionID  string    `json:"action_id" db:"action_id" bson:"action_id"`
	Message   string    `json:"message" db:"message" bson:"message"`
	Day       int       `json:"day" db:"day" bson:"day"`
	Year      int       `json:"year" db:"year" bson:"year"`
	Age       int       `json:"age" db:"age" bson:"age"`
}

// JournalRepository defines the interface for journal persistence.
type JournalRepository interface {
	// Append adds a new entry to the journal.
	Append(ctx context.Context, entry JournalEntry) error

	// ListBySession returns up to limit entries for a session, newest first.
	// A limit <= 0 returns every entry.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]JournalEntry, error)

	// ListByAction returns a session's entries for one action, oldest first.
	ListByAction(ctx context.Context, sessionID, actionID string) ([]JournalEntry, error)

	// CountByAction tallies a session's entries per action.
	CountByAction(ctx context.Context, sessionID string) (map[string]int, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
