package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/LifeSimulator/internal/engine"
)

// DefaultWriteTimeout bounds a single journal append.
const DefaultWriteTimeout = 2 * time.Second

// SessionJournal writes one session's engine records to a repository.
// It satisfies engine.Persister.
type SessionJournal struct {
	repo      JournalRepository
	sessionID string
	timeout   time.Duration
}

// NewSessionJournal starts a new session with a random ID.
func NewSessionJournal(repo JournalRepository) *SessionJournal {
	return &SessionJournal{
		repo:      repo,
		sessionID: uuid.NewString(),
		timeout:   DefaultWriteTimeout,
	}
}

// SessionID identifies this run in the journal.
func (j *SessionJournal) SessionID() string { return j.sessionID }

// Repository returns the underlying repository.
func (j *SessionJournal) Repository() JournalRepository { return j.repo }

// Append stores rec as a new JournalEntry.
func (j *SessionJournal) Append(rec engine.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	return j.repo.Append(ctx, JournalEntry{
		ID:        uuid.NewString(),
		SessionID: j.sessionID,
		Sequence:  rec.Sequence,
		Timestamp: rec.At,
		ActionID:  string(rec.Action),
		Message:   rec.Message,
		Day:       rec.Day,
		Year:      rec.Year,
		Age:       rec.Age,
	})
}
