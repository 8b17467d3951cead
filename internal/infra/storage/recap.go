package storage

import (
	"context"
	"fmt"
	"strings"
)

// Impact classifies how an action affected the character.
type Impact string

const (
	ImpactPositive Impact = "POSITIVE"
	ImpactNegative Impact = "NEGATIVE"
	ImpactNeutral  Impact = "NEUTRAL"
)

// Recapper summarizes a session's journal for the history screen.
type Recapper struct {
	repo JournalRepository
}

func NewRecapper(repo JournalRepository) *Recapper {
	return &Recapper{repo: repo}
}

// RecapEvent is a simplified journal entry for display.
type RecapEvent struct {
	Sequence  int64  `json:"sequence"`
	Timestamp string `json:"timestamp"`
	ActionID  string `json:"action_id"`
	Summary   string `json:"summary"`
	Impact    Impact `json:"impact"`
}

// Recap is the history of a session since a given sequence number.
type Recap struct {
	SessionID string         `json:"session_id"`
	Events    []RecapEvent   `json:"events"`
	Counts    map[string]int `json:"counts"`
}

// GenerateRecap returns a session's entries with a sequence greater than
// since, oldest first, together with per-action totals.
func (r *Recapper) GenerateRecap(ctx context.Context, sessionID string, since int64) (*Recap, error) {
	entries, err := r.repo.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	counts, err := r.repo.CountByAction(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count journal: %w", err)
	}

	recap := &Recap{SessionID: sessionID, Events: []RecapEvent{}, Counts: counts}
	// entries are newest first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Sequence <= since {
			continue
		}
		recap.Events = append(recap.Events, RecapEvent{
			Sequence:  e.Sequence,
			Timestamp: fmt.Sprintf("%s Day %d, Year %d", e.Timestamp.Format("15:04"), e.Day, e.Year),
			ActionID:  e.ActionID,
			Summary:   e.Message,
			Impact:    DetermineImpact(e),
		})
	}
	return recap, nil
}

// DetermineImpact classifies an entry by its action and outcome message.
func DetermineImpact(e JournalEntry) Impact {
	if strings.Contains(e.Message, "caught a cold") {
		return ImpactNegative
	}
	switch e.ActionID {
	case "action-work", "action-study", "action-socialize", "action-rest":
		return ImpactPositive
	case "action-find-spouse":
		if e.Message == "You found a spouse!" {
			return ImpactPositive
		}
	case "action-have-child":
		if e.Message == "You had a child!" {
			return ImpactPositive
		}
	case "reset-character":
		return ImpactNegative
	}
	return ImpactNeutral
}
