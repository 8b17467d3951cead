package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
)

func newTestRepo(t *testing.T) *SQLiteJournalRepository {
	t.Helper()
	db, err := InitSQLite(MemoryDSN)
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	repo := NewSQLiteJournalRepository(db)
	t.Cleanup(func() { repo.Close(context.Background()) })
	return repo
}

func entry(session string, seq int64, action, msg string) JournalEntry {
	return JournalEntry{
		ID:        fmt.Sprintf("%s-%d", session, seq),
		SessionID: session,
		Sequence:  seq,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		ActionID:  action,
		Message:   msg,
		Day:       int(seq),
		Year:      1,
		Age:       18,
	}
}

func TestSQLiteAppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for i, a := range []string{"advance-day", "action-work", "advance-day"} {
		if err := repo.Append(ctx, entry("s1", int64(i+1), a, "msg")); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := repo.Append(ctx, entry("s2", 1, "action-rest", "other")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := repo.ListBySession(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Sequence != 3 || got[2].Sequence != 1 {
		t.Errorf("expected newest first, got %d..%d", got[0].Sequence, got[2].Sequence)
	}
	if !got[0].Timestamp.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp did not round-trip: %v", got[0].Timestamp)
	}

	limited, err := repo.ListBySession(ctx, "s1", 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("limit 2: got %d entries, err %v", len(limited), err)
	}

	days, err := repo.ListByAction(ctx, "s1", "advance-day")
	if err != nil {
		t.Fatalf("ListByAction: %v", err)
	}
	if len(days) != 2 || days[0].Sequence != 1 {
		t.Errorf("unexpected advance-day entries: %+v", days)
	}

	counts, err := repo.CountByAction(ctx, "s1")
	if err != nil {
		t.Fatalf("CountByAction: %v", err)
	}
	if counts["advance-day"] != 2 || counts["action-work"] != 1 || counts["action-rest"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestSQLiteDuplicateIDRejected(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	e := entry("s1", 1, "advance-day", "msg")
	if err := repo.Append(ctx, e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(ctx, e); err == nil {
		t.Error("expected primary key violation on duplicate id")
	}
}

func TestInitSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	db, err := InitSQLite(path)
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`SELECT COUNT(*) FROM journal`); err != nil {
		t.Errorf("journal table missing: %v", err)
	}
}

func TestSessionJournalRecordsEveryApply(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	journal := NewSessionJournal(repo)

	initial := character.Fresh()
	e := engine.NewEngine(engine.Options{
		Initial:   &initial,
		Random:    func() float64 { return 0.99 },
		Persister: journal,
	})
	e.Apply(engine.ActionWork)
	e.Apply(engine.ActionAdvanceDay)
	e.Apply("bogus")

	got, err := repo.ListBySession(ctx, journal.SessionID(), 0)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(got))
	}
	if got[0].ActionID != "bogus" || got[0].Message != engine.MsgUnknownAction {
		t.Errorf("unexpected newest entry: %+v", got[0])
	}
	if got[1].Day != 2 || got[1].Age != 18 {
		t.Errorf("expected calendar after the action, got %+v", got[1])
	}
	if got[0].ID == got[1].ID {
		t.Error("expected unique entry ids")
	}
}

func TestGenerateRecap(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	msgs := []struct{ action, msg string }{
		{"action-work", "You worked and earned money, but lost energy."},
		{"advance-day", "A new day begins. You caught a cold and lost some health."},
		{"action-find-spouse", "You already have a spouse."},
		{"trigger-event", "Illness."},
	}
	for i, m := range msgs {
		if err := repo.Append(ctx, entry("s1", int64(i+1), m.action, m.msg)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	recap, err := NewRecapper(repo).GenerateRecap(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if len(recap.Events) != 3 {
		t.Fatalf("expected 3 events after sequence 1, got %d", len(recap.Events))
	}
	if recap.Events[0].Sequence != 2 || recap.Events[0].Impact != ImpactNegative {
		t.Errorf("unexpected first event: %+v", recap.Events[0])
	}
	if recap.Events[1].Impact != ImpactNeutral {
		t.Errorf("failed spouse search should be neutral, got %s", recap.Events[1].Impact)
	}
	if recap.Counts["action-work"] != 1 {
		t.Errorf("counts should cover the whole session: %v", recap.Counts)
	}
}

func TestDetermineImpact(t *testing.T) {
	cases := []struct {
		action, msg string
		want        Impact
	}{
		{"action-rest", "You rested and restored energy and health.", ImpactPositive},
		{"action-have-child", "You had a child!", ImpactPositive},
		{"action-have-child", "You need a spouse first.", ImpactNeutral},
		{"reset-character", "Character reset.", ImpactNegative},
		{"advance-week", "A week has passed.", ImpactNeutral},
	}
	for _, tc := range cases {
		if got := DetermineImpact(JournalEntry{ActionID: tc.action, Message: tc.msg}); got != tc.want {
			t.Errorf("%s/%q: got %s, want %s", tc.action, tc.msg, got, tc.want)
		}
	}
}
