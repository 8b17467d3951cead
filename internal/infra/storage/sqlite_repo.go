package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteJournalRepository implements JournalRepository for SQLite.
type SQLiteJournalRepository struct {
	db *sql.DB
}

func NewSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{db: db}
}

const journalColumns = `id, session_id, sequence, timestamp, action_id, message, day, year, age`

func (r *SQLiteJournalRepository) Append(ctx context.Context, e JournalEntry) error {
	query := `INSERT INTO journal (` + journalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.SessionID, e.Sequence, e.Timestamp.UTC(), e.ActionID, e.Message, e.Day, e.Year, e.Age,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

func (r *SQLiteJournalRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Sequence, &e.Timestamp, &e.ActionID,
			&e.Message, &e.Day, &e.Year, &e.Age,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteJournalRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query := `SELECT ` + journalColumns + ` FROM journal WHERE session_id = ? ORDER BY sequence DESC LIMIT ?`
	return r.getMany(ctx, query, sessionID, limit)
}

func (r *SQLiteJournalRepository) ListByAction(ctx context.Context, sessionID, actionID string) ([]JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal WHERE session_id = ? AND action_id = ? ORDER BY sequence ASC`
	return r.getMany(ctx, query, sessionID, actionID)
}

func (r *SQLiteJournalRepository) CountByAction(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT action_id, COUNT(*) FROM journal WHERE session_id = ? GROUP BY action_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[action] = n
	}
	return counts, rows.Err()
}

func (r *SQLiteJournalRepository) Close(context.Context) error {
	return r.db.Close()
}
