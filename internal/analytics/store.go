package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docsearch/internal/db"
)

// Store persists search events in SQLite.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Record inserts ev. Empty queries are ignored: they are the "show all"
// state, not a search. If ev.ID is empty a UUID is generated.
func (s *Store) Record(ctx context.Context, ev Event) error {
	if strings.TrimSpace(ev.Query) == "" {
		return nil
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Source == "" {
		ev.Source = SourceHTTP
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_events (id, query, results, total, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Query, ev.Results, ev.Total, string(ev.Source),
		ev.CreatedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting search event: %w", err)
	}
	return nil
}

// Filter controls which events the aggregate queries consider.
type Filter struct {
	Source Source
	Since  *time.Time
	Limit  int
}

func (f Filter) where(extra ...string) (string, []any) {
	clauses := append([]string(nil), extra...)
	var args []any
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(f.Source))
	}
	if f.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.Since.UTC().Format(time.DateTime))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return 10
	}
	return f.Limit
}

// TopQueries returns the most frequent queries, most frequent first.
func (s *Store) TopQueries(ctx context.Context, f Filter) ([]QueryCount, error) {
	return s.aggregate(ctx, f)
}

// ZeroResultQueries returns queries that matched no card, most frequent first.
func (s *Store) ZeroResultQueries(ctx context.Context, f Filter) ([]QueryCount, error) {
	return s.aggregate(ctx, f, "results = 0")
}

func (s *Store) aggregate(ctx context.Context, f Filter, extra ...string) ([]QueryCount, error) {
	where, args := f.where(extra...)
	query := `SELECT query, COUNT(*), AVG(results), MAX(created_at) FROM search_events` +
		where + ` GROUP BY query ORDER BY COUNT(*) DESC, MAX(created_at) DESC` +
		fmt.Sprintf(" LIMIT %d", f.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying search events: %w", err)
	}
	defer rows.Close()

	out := []QueryCount{}
	for rows.Next() {
		var (
			qc   QueryCount
			last string
		)
		if err := rows.Scan(&qc.Query, &qc.Count, &qc.AvgResults, &last); err != nil {
			return nil, err
		}
		qc.LastSeen = parseTime(last)
		out = append(out, qc)
	}
	return out, rows.Err()
}

// Recent returns the latest events, newest first.
func (s *Store) Recent(ctx context.Context, f Filter) ([]Event, error) {
	where, args := f.where()
	query := `SELECT id, query, results, total, source, created_at FROM search_events` +
		where + ` ORDER BY created_at DESC` + fmt.Sprintf(" LIMIT %d", f.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying search events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			ev      Event
			source  string
			created string
		)
		if err := rows.Scan(&ev.ID, &ev.Query, &ev.Results, &ev.Total, &source, &created); err != nil {
			return nil, err
		}
		ev.Source = Source(source)
		ev.CreatedAt = parseTime(created)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// DeleteBefore removes all events older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM search_events WHERE created_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old search events: %w", err)
	}
	return res.RowsAffected()
}

func parseTime(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return time.Time{}
}
