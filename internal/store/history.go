package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathsheet/internal/history"
)

// HistoryRepo implements history.Store on SQLite.
type HistoryRepo struct {
	db *sql.DB
}

var _ history.Store = (*HistoryRepo)(nil)

// Load reads every entry, oldest first.
func (r *HistoryRepo) Load(ctx context.Context) (*history.History, error) {
	q, args := builder().Select("text").
		From(entsql.Table(HistoryTable.Name)).
		OrderBy("id").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	h := history.New()
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.Add(text)
	}
	return h, rows.Err()
}

// Append stores texts, ignoring ones already present.
func (r *HistoryRepo) Append(ctx context.Context, texts []string) error {
	ins := builder().Insert(HistoryTable.Name).Columns("text", "created_at")
	now := time.Now().UnixMilli()
	n := 0
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		ins.Values(t, now)
		n++
	}
	if n == 0 {
		return nil
	}
	q, args := ins.OnConflict(entsql.ConflictColumns("text"), entsql.DoNothing()).Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Clear deletes every entry.
func (r *HistoryRepo) Clear(ctx context.Context) error {
	q, args := builder().Delete(HistoryTable.Name).Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	q, args := builder().Select(entsql.Count("*")).
		From(entsql.Table(HistoryTable.Name)).
		Query()
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}
