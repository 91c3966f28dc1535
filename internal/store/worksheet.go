package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

// worksheetRepo implements WorksheetRepo with the ent SQL builder.
type worksheetRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *worksheetRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *worksheetRepo) SaveBatch(ctx context.Context, b *Batch) error {
	if b.ID == "" {
		return fmt.Errorf("save batch: empty batch id")
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.clock()
	}
	settings, err := json.Marshal(b.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Take the sequence before the transaction claims the connection.
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	q, args := builder().Insert(BatchesTable.Name).
		Columns("batch_id", "sequence", "created_at", "settings", "set_count").
		Values(b.ID, seq, b.CreatedAt.UnixMilli(), string(settings), len(b.Worksheets)).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	if len(b.Worksheets) > 0 {
		ins := builder().Insert(WorksheetsTable.Name).
			Columns("worksheet_id", "batch_id", "set_index", "data", "updated_at")
		for _, ws := range b.Worksheets {
			data, err := json.Marshal(ws)
			if err != nil {
				return fmt.Errorf("marshal worksheet %s: %w", ws.ID, err)
			}
			ins.Values(ws.ID, b.ID, ws.SetIndex, string(data), b.CreatedAt.UnixMilli())
		}
		q, args = ins.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert worksheets: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	b.Sequence = seq
	return nil
}

func (r *worksheetRepo) LoadBatch(ctx context.Context, id string) (*Batch, error) {
	return r.loadWhere(ctx, entsql.EQ("batch_id", id))
}

func (r *worksheetRepo) LatestBatch(ctx context.Context) (*Batch, error) {
	return r.loadWhere(ctx, nil)
}

func (r *worksheetRepo) loadWhere(ctx context.Context, p *entsql.Predicate) (*Batch, error) {
	sel := builder().Select("batch_id", "sequence", "created_at", "settings").
		From(entsql.Table(BatchesTable.Name)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1)
	if p != nil {
		sel.Where(p)
	}
	q, args := sel.Query()

	var (
		b        Batch
		created  int64
		settings string
	)
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&b.ID, &b.Sequence, &created, &settings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	b.CreatedAt = time.UnixMilli(created)
	if err := json.Unmarshal([]byte(settings), &b.Settings); err != nil {
		return nil, fmt.Errorf("decode batch settings: %w", err)
	}

	sets, err := r.worksheets(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Worksheets = sets
	return &b, nil
}

func (r *worksheetRepo) worksheets(ctx context.Context, batchID string) ([]worksheet.Worksheet, error) {
	q, args := builder().Select("data").
		From(entsql.Table(WorksheetsTable.Name)).
		Where(entsql.EQ("batch_id", batchID)).
		OrderBy("set_index").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query worksheets: %w", err)
	}
	defer rows.Close()

	var out []worksheet.Worksheet
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan worksheet: %w", err)
		}
		var ws worksheet.Worksheet
		if err := json.Unmarshal([]byte(data), &ws); err != nil {
			return nil, fmt.Errorf("decode worksheet: %w", err)
		}
		if ws.Questions == nil {
			ws.Questions = make(map[worksheet.Category][]worksheet.Question)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (r *worksheetRepo) ListBatches(ctx context.Context, limit int) ([]BatchSummary, error) {
	sel := builder().Select("batch_id", "sequence", "created_at", "set_count").
		From(entsql.Table(BatchesTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []BatchSummary
	for rows.Next() {
		var (
			s       BatchSummary
			created int64
		)
		if err := rows.Scan(&s.ID, &s.Sequence, &created, &s.Sets); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		s.CreatedAt = time.UnixMilli(created)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *worksheetRepo) SaveWorksheet(ctx context.Context, ws worksheet.Worksheet) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal worksheet %s: %w", ws.ID, err)
	}
	q, args := builder().Update(WorksheetsTable.Name).
		Set("data", string(data)).
		Set("updated_at", r.clock().UnixMilli()).
		Where(entsql.EQ("worksheet_id", ws.ID)).
		Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update worksheet %s: %w", ws.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update worksheet %s: %w", ws.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("worksheet %s: %w", ws.ID, ErrNotFound)
	}
	return nil
}

func (r *worksheetRepo) DeleteBatch(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	q, args := builder().Delete(WorksheetsTable.Name).Where(entsql.EQ("batch_id", id)).Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete worksheets: %w", err)
	}
	q, args = builder().Delete(BatchesTable.Name).Where(entsql.EQ("batch_id", id)).Query()
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
