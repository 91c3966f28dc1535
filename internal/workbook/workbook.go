// Package workbook holds the worksheets being edited, the question history
// and the hooks that persist both.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathsheet/internal/history"
	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/store"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

var (
	// ErrNoBatch is returned when an operation needs worksheets and none
	// have been generated or loaded.
	ErrNoBatch = errors.New("no worksheets loaded")

	// ErrQuestionNotFound is returned when an edit names an unknown id.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrGenerating is returned when a generation is already running.
	ErrGenerating = errors.New("generation already in progress")
)

// Runner generates a batch of worksheets against a history snapshot and
// returns the grown history. *problemgen.Batch implements it.
type Runner interface {
	Run(ctx context.Context, settings worksheet.Settings, hist *history.History) ([]worksheet.Worksheet, *history.History, error)
}

// Options wires a Workbook. Batches and History may be nil, in which case
// state lives only in memory.
type Options struct {
	Runner    Runner
	Batches   store.WorksheetRepo
	History   history.Store
	Paginator *paginate.Paginator
	Logger    *slog.Logger
	Now       func() time.Time
}

// Workbook is safe for concurrent use.
type Workbook struct {
	mu      sync.RWMutex
	genMu   sync.Mutex
	batch   *store.Batch
	hist    *history.History
	synced  bool // hist reflects the history store
	runner  Runner
	batches store.WorksheetRepo
	store   history.Store
	pager   *paginate.Paginator
	logger  *slog.Logger
	now     func() time.Time
}

// New creates an empty Workbook.
func New(opts Options) *Workbook {
	if opts.Paginator == nil {
		opts.Paginator = paginate.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Workbook{
		hist:    history.New(),
		runner:  opts.Runner,
		batches: opts.Batches,
		store:   opts.History,
		pager:   opts.Paginator,
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

// Load restores the history and a stored batch. An empty batchID selects
// the latest batch; having no batches at all is not an error.
func (w *Workbook) Load(ctx context.Context, batchID string) error {
	var hist *history.History
	if w.store != nil {
		h, err := w.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		hist = h
	}

	var batch *store.Batch
	if w.batches != nil {
		var err error
		if batchID == "" {
			batch, err = w.batches.LatestBatch(ctx)
			if errors.Is(err, store.ErrNotFound) {
				err = nil
			}
		} else {
			batch, err = w.batches.LoadBatch(ctx, batchID)
		}
		if err != nil {
			return fmt.Errorf("load batch: %w", err)
		}
	} else if batchID != "" {
		return fmt.Errorf("load batch %s: %w", batchID, store.ErrNotFound)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if hist != nil {
		w.hist = hist
		w.synced = true
	}
	if batch != nil {
		w.batch = batch
	}
	return nil
}

// Generate runs a new batch and makes it current. The history and the
// stored batches change only when every set succeeds.
func (w *Workbook) Generate(ctx context.Context, settings worksheet.Settings) (*store.Batch, error) {
	if w.runner == nil {
		return nil, errors.New("workbook has no generator")
	}
	if !w.genMu.TryLock() {
		return nil, ErrGenerating
	}
	defer w.genMu.Unlock()

	settings = settings.Normalize()

	if err := w.syncHistory(ctx); err != nil {
		return nil, err
	}

	w.mu.RLock()
	snapshot := w.hist.Clone()
	w.mu.RUnlock()
	base := snapshot.Len()

	sets, grown, err := w.runner.Run(ctx, settings, snapshot)
	if err != nil {
		return nil, err
	}

	batch := &store.Batch{
		ID:         uuid.NewString(),
		CreatedAt:  w.now(),
		Settings:   settings,
		Worksheets: sets,
	}
	if w.batches != nil {
		if err := w.batches.SaveBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("save batch: %w", err)
		}
	}

	added := grown.Since(base)
	if w.store != nil {
		if err := w.store.Append(ctx, added); err != nil {
			w.logger.Warn("failed to persist history", "batch", batch.ID, "err", err)
		}
	}

	w.mu.Lock()
	w.hist.Add(added...)
	w.batch = batch
	w.mu.Unlock()

	w.logger.Info("batch generated", "batch", batch.ID, "sets", len(sets), "history", grown.Len())
	return cloneBatch(batch), nil
}

// syncHistory reads the history store once, so a workbook that was never
// Loaded still avoids questions from earlier runs.
func (w *Workbook) syncHistory(ctx context.Context) error {
	w.mu.RLock()
	done := w.synced || w.store == nil
	w.mu.RUnlock()
	if done {
		return nil
	}

	h, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	w.mu.Lock()
	if !w.synced {
		h.Add(w.hist.All()...)
		w.hist = h
		w.synced = true
	}
	w.mu.Unlock()
	return nil
}

// UpdateQuestion replaces the text of one question and persists the
// worksheet that holds it. The edit is applied only if persisting works.
func (w *Workbook) UpdateQuestion(ctx context.Context, c worksheet.Category, id, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.batch == nil {
		return ErrNoBatch
	}
	q, idx, ok := worksheet.Find(w.batch.Worksheets, id)
	if !ok || q.Category != c {
		return fmt.Errorf("%s %q: %w", c, id, ErrQuestionNotFound)
	}

	edited := []worksheet.Worksheet{w.batch.Worksheets[idx].Clone()}
	worksheet.UpdateQuestion(edited, c, id, text)

	if w.batches != nil {
		if err := w.batches.SaveWorksheet(ctx, edited[0]); err != nil {
			return fmt.Errorf("save worksheet: %w", err)
		}
	}
	w.batch.Worksheets[idx] = edited[0]
	return nil
}

// Pages paginates the current worksheets.
func (w *Workbook) Pages() ([]paginate.Page, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.batch == nil {
		return nil, ErrNoBatch
	}
	return w.pager.Paginate(w.batch.Worksheets), nil
}

// Worksheets returns a deep copy of the current worksheets.
func (w *Workbook) Worksheets() ([]worksheet.Worksheet, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.batch == nil {
		return nil, ErrNoBatch
	}
	return cloneBatch(w.batch).Worksheets, nil
}

// Batch returns a copy of the current batch.
func (w *Workbook) Batch() (*store.Batch, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.batch == nil {
		return nil, ErrNoBatch
	}
	return cloneBatch(w.batch), nil
}

// History returns a copy of the question history.
func (w *Workbook) History() *history.History {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.hist.Clone()
}

// ClearHistory forgets every recorded question.
func (w *Workbook) ClearHistory(ctx context.Context) error {
	if w.store != nil {
		if err := w.store.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}
	w.mu.Lock()
	w.hist = history.New()
	w.synced = true
	w.mu.Unlock()
	return nil
}

// Paginator returns the paginator used by Pages.
func (w *Workbook) Paginator() *paginate.Paginator { return w.pager }

func cloneBatch(b *store.Batch) *store.Batch {
	cp := *b
	cp.Worksheets = make([]worksheet.Worksheet, len(b.Worksheets))
	for i, ws := range b.Worksheets {
		cp.Worksheets[i] = ws.Clone()
	}
	return &cp
}
