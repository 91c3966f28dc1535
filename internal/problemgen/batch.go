package problemgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/mathsheet/internal/history"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

// DefaultBatchDelay spaces out consecutive sets to stay under provider
// rate limits.
const DefaultBatchDelay = 3 * time.Second

// Batch generates several worksheets in sequence, each one steered away
// from the questions of the sets before it.
type Batch struct {
	gen    Generator
	delay  time.Duration
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewBatch creates a Batch. A negative delay selects DefaultBatchDelay.
func NewBatch(gen Generator, delay time.Duration, logger *slog.Logger) *Batch {
	if delay < 0 {
		delay = DefaultBatchDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{gen: gen, delay: delay, logger: logger, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run generates settings.BatchSize worksheets. It works on a copy of hist
// and returns the updated copy alongside the worksheets; on error neither
// is returned and hist is untouched.
func (b *Batch) Run(ctx context.Context, settings worksheet.Settings, hist *history.History) ([]worksheet.Worksheet, *history.History, error) {
	settings = settings.Normalize()
	working := hist.Clone()
	sets := make([]worksheet.Worksheet, 0, settings.BatchSize)

	for i := range settings.BatchSize {
		if i > 0 {
			if err := b.sleep(ctx, b.delay); err != nil {
				return nil, nil, err
			}
		}

		ws, err := b.generateSet(ctx, settings, working, i)
		if err != nil {
			return nil, nil, fmt.Errorf("set %d of %d: %w", i+1, settings.BatchSize, err)
		}

		working.Add(ws.Texts()...)
		sets = append(sets, *ws)
		b.logger.Info("worksheet generated", "set", i+1, "of", settings.BatchSize, "questions", ws.Len())
	}
	return sets, working, nil
}

// generateSet regenerates once when validation fails in a way a fresh
// attempt may fix. The second attempt is lenient: questions that still
// fail are dropped and the rest of the set is kept.
func (b *Batch) generateSet(ctx context.Context, settings worksheet.Settings, working *history.History, setIndex int) (*worksheet.Worksheet, error) {
	input := GenerateInput{Settings: settings, Avoid: working.Recent(history.PromptLimit), SetIndex: setIndex}

	ws, err := b.gen.Generate(ctx, input)
	var verr *ValidationError
	if err == nil || !errors.As(err, &verr) || !verr.Retryable {
		return ws, err
	}

	b.logger.Warn("worksheet failed validation, regenerating", "set", setIndex+1, "err", err)
	input.Lenient = true
	ws, err = b.gen.Generate(ctx, input)
	if err != nil {
		return nil, err
	}
	if want := settings.Counts.Total(); ws.Len() < want {
		b.logger.Warn("worksheet kept with fewer questions", "set", setIndex+1, "questions", ws.Len(), "requested", want)
	}
	return ws, nil
}
