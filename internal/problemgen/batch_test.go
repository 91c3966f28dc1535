package problemgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/mathsheet/internal/history"
	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedGenerator returns one canned result per call and records inputs.
type scriptedGenerator struct {
	results []func(GenerateInput) (*worksheet.Worksheet, error)
	inputs  []GenerateInput
}

func (g *scriptedGenerator) Generate(_ context.Context, in GenerateInput) (*worksheet.Worksheet, error) {
	g.inputs = append(g.inputs, in)
	next := g.results[0]
	g.results = g.results[1:]
	return next(in)
}

func sheet(texts ...string) func(GenerateInput) (*worksheet.Worksheet, error) {
	return func(in GenerateInput) (*worksheet.Worksheet, error) {
		ws := sheetWith(worksheet.Mental, texts...)
		ws.SetIndex = in.SetIndex
		return ws, nil
	}
}

func fail(err error) func(GenerateInput) (*worksheet.Worksheet, error) {
	return func(GenerateInput) (*worksheet.Worksheet, error) { return nil, err }
}

func batchSettings(n int) worksheet.Settings {
	s := smallSettings()
	s.BatchSize = n
	return s
}

func newTestBatch(gen Generator) (*Batch, *[]time.Duration) {
	var sleeps []time.Duration
	b := NewBatch(gen, DefaultBatchDelay, quietLogger())
	b.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return b, &sleeps
}

func TestBatch_FeedsHistoryForward(t *testing.T) {
	gen := &scriptedGenerator{results: []func(GenerateInput) (*worksheet.Worksheet, error){
		sheet("1 + 1 =", "2 + 2 ="),
		sheet("3 + 3 ="),
		sheet("4 + 4 ="),
	}}
	b, sleeps := newTestBatch(gen)
	hist := history.New("9 + 9 =")

	sets, updated, err := b.Run(context.Background(), batchSettings(3), hist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(sets))
	}
	for i, ws := range sets {
		if ws.SetIndex != i {
			t.Errorf("set %d has SetIndex %d", i, ws.SetIndex)
		}
	}

	if got := gen.inputs[1].Avoid; len(got) != 3 || got[2] != "2 + 2 =" {
		t.Errorf("second set avoid = %v", got)
	}
	if got := gen.inputs[2].Avoid; len(got) != 4 || got[3] != "3 + 3 =" {
		t.Errorf("third set avoid = %v", got)
	}

	if updated.Len() != 5 {
		t.Errorf("updated history len = %d, want 5", updated.Len())
	}
	if hist.Len() != 1 {
		t.Errorf("caller history mutated: len = %d", hist.Len())
	}

	if len(*sleeps) != 2 || (*sleeps)[0] != DefaultBatchDelay {
		t.Errorf("sleeps = %v, want two of %v", *sleeps, DefaultBatchDelay)
	}
}

func TestBatch_RegeneratesOnceOnRetryableValidation(t *testing.T) {
	verr := &ValidationError{Validator: "math-check", Message: "negative", Retryable: true}
	gen := &scriptedGenerator{results: []func(GenerateInput) (*worksheet.Worksheet, error){
		fail(verr),
		sheet("6 + 1 ="),
	}}
	b, _ := newTestBatch(gen)

	sets, _, err := b.Run(context.Background(), batchSettings(1), history.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 1 || len(gen.inputs) != 2 {
		t.Fatalf("sets = %d, calls = %d", len(sets), len(gen.inputs))
	}
	if gen.inputs[0].Lenient || !gen.inputs[1].Lenient {
		t.Errorf("only the regeneration should be lenient: %v, %v", gen.inputs[0].Lenient, gen.inputs[1].Lenient)
	}
}

func TestBatch_KeepsShortSetFromLenientRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: responseJSON([]string{"5 - 9 =", "6 + 7 ="}, nil, nil, nil)},
		llm.MockResponse{Content: responseJSON([]string{"8 - 10 =", "6 + 8 ="}, nil, nil, nil)},
	)
	b, _ := newTestBatch(New(mock, testConfig()))

	s := batchSettings(1)
	s.Counts = worksheet.Counts{Mental: 2}
	sets, updated, err := b.Run(context.Background(), s, history.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := sets[0].Texts()
	if len(got) != 1 || got[0] != "6 + 8 =" {
		t.Fatalf("texts = %v, want [6 + 8 =]", got)
	}
	if updated.Len() != 1 || !updated.Contains("6 + 8 =") {
		t.Errorf("history = %v", updated.All())
	}
}

func TestBatch_FailureLeavesHistoryUntouched(t *testing.T) {
	verr := &ValidationError{Validator: "history", Message: "repeat", Retryable: true}
	gen := &scriptedGenerator{results: []func(GenerateInput) (*worksheet.Worksheet, error){
		sheet("1 + 2 ="),
		fail(verr),
		fail(verr),
	}}
	b, _ := newTestBatch(gen)
	hist := history.New("5 + 5 =")

	sets, updated, err := b.Run(context.Background(), batchSettings(2), hist)
	if err == nil {
		t.Fatal("expected error")
	}
	var got *ValidationError
	if !errors.As(err, &got) {
		t.Fatalf("expected ValidationError in chain, got %v", err)
	}
	if sets != nil || updated != nil {
		t.Error("no partial results on failure")
	}
	if hist.Len() != 1 || hist.Contains("1 + 2 =") {
		t.Error("caller history should be untouched")
	}
}

func TestBatch_NonRetryableErrorStops(t *testing.T) {
	gen := &scriptedGenerator{results: []func(GenerateInput) (*worksheet.Worksheet, error){
		fail(&llm.ErrProviderUnavailable{Err: errors.New("down")}),
	}}
	b, _ := newTestBatch(gen)
	if _, _, err := b.Run(context.Background(), batchSettings(3), nil); err == nil {
		t.Fatal("expected error")
	}
	if len(gen.inputs) != 1 {
		t.Fatalf("calls = %d, want 1", len(gen.inputs))
	}
}

type countingGenerator struct{ calls atomic.Int32 }

func (g *countingGenerator) Generate(_ context.Context, in GenerateInput) (*worksheet.Worksheet, error) {
	g.calls.Add(1)
	ws := worksheet.New(in.SetIndex, time.Now())
	return &ws, nil
}

func TestBatch_CancelledBetweenSets(t *testing.T) {
	gen := &countingGenerator{}
	b := NewBatch(gen, time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := b.Run(ctx, batchSettings(3), history.New())
		done <- err
	}()

	for gen.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not stop after cancel")
	}
	if gen.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", gen.calls.Load())
	}
}

func TestBatch_WithLLMGenerator(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validResponse()},
		llm.MockResponse{Content: responseJSON(
			[]string{"14 + 28 =", "81 ÷ 9", "7 × 8"},
			[]string{"215 × 4"},
			[]string{"(60 - 24) ÷ 6"},
			[]string{"一本书 96 页，小华每天看 8 页，几天看完？"},
		)},
	)
	b, _ := newTestBatch(New(mock, testConfig()))

	sets, updated, err := b.Run(context.Background(), batchSettings(2), history.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 2 || sets[1].ID != "worksheet-1700000000000-1" {
		t.Fatalf("unexpected sets %+v", sets)
	}
	if updated.Len() != 12 {
		t.Errorf("history len = %d, want 12", updated.Len())
	}
	if !updated.Contains("81 ÷ 9 =") {
		t.Error("cleaned text should be recorded in history")
	}
}
