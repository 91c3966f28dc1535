package store

import (
	"context"
	"time"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact match when set
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// Batch is one generation run: the settings it used and the worksheet sets
// it produced, in set order.
type Batch struct {
	ID         string
	Sequence   int64
	CreatedAt  time.Time
	Settings   worksheet.Settings
	Worksheets []worksheet.Worksheet
}

// BatchSummary describes a stored batch without its questions.
type BatchSummary struct {
	ID        string
	Sequence  int64
	CreatedAt time.Time
	Sets      int
}

// WorksheetRepo persists generated worksheets.
type WorksheetRepo interface {
	// SaveBatch stores a new batch and its worksheets. It assigns
	// Sequence and, when zero, CreatedAt.
	SaveBatch(ctx context.Context, b *Batch) error

	// LoadBatch returns the batch with the given id or ErrNotFound.
	LoadBatch(ctx context.Context, id string) (*Batch, error)

	// LatestBatch returns the most recently saved batch or ErrNotFound.
	LatestBatch(ctx context.Context) (*Batch, error)

	// ListBatches returns summaries, newest first.
	ListBatches(ctx context.Context, limit int) ([]BatchSummary, error)

	// SaveWorksheet overwrites the stored questions of an existing
	// worksheet, matched by id.
	SaveWorksheet(ctx context.Context, ws worksheet.Worksheet) error

	// DeleteBatch removes a batch and its worksheets.
	DeleteBatch(ctx context.Context, id string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates calls and tokens for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
