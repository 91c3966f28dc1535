package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions migrated on Open. Timestamps are stored as Unix
// milliseconds; worksheet payloads as JSON text.
var (
	// GlobalSequenceColumns holds the single-row sequence counter.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// BatchesColumns holds one row per generation run.
	BatchesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "batch_id", Type: field.TypeString, Unique: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "settings", Type: field.TypeString, Default: "{}"},
		{Name: "set_count", Type: field.TypeInt, Default: 0},
	}
	BatchesTable = &schema.Table{
		Name:       "worksheet_batches",
		Columns:    BatchesColumns,
		PrimaryKey: []*schema.Column{BatchesColumns[0]},
	}

	// WorksheetsColumns holds one row per worksheet set.
	WorksheetsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "worksheet_id", Type: field.TypeString, Unique: true},
		{Name: "batch_id", Type: field.TypeString},
		{Name: "set_index", Type: field.TypeInt},
		{Name: "data", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	WorksheetsTable = &schema.Table{
		Name:       "worksheets",
		Columns:    WorksheetsColumns,
		PrimaryKey: []*schema.Column{WorksheetsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "worksheet_batch_id_set_index",
				Unique:  true,
				Columns: []*schema.Column{WorksheetsColumns[2], WorksheetsColumns[3]},
			},
		},
	}

	// HistoryColumns holds previously generated question texts.
	HistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "text", Type: field.TypeString, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
	}
	HistoryTable = &schema.Table{
		Name:       "history_entries",
		Columns:    HistoryColumns,
		PrimaryKey: []*schema.Column{HistoryColumns[0]},
	}

	// LLMRequestEventsColumns records every LLM API call.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
		},
	}

	// Tables lists every table in migration order.
	Tables = []*schema.Table{
		GlobalSequenceTable,
		BatchesTable,
		WorksheetsTable,
		HistoryTable,
		LLMRequestEventsTable,
	}
)
