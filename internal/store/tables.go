package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	historyTable  = "history_entries"
	statsTable    = "solve_stats"
	llmTable      = "llm_request_events"
	sequenceTable = "global_sequence"
)

var (
	historyColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "ref", Type: field.TypeString, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "source", Type: field.TypeString, Default: string(SourceText)},
		{Name: "problem", Type: field.TypeString, Size: 2147483647},
		{Name: "family", Type: field.TypeString},
		{Name: "confidence", Type: field.TypeFloat64},
		{Name: "success", Type: field.TypeBool},
		{Name: "summary", Type: field.TypeString, Default: ""},
		{Name: "solution", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// HistoryTable holds one row per solved (or attempted) problem.
	HistoryTable = &schema.Table{
		Name:       historyTable,
		Columns:    historyColumns,
		PrimaryKey: []*schema.Column{historyColumns[0]},
		Indexes: []*schema.Index{
			{Name: "historyentry_timestamp", Columns: []*schema.Column{historyColumns[3]}},
			{Name: "historyentry_family", Columns: []*schema.Column{historyColumns[6]}},
		},
	}

	statsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "attempts", Type: field.TypeInt, Default: 0},
		{Name: "problems_solved", Type: field.TypeInt, Default: 0},
		{Name: "images_processed", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// StatsTable is a single-row table of running counters.
	StatsTable = &schema.Table{
		Name:       statsTable,
		Columns:    statsColumns,
		PrimaryKey: []*schema.Column{statsColumns[0]},
	}

	llmColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventTable records every LLM API call for cost tracking and
	// debugging.
	LLMRequestEventTable = &schema.Table{
		Name:       llmTable,
		Columns:    llmColumns,
		PrimaryKey: []*schema.Column{llmColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmColumns[9]}},
		},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// SequenceTable is a single-row counter shared by history and events.
	SequenceTable = &schema.Table{
		Name:       sequenceTable,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	// Tables is every table the store migrates on Open.
	Tables = []*schema.Table{
		HistoryTable,
		StatsTable,
		LLMRequestEventTable,
		SequenceTable,
	}
)
