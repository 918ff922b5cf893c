package store

import (
	"context"
	"errors"
	"time"
)

// ErrAmbiguousRef is returned when a ref prefix matches more than one
// history entry.
var ErrAmbiguousRef = errors.New("ambiguous history reference")

// DefaultHistorySize is how many history entries are kept.
const DefaultHistorySize = 50

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Purpose string // exact purpose match, "" for all
}

// Source says where the problem text came from.
type Source string

const (
	SourceText  Source = "text"
	SourceImage Source = "image"
)

// HistoryEntry is one solved or attempted problem.
type HistoryEntry struct {
	ID         int
	Sequence   int64
	Ref        string
	Timestamp  time.Time
	Source     Source
	Problem    string
	Family     string
	Confidence float64
	Success    bool
	Summary    string // one-line answer or failure reason
	Solution   string // rendered solution text
}

// HistoryRepo stores recent problems, newest first.
type HistoryRepo interface {
	// Add stores e, assigning Ref, Sequence and Timestamp when unset, and
	// prunes to the newest keep entries. keep <= 0 disables pruning.
	Add(ctx context.Context, e *HistoryEntry, keep int) error

	// Recent returns up to limit entries, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Get returns the entry whose ref equals or starts with ref, or nil.
	Get(ctx context.Context, ref string) (*HistoryEntry, error)

	// Clear deletes every entry.
	Clear(ctx context.Context) error
}

// Stats are the running solve counters.
type Stats struct {
	Attempts        int
	ProblemsSolved  int
	ImagesProcessed int
	UpdatedAt       time.Time
}

// SuccessRate is the percentage of attempts that were solved, or 100 when
// nothing has been attempted.
func (s Stats) SuccessRate() int {
	if s.Attempts == 0 {
		return 100
	}
	return s.ProblemsSolved * 100 / s.Attempts
}

// StatsRepo maintains the running counters.
type StatsRepo interface {
	Get(ctx context.Context) (Stats, error)
	// RecordSolve counts one attempt, and one image when fromImage is set.
	RecordSolve(ctx context.Context, success, fromImage bool) error
	Reset(ctx context.Context) error
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

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns the event with the given id, or nil.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
