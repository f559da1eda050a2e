package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	Purpose    string    // exact purpose match ("" = any)
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
	FailedOnly bool      // only unsuccessful requests
}

// UsageEventData captures the metadata of one inference backend request.
// It deliberately has no field for prompts, answers or generated questions.
type UsageEventData struct {
	RequestID          string
	Provider           string
	Model              string
	Purpose            string
	SequencesRequested int
	SequencesReturned  int
	InputTokens        int
	OutputTokens       int
	LatencyMs          int64
	Success            bool
	ErrorMessage       string
}

// UsageEventRecord is a stored usage event.
type UsageEventRecord struct {
	ID        int64
	Timestamp time.Time
	UsageEventData
}

// UsageStats aggregates usage events for one purpose.
type UsageStats struct {
	Purpose      string
	Calls        int
	Failures     int
	Sequences    int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to usage events.
type EventRepo interface {
	// AppendUsage records one backend request.
	AppendUsage(ctx context.Context, data UsageEventData) error

	// QueryUsage returns events newest first.
	QueryUsage(ctx context.Context, opts QueryOpts) ([]UsageEventRecord, error)

	// UsageByPurpose aggregates all events grouped by purpose.
	UsageByPurpose(ctx context.Context) ([]UsageStats, error)

	// Prune deletes all but the keep most recent events.
	Prune(ctx context.Context, keep int) (int64, error)
}
