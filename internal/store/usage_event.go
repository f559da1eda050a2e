package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	usageTable = "usage_events"

	colID           = "id"
	colRequestID    = "request_id"
	colCreatedAt    = "created_at"
	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colSeqRequested = "sequences_requested"
	colSeqReturned  = "sequences_returned"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"
	colSuccess      = "success"
	colErrorMessage = "error_message"
)

var usageColumns = []string{
	colID, colRequestID, colCreatedAt, colProvider, colModel, colPurpose,
	colSeqRequested, colSeqReturned, colInputTokens, colOutputTokens,
	colLatencyMs, colSuccess, colErrorMessage,
}

// usageEventsTable describes the usage_events table. Timestamps are unix
// milliseconds.
func usageEventsTable() *schema.Table {
	t := schema.NewTable(usageTable).
		AddPrimary(&schema.Column{Name: colID, Type: field.TypeInt64, Increment: true}).
		AddColumn(&schema.Column{Name: colRequestID, Type: field.TypeString, Default: ""}).
		AddColumn(&schema.Column{Name: colCreatedAt, Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: colProvider, Type: field.TypeString}).
		AddColumn(&schema.Column{Name: colModel, Type: field.TypeString}).
		AddColumn(&schema.Column{Name: colPurpose, Type: field.TypeString}).
		AddColumn(&schema.Column{Name: colSeqRequested, Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: colSeqReturned, Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: colInputTokens, Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: colOutputTokens, Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: colLatencyMs, Type: field.TypeInt64, Default: 0}).
		AddColumn(&schema.Column{Name: colSuccess, Type: field.TypeBool}).
		AddColumn(&schema.Column{Name: colErrorMessage, Type: field.TypeString, Default: ""})
	t.AddIndex("usageevent_created_at", false, []string{colCreatedAt})
	t.AddIndex("usageevent_purpose", false, []string{colPurpose})
	t.AddIndex("usageevent_success", false, []string{colSuccess})
	return t
}

// eventRepo implements EventRepo with queries built by the ent SQL builder.
type eventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *eventRepo) AppendUsage(ctx context.Context, data UsageEventData) error {
	query, args := builder().Insert(usageTable).
		Columns(
			colRequestID, colCreatedAt, colProvider, colModel, colPurpose,
			colSeqRequested, colSeqReturned, colInputTokens, colOutputTokens,
			colLatencyMs, colSuccess, colErrorMessage,
		).
		Values(
			data.RequestID, r.now().UnixMilli(), data.Provider, data.Model, data.Purpose,
			data.SequencesRequested, data.SequencesReturned, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save usage event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryUsage(ctx context.Context, opts QueryOpts) ([]UsageEventRecord, error) {
	sel := builder().Select(usageColumns...).
		From(entsql.Table(usageTable)).
		OrderBy(entsql.Desc(colID))

	if opts.Purpose != "" {
		sel.Where(entsql.EQ(colPurpose, opts.Purpose))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(colCreatedAt, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(colCreatedAt, opts.To.UnixMilli()))
	}
	if opts.FailedOnly {
		sel.Where(entsql.EQ(colSuccess, false))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage events: %w", err)
	}
	defer rows.Close()

	var records []UsageEventRecord
	for rows.Next() {
		var (
			rec       UsageEventRecord
			createdAt int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &createdAt, &rec.Provider, &rec.Model, &rec.Purpose,
			&rec.SequencesRequested, &rec.SequencesReturned, &rec.InputTokens, &rec.OutputTokens,
			&rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan usage event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) UsageByPurpose(ctx context.Context) ([]UsageStats, error) {
	query, args := builder().Select(
		colPurpose,
		entsql.Count("*"),
		"SUM(CASE WHEN "+colSuccess+" THEN 0 ELSE 1 END)",
		entsql.Sum(colSeqReturned),
		entsql.Sum(colInputTokens),
		entsql.Sum(colOutputTokens),
		entsql.Avg(colLatencyMs),
	).
		From(entsql.Table(usageTable)).
		GroupBy(colPurpose).
		OrderBy(colPurpose).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var stats []UsageStats
	for rows.Next() {
		var (
			st         UsageStats
			avgLatency float64
		)
		if err := rows.Scan(&st.Purpose, &st.Calls, &st.Failures, &st.Sequences,
			&st.InputTokens, &st.OutputTokens, &avgLatency); err != nil {
			return nil, fmt.Errorf("scan usage stats: %w", err)
		}
		st.AvgLatencyMs = int64(avgLatency)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage stats: %w", err)
	}
	return stats, nil
}

func (r *eventRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	// Find the ID threshold: the newest event that falls outside the window.
	query, args := builder().Select(colID).
		From(entsql.Table(usageTable)).
		OrderBy(entsql.Desc(colID)).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err == sql.ErrNoRows {
		return 0, nil // fewer than keep events exist
	}
	if err != nil {
		return 0, fmt.Errorf("query usage events for prune: %w", err)
	}

	query, args = builder().Delete(usageTable).
		Where(entsql.LTE(colID, threshold)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune usage events: %w", err)
	}
	return res.RowsAffected()
}
