package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var historySelectColumns = []string{
	"id", "sequence", "ref", "timestamp", "source", "problem",
	"family", "confidence", "success", "summary", "solution",
}

// historyRepo implements HistoryRepo with the ent SQL builder.
type historyRepo struct {
	db  *sql.DB
	seq *sequence
}

func (r *historyRepo) Add(ctx context.Context, e *HistoryEntry, keep int) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	e.Sequence = seqNum
	if e.Ref == "" {
		e.Ref = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Source == "" {
		e.Source = SourceText
	}

	query, args := builder().Insert(historyTable).
		Columns("sequence", "ref", "timestamp", "source", "problem", "family",
			"confidence", "success", "summary", "solution").
		Values(e.Sequence, e.Ref, e.Timestamp, string(e.Source), e.Problem, e.Family,
			e.Confidence, e.Success, e.Summary, e.Solution).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = int(id)
	}

	if keep > 0 {
		return r.prune(ctx, keep)
	}
	return nil
}

// prune deletes all but the keep newest entries.
func (r *historyRepo) prune(ctx context.Context, keep int) error {
	query, args := builder().Select("sequence").
		From(entsql.Table(historyTable)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err == sql.ErrNoRows {
		return nil // fewer than keep entries exist
	}
	if err != nil {
		return fmt.Errorf("query history for prune: %w", err)
	}

	query, args = builder().Delete(historyTable).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

func (r *historyRepo) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	sel := builder().Select(historySelectColumns...).
		From(entsql.Table(historyTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	return r.query(ctx, sel)
}

func (r *historyRepo) Get(ctx context.Context, ref string) (*HistoryEntry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}

	sel := builder().Select(historySelectColumns...).
		From(entsql.Table(historyTable)).
		Where(entsql.HasPrefix("ref", ref)).
		OrderBy(entsql.Desc("sequence")).
		Limit(2)
	entries, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}

	switch {
	case len(entries) == 0:
		return nil, nil
	case len(entries) > 1 && entries[0].Ref != ref:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
	}
	return &entries[0], nil
}

func (r *historyRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(historyTable).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (r *historyRepo) query(ctx context.Context, sel *entsql.Selector) ([]HistoryEntry, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e      HistoryEntry
			source string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Ref, &e.Timestamp, &source, &e.Problem,
			&e.Family, &e.Confidence, &e.Success, &e.Summary, &e.Solution); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Source = Source(source)
		out = append(out, e)
	}
	return out, rows.Err()
}
