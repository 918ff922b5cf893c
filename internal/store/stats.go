package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const statsRowID = 1

// statsRepo implements StatsRepo over a single counters row.
type statsRepo struct {
	db *sql.DB
}

// seedStats inserts the counters row if it does not exist yet.
func (s *Store) seedStats(ctx context.Context) error {
	query, args := builder().Insert(statsTable).
		Columns("id", "attempts", "problems_solved", "images_processed", "updated_at").
		Values(statsRowID, 0, 0, 0, time.Now().UTC()).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed stats: %w", err)
	}
	return nil
}

func (r *statsRepo) Get(ctx context.Context) (Stats, error) {
	query, args := builder().Select("attempts", "problems_solved", "images_processed", "updated_at").
		From(entsql.Table(statsTable)).
		Where(entsql.EQ("id", statsRowID)).
		Query()

	var st Stats
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&st.Attempts, &st.ProblemsSolved, &st.ImagesProcessed, &st.UpdatedAt)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

func (r *statsRepo) RecordSolve(ctx context.Context, success, fromImage bool) error {
	upd := builder().Update(statsTable).
		Add("attempts", 1).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", statsRowID))
	if success {
		upd = upd.Add("problems_solved", 1)
	}
	if fromImage {
		upd = upd.Add("images_processed", 1)
	}

	query, args := upd.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record solve: %w", err)
	}
	return nil
}

func (r *statsRepo) Reset(ctx context.Context) error {
	query, args := builder().Update(statsTable).
		Set("attempts", 0).
		Set("problems_solved", 0).
		Set("images_processed", 0).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", statsRowID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset stats: %w", err)
	}
	return nil
}
