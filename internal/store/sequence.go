package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

const sequenceRowID = 1

// sequence is one counter shared by history entries and LLM events. Rows
// from both tables order against each other by it, even when their
// timestamps collide.
type sequence struct {
	mu sync.Mutex
	db *sql.DB
}

func (s *Store) seedSequence(ctx context.Context) error {
	query, args := builder().Insert(sequenceTable).
		Columns("id", "next_val").
		Values(sequenceRowID, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// Next returns the current value and advances the counter.
func (q *sequence) Next(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Select("next_val").
		From(entsql.Table(sequenceTable)).
		Where(entsql.EQ("id", sequenceRowID)).
		Query()
	var val int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&val); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}

	query, args = builder().Update(sequenceTable).
		Add("next_val", 1).
		Where(entsql.EQ("id", sequenceRowID)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return val, nil
}
