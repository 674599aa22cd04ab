package storage

import (
	"context"
	"fmt"
)

// ActivityRepo is the append-only record of state-changing actions. Rows are
// never updated or deleted.
type ActivityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Append(ctx context.Context, e ActivityEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, at, kind, entity_id, xp_delta, coin_delta, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.At, e.Kind, e.EntityID, e.XPDelta, e.CoinDelta, e.Note)
	if err != nil {
		return fmt.Errorf("activity append: %w", err)
	}
	return nil
}

func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, at, kind, entity_id, xp_delta, coin_delta, note
		FROM activity_log
		ORDER BY at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.At, &e.Kind, &e.EntityID, &e.XPDelta, &e.CoinDelta, &e.Note); err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows: %w", err)
	}
	return out, nil
}
