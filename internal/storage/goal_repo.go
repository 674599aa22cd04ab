package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// GoalRepo covers goals and achievements; both live in one table and differ
// only by kind.
type GoalRepo struct {
	db DBTX
}

func NewGoalRepo(db DBTX) *GoalRepo {
	return &GoalRepo{db: db}
}

const goalColumns = `id, kind, title, metric, target, current, completed, expires_at, xp_reward, coin_reward, last_grant_id`

func scanGoal(row interface{ Scan(...any) error }) (*Goal, error) {
	var g Goal
	var completed int
	if err := row.Scan(&g.ID, &g.Kind, &g.Title, &g.Metric, &g.Target, &g.Current,
		&completed, &g.ExpiresAt, &g.XPReward, &g.CoinReward, &g.LastGrantID); err != nil {
		return nil, err
	}
	g.Completed = completed != 0
	return &g, nil
}

func (r *GoalRepo) Get(ctx context.Context, id string) (*Goal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("goal get: %w", err)
	}
	return g, nil
}

func (r *GoalRepo) ListAll(ctx context.Context) ([]Goal, error) {
	return r.list(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY id ASC`)
}

// ListOpen returns goals whose completion flag is still false. Expiry is the
// evaluator's concern, not the query's.
func (r *GoalRepo) ListOpen(ctx context.Context) ([]Goal, error) {
	return r.list(ctx, `SELECT `+goalColumns+` FROM goals WHERE completed = 0 ORDER BY id ASC`)
}

func (r *GoalRepo) list(ctx context.Context, query string) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("goal list: %w", err)
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("goal scan: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("goal rows: %w", err)
	}
	return out, nil
}

func (r *GoalRepo) Ensure(ctx context.Context, g Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO goals (id, kind, title, metric, target, expires_at, xp_reward, coin_reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.Kind, g.Title, g.Metric, g.Target, g.ExpiresAt, g.XPReward, g.CoinReward)
	if err != nil {
		return fmt.Errorf("goal ensure: %w", err)
	}
	return nil
}

func (r *GoalRepo) UpdateProgress(ctx context.Context, id string, current int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE goals SET current = ? WHERE id = ?`, current, id)
	if err != nil {
		return fmt.Errorf("goal update progress: %w", err)
	}
	return nil
}

func (r *GoalRepo) MarkCompleted(ctx context.Context, id string, current int, grantID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE goals SET current = ?, completed = 1, last_grant_id = ? WHERE id = ?
	`, current, grantID, id)
	if err != nil {
		return fmt.Errorf("goal mark completed: %w", err)
	}
	return nil
}

func (r *GoalRepo) SetCompleted(ctx context.Context, id string, current int, completed bool, grantID *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE goals SET current = ?, completed = ?, last_grant_id = ? WHERE id = ?
	`, current, boolToInt(completed), grantID, id)
	if err != nil {
		return fmt.Errorf("goal set completed: %w", err)
	}
	return nil
}
