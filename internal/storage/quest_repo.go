package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type QuestRepo struct {
	db DBTX
}

func NewQuestRepo(db DBTX) *QuestRepo {
	return &QuestRepo{db: db}
}

const questColumns = `id, title, category, xp_reward, coin_reward, attribute_bonus, completed, last_grant_id`

func scanQuest(row interface{ Scan(...any) error }) (*Quest, error) {
	var q Quest
	var completed int
	if err := row.Scan(&q.ID, &q.Title, &q.Category, &q.XPReward, &q.CoinReward,
		&q.AttributeBonus, &completed, &q.LastGrantID); err != nil {
		return nil, err
	}
	q.Completed = completed != 0
	return &q, nil
}

func (r *QuestRepo) Get(ctx context.Context, id string) (*Quest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+questColumns+` FROM quests WHERE id = ?`, id)
	q, err := scanQuest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest get: %w", err)
	}
	return q, nil
}

func (r *QuestRepo) ListAll(ctx context.Context) ([]Quest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+questColumns+` FROM quests ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("quest scan: %w", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest list rows: %w", err)
	}
	return out, nil
}

// Ensure inserts the quest if no row with its id exists. Reward fields of an
// existing row are never overwritten.
func (r *QuestRepo) Ensure(ctx context.Context, q Quest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO quests (id, title, category, xp_reward, coin_reward, attribute_bonus)
		VALUES (?, ?, ?, ?, ?, ?)
	`, q.ID, q.Title, q.Category, q.XPReward, q.CoinReward, q.AttributeBonus)
	if err != nil {
		return fmt.Errorf("quest ensure: %w", err)
	}
	return nil
}

func (r *QuestRepo) MarkCompleted(ctx context.Context, id string, grantID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quests SET completed = 1, last_grant_id = ? WHERE id = ?`, grantID, id)
	if err != nil {
		return fmt.Errorf("quest mark completed: %w", err)
	}
	return nil
}

func (r *QuestRepo) SetCompleted(ctx context.Context, id string, completed bool, grantID *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quests SET completed = ?, last_grant_id = ? WHERE id = ?`,
		boolToInt(completed), grantID, id)
	if err != nil {
		return fmt.Errorf("quest set completed: %w", err)
	}
	return nil
}

// ResetDaily flips every daily-category quest back to incomplete for the new
// cycle. Grant stamps are cleared with the flag so a fresh completion gets a
// fresh stamp.
func (r *QuestRepo) ResetDaily(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quests SET completed = 0, last_grant_id = NULL WHERE category = 'daily'`)
	if err != nil {
		return fmt.Errorf("quest reset daily: %w", err)
	}
	return nil
}

func (r *QuestRepo) CountCompleted(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quests WHERE completed = 1`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("quest count completed: %w", err)
	}
	return n, nil
}

func (r *QuestRepo) GetMainQuest(ctx context.Context, id string) (*MainQuest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, completed FROM main_quests WHERE id = ?`, id)
	var m MainQuest
	var completed int
	if err := row.Scan(&m.ID, &m.Title, &completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("main quest get: %w", err)
	}
	m.Completed = completed != 0
	return &m, nil
}

func (r *QuestRepo) ListMainQuests(ctx context.Context) ([]MainQuest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, completed FROM main_quests ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("main quest list: %w", err)
	}
	defer rows.Close()

	var out []MainQuest
	for rows.Next() {
		var m MainQuest
		var completed int
		if err := rows.Scan(&m.ID, &m.Title, &completed); err != nil {
			return nil, fmt.Errorf("main quest scan: %w", err)
		}
		m.Completed = completed != 0
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("main quest rows: %w", err)
	}
	return out, nil
}

func (r *QuestRepo) EnsureMainQuest(ctx context.Context, m MainQuest) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO main_quests (id, title) VALUES (?, ?)`, m.ID, m.Title)
	if err != nil {
		return fmt.Errorf("main quest ensure: %w", err)
	}
	return nil
}

func (r *QuestRepo) SetMainQuestCompleted(ctx context.Context, id string, completed bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE main_quests SET completed = ? WHERE id = ?`, boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("main quest set completed: %w", err)
	}
	return nil
}

const stepColumns = `id, main_quest_id, seq, title, xp_reward, coin_reward, completed, last_grant_id`

func scanStep(row interface{ Scan(...any) error }) (*Step, error) {
	var s Step
	var completed int
	if err := row.Scan(&s.ID, &s.MainQuestID, &s.Seq, &s.Title, &s.XPReward,
		&s.CoinReward, &completed, &s.LastGrantID); err != nil {
		return nil, err
	}
	s.Completed = completed != 0
	return &s, nil
}

func (r *QuestRepo) GetStep(ctx context.Context, id string) (*Step, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+stepColumns+` FROM quest_steps WHERE id = ?`, id)
	s, err := scanStep(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("step get: %w", err)
	}
	return s, nil
}

func (r *QuestRepo) ListSteps(ctx context.Context, mainQuestID string) ([]Step, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stepColumns+` FROM quest_steps WHERE main_quest_id = ? ORDER BY seq ASC`, mainQuestID)
	if err != nil {
		return nil, fmt.Errorf("step list: %w", err)
	}
	defer rows.Close()

	var out []Step
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("step scan: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("step rows: %w", err)
	}
	return out, nil
}

func (r *QuestRepo) ListAllSteps(ctx context.Context) ([]Step, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stepColumns+` FROM quest_steps ORDER BY main_quest_id, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("step list all: %w", err)
	}
	defer rows.Close()

	var out []Step
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("step scan: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("step rows: %w", err)
	}
	return out, nil
}

func (r *QuestRepo) EnsureStep(ctx context.Context, s Step) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO quest_steps (id, main_quest_id, seq, title, xp_reward, coin_reward)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.MainQuestID, s.Seq, s.Title, s.XPReward, s.CoinReward)
	if err != nil {
		return fmt.Errorf("step ensure: %w", err)
	}
	return nil
}

func (r *QuestRepo) MarkStepCompleted(ctx context.Context, id string, grantID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quest_steps SET completed = 1, last_grant_id = ? WHERE id = ?`, grantID, id)
	if err != nil {
		return fmt.Errorf("step mark completed: %w", err)
	}
	return nil
}

func (r *QuestRepo) SetStepCompleted(ctx context.Context, id string, completed bool, grantID *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quest_steps SET completed = ?, last_grant_id = ? WHERE id = ?`,
		boolToInt(completed), grantID, id)
	if err != nil {
		return fmt.Errorf("step set completed: %w", err)
	}
	return nil
}
