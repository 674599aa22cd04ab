package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			key TEXT PRIMARY KEY,
			level INTEGER NOT NULL DEFAULT 1,
			current_xp INTEGER NOT NULL DEFAULT 0,
			total_xp INTEGER NOT NULL DEFAULT 0,
			coins INTEGER NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			last_access DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_today INTEGER NOT NULL DEFAULT 0,

			attr_strength INTEGER NOT NULL DEFAULT 0,
			attr_intelligence INTEGER NOT NULL DEFAULT 0,
			attr_charisma INTEGER NOT NULL DEFAULT 0,
			attr_discipline INTEGER NOT NULL DEFAULT 0,

			streak_protected INTEGER NOT NULL DEFAULT 0,
			xp_boost_until DATETIME,
			coin_boost_until DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'standard',
			xp_reward INTEGER NOT NULL,
			coin_reward INTEGER NOT NULL,
			attribute_bonus TEXT,
			completed INTEGER NOT NULL DEFAULT 0,
			last_grant_id TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS main_quests (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS quest_steps (
			id TEXT PRIMARY KEY,
			main_quest_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			title TEXT NOT NULL,
			xp_reward INTEGER NOT NULL,
			coin_reward INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			last_grant_id TEXT,
			FOREIGN KEY(main_quest_id) REFERENCES main_quests(id)
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price INTEGER NOT NULL,
			effect TEXT NOT NULL,
			attribute TEXT,
			magnitude INTEGER NOT NULL DEFAULT 0,
			duration_mins INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS upgrades (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			costs TEXT,
			permanent INTEGER NOT NULL DEFAULT 0,
			purchased INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL,
			acquired_at DATETIME NOT NULL,
			used_at DATETIME,
			FOREIGN KEY(item_id) REFERENCES items(id)
		);`,
		`CREATE TABLE IF NOT EXISTS goals (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL DEFAULT 'goal',
			title TEXT NOT NULL,
			metric TEXT NOT NULL,
			target INTEGER NOT NULL,
			current INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			expires_at DATETIME,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			coin_reward INTEGER NOT NULL DEFAULT 0,
			last_grant_id TEXT
		);`,
		// Append-only; rows are never updated or deleted.
		`CREATE TABLE IF NOT EXISTS activity_log (
			id TEXT PRIMARY KEY,
			at DATETIME NOT NULL,
			kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			xp_delta INTEGER NOT NULL DEFAULT 0,
			coin_delta INTEGER NOT NULL DEFAULT 0,
			note TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_category ON quests(category);`,
		`CREATE INDEX IF NOT EXISTS idx_quest_steps_main_quest_id ON quest_steps(main_quest_id);`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_item_id ON inventory(item_id);`,
		`CREATE INDEX IF NOT EXISTS idx_goals_completed ON goals(completed);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_log_at ON activity_log(at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
