package storage

import (
	"context"
	"database/sql"
	"fmt"
)

const MainUserKey = "main_user"

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `key, level, current_xp, total_xp, coins,
	current_streak, best_streak, last_access, completed_today,
	attr_strength, attr_intelligence, attr_charisma, attr_discipline,
	streak_protected, xp_boost_until, coin_boost_until`

func (r *UserRepo) Get(ctx context.Context, key string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE key = ?`, key)

	var u User
	var completedToday, streakProtected int
	if err := row.Scan(
		&u.Key, &u.Level, &u.CurrentXP, &u.TotalXP, &u.Coins,
		&u.CurrentStreak, &u.BestStreak, &u.LastAccess, &completedToday,
		&u.Strength, &u.Intelligence, &u.Charisma, &u.Discipline,
		&streakProtected, &u.XPBoostUntil, &u.CoinBoostUntil,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	u.CompletedToday = completedToday != 0
	u.StreakProtected = streakProtected != 0
	return &u, nil
}

func (r *UserRepo) GetOrCreateMain(ctx context.Context) (*User, error) {
	u, err := r.Get(ctx, MainUserKey)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO users (key) VALUES (?)`, MainUserKey); err != nil {
		return nil, fmt.Errorf("user insert: %w", err)
	}
	return r.Get(ctx, MainUserKey)
}

func (r *UserRepo) Update(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET level = ?, current_xp = ?, total_xp = ?, coins = ?,
			current_streak = ?, best_streak = ?, last_access = ?, completed_today = ?,
			attr_strength = ?, attr_intelligence = ?, attr_charisma = ?, attr_discipline = ?,
			streak_protected = ?, xp_boost_until = ?, coin_boost_until = ?
		WHERE key = ?
	`, u.Level, u.CurrentXP, u.TotalXP, u.Coins,
		u.CurrentStreak, u.BestStreak, u.LastAccess, boolToInt(u.CompletedToday),
		u.Strength, u.Intelligence, u.Charisma, u.Discipline,
		boolToInt(u.StreakProtected), u.XPBoostUntil, u.CoinBoostUntil,
		u.Key)
	if err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
