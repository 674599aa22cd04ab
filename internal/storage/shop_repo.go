package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ShopRepo covers the purchasable catalog: items, upgrades, and the user's
// inventory rows.
type ShopRepo struct {
	db DBTX
}

func NewShopRepo(db DBTX) *ShopRepo {
	return &ShopRepo{db: db}
}

func (r *ShopRepo) GetItem(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, effect, attribute, magnitude, duration_mins
		FROM items WHERE id = ?
	`, id)
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Effect, &it.Attribute, &it.Magnitude, &it.DurationMins); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("item get: %w", err)
	}
	return &it, nil
}

func (r *ShopRepo) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, effect, attribute, magnitude, duration_mins
		FROM items ORDER BY price ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("item list: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Effect, &it.Attribute, &it.Magnitude, &it.DurationMins); err != nil {
			return nil, fmt.Errorf("item scan: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("item rows: %w", err)
	}
	return out, nil
}

func (r *ShopRepo) EnsureItem(ctx context.Context, it Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO items (id, name, price, effect, attribute, magnitude, duration_mins)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, it.ID, it.Name, it.Price, it.Effect, it.Attribute, it.Magnitude, it.DurationMins)
	if err != nil {
		return fmt.Errorf("item ensure: %w", err)
	}
	return nil
}

func scanUpgrade(row interface{ Scan(...any) error }) (*Upgrade, error) {
	var up Upgrade
	var costsJSON *string
	var permanent, purchased, active int
	if err := row.Scan(&up.ID, &up.Name, &costsJSON, &permanent, &purchased, &active); err != nil {
		return nil, err
	}
	up.Permanent = permanent != 0
	up.Purchased = purchased != 0
	up.Active = active != 0
	if costsJSON != nil && *costsJSON != "" {
		if err := json.Unmarshal([]byte(*costsJSON), &up.Costs); err != nil {
			return nil, fmt.Errorf("unmarshal upgrade costs: %w", err)
		}
	}
	return &up, nil
}

func (r *ShopRepo) GetUpgrade(ctx context.Context, id string) (*Upgrade, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, costs, permanent, purchased, active FROM upgrades WHERE id = ?
	`, id)
	up, err := scanUpgrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("upgrade get: %w", err)
	}
	return up, nil
}

func (r *ShopRepo) ListUpgrades(ctx context.Context) ([]Upgrade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, costs, permanent, purchased, active FROM upgrades ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("upgrade list: %w", err)
	}
	defer rows.Close()

	var out []Upgrade
	for rows.Next() {
		up, err := scanUpgrade(rows)
		if err != nil {
			return nil, fmt.Errorf("upgrade scan: %w", err)
		}
		out = append(out, *up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("upgrade rows: %w", err)
	}
	return out, nil
}

func (r *ShopRepo) EnsureUpgrade(ctx context.Context, up Upgrade) error {
	var costsJSON *string
	if len(up.Costs) > 0 {
		data, err := json.Marshal(up.Costs)
		if err != nil {
			return fmt.Errorf("marshal upgrade costs: %w", err)
		}
		s := string(data)
		costsJSON = &s
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO upgrades (id, name, costs, permanent)
		VALUES (?, ?, ?, ?)
	`, up.ID, up.Name, costsJSON, boolToInt(up.Permanent))
	if err != nil {
		return fmt.Errorf("upgrade ensure: %w", err)
	}
	return nil
}

func (r *ShopRepo) MarkUpgradePurchased(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE upgrades SET purchased = 1, active = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("upgrade mark purchased: %w", err)
	}
	return nil
}

func (r *ShopRepo) SetUpgradeActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE upgrades SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("upgrade set active: %w", err)
	}
	return nil
}

func (r *ShopRepo) CountPurchasedUpgrades(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM upgrades WHERE purchased = 1`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("upgrade count purchased: %w", err)
	}
	return n, nil
}

func (r *ShopRepo) AddInventory(ctx context.Context, itemID string, acquiredAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory (item_id, acquired_at) VALUES (?, ?)
	`, itemID, acquiredAt)
	if err != nil {
		return 0, fmt.Errorf("inventory add: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inventory last insert id: %w", err)
	}
	return id, nil
}

func (r *ShopRepo) GetInventoryEntry(ctx context.Context, id int64) (*InventoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, item_id, acquired_at, used_at FROM inventory WHERE id = ?
	`, id)
	var e InventoryEntry
	if err := row.Scan(&e.ID, &e.ItemID, &e.AcquiredAt, &e.UsedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("inventory get: %w", err)
	}
	return &e, nil
}

func (r *ShopRepo) ListInventory(ctx context.Context) ([]InventoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, acquired_at, used_at FROM inventory ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("inventory list: %w", err)
	}
	defer rows.Close()

	var out []InventoryEntry
	for rows.Next() {
		var e InventoryEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.AcquiredAt, &e.UsedAt); err != nil {
			return nil, fmt.Errorf("inventory scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory rows: %w", err)
	}
	return out, nil
}

func (r *ShopRepo) MarkInventoryUsed(ctx context.Context, id int64, usedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE inventory SET used_at = ? WHERE id = ?`, usedAt, id)
	if err != nil {
		return fmt.Errorf("inventory mark used: %w", err)
	}
	return nil
}

func (r *ShopRepo) CountUsedItems(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory WHERE used_at IS NOT NULL`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("inventory count used: %w", err)
	}
	return n, nil
}
