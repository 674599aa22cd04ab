package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestOpenMigratesIdempotently(t *testing.T) {
	ctx := context.Background()
	db, path := openTestDB(t)

	users := NewUserRepo(db)
	u, err := users.GetOrCreateMain(ctx)
	require.NoError(t, err)
	u.Coins = 42
	require.NoError(t, users.Update(ctx, u))
	require.NoError(t, db.Close())

	// Reopening runs the migration again and must keep existing rows.
	db2, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db2.Close() })

	u2, err := NewUserRepo(db2).Get(ctx, MainUserKey)
	require.NoError(t, err)
	require.NotNil(t, u2)
	require.Equal(t, 42, u2.Coins)
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	users := NewUserRepo(db)

	u, err := users.GetOrCreateMain(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, u.Level)
	require.Equal(t, 0, u.Coins)

	boost := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	u.Level = 3
	u.CurrentXP = 57
	u.TotalXP = 482
	u.Coins = 130
	u.CurrentStreak = 9
	u.BestStreak = 14
	u.LastAccess = boost.Add(-time.Hour)
	u.CompletedToday = true
	u.Strength = 2
	u.Intelligence = 4
	u.Charisma = 1
	u.Discipline = 3
	u.StreakProtected = true
	u.XPBoostUntil = &boost
	require.NoError(t, users.Update(ctx, u))

	got, err := users.Get(ctx, MainUserKey)
	require.NoError(t, err)
	require.Equal(t, u.Level, got.Level)
	require.Equal(t, u.CurrentXP, got.CurrentXP)
	require.Equal(t, u.TotalXP, got.TotalXP)
	require.Equal(t, u.Coins, got.Coins)
	require.Equal(t, u.CurrentStreak, got.CurrentStreak)
	require.Equal(t, u.BestStreak, got.BestStreak)
	require.True(t, got.LastAccess.Equal(u.LastAccess))
	require.True(t, got.CompletedToday)
	require.Equal(t, 2, got.Strength)
	require.Equal(t, 4, got.Intelligence)
	require.Equal(t, 1, got.Charisma)
	require.Equal(t, 3, got.Discipline)
	require.True(t, got.StreakProtected)
	require.NotNil(t, got.XPBoostUntil)
	require.True(t, got.XPBoostUntil.Equal(boost))
	require.Nil(t, got.CoinBoostUntil)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	users := NewUserRepo(db)
	u, err := users.GetOrCreateMain(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		u.Coins = 9999
		if err := NewUserRepo(tx).Update(ctx, u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := users.Get(ctx, MainUserKey)
	require.NoError(t, err)
	require.Equal(t, 0, got.Coins, "a failed transaction must leave no partial writes")
}

func TestQuestRepoGrantStamps(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	quests := NewQuestRepo(db)

	require.NoError(t, quests.Ensure(ctx, Quest{ID: "q_daily", Title: "Daily", Category: "daily", XPReward: 10, CoinReward: 5}))
	require.NoError(t, quests.Ensure(ctx, Quest{ID: "q_std", Title: "Standard", Category: "standard", XPReward: 10, CoinReward: 5}))

	// Ensure is insert-or-ignore: a second call must not clobber state.
	require.NoError(t, quests.MarkCompleted(ctx, "q_daily", "grant-a"))
	require.NoError(t, quests.Ensure(ctx, Quest{ID: "q_daily", Title: "Daily", Category: "daily"}))

	q, err := quests.Get(ctx, "q_daily")
	require.NoError(t, err)
	require.True(t, q.Completed)
	require.NotNil(t, q.LastGrantID)
	require.Equal(t, "grant-a", *q.LastGrantID)

	require.NoError(t, quests.MarkCompleted(ctx, "q_std", "grant-b"))

	n, err := quests.CountCompleted(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// The daily reset clears daily quests only and drops their stamps.
	require.NoError(t, quests.ResetDaily(ctx))

	q, err = quests.Get(ctx, "q_daily")
	require.NoError(t, err)
	require.False(t, q.Completed)
	require.Nil(t, q.LastGrantID)

	std, err := quests.Get(ctx, "q_std")
	require.NoError(t, err)
	require.True(t, std.Completed)
}

func TestActivityOrdering(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	activity := NewActivityRepo(db)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, activity.Append(ctx, ActivityEntry{
			ID:      string(rune('a' + i)),
			At:      base.Add(time.Duration(i) * time.Minute),
			Kind:    "quest_completed",
			XPDelta: i,
		}))
	}

	got, err := activity.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "e", got[0].ID, "newest entry first")
	require.Equal(t, "d", got[1].ID)
	require.Equal(t, "c", got[2].ID)

	all, err := activity.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5, "non-positive limit falls back to the default window")
}

func TestUpgradeCostsRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	shop := NewShopRepo(db)

	require.NoError(t, shop.EnsureUpgrade(ctx, Upgrade{
		ID: "up_test", Name: "Test", Permanent: false,
		Costs: map[string]int{"discipline": 2, "charisma": 1},
	}))

	up, err := shop.GetUpgrade(ctx, "up_test")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"discipline": 2, "charisma": 1}, up.Costs)
	require.False(t, up.Purchased)

	require.NoError(t, shop.MarkUpgradePurchased(ctx, "up_test"))
	n, err := shop.CountPurchasedUpgrades(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestInventoryLifecycle(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	shop := NewShopRepo(db)

	require.NoError(t, shop.EnsureItem(ctx, Item{ID: "it_test", Name: "Test", Price: 10, Effect: "xp_boost", DurationMins: 60}))

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := shop.AddInventory(ctx, "it_test", at)
	require.NoError(t, err)
	require.NotZero(t, id)

	entry, err := shop.GetInventoryEntry(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "it_test", entry.ItemID)
	require.Nil(t, entry.UsedAt)

	used, err := shop.CountUsedItems(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, used)

	require.NoError(t, shop.MarkInventoryUsed(ctx, id, at.Add(time.Hour)))
	entry, err = shop.GetInventoryEntry(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, entry.UsedAt)

	used, err = shop.CountUsedItems(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, used)
}

func TestWatcherDropsStaleSnapshots(t *testing.T) {
	w := NewWatcher()
	ch, cancel := w.Subscribe()
	defer cancel()

	w.Publish(Snapshot{User: &User{Coins: 1}})
	w.Publish(Snapshot{User: &User{Coins: 2}})

	snap := <-ch
	require.Equal(t, 2, snap.User.Coins, "an unread snapshot is replaced, not queued behind")

	cancel()
	_, ok := <-ch
	require.False(t, ok, "cancel closes the channel")
}
