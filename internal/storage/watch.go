package storage

import (
	"context"
	"database/sql"
	"sync"
)

// Watcher is the subscription side of the persistence port: an in-process
// fan-out that delivers refreshed snapshots to subscribers. A networked
// backend would publish here from its change feed.
type Watcher struct {
	mu   sync.Mutex
	subs []chan Snapshot
}

func NewWatcher() *Watcher {
	return &Watcher{}
}

// Subscribe registers a listener. The returned cancel func must be called to
// release the channel.
func (w *Watcher) Subscribe() (<-chan Snapshot, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan Snapshot, 1)
	w.subs = append(w.subs, ch)

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for i, sub := range w.subs {
			if sub == ch {
				w.subs = append(w.subs[:i], w.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber. Slow subscribers drop the
// stale snapshot in favor of the new one rather than blocking the publisher.
func (w *Watcher) Publish(snap Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// ReadSnapshot assembles the full rewardable state in one read.
func ReadSnapshot(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	users := NewUserRepo(db)
	quests := NewQuestRepo(db)
	shop := NewShopRepo(db)
	goals := NewGoalRepo(db)

	u, err := users.Get(ctx, MainUserKey)
	if err != nil {
		return nil, err
	}
	qs, err := quests.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	mqs, err := quests.ListMainQuests(ctx)
	if err != nil {
		return nil, err
	}
	steps, err := quests.ListAllSteps(ctx)
	if err != nil {
		return nil, err
	}
	gs, err := goals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ups, err := shop.ListUpgrades(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := shop.ListInventory(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		User:       u,
		Quests:     qs,
		MainQuests: mqs,
		Steps:      steps,
		Goals:      gs,
		Upgrades:   ups,
		Inventory:  inv,
	}, nil
}
