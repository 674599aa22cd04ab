package engine

import (
	"context"
	"database/sql"
	"time"

	"habitquest/internal/storage"
)

type Service struct {
	db       *sql.DB
	users    *storage.UserRepo
	quests   *storage.QuestRepo
	shop     *storage.ShopRepo
	goals    *storage.GoalRepo
	activity *storage.ActivityRepo
	watcher  *storage.Watcher

	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:       db,
		users:    storage.NewUserRepo(db),
		quests:   storage.NewQuestRepo(db),
		shop:     storage.NewShopRepo(db),
		goals:    storage.NewGoalRepo(db),
		activity: storage.NewActivityRepo(db),
		watcher:  storage.NewWatcher(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) UserRepo() *storage.UserRepo         { return s.users }
func (s *Service) QuestRepo() *storage.QuestRepo       { return s.quests }
func (s *Service) ShopRepo() *storage.ShopRepo         { return s.shop }
func (s *Service) GoalRepo() *storage.GoalRepo         { return s.goals }
func (s *Service) ActivityRepo() *storage.ActivityRepo { return s.activity }
func (s *Service) Watcher() *storage.Watcher           { return s.watcher }

// OpenSession loads (or creates) the user aggregate and makes sure the
// built-in catalog rows exist. The returned session is caller-owned and is
// passed into every mutating operation; the engine keeps no global state.
func (s *Service) OpenSession(ctx context.Context) (*Session, error) {
	if err := s.ensureCatalog(ctx); err != nil {
		return nil, err
	}
	u, err := s.users.GetOrCreateMain(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{User: u}, nil
}

// Activity returns the most recent activity log entries.
func (s *Service) Activity(ctx context.Context, limit int) ([]storage.ActivityEntry, error) {
	return s.activity.ListRecent(ctx, limit)
}

// PublishSnapshot reads current state and pushes it to watchers. A remote
// backend would call this from its change feed.
func (s *Service) PublishSnapshot(ctx context.Context) error {
	snap, err := storage.ReadSnapshot(ctx, s.db)
	if err != nil {
		return err
	}
	s.watcher.Publish(*snap)
	return nil
}
