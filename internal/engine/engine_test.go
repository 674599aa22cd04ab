package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"habitquest/internal/storage"
)

func newTestService(t *testing.T) (*Service, *Session) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db)
	sess, err := svc.OpenSession(ctx)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return svc, sess
}

func saveUser(t *testing.T, svc *Service, sess *Session) {
	t.Helper()
	if err := svc.UserRepo().Update(context.Background(), sess.User); err != nil {
		t.Fatalf("update user: %v", err)
	}
}

func addQuest(t *testing.T, svc *Service, q storage.Quest) {
	t.Helper()
	if q.Category == "" {
		q.Category = "standard"
	}
	if err := svc.QuestRepo().Ensure(context.Background(), q); err != nil {
		t.Fatalf("ensure quest: %v", err)
	}
}

// muteGoals completes every seeded goal so the evaluator cannot interfere
// with reward-math assertions.
func muteGoals(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	goals, err := svc.GoalRepo().ListAll(ctx)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	for _, g := range goals {
		if err := svc.GoalRepo().SetCompleted(ctx, g.ID, g.Current, true, nil); err != nil {
			t.Fatalf("mute goal %s: %v", g.ID, err)
		}
	}
}

func fixedClock(svc *Service, at time.Time) {
	svc.now = func() time.Time { return at }
}
