package root

import (
	"context"
	"database/sql"
	"time"

	"habitquest/internal/engine"
	"habitquest/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openSession opens the service and session and runs the day-boundary check
// so every command sees up-to-date streak state.
func openSession(ctx context.Context) (*engine.Service, *engine.Session, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	svc := engine.NewService(db)
	sess, err := svc.OpenSession(ctx)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if _, err := svc.RunDailyResetIfDue(ctx, sess, time.Now().UTC()); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return svc, sess, cleanup, nil
}
