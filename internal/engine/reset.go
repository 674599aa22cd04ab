package engine

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"habitquest/internal/storage"

	"fmt"
	"time"
)

// RunDailyResetIfDue applies the day-boundary check. Given the same
// (lastAccess, completedToday, now) it always produces the same outcome;
// running it twice on one boundary is a no-op because the first run moved
// lastAccess past it.
func (s *Service) RunDailyResetIfDue(ctx context.Context, sess *Session, now time.Time) (*ResetOutcome, error) {
	u := *sess.User
	out := AdvanceDay(&u, now)

	if out.DaysPassed == 0 {
		// Only the access timestamp refreshes; no streak transition.
		if err := s.users.Update(ctx, &u); err != nil {
			return nil, err
		}
		*sess.User = u
		return &out, nil
	}

	note := fmt.Sprintf("streak %d -> %d", out.StreakBefore, out.StreakAfter)
	if out.ProtectionUsed {
		note += " (protected)"
	}
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := storage.NewQuestRepo(tx).ResetDaily(ctx); err != nil {
			return err
		}
		if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
			return err
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:       uuid.NewString(),
			At:       now,
			Kind:     "daily_reset",
			EntityID: storage.MainUserKey,
			Note:     note,
		})
	})
	if err != nil {
		return nil, err
	}
	*sess.User = u

	// A streak change can complete streak-metric goals.
	if _, err := s.evaluateProgress(ctx, sess, now); err != nil {
		return nil, err
	}
	return &out, nil
}
