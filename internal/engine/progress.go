package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"habitquest/internal/storage"
)

// MetricInputs is everything a metric evaluator may look at. Gathering it
// once per evaluation pass keeps the evaluators pure.
type MetricInputs struct {
	User            *storage.User
	QuestsCompleted int
	UpgradesOwned   int
	ItemsUsed       int
}

// EvaluateMetric computes the raw current value for a metric kind. Clamping
// to [0, target] is the caller's job.
func EvaluateMetric(kind MetricKind, in MetricInputs) int {
	switch kind {
	case MetricQuestsCompleted:
		return in.QuestsCompleted
	case MetricCurrentStreak:
		return in.User.CurrentStreak
	case MetricCoinBalance:
		return in.User.Coins
	case MetricLevelReached:
		return in.User.Level
	case MetricTotalXP:
		return in.User.TotalXP
	case MetricUpgradesOwned:
		return in.UpgradesOwned
	case MetricItemsUsed:
		return in.ItemsUsed
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Service) gatherMetricInputs(ctx context.Context, sess *Session) (MetricInputs, error) {
	questsDone, err := s.quests.CountCompleted(ctx)
	if err != nil {
		return MetricInputs{}, err
	}
	upgradesOwned, err := s.shop.CountPurchasedUpgrades(ctx)
	if err != nil {
		return MetricInputs{}, err
	}
	itemsUsed, err := s.shop.CountUsedItems(ctx)
	if err != nil {
		return MetricInputs{}, err
	}
	return MetricInputs{
		User:            sess.User,
		QuestsCompleted: questsDone,
		UpgradesOwned:   upgradesOwned,
		ItemsUsed:       itemsUsed,
	}, nil
}

// evaluateProgress recomputes every open, unexpired goal and achievement
// and fires the false->true transition exactly once per entity, granting
// its reward. A granted reward can move other metrics (coins, level), so
// the pass loops to a fixpoint; the one-way flags bound the loop.
func (s *Service) evaluateProgress(ctx context.Context, sess *Session, now time.Time) ([]storage.Goal, error) {
	var completed []storage.Goal

	for {
		open, err := s.goals.ListOpen(ctx)
		if err != nil {
			return nil, err
		}
		in, err := s.gatherMetricInputs(ctx, sess)
		if err != nil {
			return nil, err
		}

		fired := false
		for _, g := range open {
			if g.ExpiresAt != nil && now.After(*g.ExpiresAt) {
				continue
			}
			current := clamp(EvaluateMetric(MetricKind(g.Metric), in), 0, g.Target)
			if current < g.Target {
				if current != g.Current {
					if err := s.goals.UpdateProgress(ctx, g.ID, current); err != nil {
						return nil, err
					}
				}
				continue
			}

			if err := s.grantGoalReward(ctx, sess, &g, current, now); err != nil {
				return nil, err
			}
			g.Current = current
			g.Completed = true
			completed = append(completed, g)
			fired = true
		}
		if !fired {
			return completed, nil
		}
	}
}

// grantGoalReward completes the goal and pays its reward in one transaction.
// The streak multiplier and timed boosts apply; the intelligence bonus does
// not (it qualifies quest XP only).
func (s *Service) grantGoalReward(ctx context.Context, sess *Session, g *storage.Goal, current int, now time.Time) error {
	grantID := uuid.NewString()
	u := *sess.User

	mult := StreakMultiplier(u.CurrentStreak)
	xp := int(float64(g.XPReward) * mult)
	coins := int(float64(g.CoinReward) * mult)
	if u.XPBoostUntil != nil && now.Before(*u.XPBoostUntil) {
		xp *= 2
	}
	if u.CoinBoostUntil != nil && now.Before(*u.CoinBoostUntil) {
		coins *= 2
	}
	applyXPGain(&u, xp, coins)

	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := storage.NewGoalRepo(tx).MarkCompleted(ctx, g.ID, current, grantID); err != nil {
			return err
		}
		if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
			return err
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:        grantID,
			At:        now,
			Kind:      g.Kind + "_completed",
			EntityID:  g.ID,
			XPDelta:   xp,
			CoinDelta: coins,
			Note:      g.Title,
		})
	})
	if err != nil {
		return err
	}
	*sess.User = u
	return nil
}

// EvaluateProgress re-runs the evaluator outside of any reward flow, e.g.
// after a merge or for display refresh.
func (s *Service) EvaluateProgress(ctx context.Context, sess *Session) ([]storage.Goal, error) {
	return s.evaluateProgress(ctx, sess, s.now())
}
