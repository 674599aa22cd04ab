package engine

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"

	"habitquest/internal/storage"
)

type RewardResult struct {
	GrantID            string
	XPAwarded          int
	CoinsAwarded       int
	LevelBefore        int
	LevelAfter         int
	LeveledUp          bool
	AttributeRaised    *Attribute
	MainQuestCompleted bool
	CompletedGoals     []storage.Goal
}

// effectiveReward turns a base reward into the granted amounts: streak
// multiplier on both components, intelligence bonus on XP, then any timed
// boost effects.
func effectiveReward(u *storage.User, baseXP, baseCoins int, now time.Time) (xp, coins int) {
	mult := StreakMultiplier(u.CurrentStreak)
	xp = int(math.Floor(float64(baseXP) * mult))
	coins = int(math.Floor(float64(baseCoins) * mult))

	xp = xp * (100 + IntelligenceXPBonus(u.Intelligence)) / 100

	if u.XPBoostUntil != nil && now.Before(*u.XPBoostUntil) {
		xp *= 2
	}
	if u.CoinBoostUntil != nil && now.Before(*u.CoinBoostUntil) {
		coins *= 2
	}
	return xp, coins
}

func raiseAttribute(u *storage.User, attr Attribute, points int) {
	switch attr {
	case AttributeStrength:
		u.Strength += points
	case AttributeIntelligence:
		u.Intelligence += points
	case AttributeCharisma:
		u.Charisma += points
	case AttributeDiscipline:
		u.Discipline += points
	}
}

// applyXPGain folds gained XP into the copy of the aggregate.
func applyXPGain(u *storage.User, xp, coins int) LevelResult {
	res := ApplyXP(u.Level, u.CurrentXP, xp, u.Strength)
	u.Level = res.Level
	u.CurrentXP = res.CurrentXP
	u.TotalXP += xp
	u.Coins += coins
	return res
}

// CompleteQuest grants the reward for a quest exactly once. A second call
// for the same cycle is rejected before any mutation.
func (s *Service) CompleteQuest(ctx context.Context, sess *Session, id string) (*RewardResult, error) {
	q, err := s.quests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NotFoundError{Entity: "quest", ID: id}
	}
	if q.Completed {
		return nil, AlreadyCompletedError{Entity: "quest", ID: id}
	}

	now := s.now()
	grantID := uuid.NewString()
	u := *sess.User

	xp, coins := effectiveReward(&u, q.XPReward, q.CoinReward, now)

	var raised *Attribute
	if q.AttributeBonus != nil && q.Category == string(CategoryDaily) {
		attr := Attribute(*q.AttributeBonus)
		if attr.IsValid() {
			raiseAttribute(&u, attr, 1)
			raised = &attr
		}
	}

	levelBefore := u.Level
	res := applyXPGain(&u, xp, coins)
	u.CompletedToday = true

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := storage.NewQuestRepo(tx).MarkCompleted(ctx, id, grantID); err != nil {
			return err
		}
		if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
			return err
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:        grantID,
			At:        now,
			Kind:      "quest_completed",
			EntityID:  id,
			XPDelta:   xp,
			CoinDelta: coins,
			Note:      q.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	*sess.User = u

	goals, err := s.evaluateProgress(ctx, sess, now)
	if err != nil {
		return nil, err
	}

	return &RewardResult{
		GrantID:         grantID,
		XPAwarded:       xp,
		CoinsAwarded:    coins,
		LevelBefore:     levelBefore,
		LevelAfter:      sess.User.Level,
		LeveledUp:       res.LeveledUp || sess.User.Level > levelBefore,
		AttributeRaised: raised,
		CompletedGoals:  goals,
	}, nil
}

// CompleteStep grants the per-step reward; when the last open step of a main
// quest completes, the parent's completed flag derives to true. The parent
// carries no reward of its own.
func (s *Service) CompleteStep(ctx context.Context, sess *Session, mainQuestID, stepID string) (*RewardResult, error) {
	mq, err := s.quests.GetMainQuest(ctx, mainQuestID)
	if err != nil {
		return nil, err
	}
	if mq == nil {
		return nil, NotFoundError{Entity: "main quest", ID: mainQuestID}
	}

	step, err := s.quests.GetStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil || step.MainQuestID != mainQuestID {
		return nil, NotFoundError{Entity: "step", ID: stepID}
	}
	if step.Completed {
		return nil, AlreadyCompletedError{Entity: "step", ID: stepID}
	}

	steps, err := s.quests.ListSteps(ctx, mainQuestID)
	if err != nil {
		return nil, err
	}
	lastOpen := true
	for _, st := range steps {
		if st.ID != stepID && !st.Completed {
			lastOpen = false
			break
		}
	}

	now := s.now()
	grantID := uuid.NewString()
	u := *sess.User

	xp, coins := effectiveReward(&u, step.XPReward, step.CoinReward, now)
	levelBefore := u.Level
	res := applyXPGain(&u, xp, coins)
	u.CompletedToday = true

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qr := storage.NewQuestRepo(tx)
		if err := qr.MarkStepCompleted(ctx, stepID, grantID); err != nil {
			return err
		}
		if lastOpen {
			if err := qr.SetMainQuestCompleted(ctx, mainQuestID, true); err != nil {
				return err
			}
		}
		if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
			return err
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:        grantID,
			At:        now,
			Kind:      "step_completed",
			EntityID:  stepID,
			XPDelta:   xp,
			CoinDelta: coins,
			Note:      step.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	*sess.User = u

	goals, err := s.evaluateProgress(ctx, sess, now)
	if err != nil {
		return nil, err
	}

	return &RewardResult{
		GrantID:            grantID,
		XPAwarded:          xp,
		CoinsAwarded:       coins,
		LevelBefore:        levelBefore,
		LevelAfter:         sess.User.Level,
		LeveledUp:          res.LeveledUp || sess.User.Level > levelBefore,
		MainQuestCompleted: lastOpen,
		CompletedGoals:     goals,
	}, nil
}
