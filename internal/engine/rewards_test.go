package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"habitquest/internal/storage"
)

func TestCompleteQuestBaseReward(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()
	fixedClock(svc, day(1, 10))

	res, err := svc.CompleteQuest(ctx, sess, "daily_journal")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPAwarded != 30 || res.CoinsAwarded != 10 {
		t.Fatalf("awarded %d/%d, want 30/10 at multiplier 1.0", res.XPAwarded, res.CoinsAwarded)
	}
	if sess.User.Level != 1 || sess.User.CurrentXP != 30 || sess.User.Coins != 10 {
		t.Fatalf("aggregate level=%d xp=%d coins=%d, want 1/30/10",
			sess.User.Level, sess.User.CurrentXP, sess.User.Coins)
	}
	if sess.User.TotalXP != 30 {
		t.Fatalf("totalXP=%d, want 30", sess.User.TotalXP)
	}
	if !sess.User.CompletedToday {
		t.Fatalf("completedToday must flip on the first completion of the day")
	}
}

func TestCompleteQuestStreakMultiplier(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()
	fixedClock(svc, day(1, 10))

	addQuest(t, svc, storage.Quest{ID: "gym_session", Title: "Gym session", XPReward: 50, CoinReward: 20})
	sess.User.CurrentStreak = 10
	saveUser(t, svc, sess)

	res, err := svc.CompleteQuest(ctx, sess, "gym_session")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	// streak 10 doubles both components; 100 XP crosses the level-1 threshold
	if res.XPAwarded != 100 || res.CoinsAwarded != 40 {
		t.Fatalf("awarded %d/%d, want 100/40", res.XPAwarded, res.CoinsAwarded)
	}
	if !res.LeveledUp || res.LevelAfter != 2 || sess.User.CurrentXP != 0 {
		t.Fatalf("level=%d xp=%d leveledUp=%v, want 2/0/true",
			res.LevelAfter, sess.User.CurrentXP, res.LeveledUp)
	}
}

func TestCompleteQuestIntelligenceBonus(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()
	fixedClock(svc, day(1, 10))

	addQuest(t, svc, storage.Quest{ID: "write_essay", Title: "Write an essay", XPReward: 50, CoinReward: 20})
	sess.User.Intelligence = 5 // +10% XP
	saveUser(t, svc, sess)

	res, err := svc.CompleteQuest(ctx, sess, "write_essay")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPAwarded != 55 {
		t.Fatalf("xp=%d, want 55 (50 + 10%% intelligence bonus)", res.XPAwarded)
	}
	if res.CoinsAwarded != 20 {
		t.Fatalf("coins=%d, want 20 (intelligence never touches coins)", res.CoinsAwarded)
	}
}

func TestCompleteQuestTimedBoosts(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()
	now := day(1, 10)
	fixedClock(svc, now)

	addQuest(t, svc, storage.Quest{ID: "boosted", Title: "Boosted", XPReward: 50, CoinReward: 20})
	until := now.Add(30 * time.Minute)
	sess.User.XPBoostUntil = &until
	sess.User.CoinBoostUntil = &until
	saveUser(t, svc, sess)

	res, err := svc.CompleteQuest(ctx, sess, "boosted")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPAwarded != 100 || res.CoinsAwarded != 40 {
		t.Fatalf("awarded %d/%d, want doubled 100/40", res.XPAwarded, res.CoinsAwarded)
	}

	// An expired boost changes nothing.
	addQuest(t, svc, storage.Quest{ID: "plain", Title: "Plain", XPReward: 50, CoinReward: 20})
	fixedClock(svc, now.Add(2*time.Hour))
	res2, err := svc.CompleteQuest(ctx, sess, "plain")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res2.XPAwarded != 50 || res2.CoinsAwarded != 20 {
		t.Fatalf("awarded %d/%d after expiry, want 50/20", res2.XPAwarded, res2.CoinsAwarded)
	}
}

func TestCompleteQuestDailyAttributeBonus(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()
	fixedClock(svc, day(1, 10))

	res, err := svc.CompleteQuest(ctx, sess, "daily_exercise")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.AttributeRaised == nil || *res.AttributeRaised != AttributeStrength {
		t.Fatalf("daily_exercise must raise strength, got %v", res.AttributeRaised)
	}
	if sess.User.Strength != 1 {
		t.Fatalf("strength=%d, want 1", sess.User.Strength)
	}

	// The bonus is a daily-category privilege even when a standard quest
	// carries the field.
	addQuest(t, svc, storage.Quest{
		ID: "odd_one", Title: "Odd one", Category: "standard",
		XPReward: 10, CoinReward: 5, AttributeBonus: strPtr("charisma"),
	})
	res2, err := svc.CompleteQuest(ctx, sess, "odd_one")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res2.AttributeRaised != nil || sess.User.Charisma != 0 {
		t.Fatalf("standard quest must not grant an attribute point")
	}
}

func TestCompleteQuestRejectsDoubleCompletion(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()
	fixedClock(svc, day(1, 10))

	if _, err := svc.CompleteQuest(ctx, sess, "daily_journal"); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	xp, coins := sess.User.CurrentXP, sess.User.Coins

	_, err := svc.CompleteQuest(ctx, sess, "daily_journal")
	var dup AlreadyCompletedError
	if !errors.As(err, &dup) {
		t.Fatalf("second completion: got %v, want AlreadyCompletedError", err)
	}
	if sess.User.CurrentXP != xp || sess.User.Coins != coins {
		t.Fatalf("rejection must leave the aggregate untouched")
	}

	entries, err := svc.Activity(ctx, 50)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	grants := 0
	for _, e := range entries {
		if e.Kind == "quest_completed" && e.EntityID == "daily_journal" {
			grants++
		}
	}
	if grants != 1 {
		t.Fatalf("found %d grant entries, want exactly 1", grants)
	}
}

func TestCompleteQuestUnknownID(t *testing.T) {
	svc, sess := newTestService(t)
	ctx := context.Background()

	_, err := svc.CompleteQuest(ctx, sess, "no_such_quest")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}

func TestCompleteStepDerivesMainQuestCompletion(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()
	fixedClock(svc, day(1, 10))

	for i, stepID := range []string{"mq_morning_routine_1", "mq_morning_routine_2", "mq_morning_routine_3"} {
		res, err := svc.CompleteStep(ctx, sess, "mq_morning_routine", stepID)
		if err != nil {
			t.Fatalf("step %s: %v", stepID, err)
		}
		wantDone := i == 2
		if res.MainQuestCompleted != wantDone {
			t.Fatalf("step %s: mainQuestCompleted=%v, want %v", stepID, res.MainQuestCompleted, wantDone)
		}
		if res.XPAwarded != 40 || res.CoinsAwarded != 15 {
			t.Fatalf("step %s: awarded %d/%d, want 40/15", stepID, res.XPAwarded, res.CoinsAwarded)
		}
	}

	mq, err := svc.QuestRepo().GetMainQuest(ctx, "mq_morning_routine")
	if err != nil {
		t.Fatalf("get main quest: %v", err)
	}
	if !mq.Completed {
		t.Fatalf("main quest must derive completed from its steps")
	}
	// The parent row carries no reward of its own: 3 steps of 40 XP, and
	// 120 XP crosses the level-1 threshold once.
	if sess.User.Level != 2 || sess.User.CurrentXP != 20 || sess.User.Coins != 45 {
		t.Fatalf("aggregate level=%d xp=%d coins=%d, want 2/20/45",
			sess.User.Level, sess.User.CurrentXP, sess.User.Coins)
	}

	_, err = svc.CompleteStep(ctx, sess, "mq_morning_routine", "mq_morning_routine_1")
	var dup AlreadyCompletedError
	if !errors.As(err, &dup) {
		t.Fatalf("re-completing a step: got %v, want AlreadyCompletedError", err)
	}
}

func TestCompleteStepWrongParent(t *testing.T) {
	svc, sess := newTestService(t)
	ctx := context.Background()

	_, err := svc.CompleteStep(ctx, sess, "mq_learn_skill", "mq_morning_routine_1")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError for a step under another parent", err)
	}
}
