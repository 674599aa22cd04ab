package engine

import (
	"context"
	"testing"
	"time"

	"habitquest/internal/storage"
)

func TestStreakMultiplier(t *testing.T) {
	cases := []struct {
		streak int
		want   float64
	}{
		{0, 1.0},
		{1, 1.1},
		{10, 2.0},
		{20, 3.0},
		{50, 3.0}, // capped
	}
	for _, c := range cases {
		if got := StreakMultiplier(c.streak); got != c.want {
			t.Fatalf("StreakMultiplier(%d)=%f, want %f", c.streak, got, c.want)
		}
	}

	prev := 0.0
	for s := 0; s <= 40; s++ {
		m := StreakMultiplier(s)
		if m < prev {
			t.Fatalf("multiplier decreased at streak %d", s)
		}
		prev = m
	}
}

func day(d int, hour int) time.Time {
	return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestAdvanceDayExtendsStreak(t *testing.T) {
	u := &storage.User{CurrentStreak: 6, BestStreak: 6, CompletedToday: true, LastAccess: day(1, 22)}

	out := AdvanceDay(u, day(2, 7))
	if out.DaysPassed != 1 || !out.StreakExtended {
		t.Fatalf("got %+v, want one-day extension", out)
	}
	if u.CurrentStreak != 7 || u.BestStreak != 7 {
		t.Fatalf("streak=%d best=%d, want both 7", u.CurrentStreak, u.BestStreak)
	}
	if out.DisciplineGained != 1 || u.Discipline != 1 {
		t.Fatalf("discipline milestone not granted at streak 7")
	}
	if u.CompletedToday {
		t.Fatalf("completedToday should reset")
	}
}

func TestAdvanceDayBreaksStreakOnIdleDay(t *testing.T) {
	u := &storage.User{CurrentStreak: 6, BestStreak: 6, CompletedToday: false, LastAccess: day(1, 22)}

	out := AdvanceDay(u, day(2, 7))
	if !out.StreakBroken || u.CurrentStreak != 0 {
		t.Fatalf("got %+v streak=%d, want broken streak", out, u.CurrentStreak)
	}
	if u.Discipline != 0 || out.DisciplineGained != 0 {
		t.Fatalf("no discipline should be granted on a break")
	}
	if u.BestStreak != 6 {
		t.Fatalf("best streak must survive a break")
	}
}

func TestAdvanceDayMultiDayGapBreaksStreak(t *testing.T) {
	// completedToday true does not save a streak across a multi-day gap
	u := &storage.User{CurrentStreak: 10, BestStreak: 10, CompletedToday: true, LastAccess: day(1, 22)}

	out := AdvanceDay(u, day(5, 7))
	if out.DaysPassed != 4 || !out.StreakBroken || u.CurrentStreak != 0 {
		t.Fatalf("got %+v streak=%d, want hard reset", out, u.CurrentStreak)
	}
}

func TestAdvanceDayStreakProtection(t *testing.T) {
	u := &storage.User{CurrentStreak: 10, BestStreak: 10, StreakProtected: true, LastAccess: day(1, 22)}

	out := AdvanceDay(u, day(5, 7))
	if !out.ProtectionUsed || out.StreakBroken {
		t.Fatalf("got %+v, want protection consumed", out)
	}
	if u.CurrentStreak != 10 {
		t.Fatalf("streak=%d, want preserved 10", u.CurrentStreak)
	}
	if u.StreakProtected {
		t.Fatalf("protection must be consumed")
	}

	// The shield covers one gap only.
	out2 := AdvanceDay(u, day(9, 7))
	if !out2.StreakBroken || u.CurrentStreak != 0 {
		t.Fatalf("second gap must break the streak")
	}
}

func TestAdvanceDaySameDayIsNoOp(t *testing.T) {
	u := &storage.User{CurrentStreak: 7, BestStreak: 7, CompletedToday: true, LastAccess: day(2, 7)}

	out := AdvanceDay(u, day(2, 23))
	if out.DaysPassed != 0 {
		t.Fatalf("daysPassed=%d, want 0", out.DaysPassed)
	}
	if u.CurrentStreak != 7 || !u.CompletedToday {
		t.Fatalf("same-day call must not transition")
	}
	// Observing an already-multiple-of-7 streak must not grant discipline.
	if u.Discipline != 0 {
		t.Fatalf("discipline granted without an incrementing transition")
	}
}

func TestRunDailyResetIdempotentPerBoundary(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()

	sess.User.CurrentStreak = 3
	sess.User.BestStreak = 3
	sess.User.CompletedToday = true
	sess.User.LastAccess = day(1, 20)
	saveUser(t, svc, sess)

	out1, err := svc.RunDailyResetIfDue(ctx, sess, day(2, 8))
	if err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if !out1.StreakExtended || sess.User.CurrentStreak != 4 {
		t.Fatalf("got %+v streak=%d, want extension to 4", out1, sess.User.CurrentStreak)
	}

	out2, err := svc.RunDailyResetIfDue(ctx, sess, day(2, 9))
	if err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if out2.DaysPassed != 0 || sess.User.CurrentStreak != 4 {
		t.Fatalf("second run on the same boundary must be a no-op, got %+v streak=%d", out2, sess.User.CurrentStreak)
	}
}

func TestRunDailyResetResetsDailyQuests(t *testing.T) {
	svc, sess := newTestService(t)
	muteGoals(t, svc)
	ctx := context.Background()

	fixedClock(svc, day(1, 10))
	sess.User.LastAccess = day(1, 9)
	saveUser(t, svc, sess)

	if _, err := svc.CompleteQuest(ctx, sess, "daily_journal"); err != nil {
		t.Fatalf("complete quest: %v", err)
	}
	q, _ := svc.QuestRepo().Get(ctx, "daily_journal")
	if !q.Completed {
		t.Fatalf("quest should be completed")
	}

	if _, err := svc.RunDailyResetIfDue(ctx, sess, day(2, 8)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	q, _ = svc.QuestRepo().Get(ctx, "daily_journal")
	if q.Completed {
		t.Fatalf("daily quest must reset at the boundary")
	}
	// Standard quests stay completed across boundaries.
	if _, err := svc.CompleteQuest(ctx, sess, "inbox_zero"); err != nil {
		t.Fatalf("complete standard quest: %v", err)
	}
	if _, err := svc.RunDailyResetIfDue(ctx, sess, day(3, 8)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	std, _ := svc.QuestRepo().Get(ctx, "inbox_zero")
	if !std.Completed {
		t.Fatalf("standard quest must not reset")
	}
}
