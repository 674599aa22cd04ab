package engine

import (
	"time"

	"habitquest/internal/storage"
)

const (
	// StreakMultiplierCap bounds the reward scaling at 3x.
	StreakMultiplierCap = 3.0

	// DisciplineMilestone is the streak length granting +1 discipline on
	// the incrementing transition.
	DisciplineMilestone = 7
)

// StreakMultiplier scales every XP/coin reward at grant time. It is derived,
// never stored.
func StreakMultiplier(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	m := 1 + 0.1*float64(streak)
	if m > StreakMultiplierCap {
		return StreakMultiplierCap
	}
	return m
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysPassed counts whole day boundaries crossed between last and now,
// measured in now's location.
func DaysPassed(last, now time.Time) int {
	return int(midnight(now).Sub(midnight(last.In(now.Location()))).Hours() / 24)
}

type ResetOutcome struct {
	DaysPassed       int
	StreakBefore     int
	StreakAfter      int
	StreakExtended   bool
	StreakBroken     bool
	ProtectionUsed   bool
	DisciplineGained int
	DailyQuestsReset bool
}

// AdvanceDay applies the day-boundary state machine to the aggregate.
// Calling it again for the same boundary sees DaysPassed == 0 and changes
// nothing but LastAccess, which makes the check idempotent per crossing.
func AdvanceDay(u *storage.User, now time.Time) ResetOutcome {
	out := ResetOutcome{
		DaysPassed:   DaysPassed(u.LastAccess, now),
		StreakBefore: u.CurrentStreak,
		StreakAfter:  u.CurrentStreak,
	}

	if out.DaysPassed == 0 {
		u.LastAccess = now
		return out
	}

	switch {
	case out.DaysPassed == 1 && u.CompletedToday:
		u.CurrentStreak++
		out.StreakExtended = true
		if u.CurrentStreak > u.BestStreak {
			u.BestStreak = u.CurrentStreak
		}
		// Granted exactly on the increment, never by re-observing an
		// already-multiple-of-7 streak.
		if u.CurrentStreak%DisciplineMilestone == 0 {
			u.Discipline++
			out.DisciplineGained = 1
		}
	case out.DaysPassed == 1:
		u.CurrentStreak = 0
		out.StreakBroken = out.StreakBefore > 0
	default: // more than one boundary missed
		if u.StreakProtected {
			u.StreakProtected = false
			out.ProtectionUsed = true
		} else {
			u.CurrentStreak = 0
			out.StreakBroken = out.StreakBefore > 0
		}
	}

	u.CompletedToday = false
	u.LastAccess = now
	out.StreakAfter = u.CurrentStreak
	out.DailyQuestsReset = true
	return out
}
