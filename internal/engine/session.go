package engine

import "habitquest/internal/storage"

// Session is the caller-owned handle on the user aggregate. Mutating
// operations work on a copy and swap it in only after the persistence write
// commits, so a failed write leaves both sides unchanged. The caller must
// serialize operations on one session; the engine provides no cross-action
// locking.
type Session struct {
	User *storage.User
}

type LevelProgress struct {
	Level       int
	CurrentXP   int
	NextLevelXP int
	Percent     float64
}

func (s *Session) LevelProgress() LevelProgress {
	return LevelProgress{
		Level:       s.User.Level,
		CurrentXP:   s.User.CurrentXP,
		NextLevelXP: EffectiveXPForNextLevel(s.User.Level, s.User.Strength),
		Percent:     LevelProgressPercent(s.User.CurrentXP, s.User.Level),
	}
}

func (s *Session) StreakMultiplier() float64 {
	return StreakMultiplier(s.User.CurrentStreak)
}

func (s *Session) Modifiers() Modifiers {
	return ModifiersFor(s.User)
}
