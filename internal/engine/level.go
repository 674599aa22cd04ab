package engine

import "math"

// LevelCurveCoef is the constant in the curve: next = 100 * level^1.5.
const LevelCurveCoef = 100.0

// XPForNextLevel returns the XP needed to go from the given level to the
// next one. Strictly increasing in level.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(LevelCurveCoef * math.Pow(float64(level), 1.5)))
}

// EffectiveXPForNextLevel shrinks the threshold by the strength reduction.
// With strength 0 it equals XPForNextLevel.
func EffectiveXPForNextLevel(level, strength int) int {
	th := XPForNextLevel(level)
	return th * (100 - StrengthXPReduction(strength)) / 100
}

// LevelProgressPercent reports how far into the current level the XP is.
func LevelProgressPercent(currentXP, level int) float64 {
	th := XPForNextLevel(level)
	if th <= 0 {
		return 0
	}
	return float64(currentXP) / float64(th) * 100
}

type LevelResult struct {
	Level     int
	CurrentXP int
	LeveledUp bool
}

// ApplyXP carries gained XP across as many level boundaries as it covers.
// On return 0 <= CurrentXP < EffectiveXPForNextLevel(Level, strength).
func ApplyXP(level, currentXP, gainedXP, strength int) LevelResult {
	if level < 1 {
		level = 1
	}
	pool := currentXP + gainedXP
	leveledUp := false
	for pool >= EffectiveXPForNextLevel(level, strength) {
		pool -= EffectiveXPForNextLevel(level, strength)
		level++
		leveledUp = true
	}
	return LevelResult{Level: level, CurrentXP: pool, LeveledUp: leveledUp}
}
