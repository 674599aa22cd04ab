package engine

import "habitquest/internal/storage"

// Attribute modifiers are pure, capped lookups. Discipline has no modifier;
// it accrues from streak milestones and is spent as upgrade currency.

// StrengthXPReduction returns the percentage by which strength shrinks the
// level-up threshold, capped at 25.
func StrengthXPReduction(strength int) int {
	if strength < 0 {
		return 0
	}
	if strength > 25 {
		return 25
	}
	return strength
}

// IntelligenceXPBonus returns the percentage added to quest XP, capped at 50.
func IntelligenceXPBonus(intelligence int) int {
	if intelligence < 0 {
		return 0
	}
	b := intelligence * 2
	if b > 50 {
		return 50
	}
	return b
}

// CharismaDiscount returns the shop discount percentage, capped at 20.
func CharismaDiscount(charisma int) int {
	if charisma < 0 {
		return 0
	}
	if charisma > 20 {
		return 20
	}
	return charisma
}

// DiscountedPrice applies the charisma discount: floor(price * (1 - d/100)).
func DiscountedPrice(price, charisma int) int {
	return price * (100 - CharismaDiscount(charisma)) / 100
}

type Modifiers struct {
	StrengthXPReduction int
	IntelligenceXPBonus int
	CharismaDiscount    int
}

func ModifiersFor(u *storage.User) Modifiers {
	return Modifiers{
		StrengthXPReduction: StrengthXPReduction(u.Strength),
		IntelligenceXPBonus: IntelligenceXPBonus(u.Intelligence),
		CharismaDiscount:    CharismaDiscount(u.Charisma),
	}
}
