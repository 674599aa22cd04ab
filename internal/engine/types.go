package engine

type Attribute string

const (
	AttributeStrength     Attribute = "strength"
	AttributeIntelligence Attribute = "intelligence"
	AttributeCharisma     Attribute = "charisma"
	AttributeDiscipline   Attribute = "discipline"
)

func (a Attribute) IsValid() bool {
	switch a {
	case AttributeStrength, AttributeIntelligence, AttributeCharisma, AttributeDiscipline:
		return true
	default:
		return false
	}
}

type QuestCategory string

const (
	CategoryDaily    QuestCategory = "daily"
	CategoryStandard QuestCategory = "standard"
)

// EffectKind tags what an item does when used. Dispatch goes through the
// handler table in economy.go; adding a kind means adding a handler, not
// growing a conditional.
type EffectKind string

const (
	EffectXPBoost          EffectKind = "xp_boost"
	EffectCoinBoost        EffectKind = "coin_boost"
	EffectStreakProtection EffectKind = "streak_protection"
	EffectAttributePoint   EffectKind = "attribute_point"
)

// MetricKind tags what a goal or achievement measures. One pure evaluator
// per kind lives in progress.go.
type MetricKind string

const (
	MetricQuestsCompleted MetricKind = "quests_completed"
	MetricCurrentStreak   MetricKind = "current_streak"
	MetricCoinBalance     MetricKind = "coin_balance"
	MetricLevelReached    MetricKind = "level_reached"
	MetricTotalXP         MetricKind = "total_xp"
	MetricUpgradesOwned   MetricKind = "upgrades_owned"
	MetricItemsUsed       MetricKind = "items_used"
)

func (m MetricKind) IsValid() bool {
	switch m {
	case MetricQuestsCompleted, MetricCurrentStreak, MetricCoinBalance,
		MetricLevelReached, MetricTotalXP, MetricUpgradesOwned, MetricItemsUsed:
		return true
	default:
		return false
	}
}
