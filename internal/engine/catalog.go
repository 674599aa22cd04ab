package engine

import (
	"context"

	"habitquest/internal/storage"
)

// Built-in content catalog. Rows are ensured on session open; existing rows
// keep their state, so re-opening never resets progress.

func strPtr(s string) *string { return &s }

func builtinQuests() []storage.Quest {
	return []storage.Quest{
		{ID: "daily_exercise", Title: "Exercise for 30 minutes", Category: "daily", XPReward: 50, CoinReward: 20, AttributeBonus: strPtr(string(AttributeStrength))},
		{ID: "daily_reading", Title: "Read 20 pages", Category: "daily", XPReward: 50, CoinReward: 20, AttributeBonus: strPtr(string(AttributeIntelligence))},
		{ID: "daily_social", Title: "Reach out to a friend", Category: "daily", XPReward: 40, CoinReward: 15, AttributeBonus: strPtr(string(AttributeCharisma))},
		{ID: "daily_journal", Title: "Write a journal entry", Category: "daily", XPReward: 30, CoinReward: 10},
		{ID: "inbox_zero", Title: "Clear your inbox", Category: "standard", XPReward: 80, CoinReward: 30},
		{ID: "declutter_desk", Title: "Declutter your desk", Category: "standard", XPReward: 60, CoinReward: 25},
	}
}

func builtinMainQuests() ([]storage.MainQuest, []storage.Step) {
	mains := []storage.MainQuest{
		{ID: "mq_morning_routine", Title: "Build a Morning Routine"},
		{ID: "mq_learn_skill", Title: "Learn a New Skill"},
	}
	steps := []storage.Step{
		{ID: "mq_morning_routine_1", MainQuestID: "mq_morning_routine", Seq: 1, Title: "Wake up before 7am", XPReward: 40, CoinReward: 15},
		{ID: "mq_morning_routine_2", MainQuestID: "mq_morning_routine", Seq: 2, Title: "No phone for the first hour", XPReward: 40, CoinReward: 15},
		{ID: "mq_morning_routine_3", MainQuestID: "mq_morning_routine", Seq: 3, Title: "Eat a real breakfast", XPReward: 40, CoinReward: 15},
		{ID: "mq_learn_skill_1", MainQuestID: "mq_learn_skill", Seq: 1, Title: "Pick a skill and a course", XPReward: 30, CoinReward: 10},
		{ID: "mq_learn_skill_2", MainQuestID: "mq_learn_skill", Seq: 2, Title: "Finish the first lesson", XPReward: 50, CoinReward: 20},
		{ID: "mq_learn_skill_3", MainQuestID: "mq_learn_skill", Seq: 3, Title: "Practice three times", XPReward: 70, CoinReward: 30},
	}
	return mains, steps
}

func builtinItems() []storage.Item {
	return []storage.Item{
		{ID: "xp_potion", Name: "XP Potion", Price: 100, Effect: string(EffectXPBoost), DurationMins: 60},
		{ID: "coin_charm", Name: "Coin Charm", Price: 120, Effect: string(EffectCoinBoost), DurationMins: 60},
		{ID: "streak_shield", Name: "Streak Shield", Price: 200, Effect: string(EffectStreakProtection)},
		{ID: "tome_of_insight", Name: "Tome of Insight", Price: 150, Effect: string(EffectAttributePoint), Attribute: strPtr(string(AttributeIntelligence)), Magnitude: 1},
		{ID: "training_weights", Name: "Training Weights", Price: 150, Effect: string(EffectAttributePoint), Attribute: strPtr(string(AttributeStrength)), Magnitude: 1},
	}
}

func builtinUpgrades() []storage.Upgrade {
	return []storage.Upgrade{
		{ID: "iron_will", Name: "Iron Will", Permanent: true, Costs: map[string]int{string(AttributeDiscipline): 3}},
		{ID: "silver_tongue", Name: "Silver Tongue", Permanent: true, Costs: map[string]int{string(AttributeCharisma): 5}},
		{ID: "night_owl", Name: "Night Owl Mode", Permanent: false, Costs: map[string]int{string(AttributeDiscipline): 2, string(AttributeIntelligence): 2}},
	}
}

func builtinGoals() []storage.Goal {
	return []storage.Goal{
		{ID: "goal_first_quest", Kind: "achievement", Title: "First Quest", Metric: string(MetricQuestsCompleted), Target: 1, XPReward: 25, CoinReward: 10},
		{ID: "goal_ten_quests", Kind: "achievement", Title: "Getting Things Done", Metric: string(MetricQuestsCompleted), Target: 10, XPReward: 100, CoinReward: 50},
		{ID: "goal_week_streak", Kind: "achievement", Title: "One Week Strong", Metric: string(MetricCurrentStreak), Target: 7, XPReward: 150, CoinReward: 75},
		{ID: "goal_level_five", Kind: "achievement", Title: "Seasoned", Metric: string(MetricLevelReached), Target: 5, XPReward: 200, CoinReward: 100},
		{ID: "goal_saver", Kind: "goal", Title: "Saver", Metric: string(MetricCoinBalance), Target: 500, XPReward: 100, CoinReward: 0},
		{ID: "goal_collector", Kind: "goal", Title: "Collector", Metric: string(MetricUpgradesOwned), Target: 2, XPReward: 120, CoinReward: 60},
		{ID: "goal_alchemist", Kind: "goal", Title: "Alchemist", Metric: string(MetricItemsUsed), Target: 3, XPReward: 80, CoinReward: 40},
	}
}

func (s *Service) ensureCatalog(ctx context.Context) error {
	for _, q := range builtinQuests() {
		if err := s.quests.Ensure(ctx, q); err != nil {
			return err
		}
	}
	mains, steps := builtinMainQuests()
	for _, m := range mains {
		if err := s.quests.EnsureMainQuest(ctx, m); err != nil {
			return err
		}
	}
	for _, st := range steps {
		if err := s.quests.EnsureStep(ctx, st); err != nil {
			return err
		}
	}
	for _, it := range builtinItems() {
		if err := s.shop.EnsureItem(ctx, it); err != nil {
			return err
		}
	}
	for _, up := range builtinUpgrades() {
		if err := s.shop.EnsureUpgrade(ctx, up); err != nil {
			return err
		}
	}
	for _, g := range builtinGoals() {
		if err := s.goals.Ensure(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
