package storage

import "time"

type User struct {
	Key            string
	Level          int
	CurrentXP      int
	TotalXP        int
	Coins          int
	CurrentStreak  int
	BestStreak     int
	LastAccess     time.Time
	CompletedToday bool

	Strength     int
	Intelligence int
	Charisma     int
	Discipline   int

	// Active effects. Boost fields are nil until a boost is first applied.
	StreakProtected bool
	XPBoostUntil    *time.Time
	CoinBoostUntil  *time.Time
}

type Quest struct {
	ID             string
	Title          string
	Category       string // "daily" or "standard"
	XPReward       int
	CoinReward     int
	AttributeBonus *string // attribute raised by +1 on completion (daily quests only)
	Completed      bool
	LastGrantID    *string
}

type MainQuest struct {
	ID        string
	Title     string
	Completed bool
}

type Step struct {
	ID          string
	MainQuestID string
	Seq         int
	Title       string
	XPReward    int
	CoinReward  int
	Completed   bool
	LastGrantID *string
}

type Item struct {
	ID           string
	Name         string
	Price        int
	Effect       string  // effect kind, dispatched by the engine
	Attribute    *string // target attribute for attribute-point items
	Magnitude    int     // points granted; meaning depends on effect
	DurationMins int     // 0 for instant effects
}

type InventoryEntry struct {
	ID         int64
	ItemID     string
	AcquiredAt time.Time
	UsedAt     *time.Time
}

type Upgrade struct {
	ID        string
	Name      string
	Costs     map[string]int // attribute name -> points (JSON column)
	Permanent bool
	Purchased bool
	Active    bool
}

type Goal struct {
	ID          string
	Kind        string // "goal" or "achievement"
	Title       string
	Metric      string
	Target      int
	Current     int
	Completed   bool
	ExpiresAt   *time.Time
	XPReward    int
	CoinReward  int
	LastGrantID *string
}

type ActivityEntry struct {
	ID        string
	At        time.Time
	Kind      string
	EntityID  string
	XPDelta   int
	CoinDelta int
	Note      string
}

// Snapshot is a full read of the rewardable state, as delivered by the
// change-notification channel.
type Snapshot struct {
	User       *User
	Quests     []Quest
	MainQuests []MainQuest
	Steps      []Step
	Goals      []Goal
	Upgrades   []Upgrade
	Inventory  []InventoryEntry
}
