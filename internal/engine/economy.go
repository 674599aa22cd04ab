package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"habitquest/internal/storage"
)

type PurchaseResult struct {
	ID         string
	FinalPrice int
	Discount   int
	EntryID    int64 // inventory row for item purchases
}

type UseResult struct {
	EntryID         int64
	Effect          EffectKind
	AttributeRaised *Attribute
	CompletedGoals  []storage.Goal
}

// effectHandlers dispatches item use by effect kind. New kinds register a
// handler here instead of growing a conditional in UseItem.
var effectHandlers = map[EffectKind]func(u *storage.User, item *storage.Item, now time.Time) *Attribute{
	EffectXPBoost: func(u *storage.User, item *storage.Item, now time.Time) *Attribute {
		until := now.Add(time.Duration(item.DurationMins) * time.Minute)
		u.XPBoostUntil = &until
		return nil
	},
	EffectCoinBoost: func(u *storage.User, item *storage.Item, now time.Time) *Attribute {
		until := now.Add(time.Duration(item.DurationMins) * time.Minute)
		u.CoinBoostUntil = &until
		return nil
	},
	EffectStreakProtection: func(u *storage.User, item *storage.Item, now time.Time) *Attribute {
		u.StreakProtected = true
		return nil
	},
	EffectAttributePoint: func(u *storage.User, item *storage.Item, now time.Time) *Attribute {
		if item.Attribute == nil {
			return nil
		}
		attr := Attribute(*item.Attribute)
		if !attr.IsValid() {
			return nil
		}
		points := item.Magnitude
		if points <= 0 {
			points = 1
		}
		raiseAttribute(u, attr, points)
		return &attr
	},
}

// PurchaseUpgrade deducts every listed attribute cost atomically. Any
// shortfall rejects the whole purchase with no mutation.
func (s *Service) PurchaseUpgrade(ctx context.Context, sess *Session, id string) (*PurchaseResult, error) {
	up, err := s.shop.GetUpgrade(ctx, id)
	if err != nil {
		return nil, err
	}
	if up == nil {
		return nil, NotFoundError{Entity: "upgrade", ID: id}
	}
	if up.Purchased {
		return nil, AlreadyPurchasedError{ID: id}
	}

	u := *sess.User

	// Deterministic check order so the reported shortfall is stable.
	attrs := make([]string, 0, len(up.Costs))
	for a := range up.Costs {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)

	for _, a := range attrs {
		attr := Attribute(a)
		if !attr.IsValid() {
			return nil, fmt.Errorf("upgrade %s has unknown cost attribute %q", id, a)
		}
		have := attributeValue(&u, attr)
		if have < up.Costs[a] {
			return nil, InsufficientAttributeError{Attribute: attr, Need: up.Costs[a], Have: have}
		}
	}
	for _, a := range attrs {
		raiseAttribute(&u, Attribute(a), -up.Costs[a])
	}

	now := s.now()
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := storage.NewShopRepo(tx).MarkUpgradePurchased(ctx, id); err != nil {
			return err
		}
		if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
			return err
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:       uuid.NewString(),
			At:       now,
			Kind:     "upgrade_purchased",
			EntityID: id,
			Note:     up.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	*sess.User = u

	if _, err := s.evaluateProgress(ctx, sess, now); err != nil {
		return nil, err
	}
	return &PurchaseResult{ID: id}, nil
}

// ToggleUpgrade flips the active flag of a purchased, non-permanent upgrade.
func (s *Service) ToggleUpgrade(ctx context.Context, sess *Session, id string, active bool) error {
	up, err := s.shop.GetUpgrade(ctx, id)
	if err != nil {
		return err
	}
	if up == nil {
		return NotFoundError{Entity: "upgrade", ID: id}
	}
	if !up.Purchased {
		return fmt.Errorf("upgrade %s is not purchased", id)
	}
	if up.Permanent {
		return fmt.Errorf("upgrade %s is permanent and cannot be toggled", id)
	}
	return s.shop.SetUpgradeActive(ctx, id, active)
}

// PurchaseItem charges the charisma-discounted price and adds the item to
// the inventory with an acquisition timestamp.
func (s *Service) PurchaseItem(ctx context.Context, sess *Session, id string) (*PurchaseResult, error) {
	item, err := s.shop.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFoundError{Entity: "item", ID: id}
	}

	u := *sess.User
	discount := CharismaDiscount(u.Charisma)
	finalPrice := DiscountedPrice(item.Price, u.Charisma)
	if u.Coins < finalPrice {
		return nil, InsufficientCoinsError{Need: finalPrice, Have: u.Coins}
	}
	u.Coins -= finalPrice

	now := s.now()
	var entryID int64
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		shop := storage.NewShopRepo(tx)
		eid, err := shop.AddInventory(ctx, id, now)
		if err != nil {
			return err
		}
		entryID = eid
		if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
			return err
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:        uuid.NewString(),
			At:        now,
			Kind:      "item_purchased",
			EntityID:  id,
			CoinDelta: -finalPrice,
			Note:      item.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	*sess.User = u

	if _, err := s.evaluateProgress(ctx, sess, now); err != nil {
		return nil, err
	}
	return &PurchaseResult{ID: id, FinalPrice: finalPrice, Discount: discount, EntryID: entryID}, nil
}

// UseItem marks the inventory entry used and applies its effect through the
// handler table. A used entry is rejected before any mutation.
func (s *Service) UseItem(ctx context.Context, sess *Session, entryID int64) (*UseResult, error) {
	entry, err := s.shop.GetInventoryEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, NotFoundError{Entity: "inventory item", ID: fmt.Sprintf("#%d", entryID)}
	}
	if entry.UsedAt != nil {
		return nil, AlreadyUsedError{EntryID: entryID}
	}

	item, err := s.shop.GetItem(ctx, entry.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFoundError{Entity: "item", ID: entry.ItemID}
	}

	handler, ok := effectHandlers[EffectKind(item.Effect)]
	if !ok {
		return nil, fmt.Errorf("item %s has unknown effect %q", item.ID, item.Effect)
	}

	now := s.now()
	u := *sess.User
	raised := handler(&u, item, now)

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := storage.NewShopRepo(tx).MarkInventoryUsed(ctx, entryID, now); err != nil {
			return err
		}
		if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
			return err
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:       uuid.NewString(),
			At:       now,
			Kind:     "item_used",
			EntityID: item.ID,
			Note:     item.Name,
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
	return &UseResult{
		EntryID:         entryID,
		Effect:          EffectKind(item.Effect),
		AttributeRaised: raised,
		CompletedGoals:  goals,
	}, nil
}

func attributeValue(u *storage.User, attr Attribute) int {
	switch attr {
	case AttributeStrength:
		return u.Strength
	case AttributeIntelligence:
		return u.Intelligence
	case AttributeCharisma:
		return u.Charisma
	case AttributeDiscipline:
		return u.Discipline
	default:
		return 0
	}
}
