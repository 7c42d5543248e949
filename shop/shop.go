// Package shop is the system store: a fixed catalog plus buy and sell.
package shop

import (
	"errors"

	"hunter_ai/hunter"
)

var (
	// ErrUnknownItem means the catalog has no item with the requested id.
	ErrUnknownItem = errors.New("item not in catalog")
	// ErrInsufficientFunds means the hunter cannot afford the item.
	ErrInsufficientFunds = errors.New("insufficient gold")
	// ErrNotOwned means the hunter's inventory has no item with the id.
	ErrNotOwned = errors.New("item not in inventory")
)

// Catalog is the store's fixed stock.
var Catalog = []hunter.Item{
	{ID: "1", Name: "Minor Health Potion", Type: hunter.ItemConsumable, Rank: hunter.RankE, Value: 50, Weight: 0.1, Description: "Restores 30 HP at once."},
	{ID: "2", Name: "Minor Mana Potion", Type: hunter.ItemConsumable, Rank: hunter.RankE, Value: 50, Weight: 0.1, Description: "Restores 20 MP at once."},
	{ID: "3", Name: "Training Dagger", Type: hunter.ItemWeapon, Rank: hunter.RankE, BonusStats: &hunter.BonusStats{Strength: ptr(2)}, Value: 200, Weight: 1.5, Description: "A basic blade for beginners."},
	{ID: "4", Name: "Recruit Helmet", Type: hunter.ItemHelmet, Rank: hunter.RankE, BonusStats: &hunter.BonusStats{Vitality: ptr(1)}, Value: 150, Weight: 1.0, Description: "Simple head protection."},
	{ID: "5", Name: "Relic of the Forgotten", Type: hunter.ItemRelic, Rank: hunter.RankD, BonusStats: &hunter.BonusStats{Intelligence: ptr(10)}, Value: 5000, Weight: 0.5, Description: "An old amulet pulsing with residual mana."},
	{ID: "6", Name: "Hunter Battle Helm", Type: hunter.ItemHelmet, Rank: hunter.RankD, BonusStats: &hunter.BonusStats{Vitality: ptr(5), Perception: ptr(2)}, Value: 1200, Weight: 2.5, Description: "Standard raid equipment."},
	{ID: "7", Name: "Steel Broadsword", Type: hunter.ItemWeapon, Rank: hunter.RankD, BonusStats: &hunter.BonusStats{Strength: ptr(12)}, Value: 1800, Weight: 6.0, Description: "Heavy, but deadly against rank D monsters."},
}

func ptr(v int) *int { return &v }

// Lookup finds a catalog item by id.
func Lookup(id string) (hunter.Item, bool) {
	for _, it := range Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return hunter.Item{}, false
}

// Available lists the catalog items a hunter of rank r is shown: anything up
// to one rank above r.
func Available(r hunter.Rank) []hunter.Item {
	limit := r.Index() + 1
	var out []hunter.Item
	for _, it := range Catalog {
		if it.Rank.Index() <= limit {
			out = append(out, it)
		}
	}
	return out
}

// SaleValue is the gold credited for selling it.
func SaleValue(it hunter.Item) int {
	return it.Value / 2
}

// Buy deducts the catalog price and appends a freshly identified copy of the
// item. Nothing changes when the hunter cannot afford it.
func Buy(h hunter.Hunter, catalogID string, newID func() string) (hunter.Hunter, hunter.Item, error) {
	it, ok := Lookup(catalogID)
	if !ok {
		return h, hunter.Item{}, ErrUnknownItem
	}
	if h.Gold < it.Value {
		return h, hunter.Item{}, ErrInsufficientFunds
	}
	next := h.Clone()
	it.ID = newID()
	next.Gold -= it.Value
	next.Inventory = append(next.Inventory, it)
	return next, it, nil
}

// Sell removes the inventory item with the given id and credits half its
// value, rounded down. An equipped item is unequipped first.
func Sell(h hunter.Hunter, itemID string) (hunter.Hunter, int, error) {
	it, ok := h.FindItem(itemID)
	if !ok {
		return h, 0, ErrNotOwned
	}
	next := h.Clone()
	inv := next.Inventory[:0]
	for _, x := range next.Inventory {
		if x.ID != itemID {
			inv = append(inv, x)
		}
	}
	next.Inventory = inv
	if slot, ok := next.Equipment.Holding(itemID); ok {
		next = hunter.Unequip(next, slot)
	}
	credit := SaleValue(it)
	next.Gold += credit
	return next, credit, nil
}
