package hunter

// ItemType tags what an item is and which slot, if any, accepts it.
type ItemType string

const (
	ItemWeapon     ItemType = "Weapon"
	ItemArmor      ItemType = "Armor"
	ItemHelmet     ItemType = "Helmet"
	ItemRelic      ItemType = "Relic"
	ItemConsumable ItemType = "Consumable"
	ItemMaterial   ItemType = "Material"
	ItemManaStone  ItemType = "ManaStone"
	ItemAccessory  ItemType = "Accessory"
	ItemSupport    ItemType = "Support"
)

// Item is an immutable piece of loot or merchandise.
type Item struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          ItemType    `json:"type"`
	Rank          Rank        `json:"rank"`
	BonusStats    *BonusStats `json:"bonusStats,omitempty"`
	Description   string      `json:"description,omitempty"`
	Value         int         `json:"value"`
	Weight        float64     `json:"weight"`
	SpecialEffect string      `json:"specialEffect,omitempty"`
}

// FindItem returns the inventory entry with the given id.
func (h Hunter) FindItem(id string) (Item, bool) {
	for _, it := range h.Inventory {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// CountType counts inventory entries of type t.
func (h Hunter) CountType(t ItemType) int {
	n := 0
	for _, it := range h.Inventory {
		if it.Type == t {
			n++
		}
	}
	return n
}
