package hunter

// Resources are the pools derived from effective stats.
type Resources struct {
	MaxHP int `json:"maxHp"`
	MaxMP int `json:"maxMp"`
}

// EffectiveStats is the base stat vector plus the bonuses of every equipped
// item. It is computed on each read and never stored.
func EffectiveStats(h Hunter) Stats {
	total := h.Stats
	for _, s := range Slots {
		if it := h.Equipment.Get(s); it != nil {
			total = total.Add(it.BonusStats.Stats())
		}
	}
	return total
}

// DerivedResources computes the HP and MP ceilings for a stat vector.
func DerivedResources(effective Stats) Resources {
	return Resources{
		MaxHP: 50 + 10*effective.Vitality,
		MaxMP: 20 + 5*effective.Intelligence,
	}
}

// Refresh recomputes the stored HP and MP ceilings from the current stats
// and equipment. Current HP and MP are left as they are.
func Refresh(h Hunter) Hunter {
	res := DerivedResources(EffectiveStats(h))
	h.MaxHP = res.MaxHP
	h.MaxMP = res.MaxMP
	return h
}

// View returns the hunter as displayed: effective stats in place of base
// stats and the derived HP/MP ceilings.
func View(h Hunter) Hunter {
	v := Refresh(h.Clone())
	v.Stats = EffectiveStats(h)
	return v
}

// Equip places item in the slot matching its type. A type with no slot is
// rejected without change.
func Equip(h Hunter, item Item) (Hunter, bool) {
	s, ok := SlotFor(item.Type)
	if !ok {
		return h, false
	}
	return EquipSlot(h, s, item)
}

// EquipSlot places item in slot s when the item type matches the slot.
func EquipSlot(h Hunter, s Slot, item Item) (Hunter, bool) {
	next, ok := h.Equipment.With(s, item)
	if !ok {
		return h, false
	}
	h.Equipment = next
	return h, true
}

// Unequip empties slot s.
func Unequip(h Hunter, s Slot) Hunter {
	h.Equipment = h.Equipment.Without(s)
	return h
}
