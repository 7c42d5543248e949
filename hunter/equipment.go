package hunter

import (
	"encoding/json"
	"fmt"
)

// Slot is an equipment slot.
type Slot int

const (
	SlotWeapon Slot = iota
	SlotArmor
	SlotHelmet
	SlotRelic
	SlotAccessory
	SlotSupport
	numSlots
)

// Slots lists every slot in display order.
var Slots = []Slot{SlotWeapon, SlotArmor, SlotHelmet, SlotRelic, SlotAccessory, SlotSupport}

var slotNames = [numSlots]string{"weapon", "armor", "helmet", "relic", "accessory", "support"}

var slotTypes = [numSlots]ItemType{ItemWeapon, ItemArmor, ItemHelmet, ItemRelic, ItemAccessory, ItemSupport}

func (s Slot) String() string {
	if s < 0 || s >= numSlots {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// Accepts is the item type the slot holds.
func (s Slot) Accepts() ItemType {
	if s < 0 || s >= numSlots {
		return ""
	}
	return slotTypes[s]
}

// ParseSlot maps a slot name to its key.
func ParseSlot(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// SlotFor returns the slot that accepts items of type t. Consumables,
// materials and mana stones have no slot.
func SlotFor(t ItemType) (Slot, bool) {
	for i, st := range slotTypes {
		if st == t {
			return Slot(i), true
		}
	}
	return 0, false
}

// Equipment holds at most one item per slot. Items are immutable, so copying
// an Equipment value is safe.
type Equipment struct {
	slots [numSlots]*Item
}

// Get returns the item in slot s, or nil.
func (e Equipment) Get(s Slot) *Item {
	if s < 0 || s >= numSlots {
		return nil
	}
	return e.slots[s]
}

// With returns a copy of e with item placed in slot s. It reports false and
// leaves e unchanged when the item's type does not match the slot.
func (e Equipment) With(s Slot, item Item) (Equipment, bool) {
	if s < 0 || s >= numSlots || item.Type != slotTypes[s] {
		return e, false
	}
	e.slots[s] = &item
	return e, true
}

// Without returns a copy of e with slot s emptied.
func (e Equipment) Without(s Slot) Equipment {
	if s >= 0 && s < numSlots {
		e.slots[s] = nil
	}
	return e
}

// Holding reports the slot that holds the item with the given id.
func (e Equipment) Holding(id string) (Slot, bool) {
	for i, it := range e.slots {
		if it != nil && it.ID == id {
			return Slot(i), true
		}
	}
	return 0, false
}

// MarshalJSON encodes filled slots as an object keyed by slot name.
func (e Equipment) MarshalJSON() ([]byte, error) {
	m := make(map[string]*Item, numSlots)
	for i, it := range e.slots {
		if it != nil {
			m[slotNames[i]] = it
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the slot object, dropping unknown slots and items
// whose type does not match their slot.
func (e *Equipment) UnmarshalJSON(data []byte) error {
	var m map[string]*Item
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode equipment: %w", err)
	}
	*e = Equipment{}
	for name, it := range m {
		s, ok := ParseSlot(name)
		if !ok || it == nil {
			continue
		}
		if next, ok := e.With(s, *it); ok {
			*e = next
		}
	}
	return nil
}
