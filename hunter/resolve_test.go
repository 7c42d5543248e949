package hunter

import (
	"encoding/json"
	"reflect"
	"testing"
)

func intp(v int) *int { return &v }

func tens() Stats {
	return Stats{Strength: 10, Agility: 10, Perception: 10, Vitality: 10, Intelligence: 10}
}

func TestEffectiveStatsWithWeaponBonus(t *testing.T) {
	h := New("Jinwoo", 24)
	h.Stats = tens()
	sword := Item{ID: "w1", Name: "Training Dagger", Type: ItemWeapon, Rank: RankE, BonusStats: &BonusStats{Strength: intp(5)}}

	h, ok := Equip(h, sword)
	if !ok {
		t.Fatal("expected weapon to equip")
	}

	eff := EffectiveStats(h)
	want := Stats{Strength: 15, Agility: 10, Perception: 10, Vitality: 10, Intelligence: 10}
	if eff != want {
		t.Fatalf("effective stats = %+v, want %+v", eff, want)
	}
	res := DerivedResources(eff)
	if res.MaxHP != 150 || res.MaxMP != 70 {
		t.Fatalf("resources = %+v, want 150/70", res)
	}
	if h.Stats != tens() {
		t.Fatalf("base stats mutated: %+v", h.Stats)
	}
}

func TestEffectiveStatsSumsAllSlots(t *testing.T) {
	h := New("Jinwoo", 24)
	h.Stats = tens()
	items := []Item{
		{ID: "1", Type: ItemWeapon, BonusStats: &BonusStats{Strength: intp(12)}},
		{ID: "2", Type: ItemHelmet, BonusStats: &BonusStats{Vitality: intp(5), Perception: intp(2)}},
		{ID: "3", Type: ItemRelic, BonusStats: &BonusStats{Intelligence: intp(10)}},
		{ID: "4", Type: ItemArmor},
	}
	for _, it := range items {
		var ok bool
		if h, ok = Equip(h, it); !ok {
			t.Fatalf("equip %s failed", it.ID)
		}
	}

	eff := EffectiveStats(h)
	want := Stats{Strength: 22, Agility: 10, Perception: 12, Vitality: 15, Intelligence: 20}
	if eff != want {
		t.Fatalf("effective stats = %+v, want %+v", eff, want)
	}
	res := DerivedResources(eff)
	if res.MaxHP != 200 || res.MaxMP != 120 {
		t.Fatalf("resources = %+v", res)
	}
}

func TestResolverIsPure(t *testing.T) {
	h := New("Jinwoo", 24)
	h.Stats = tens()
	h, _ = Equip(h, Item{ID: "1", Type: ItemAccessory, BonusStats: &BonusStats{Agility: intp(3)}})

	first := View(h)
	second := View(h)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("view differs between reads")
	}
	if EffectiveStats(h) != EffectiveStats(h) {
		t.Fatal("effective stats differ between reads")
	}
	if h.Stats.Agility != 10 {
		t.Fatalf("base agility = %d, want 10", h.Stats.Agility)
	}
}

func TestEquipRejectsMismatchedSlot(t *testing.T) {
	h := New("Jinwoo", 24)
	potion := Item{ID: "p", Type: ItemConsumable}

	if _, ok := Equip(h, potion); ok {
		t.Fatal("consumable should not equip")
	}
	got, ok := EquipSlot(h, SlotWeapon, Item{ID: "h", Type: ItemHelmet})
	if ok {
		t.Fatal("helmet should not fit weapon slot")
	}
	if got.Equipment.Get(SlotWeapon) != nil {
		t.Fatal("weapon slot should stay empty")
	}
}

func TestUnequipRestoresBase(t *testing.T) {
	h := New("Jinwoo", 24)
	h.Stats = tens()
	h, _ = Equip(h, Item{ID: "w", Type: ItemWeapon, BonusStats: &BonusStats{Strength: intp(4)}})
	h = Unequip(h, SlotWeapon)

	if EffectiveStats(h) != tens() {
		t.Fatalf("effective stats after unequip = %+v", EffectiveStats(h))
	}
}

func TestEquipmentJSONRoundTrip(t *testing.T) {
	h := New("Jinwoo", 24)
	h, _ = Equip(h, Item{ID: "w", Name: "Broadsword", Type: ItemWeapon, Rank: RankD, Value: 1800})

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Hunter
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(h, back) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, h)
	}
}

func TestEquipmentDecodeDropsMismatch(t *testing.T) {
	var e Equipment
	if err := json.Unmarshal([]byte(`{"weapon":{"id":"x","type":"Helmet"},"tail":{"id":"y","type":"Weapon"}}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, s := range Slots {
		if e.Get(s) != nil {
			t.Fatalf("slot %s should be empty", s)
		}
	}
}

func TestRankOrder(t *testing.T) {
	if !RankE.Less(RankS) || RankA.Less(RankB) {
		t.Fatal("rank order broken")
	}
	if r, ok := ParseRank(" a "); !ok || r != RankA {
		t.Fatalf("ParseRank = %q, %v", r, ok)
	}
	if _, ok := ParseRank("Z"); ok {
		t.Fatal("Z is not a rank")
	}
}

func TestRefreshRecomputesStoredPools(t *testing.T) {
	h := New("Jinwoo", 24)
	h.Stats = tens()
	h, _ = Equip(h, Item{ID: "h", Type: ItemHelmet, BonusStats: &BonusStats{Vitality: intp(2)}})
	h.HP = 30

	got := Refresh(h)
	if got.MaxHP != 170 || got.MaxMP != 70 || got.HP != 30 {
		t.Fatalf("refresh = %d/%d hp, %d mp max", got.HP, got.MaxHP, got.MaxMP)
	}
	if h.MaxHP != 100 {
		t.Fatal("input mutated")
	}
}

func TestBonusOverlayTouchesOnlyPresentAttributes(t *testing.T) {
	got := (&BonusStats{Agility: intp(3), Vitality: intp(-4)}).Overlay(tens())
	want := Stats{Strength: 10, Agility: 3, Perception: 10, Vitality: 0, Intelligence: 10}
	if got != want {
		t.Fatalf("overlay = %+v, want %+v", got, want)
	}
	var none *BonusStats
	if none.Overlay(tens()) != tens() {
		t.Fatal("nil overlay changed stats")
	}
}
