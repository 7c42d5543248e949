package shop

import (
	"errors"
	"strconv"
	"testing"

	"hunter_ai/hunter"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return "inst-" + strconv.Itoa(n)
	}
}

func TestBuyThenSellScenario(t *testing.T) {
	h := hunter.New("Jinwoo", 24)
	h.Gold = 1000
	before := len(h.Inventory)

	h, bought, err := Buy(h, "3", seqIDs())
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if h.Gold != 800 || len(h.Inventory) != before+1 {
		t.Fatalf("after buy gold=%d inventory=%d", h.Gold, len(h.Inventory))
	}
	if bought.ID != "inst-1" || bought.Name != "Training Dagger" {
		t.Fatalf("bought = %+v", bought)
	}

	h, credit, err := Sell(h, bought.ID)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if credit != 100 || h.Gold != 900 || len(h.Inventory) != before {
		t.Fatalf("after sell credit=%d gold=%d inventory=%d", credit, h.Gold, len(h.Inventory))
	}
}

func TestBuySellNeverGainsGold(t *testing.T) {
	ids := seqIDs()
	for _, it := range Catalog {
		h := hunter.New("Jinwoo", 24)
		h.Gold = 10000
		start := h.Gold

		h, bought, err := Buy(h, it.ID, ids)
		if err != nil {
			t.Fatalf("buy %s: %v", it.Name, err)
		}
		h, _, err = Sell(h, bought.ID)
		if err != nil {
			t.Fatalf("sell %s: %v", it.Name, err)
		}
		if want := start - it.Value + it.Value/2; h.Gold != want || h.Gold > start {
			t.Fatalf("%s: gold %d, want %d", it.Name, h.Gold, want)
		}
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	h := hunter.New("Jinwoo", 24)
	h.Gold = 199

	got, _, err := Buy(h, "3", seqIDs())
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v", err)
	}
	if got.Gold != 199 || len(got.Inventory) != 0 {
		t.Fatal("rejected purchase changed state")
	}
}

func TestBuyUnknownItem(t *testing.T) {
	h := hunter.New("Jinwoo", 24)
	h.Gold = 99999
	if _, _, err := Buy(h, "nope", seqIDs()); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v", err)
	}
}

func TestSellNotOwned(t *testing.T) {
	h := hunter.New("Jinwoo", 24)
	if _, _, err := Sell(h, "ghost"); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("err = %v", err)
	}
}

func TestSellEquippedItemUnequips(t *testing.T) {
	h := hunter.New("Jinwoo", 24)
	h.Gold = 2000
	h, sword, _ := Buy(h, "7", seqIDs())
	h, ok := hunter.Equip(h, sword)
	if !ok {
		t.Fatal("equip failed")
	}

	h, credit, err := Sell(h, sword.ID)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if credit != 900 || h.Equipment.Get(hunter.SlotWeapon) != nil {
		t.Fatalf("credit=%d weapon=%v", credit, h.Equipment.Get(hunter.SlotWeapon))
	}
}

func TestAvailableGatesByRank(t *testing.T) {
	for _, it := range Available(hunter.RankE) {
		if it.Rank.Index() > hunter.RankD.Index() {
			t.Fatalf("rank E sees %s item %s", it.Rank, it.Name)
		}
	}
	if got := len(Available(hunter.RankE)); got != len(Catalog) {
		t.Fatalf("rank E sees %d items, want %d", got, len(Catalog))
	}
}
