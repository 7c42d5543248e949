package awakening

import (
	"math"
	"sync"
	"testing"
	"time"

	"hunter_ai/hunter"
)

// scripted replays fixed values so each roll can be asserted exactly.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scripted) IntN(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		panic("scripted int out of range")
	}
	return v
}

func TestRankTableSumsToHundred(t *testing.T) {
	total := 0.0
	for _, c := range RankTable {
		total += c.Percent
	}
	if total != 100 {
		t.Fatalf("rank table sums to %v", total)
	}
}

func TestRankForRollThresholds(t *testing.T) {
	tests := []struct {
		roll float64
		want hunter.Rank
	}{
		{0, hunter.RankS},
		{5, hunter.RankS},
		{5.0001, hunter.RankA},
		{15, hunter.RankA},
		{15.5, hunter.RankB},
		{30, hunter.RankB},
		{49.9, hunter.RankC},
		{50, hunter.RankC},
		{71, hunter.RankD},
		{72, hunter.RankD},
		{72.01, hunter.RankE},
		{99.999, hunter.RankE},
		{100.5, hunter.RankE},
	}
	for _, tt := range tests {
		if got := RankForRoll(tt.roll); got != tt.want {
			t.Errorf("RankForRoll(%v) = %s, want %s", tt.roll, got, tt.want)
		}
	}
}

func TestRankDistribution(t *testing.T) {
	const n = 100000
	src := NewSeeded(42)
	counts := map[hunter.Rank]int{}
	for i := 0; i < n; i++ {
		counts[RollRank(src)]++
	}
	for _, c := range RankTable {
		got := float64(counts[c.Rank]) / n * 100
		if math.Abs(got-c.Percent) > 1.0 {
			t.Errorf("rank %s frequency %.2f%%, want %.0f%% ±1", c.Rank, got, c.Percent)
		}
	}
}

func TestStatFromRollNonNegativeAndOrdered(t *testing.T) {
	for raw := 5.0; raw < 15; raw += 0.01 {
		fragile := StatFromRoll(raw, hunter.ConditionFragile.Multiplier())
		exceptional := StatFromRoll(raw, hunter.ConditionExceptional.Multiplier())
		if fragile < 0 || exceptional < 0 {
			t.Fatalf("negative stat at raw %v", raw)
		}
		if exceptional < fragile {
			t.Fatalf("exceptional %d below fragile %d at raw %v", exceptional, fragile, raw)
		}
		for _, c := range hunter.Conditions {
			v := StatFromRoll(raw, c.Multiplier())
			if want := int(math.Floor(raw * c.Multiplier())); v != want {
				t.Fatalf("StatFromRoll(%v, %s) = %d, want %d", raw, c, v, want)
			}
		}
	}
}

func TestAwakenScripted(t *testing.T) {
	src := &scripted{
		floats: []float64{0.03, 0, 0.5, 0.25, 0.99, 0.1, 0.8},
		ints:   []int{49, 5, 2, 1234, 3},
	}
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	shell := hunter.New("Jinwoo", 24)

	h := Awaken(shell, src, now)

	if h.Name != "Jinwoo" || h.Age != 24 {
		t.Fatalf("identity lost: %q %d", h.Name, h.Age)
	}
	if h.Luck != 50 {
		t.Fatalf("luck = %d, want 50", h.Luck)
	}
	if h.PhysicalCondition != hunter.ConditionExceptional {
		t.Fatalf("condition = %s", h.PhysicalCondition)
	}
	if h.Rank != hunter.RankS {
		t.Fatalf("rank = %s, want S", h.Rank)
	}
	want := hunter.Stats{Strength: 10, Agility: 20, Perception: 15, Vitality: 29, Intelligence: 12}
	if h.Stats != want {
		t.Fatalf("stats = %+v, want %+v", h.Stats, want)
	}
	if h.Class != hunter.ClassMage {
		t.Fatalf("class = %s", h.Class)
	}
	if h.WealthFactor == nil || *h.WealthFactor != hunter.WealthRich || h.Gold != 6234 {
		t.Fatalf("wealth = %v gold = %d", h.WealthFactor, h.Gold)
	}
	if h.PersonalObjective != Objectives[3] {
		t.Fatalf("objective = %q", h.PersonalObjective)
	}
	ah := h.AwakeningHistory
	if ah == nil || ah.Date != "14/03/2026" || ah.OriginalRank != hunter.RankS || ah.Reawakened {
		t.Fatalf("history = %+v", ah)
	}
	if h.MaxHP != 340 || h.HP != 340 || h.MaxMP != 80 || h.MP != 80 {
		t.Fatalf("pools = %d/%d hp, %d/%d mp", h.HP, h.MaxHP, h.MP, h.MaxMP)
	}
	if shell.AwakeningHistory != nil || shell.Luck != 10 {
		t.Fatal("shell was mutated")
	}
}

func TestAwakenFragileStartsWithinDerivedPools(t *testing.T) {
	src := &scripted{
		floats: []float64{0.99, 0, 0, 0, 0, 0, 0.1, 0.5},
		ints:   []int{0, 0, 0, 0},
	}
	h := Awaken(hunter.New("Jinah", 19), src, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	if h.PhysicalCondition != hunter.ConditionFragile || h.Stats.Vitality != 3 || h.Stats.Intelligence != 3 {
		t.Fatalf("condition %s stats %+v", h.PhysicalCondition, h.Stats)
	}
	if h.MaxHP != 80 || h.HP != 80 {
		t.Fatalf("hp = %d/%d, want 80/80", h.HP, h.MaxHP)
	}
	if h.MaxMP != 35 || h.MP != 35 {
		t.Fatalf("mp = %d/%d, want 35/35", h.MP, h.MaxMP)
	}
}

func TestRollWealthTiers(t *testing.T) {
	tests := []struct {
		name     string
		src      *scripted
		luck     int
		tier     hunter.WealthFactor
		min, max int
	}{
		{"rich by luck", &scripted{floats: []float64{0.7}, ints: []int{0}}, 100, hunter.WealthRich, 5000, 5000},
		{"middle", &scripted{floats: []float64{0.6}, ints: []int{1999}}, 1, hunter.WealthMiddle, 2999, 2999},
		{"poor", &scripted{floats: []float64{0.1, 0.5}}, 20, hunter.WealthPoor, 500, 500},
		{"poor zero span", &scripted{floats: []float64{0.2, 0.99}}, 0, hunter.WealthPoor, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, gold := RollWealth(tt.src, tt.luck)
			if tier != tt.tier || gold < tt.min || gold > tt.max {
				t.Fatalf("got %s %d, want %s in [%d,%d]", tier, gold, tt.tier, tt.min, tt.max)
			}
		})
	}
}

func TestAwakenDeterministicForSeed(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	a := Awaken(hunter.New("A", 20), NewSeeded(7), now)
	b := Awaken(hunter.New("A", 20), NewSeeded(7), now)
	if a.Rank != b.Rank || a.Stats != b.Stats || a.Gold != b.Gold || a.Class != b.Class {
		t.Fatal("same seed produced different hunters")
	}
	if a.Luck < 1 || a.Luck > 100 {
		t.Fatalf("luck out of range: %d", a.Luck)
	}
	if a.Gold < 0 {
		t.Fatalf("negative gold: %d", a.Gold)
	}
}

func TestLockedMatchesWrappedSource(t *testing.T) {
	plain := NewSeeded(11)
	locked := NewLocked(NewSeeded(11))
	for i := 0; i < 10; i++ {
		if plain.IntN(100) != locked.IntN(100) || plain.Float64() != locked.Float64() {
			t.Fatal("locked source diverged from the wrapped one")
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if v := locked.IntN(6); v < 0 || v >= 6 {
					t.Errorf("IntN(6) = %d", v)
				}
			}
		}()
	}
	wg.Wait()
}
