package awakening

import (
	"math"
	"time"

	"hunter_ai/hunter"
)

// RankChance is one row of the awakening rank table.
type RankChance struct {
	Rank    hunter.Rank
	Percent float64
}

// RankTable is walked rarest first; percentages sum to 100.
var RankTable = []RankChance{
	{hunter.RankS, 5},
	{hunter.RankA, 10},
	{hunter.RankB, 15},
	{hunter.RankC, 20},
	{hunter.RankD, 22},
	{hunter.RankE, 28},
}

// Objectives is the pool of personal objectives.
var Objectives = []string{
	"Support the family through hard times",
	"Pay off a relative's piled-up medical debts",
	"Earn recognition in a world of elites",
	"Survive and uncover the truth about the System",
	"Grow stronger so as never to be humiliated again",
	"Amass enough wealth to escape poverty",
}

// Gold ranges per wealth tier. Poor gold scales with luck.
const (
	richGoldMin    = 5000
	richGoldSpan   = 10000
	middleGoldMin  = 1000
	middleGoldSpan = 2000
	poorGoldMin    = 100
	poorGoldScale  = 400
)

// RankForRoll maps a roll in [0, 100) onto the rank table. A roll past the
// last cumulative threshold falls back to E.
func RankForRoll(roll float64) hunter.Rank {
	cumulative := 0.0
	for _, c := range RankTable {
		cumulative += c.Percent
		if roll <= cumulative {
			return c.Rank
		}
	}
	return hunter.RankE
}

// RollRank draws a rank.
func RollRank(src Source) hunter.Rank {
	return RankForRoll(src.Float64() * 100)
}

// StatFromRoll scales a raw roll in [5, 15) by a condition multiplier.
func StatFromRoll(raw, multiplier float64) int {
	v := int(math.Floor(raw * multiplier))
	if v < 0 {
		return 0
	}
	return v
}

// RollStats draws the five base stats independently.
func RollStats(src Source, cond hunter.PhysicalCondition) hunter.Stats {
	m := cond.Multiplier()
	roll := func() int { return StatFromRoll(Uniform(src, 5, 15), m) }
	return hunter.Stats{
		Strength:     roll(),
		Agility:      roll(),
		Perception:   roll(),
		Vitality:     roll(),
		Intelligence: roll(),
	}
}

// RollWealth draws the wealth tier and starting gold. Luck shifts the tier roll.
func RollWealth(src Source, luck int) (hunter.WealthFactor, int) {
	wealthRoll := src.Float64() + float64(luck)/500
	switch {
	case wealthRoll > 0.85:
		return hunter.WealthRich, src.IntN(richGoldSpan) + richGoldMin
	case wealthRoll > 0.5:
		return hunter.WealthMiddle, src.IntN(middleGoldSpan) + middleGoldMin
	default:
		span := float64(poorGoldScale) * float64(luck) / 10
		return hunter.WealthPoor, int(math.Floor(src.Float64()*span)) + poorGoldMin
	}
}

// RollAge draws a starting age in [18, 33).
func RollAge(src Source) int {
	return 18 + src.IntN(15)
}

// Awaken finalizes a profile shell. Identity fields of shell are kept; rank,
// class, stats, luck, condition, wealth, gold, objective and history are
// rolled in that order, and the hunter starts with full HP and MP.
func Awaken(shell hunter.Hunter, src Source, now time.Time) hunter.Hunter {
	h := shell.Clone()

	h.Luck = src.IntN(100) + 1
	h.PhysicalCondition = hunter.Conditions[src.IntN(len(hunter.Conditions))]
	h.Rank = RollRank(src)
	h.Stats = RollStats(src, h.PhysicalCondition)
	h.Class = hunter.Classes[src.IntN(len(hunter.Classes))]

	wealth, gold := RollWealth(src, h.Luck)
	h.WealthFactor = &wealth
	h.Gold = gold

	h.PersonalObjective = Objectives[src.IntN(len(Objectives))]
	h.AwakeningHistory = &hunter.AwakeningHistory{
		Date:         now.Format(hunter.DateLayout),
		OriginalRank: h.Rank,
	}

	h = hunter.Refresh(h)
	h.HP = h.MaxHP
	h.MP = h.MaxMP
	return h
}
