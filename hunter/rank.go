package hunter

import "strings"

// Rank is the six-tier power classification, E lowest and S highest.
type Rank string

const (
	RankE Rank = "E"
	RankD Rank = "D"
	RankC Rank = "C"
	RankB Rank = "B"
	RankA Rank = "A"
	RankS Rank = "S"
)

// Ranks lists every rank in ascending power.
var Ranks = []Rank{RankE, RankD, RankC, RankB, RankA, RankS}

// ParseRank accepts a rank symbol in either case.
func ParseRank(s string) (Rank, bool) {
	r := Rank(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of the six known ranks.
func (r Rank) Valid() bool {
	return r.Index() >= 0
}

// Index is the position of r in ascending order, or -1 when unknown.
func (r Rank) Index() int {
	for i, v := range Ranks {
		if v == r {
			return i
		}
	}
	return -1
}

// Less reports whether r is weaker than o.
func (r Rank) Less(o Rank) bool {
	return r.Index() < o.Index()
}

// Rarity is the display label shown when a rank is revealed.
func (r Rank) Rarity() string {
	switch r {
	case RankS:
		return "LEGENDARY"
	case RankA:
		return "EPIC"
	case RankB:
		return "SUPER RARE"
	case RankC:
		return "RARE"
	case RankD:
		return "UNCOMMON"
	default:
		return "COMMON"
	}
}

// Multiplier is the relative power scale of a rank, used for display.
func (r Rank) Multiplier() float64 {
	switch r {
	case RankD:
		return 1.5
	case RankC:
		return 2.5
	case RankB:
		return 5
	case RankA:
		return 10
	case RankS:
		return 50
	default:
		return 1
	}
}
