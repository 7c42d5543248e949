package templates

import (
	"fmt"
	"strings"

	"hunter_ai/hunter"
	"hunter_ai/reveal"
)

// HealthStatus represents the hunter's health state and its corresponding color.
type HealthStatus struct {
	Description string
	Color       string
}

var healthStatuses = []HealthStatus{
	{"Healthy", "#a6e22e"},  // Lime Green
	{"Injured", "#e6db74"},  // Yellow
	{"Wounded", "#fd971f"},  // Orange
	{"Critical", "#f92672"}, // Pink/Red
	{"Fallen", "#75715e"},   // Gray
}

// GetHealthStatus returns a HealthStatus based on the share of max HP left.
func GetHealthStatus(hp, maxHP int) HealthStatus {
	pct := 0
	if maxHP > 0 {
		pct = hp * 100 / maxHP
	}
	switch {
	case pct >= 80:
		return healthStatuses[0]
	case pct >= 50:
		return healthStatuses[1]
	case pct >= 20:
		return healthStatuses[2]
	case hp > 0:
		return healthStatuses[3]
	default:
		return healthStatuses[4]
	}
}

var rankColors = map[hunter.Rank]string{
	hunter.RankS: "#f92672",
	hunter.RankA: "#fd971f",
	hunter.RankB: "#ae81ff",
	hunter.RankC: "#66d9ef",
	hunter.RankD: "#a6e22e",
	hunter.RankE: "#75715e",
}

// RankColor is the display color of a rank badge.
func RankColor(r hunter.Rank) string {
	if c, ok := rankColors[r]; ok {
		return c
	}
	return rankColors[hunter.RankE]
}

// PowerScale labels a rank's relative power, e.g. "x2.5".
func PowerScale(r hunter.Rank) string {
	return fmt.Sprintf("x%g", r.Multiplier())
}

// FormatBonus lists an item's non-zero stat bonuses, e.g. "+2 STR, +1 VIT".
func FormatBonus(b *hunter.BonusStats) string {
	s := b.Stats()
	var parts []string
	for _, p := range []struct {
		label string
		value int
	}{
		{"STR", s.Strength},
		{"AGI", s.Agility},
		{"PER", s.Perception},
		{"VIT", s.Vitality},
		{"INT", s.Intelligence},
	} {
		if p.value != 0 {
			parts = append(parts, fmt.Sprintf("%+d %s", p.value, p.label))
		}
	}
	return strings.Join(parts, ", ")
}

func bonusSuffix(b *hunter.BonusStats) string {
	if s := FormatBonus(b); s != "" {
		return ", " + s
	}
	return ""
}

func guildStanding(g *hunter.Guild) string {
	if g.PlayerRank == nil {
		return ""
	}
	return fmt.Sprintf(" (%s, reputation %d)", *g.PlayerRank, g.Reputation)
}

// equippable reports whether it fits a slot and is not already worn.
func equippable(h hunter.Hunter, it hunter.Item) bool {
	if _, worn := h.Equipment.Holding(it.ID); worn {
		return false
	}
	_, ok := hunter.SlotFor(it.Type)
	return ok
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// glowLevels maps overlay phases to the glow intensity of the reawakening
// overlay. It grows brighter as the overlay advances.
var glowLevels = []struct {
	name      string
	phase     reveal.Phase
	intensity int
}{
	{"dim", reveal.Surge, 20},
	{"rising", reveal.StatsRise, 50},
	{"blazing", reveal.RankShift, 90},
}

// GlowLevel names the glow class for an overlay phase.
func GlowLevel(phase reveal.Phase) string {
	for _, g := range glowLevels {
		if g.phase == phase {
			return g.name
		}
	}
	return glowLevels[0].name
}

// paletteStyle is the stylesheet for rank badges, health states and the
// reawakening glow. It is emitted once in the page head.
func paletteStyle() string {
	var b strings.Builder
	b.WriteString("<style>")
	for _, r := range hunter.Ranks {
		fmt.Fprintf(&b, "[data-rank=%q]{color:%s}", r, RankColor(r))
	}
	for _, hs := range healthStatuses {
		fmt.Fprintf(&b, "[data-health=%q]{color:%s;accent-color:%s}", hs.Description, hs.Color, hs.Color)
	}
	b.WriteString("#reawakening{position:relative}")
	b.WriteString("#reawakening::before{content:'';position:absolute;top:0;left:0;right:0;bottom:0;" +
		"transition:box-shadow 0.5s ease-in-out;pointer-events:none;border-radius:8px}")
	for _, g := range glowLevels {
		fmt.Fprintf(&b, "#reawakening[data-glow=%q]::before{box-shadow:inset 0 0 %dpx %dpx rgba(102,217,239,%.2f)}",
			g.name, g.intensity, g.intensity/2, float64(g.intensity)/100)
	}
	b.WriteString("</style>")
	return b.String()
}
