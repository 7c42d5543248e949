package hunter

// Stats is the five-attribute stat vector shared by hunters and item bonuses.
type Stats struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Perception   int `json:"perception"`
	Vitality     int `json:"vitality"`
	Intelligence int `json:"intelligence"`
}

// Add returns the attribute-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Strength:     s.Strength + o.Strength,
		Agility:      s.Agility + o.Agility,
		Perception:   s.Perception + o.Perception,
		Vitality:     s.Vitality + o.Vitality,
		Intelligence: s.Intelligence + o.Intelligence,
	}
}

// Map applies f to every attribute.
func (s Stats) Map(f func(int) int) Stats {
	return Stats{
		Strength:     f(s.Strength),
		Agility:      f(s.Agility),
		Perception:   f(s.Perception),
		Vitality:     f(s.Vitality),
		Intelligence: f(s.Intelligence),
	}
}

// Values lists the attributes in declaration order.
func (s Stats) Values() []int {
	return []int{s.Strength, s.Agility, s.Perception, s.Vitality, s.Intelligence}
}

// BonusStats is a partial stat vector. Item bonuses count missing attributes
// as zero; updates leave them untouched.
type BonusStats struct {
	Strength     *int `json:"strength,omitempty"`
	Agility      *int `json:"agility,omitempty"`
	Perception   *int `json:"perception,omitempty"`
	Vitality     *int `json:"vitality,omitempty"`
	Intelligence *int `json:"intelligence,omitempty"`
}

// Stats widens the partial vector into a full one.
func (b *BonusStats) Stats() Stats {
	if b == nil {
		return Stats{}
	}
	v := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	return Stats{
		Strength:     v(b.Strength),
		Agility:      v(b.Agility),
		Perception:   v(b.Perception),
		Vitality:     v(b.Vitality),
		Intelligence: v(b.Intelligence),
	}
}

// Overlay returns s with every attribute present in b replaced, clamped to
// zero or more.
func (b *BonusStats) Overlay(s Stats) Stats {
	if b == nil {
		return s
	}
	set := func(dst *int, p *int) {
		if p != nil {
			*dst = max(*p, 0)
		}
	}
	set(&s.Strength, b.Strength)
	set(&s.Agility, b.Agility)
	set(&s.Perception, b.Perception)
	set(&s.Vitality, b.Vitality)
	set(&s.Intelligence, b.Intelligence)
	return s
}

// Class is one of the six hunter archetypes.
type Class string

const (
	ClassFighter  Class = "Fighter"
	ClassAssassin Class = "Assassin"
	ClassMage     Class = "Mage"
	ClassTank     Class = "Tank"
	ClassRanger   Class = "Ranger"
	ClassSupport  Class = "Support"
)

// Classes lists every archetype.
var Classes = []Class{ClassFighter, ClassAssassin, ClassMage, ClassTank, ClassRanger, ClassSupport}

// WealthFactor is the starting wealth tier.
type WealthFactor string

const (
	WealthPoor   WealthFactor = "Poor"
	WealthMiddle WealthFactor = "Middle-class"
	WealthRich   WealthFactor = "Rich"
)

// GuildRank is the player's standing inside a guild.
type GuildRank string

const (
	GuildRecruit GuildRank = "Recruit"
	GuildMember  GuildRank = "Member"
	GuildVeteran GuildRank = "Veteran"
	GuildElite   GuildRank = "Elite"
	GuildPillar  GuildRank = "Pillar"
)

// Guild is a hunter organisation.
type Guild struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Rank        Rank       `json:"rank"`
	Description string     `json:"description"`
	Benefits    []string   `json:"benefits"`
	Reputation  int        `json:"reputation"`
	PlayerRank  *GuildRank `json:"playerRank,omitempty"`
}

// Friendship is the five-level contact scale.
type Friendship string

const (
	FriendshipNeutral      Friendship = "Neutral"
	FriendshipAcquaintance Friendship = "Acquaintance"
	FriendshipAlly         Friendship = "Ally"
	FriendshipFriend       Friendship = "Friend"
	FriendshipConfidant    Friendship = "Confidant"
)

// ContactStatus values.
const (
	ContactActive    = "Active"
	ContactOnMission = "On Mission"
	ContactDead      = "Dead"
	ContactRival     = "Rival"
)

// Contact is an NPC the hunter has met.
type Contact struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Profession      string     `json:"profession"`
	Rank            Rank       `json:"rank"`
	Friendship      Friendship `json:"friendship"`
	LastInteraction string     `json:"lastInteraction,omitempty"`
	Status          string     `json:"status"`
}

// Impact scopes for world events.
const (
	ImpactGlobal   = "Global"
	ImpactLocal    = "Local"
	ImpactPersonal = "Personal"
)

// WorldEvent is an entry in the hunter's world log.
type WorldEvent struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Shadow is a summoned ally unit.
type Shadow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	Rank         Rank   `json:"rank"`
	Level        int    `json:"level"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}

// Reawakening records one rank-change event.
type Reawakening struct {
	Date        string `json:"date"`
	OldRank     Rank   `json:"oldRank"`
	NewRank     Rank   `json:"newRank"`
	StatsBefore Stats  `json:"statsBefore"`
	StatsAfter  Stats  `json:"statsAfter"`
}

// AwakeningHistory records the original awakening and the latest reawakening.
// Reawakenings keeps every event in arrival order.
type AwakeningHistory struct {
	Date            string        `json:"date"`
	OriginalRank    Rank          `json:"originalRank"`
	Reawakened      bool          `json:"reawakened"`
	ReawakeningDate string        `json:"reawakeningDate,omitempty"`
	OldRank         *Rank         `json:"oldRank,omitempty"`
	NewRank         *Rank         `json:"newRank,omitempty"`
	StatsBefore     *Stats        `json:"statsBefore,omitempty"`
	StatsAfter      *Stats        `json:"statsAfter,omitempty"`
	Reawakenings    []Reawakening `json:"reawakenings,omitempty"`
}

// Hunter is the player's character record.
type Hunter struct {
	Name              string            `json:"name"`
	Age               int               `json:"age"`
	Class             Class             `json:"class"`
	Rank              Rank              `json:"rank"`
	Level             int               `json:"level"`
	Exp               int               `json:"exp"`
	NextLevelExp      int               `json:"nextLevelExp"`
	HP                int               `json:"hp"`
	MaxHP             int               `json:"maxHp"`
	MP                int               `json:"mp"`
	MaxMP             int               `json:"maxMp"`
	Stats             Stats             `json:"stats"`
	StatPoints        int               `json:"statPoints"`
	Gold              int               `json:"gold"`
	Luck              int               `json:"luck"`
	PhysicalCondition PhysicalCondition `json:"physicalCondition"`
	Inventory         []Item            `json:"inventory"`
	Equipment         Equipment         `json:"equipment"`
	Shadows           []Shadow          `json:"shadows"`
	Status            []string          `json:"status"`
	Contacts          []Contact         `json:"contacts"`
	WorldLog          []WorldEvent      `json:"worldLog"`
	AwakeningHistory  *AwakeningHistory `json:"awakeningHistory,omitempty"`
	WealthFactor      *WealthFactor     `json:"wealthFactor,omitempty"`
	PersonalObjective string            `json:"personalObjective,omitempty"`
	Guild             *Guild            `json:"guild,omitempty"`
	GuildHistory      []string          `json:"guildHistory"`
	AvatarURL         string            `json:"avatarUrl,omitempty"`
}

// New returns the profile shell created at profile confirmation. Stats are
// zero placeholders until the awakening assigns real values.
func New(name string, age int) Hunter {
	return Hunter{
		Name:              name,
		Age:               age,
		Class:             ClassFighter,
		Rank:              RankE,
		Level:             1,
		NextLevelExp:      100,
		HP:                100,
		MaxHP:             100,
		MP:                50,
		MaxMP:             50,
		Luck:              10,
		PhysicalCondition: ConditionNormal,
		Inventory:         []Item{},
		Shadows:           []Shadow{},
		Status:            []string{},
		Contacts:          []Contact{},
		WorldLog:          []WorldEvent{},
		GuildHistory:      []string{},
	}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (h Hunter) Clone() Hunter {
	c := h
	c.Inventory = cloneSlice(h.Inventory)
	c.Shadows = cloneSlice(h.Shadows)
	c.Status = cloneSlice(h.Status)
	c.Contacts = cloneSlice(h.Contacts)
	c.WorldLog = cloneSlice(h.WorldLog)
	c.GuildHistory = cloneSlice(h.GuildHistory)
	if h.AwakeningHistory != nil {
		ah := *h.AwakeningHistory
		ah.Reawakenings = cloneSlice(h.AwakeningHistory.Reawakenings)
		c.AwakeningHistory = &ah
	}
	if h.WealthFactor != nil {
		w := *h.WealthFactor
		c.WealthFactor = &w
	}
	if h.Guild != nil {
		g := *h.Guild
		g.Benefits = cloneSlice(h.Guild.Benefits)
		c.Guild = &g
	}
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// DateLayout formats the dates stamped into awakening history and world events.
const DateLayout = "02/01/2006"
