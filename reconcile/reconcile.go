package reconcile

import (
	"time"

	"github.com/google/uuid"

	"hunter_ai/awakening"
	"hunter_ai/hunter"
)

// Reawakening is the transient signal emitted when a rank change boosts a
// hunter. The presentation layer plays it once and discards it.
type Reawakening struct {
	Before hunter.Hunter `json:"before"`
	After  hunter.Hunter `json:"after"`
}

// Result is the outcome of applying one update.
type Result struct {
	Hunter hunter.Hunter
	// Invitation is a guild offer awaiting the player's answer. The hunter is
	// not changed by it.
	Invitation *hunter.Guild
	// Reawakening is set when the update went through the reawakening path.
	Reawakening *Reawakening
}

// Reconciler applies narrative updates. Rand drives the reawakening boost.
type Reconciler struct {
	Rand  awakening.Source
	Now   func() time.Time
	NewID func() string
}

// New returns a reconciler using rng, the wall clock and random uuids.
func New(rng awakening.Source) *Reconciler {
	return &Reconciler{Rand: rng, Now: time.Now, NewID: uuid.NewString}
}

// Awakened reports whether h has completed its initial awakening.
func Awakened(h hunter.Hunter) bool {
	return h.AwakeningHistory != nil
}

// Apply merges u into h. A rank change on an awakened hunter takes the
// reawakening path; anything else is a plain field merge.
func (r *Reconciler) Apply(h hunter.Hunter, u *Update) Result {
	if u == nil {
		return Result{Hunter: h}
	}

	res := Result{}
	if u.GuildInvitation != nil {
		inv := *u.GuildInvitation
		res.Invitation = &inv
	}

	if rank, ok := u.NewRank(); ok && rank != h.Rank && Awakened(h) {
		next, sig := r.Reawaken(h, u, rank)
		res.Hunter = next
		res.Reawakening = &sig
		return res
	}

	res.Hunter = r.merge(h, u, true)
	return res
}

// Reawaken boosts every stat of h by one multiplier in [1.5, 3.0), merges
// the remaining fields of u and records the event in the awakening history.
func (r *Reconciler) Reawaken(h hunter.Hunter, u *Update, rank hunter.Rank) (hunter.Hunter, Reawakening) {
	before := h.Clone()
	oldStats := h.Stats

	boost := awakening.Uniform(r.Rand, 1.5, 3.0)
	newStats := oldStats.Map(func(v int) int { return int(float64(v) * boost) })

	next := r.merge(h, u, false)
	next.Rank = rank
	next.Stats = newStats

	date := r.now().Format(hunter.DateLayout)
	ah := hunter.AwakeningHistory{Date: date, OriginalRank: before.Rank}
	if before.AwakeningHistory != nil {
		ah = *before.AwakeningHistory
		ah.Reawakenings = append([]hunter.Reawakening(nil), before.AwakeningHistory.Reawakenings...)
	}
	oldRank, newRank := before.Rank, rank
	ah.Reawakened = true
	ah.ReawakeningDate = date
	ah.OldRank = &oldRank
	ah.NewRank = &newRank
	ah.StatsBefore = &oldStats
	ah.StatsAfter = &newStats
	ah.Reawakenings = append(ah.Reawakenings, hunter.Reawakening{
		Date:        date,
		OldRank:     oldRank,
		NewRank:     newRank,
		StatsBefore: oldStats,
		StatsAfter:  newStats,
	})
	next.AwakeningHistory = &ah

	next = hunter.Refresh(clampPools(next, u))
	return next, Reawakening{Before: before, After: next.Clone()}
}

// merge overwrites present scalar fields and appends list entries. When
// withRank is false the rank and stats of u are left for the caller.
func (r *Reconciler) merge(h hunter.Hunter, u *Update, withRank bool) hunter.Hunter {
	next := h.Clone()

	setInt(&next.HP, u.HP)
	setInt(&next.MP, u.MP)
	setInt(&next.Exp, u.Exp)
	setInt(&next.NextLevelExp, u.NextLevelExp)
	setInt(&next.Level, u.Level)
	setInt(&next.StatPoints, u.StatPoints)
	setInt(&next.Age, u.Age)
	if u.Gold != nil {
		next.Gold = max(*u.Gold, 0)
	}
	if u.Class != nil {
		next.Class = *u.Class
	}
	if u.PhysicalCondition != nil {
		next.PhysicalCondition = *u.PhysicalCondition
	}
	if u.PersonalObjective != nil {
		next.PersonalObjective = *u.PersonalObjective
	}
	if u.Status != nil {
		next.Status = append([]string{}, u.Status...)
	}
	if u.Inventory != nil {
		next.Inventory = r.identifyItems(u.Inventory)
	}
	if u.Guild != nil {
		g := *u.Guild
		next.Guild = &g
	}
	if withRank {
		if rank, ok := u.NewRank(); ok {
			next.Rank = rank
		}
		next.Stats = u.Stats.Overlay(next.Stats)
	}

	for _, c := range u.Contacts {
		next.Contacts = append(next.Contacts, r.identifyContact(c))
	}
	if u.NewContact != nil {
		next.Contacts = append(next.Contacts, r.identifyContact(*u.NewContact))
	}
	for _, e := range u.WorldLog {
		next.WorldLog = append(next.WorldLog, r.identifyEvent(e))
	}
	if u.WorldEvent != nil {
		next.WorldLog = append(next.WorldLog, r.identifyEvent(*u.WorldEvent))
	}
	for _, s := range u.Shadows {
		if s.ID == "" {
			s.ID = r.newID()
		}
		next.Shadows = append(next.Shadows, s)
	}

	if withRank {
		next = clampPools(next, u)
	}
	return hunter.Refresh(next)
}

// clampPools keeps updated HP and MP inside [0, derived max].
func clampPools(h hunter.Hunter, u *Update) hunter.Hunter {
	res := hunter.DerivedResources(hunter.EffectiveStats(h))
	if u.HP != nil {
		h.HP = min(max(h.HP, 0), res.MaxHP)
	}
	if u.MP != nil {
		h.MP = min(max(h.MP, 0), res.MaxMP)
	}
	return h
}

func (r *Reconciler) identifyItems(items []hunter.Item) []hunter.Item {
	out := make([]hunter.Item, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = r.newID()
		}
		out = append(out, it)
	}
	return out
}

func (r *Reconciler) identifyContact(c hunter.Contact) hunter.Contact {
	if c.ID == "" {
		c.ID = r.newID()
	}
	if c.Friendship == "" {
		c.Friendship = hunter.FriendshipNeutral
	}
	if c.Status == "" {
		c.Status = hunter.ContactActive
	}
	return c
}

func (r *Reconciler) identifyEvent(e hunter.WorldEvent) hunter.WorldEvent {
	if e.ID == "" {
		e.ID = r.newID()
	}
	if e.Date == "" {
		e.Date = r.now().Format(hunter.DateLayout)
	}
	return e
}

func (r *Reconciler) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Reconciler) newID() string {
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
