// Package reconcile merges sparse updates from the narrative generator into
// a hunter, routing rank changes through the reawakening transform.
package reconcile

import "hunter_ai/hunter"

// Update is a sparse partial hunter record. Nil fields are left untouched,
// down to single attributes of Stats.
// Contacts, WorldLog and Shadows, and the singular NewContact and WorldEvent,
// append to the hunter's lists instead of replacing them.
type Update struct {
	HP                *int                      `json:"hp,omitempty"`
	MP                *int                      `json:"mp,omitempty"`
	Exp               *int                      `json:"exp,omitempty"`
	NextLevelExp      *int                      `json:"nextLevelExp,omitempty"`
	Gold              *int                      `json:"gold,omitempty"`
	Level             *int                      `json:"level,omitempty"`
	StatPoints        *int                      `json:"statPoints,omitempty"`
	Age               *int                      `json:"age,omitempty"`
	Rank              *string                   `json:"rank,omitempty"`
	Class             *hunter.Class             `json:"class,omitempty"`
	Stats             *hunter.BonusStats        `json:"stats,omitempty"`
	PhysicalCondition *hunter.PhysicalCondition `json:"physicalCondition,omitempty"`
	PersonalObjective *string                   `json:"personalObjective,omitempty"`
	Status            []string                  `json:"status,omitempty"`
	Inventory         []hunter.Item             `json:"inventory,omitempty"`
	Guild             *hunter.Guild             `json:"guild,omitempty"`

	Contacts   []hunter.Contact    `json:"contacts,omitempty"`
	WorldLog   []hunter.WorldEvent `json:"worldLog,omitempty"`
	Shadows    []hunter.Shadow     `json:"shadows,omitempty"`
	NewContact *hunter.Contact     `json:"newContact,omitempty"`
	WorldEvent *hunter.WorldEvent  `json:"worldEvent,omitempty"`

	GuildInvitation *hunter.Guild `json:"guildInvitation,omitempty"`
}

// NewRank returns the rank carried by u, if it names a known rank.
func (u *Update) NewRank() (hunter.Rank, bool) {
	if u == nil || u.Rank == nil {
		return "", false
	}
	return hunter.ParseRank(*u.Rank)
}

// AppendCount is the number of list entries u appends across the
// append-only lists.
func (u *Update) AppendCount() int {
	if u == nil {
		return 0
	}
	n := len(u.Contacts) + len(u.WorldLog) + len(u.Shadows)
	if u.NewContact != nil {
		n++
	}
	if u.WorldEvent != nil {
		n++
	}
	return n
}
