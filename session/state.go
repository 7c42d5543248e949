package session

import (
	"hunter_ai/hunter"
	"hunter_ai/narrator"
)

// Mode is the difficulty the game was started with.
type Mode string

const (
	ModeNormal   Mode = "NORMAL"
	ModeHardcore Mode = "HARDCORE"
	ModeIronman  Mode = "IRONMAN"
)

// Roles of history entries.
const (
	RoleUser   = "user"
	RoleSystem = "system"
)

// Exchange is one line of the session history.
type Exchange struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// State is everything a save slot holds.
type State struct {
	Hunter            *hunter.Hunter     `json:"hunter"`
	Mode              Mode               `json:"mode"`
	Style             narrator.Style     `json:"narrativeStyle"`
	History           []Exchange         `json:"history"`
	Awakened          bool               `json:"isAwakened"`
	ActiveGate        string             `json:"activeGate,omitempty"`
	LastResponse      *narrator.Response `json:"lastResponse,omitempty"`
	PendingInvitation *hunter.Guild      `json:"pendingInvitation,omitempty"`
}

func newState() State {
	return State{Mode: ModeNormal, Style: narrator.Detailed, History: []Exchange{}}
}

func (s State) clone() State {
	c := s
	if s.Hunter != nil {
		h := s.Hunter.Clone()
		c.Hunter = &h
	}
	c.History = append(make([]Exchange, 0, len(s.History)), s.History...)
	if s.LastResponse != nil {
		r := *s.LastResponse
		c.LastResponse = &r
	}
	if s.PendingInvitation != nil {
		g := *s.PendingInvitation
		c.PendingInvitation = &g
	}
	return c
}
