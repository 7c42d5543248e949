package session

import (
	"context"
	"fmt"

	"hunter_ai/hunter"
	"hunter_ai/narrator"
	"hunter_ai/prompts"
	"hunter_ai/reconcile"
	"hunter_ai/reveal"
)

const joinReputation = 10

// Invitation returns the pending guild invitation, if any.
func (s *Session) Invitation() *hunter.Guild {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.PendingInvitation == nil {
		return nil
	}
	g := *s.state.PendingInvitation
	return &g
}

// AcceptInvitation joins the pending guild as a recruit and narrates it.
// The join and the turn slot are taken together so no other turn can slip
// in between.
func (s *Session) AcceptInvitation(ctx context.Context) (narrator.Response, error) {
	s.mu.Lock()
	inv, err := s.peekInvitation()
	if err != nil {
		s.mu.Unlock()
		return narrator.Response{}, err
	}
	req, err := s.beginTurn(fmt.Sprintf(prompts.AcceptGuild, inv.Name))
	if err != nil {
		s.mu.Unlock()
		return narrator.Response{}, err
	}
	rank := hunter.GuildRecruit
	inv.PlayerRank = &rank
	inv.Reputation = joinReputation
	h := s.state.Hunter.Clone()
	h.Guild = &inv
	h.GuildHistory = append(h.GuildHistory, inv.Name)
	s.setHunter(h)
	s.state.PendingInvitation = nil
	s.mu.Unlock()

	s.opts.Logger.Printf("session %s: joined guild %s", s.ID, inv.Name)
	return s.playTurn(ctx, req), nil
}

// DeclineInvitation records the refusal and narrates it.
func (s *Session) DeclineInvitation(ctx context.Context) (narrator.Response, error) {
	s.mu.Lock()
	inv, err := s.peekInvitation()
	if err != nil {
		s.mu.Unlock()
		return narrator.Response{}, err
	}
	req, err := s.beginTurn(fmt.Sprintf(prompts.DeclineGuild, inv.Name))
	if err != nil {
		s.mu.Unlock()
		return narrator.Response{}, err
	}
	h := s.state.Hunter.Clone()
	h.GuildHistory = append(h.GuildHistory, "Declined: "+inv.Name)
	s.setHunter(h)
	s.state.PendingInvitation = nil
	s.mu.Unlock()

	return s.playTurn(ctx, req), nil
}

// peekInvitation returns a copy of the pending invitation. Callers hold mu.
func (s *Session) peekInvitation() (hunter.Guild, error) {
	if s.busy {
		return hunter.Guild{}, ErrBusy
	}
	if s.state.Hunter == nil {
		return hunter.Guild{}, ErrNoHunter
	}
	if s.state.PendingInvitation == nil {
		return hunter.Guild{}, ErrNoInvitation
	}
	inv := *s.state.PendingInvitation
	inv.Benefits = append([]string(nil), inv.Benefits...)
	return inv, nil
}

// CallContact plays a phone call to one of the hunter's contacts.
func (s *Session) CallContact(ctx context.Context, contactID string) (narrator.Response, error) {
	s.mu.Lock()
	if s.state.Hunter == nil {
		s.mu.Unlock()
		return narrator.Response{}, ErrNoHunter
	}
	var found *hunter.Contact
	for _, c := range s.state.Hunter.Contacts {
		if c.ID == contactID {
			found = &c
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return narrator.Response{}, fmt.Errorf("%w: %s", ErrUnknownContact, contactID)
	}
	req, err := s.beginTurn(fmt.Sprintf(prompts.CallContact, found.Name, found.Profession))
	s.mu.Unlock()
	if err != nil {
		return narrator.Response{}, err
	}
	return s.playTurn(ctx, req), nil
}

// Reawakening returns the active reawakening and its overlay phase.
func (s *Session) Reawakening() (*reconcile.Reawakening, reveal.Phase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reawakening == nil {
		return nil, "", false
	}
	sig := s.reawakening.signal
	return &sig, s.reawakening.seq.Phase(), true
}

// DismissReawakening clears the reawakening overlay.
func (s *Session) DismissReawakening() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reawakening = nil
}
