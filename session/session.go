// Package session owns one player's game: the hunter, the history and the
// single in-flight narrative request.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hunter_ai/awakening"
	"hunter_ai/hunter"
	"hunter_ai/narrator"
	"hunter_ai/prompts"
	"hunter_ai/reconcile"
	"hunter_ai/reveal"
	"hunter_ai/shop"
)

var (
	// ErrBusy means a narrative request is already in flight.
	ErrBusy = errors.New("a turn is already in progress")
	// ErrNoHunter means no profile has been created yet.
	ErrNoHunter = errors.New("no hunter in session")
	// ErrNotAwakened means the hunter has not finished the awakening.
	ErrNotAwakened = errors.New("hunter has not awakened")
	// ErrAlreadyAwakened means the awakening was already finalized.
	ErrAlreadyAwakened = errors.New("hunter already awakened")
	// ErrRevealPending means the awakening reveal has not reached its summary.
	ErrRevealPending = errors.New("awakening reveal still running")
	// ErrNoInvitation means there is no guild invitation to answer.
	ErrNoInvitation = errors.New("no pending guild invitation")
	// ErrUnknownContact means the hunter has no contact with the given id.
	ErrUnknownContact = errors.New("unknown contact")
	// ErrEmptyAction means the submitted action was blank.
	ErrEmptyAction = errors.New("action is empty")
)

// Signal kinds pushed to the presentation layer.
const (
	SignalTurn        = "turn"
	SignalReawakening = "reawakening"
	SignalInvitation  = "guild_invitation"
)

// Signal is a transient notification for the presentation layer.
type Signal struct {
	Kind        string                 `json:"kind"`
	Reawakening *reconcile.Reawakening `json:"reawakening,omitempty"`
	Invitation  *hunter.Guild          `json:"invitation,omitempty"`
	Events      []string               `json:"events,omitempty"`
}

// Notifier receives signals for a session.
type Notifier interface {
	Notify(sessionID string, sig Signal)
}

// Timing holds the reveal pacing and the generation timeout.
type Timing struct {
	RollDelay          time.Duration
	RevealDelay        time.Duration
	ReawakenStatsDelay time.Duration
	ReawakenRankDelay  time.Duration
	GenerationTimeout  time.Duration
}

// Options wires a session's collaborators.
type Options struct {
	Generator narrator.Generator
	Rand      awakening.Source
	Clock     reveal.Clock
	NewID     func() string
	Logger    *log.Logger
	Notifier  Notifier
	Timing    Timing
}

type pendingAwakening struct {
	seq    *reveal.Sequence
	hunter hunter.Hunter
}

type activeReawakening struct {
	seq    *reveal.Sequence
	signal reconcile.Reawakening
}

// Session is one player's game. All methods are safe for concurrent use;
// only one narrative request runs at a time.
type Session struct {
	ID string

	opts       Options
	reconciler *reconcile.Reconciler

	mu          sync.Mutex
	state       State
	busy        bool
	awakening   *pendingAwakening
	reawakening *activeReawakening
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = reveal.SystemClock{}
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Rand == nil {
		o.Rand = awakening.NewLocked(awakening.NewSeeded(uint64(time.Now().UnixNano())))
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// New creates an empty session.
func New(id string, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		ID:   id,
		opts: opts,
		reconciler: &reconcile.Reconciler{
			Rand:  opts.Rand,
			Now:   opts.Clock.Now,
			NewID: opts.NewID,
		},
		state: newState(),
	}
}

// CreateProfile starts a new game with a profile shell for name, discarding
// any previous hunter.
func (s *Session) CreateProfile(name string, mode Mode) (hunter.Hunter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return hunter.Hunter{}, fmt.Errorf("hunter name is required")
	}
	if mode == "" {
		mode = ModeNormal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return hunter.Hunter{}, ErrBusy
	}
	h := hunter.New(name, awakening.RollAge(s.opts.Rand))
	style := s.state.Style
	s.state = newState()
	s.state.Style = style
	s.state.Mode = mode
	s.state.Hunter = &h
	s.awakening = nil
	s.reawakening = nil
	return h, nil
}

// BeginAwakening rolls the hunter and starts the reveal sequence.
func (s *Session) BeginAwakening() (reveal.Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Hunter == nil {
		return "", ErrNoHunter
	}
	if s.state.Awakened {
		return "", ErrAlreadyAwakened
	}
	if s.awakening != nil {
		return s.awakening.seq.Phase(), nil
	}
	rolled := awakening.Awaken(*s.state.Hunter, s.opts.Rand, s.opts.Clock.Now())
	t := s.opts.Timing
	s.awakening = &pendingAwakening{
		seq:    reveal.Start(s.opts.Clock, reveal.AwakeningSteps(t.RollDelay, t.RevealDelay)...),
		hunter: rolled,
	}
	s.opts.Logger.Printf("session %s: awakening rolled rank %s", s.ID, rolled.Rank)
	return s.awakening.seq.Phase(), nil
}

// AwakeningStatus reports the reveal phase. The rolled hunter is returned
// only once the reveal has passed the rolling phase.
func (s *Session) AwakeningStatus() (reveal.Phase, *hunter.Hunter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Hunter == nil {
		return "", nil, ErrNoHunter
	}
	if s.state.Awakened {
		h := s.state.Hunter.Clone()
		return reveal.Summary, &h, nil
	}
	if s.awakening == nil {
		return reveal.Intro, nil, nil
	}
	phase := s.awakening.seq.Phase()
	if phase == reveal.Rolling {
		return phase, nil, nil
	}
	h := s.awakening.hunter.Clone()
	return phase, &h, nil
}

// FinalizeAwakening commits the rolled hunter once the reveal reached its
// summary, then plays the opening action.
func (s *Session) FinalizeAwakening(ctx context.Context) (narrator.Response, error) {
	s.mu.Lock()
	switch {
	case s.busy:
		s.mu.Unlock()
		return narrator.Response{}, ErrBusy
	case s.state.Awakened:
		s.mu.Unlock()
		return narrator.Response{}, ErrAlreadyAwakened
	case s.awakening == nil:
		s.mu.Unlock()
		return narrator.Response{}, ErrNotAwakened
	case !s.awakening.seq.Done():
		s.mu.Unlock()
		return narrator.Response{}, ErrRevealPending
	}
	s.setHunter(s.awakening.hunter)
	s.state.Awakened = true
	s.awakening = nil
	req, err := s.beginTurn(prompts.OpeningAction)
	s.mu.Unlock()
	if err != nil {
		return narrator.Response{}, err
	}
	return s.playTurn(ctx, req), nil
}

// Act plays one turn: the generator is asked for the next scene and its
// updates are reconciled into the hunter. A failing generator yields the
// fallback response and leaves the hunter untouched.
func (s *Session) Act(ctx context.Context, action string) (narrator.Response, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return narrator.Response{}, ErrEmptyAction
	}

	s.mu.Lock()
	req, err := s.beginTurn(action)
	s.mu.Unlock()
	if err != nil {
		return narrator.Response{}, err
	}
	return s.playTurn(ctx, req), nil
}

// beginTurn claims the turn slot for action. Callers hold mu.
func (s *Session) beginTurn(action string) (narrator.Request, error) {
	if s.busy {
		return narrator.Request{}, ErrBusy
	}
	if s.state.Hunter == nil {
		return narrator.Request{}, ErrNoHunter
	}
	if !s.state.Awakened {
		return narrator.Request{}, ErrNotAwakened
	}
	s.busy = true
	return narrator.Request{Hunter: s.state.Hunter.Clone(), Style: s.state.Style, Action: action}, nil
}

// playTurn runs a turn claimed by beginTurn and releases the slot.
func (s *Session) playTurn(ctx context.Context, req narrator.Request) narrator.Response {
	resp := s.generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	var sigs []Signal
	if s.state.Hunter != nil && resp.Updates != nil {
		res := s.reconciler.Apply(*s.state.Hunter, resp.Updates)
		s.setHunter(res.Hunter)
		if res.Invitation != nil {
			s.state.PendingInvitation = res.Invitation
			s.opts.Logger.Printf("session %s: guild invitation from %s", s.ID, res.Invitation.Name)
			sigs = append(sigs, Signal{Kind: SignalInvitation, Invitation: res.Invitation})
		}
		if res.Reawakening != nil {
			t := s.opts.Timing
			s.reawakening = &activeReawakening{
				seq:    reveal.Start(s.opts.Clock, reveal.ReawakeningSteps(t.ReawakenStatsDelay, t.ReawakenRankDelay)...),
				signal: *res.Reawakening,
			}
			s.opts.Logger.Printf("session %s: reawakening %s -> %s", s.ID, res.Reawakening.Before.Rank, res.Reawakening.After.Rank)
			sigs = append(sigs, Signal{Kind: SignalReawakening, Reawakening: res.Reawakening})
		}
	}
	s.state.History = append(s.state.History,
		Exchange{Role: RoleUser, Text: req.Action},
		Exchange{Role: RoleSystem, Text: resp.Narrative},
	)
	last := resp
	s.state.LastResponse = &last

	sigs = append(sigs, Signal{Kind: SignalTurn, Events: resp.Events})
	s.notify(sigs...)
	return resp
}

// setHunter stores h with its HP and MP ceilings recomputed. Callers hold mu.
func (s *Session) setHunter(h hunter.Hunter) {
	h = hunter.Refresh(h)
	s.state.Hunter = &h
}

func (s *Session) generate(ctx context.Context, req narrator.Request) narrator.Response {
	if s.opts.Generator == nil {
		return narrator.Fallback()
	}
	if d := s.opts.Timing.GenerationTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	resp, err := s.opts.Generator.GenerateScene(ctx, req)
	if err != nil {
		s.opts.Logger.Printf("session %s: generation failed, using fallback: %v", s.ID, err)
		return narrator.Fallback()
	}
	return resp
}

func (s *Session) notify(sigs ...Signal) {
	if s.opts.Notifier == nil {
		return
	}
	for _, sig := range sigs {
		s.opts.Notifier.Notify(s.ID, sig)
	}
}

// Busy reports whether a turn is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// View is the hunter as displayed, with effective stats and derived pools.
func (s *Session) View() (hunter.Hunter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Hunter == nil {
		return hunter.Hunter{}, ErrNoHunter
	}
	return hunter.View(*s.state.Hunter), nil
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Restore replaces the session state with a loaded snapshot.
func (s *Session) Restore(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	st = st.clone()
	if st.Hunter != nil {
		h := hunter.Refresh(*st.Hunter)
		st.Hunter = &h
	}
	if st.History == nil {
		st.History = []Exchange{}
	}
	if st.Style == "" {
		st.Style = narrator.Detailed
	}
	s.state = st
	s.awakening = nil
	s.reawakening = nil
	return nil
}

// ToggleStyle flips the narrative verbosity and returns the new style.
func (s *Session) ToggleStyle() narrator.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Style = s.state.Style.Toggle()
	return s.state.Style
}

// SetAvatar sets the hunter's avatar reference.
func (s *Session) SetAvatar(url string) error {
	return s.mutate(func(h hunter.Hunter) (hunter.Hunter, error) {
		h.AvatarURL = strings.TrimSpace(url)
		return h, nil
	})
}

// Equip equips the inventory item with the given id. It reports false and
// changes nothing when the item is missing or fits no slot.
func (s *Session) Equip(itemID string) bool {
	ok := false
	_ = s.mutate(func(h hunter.Hunter) (hunter.Hunter, error) {
		it, found := h.FindItem(itemID)
		if !found {
			return h, nil
		}
		h, ok = hunter.Equip(h, it)
		return h, nil
	})
	return ok
}

// Unequip empties the named slot.
func (s *Session) Unequip(slot hunter.Slot) error {
	return s.mutate(func(h hunter.Hunter) (hunter.Hunter, error) {
		return hunter.Unequip(h, slot), nil
	})
}

// Buy purchases a catalog item.
func (s *Session) Buy(catalogID string) (hunter.Item, error) {
	var bought hunter.Item
	err := s.mutate(func(h hunter.Hunter) (hunter.Hunter, error) {
		next, it, err := shop.Buy(h, catalogID, s.opts.NewID)
		bought = it
		return next, err
	})
	if err != nil {
		s.opts.Logger.Printf("session %s: purchase of %s rejected: %v", s.ID, catalogID, err)
	}
	return bought, err
}

// Sell sells an inventory item and returns the gold credited.
func (s *Session) Sell(itemID string) (int, error) {
	var credit int
	err := s.mutate(func(h hunter.Hunter) (hunter.Hunter, error) {
		next, c, err := shop.Sell(h, itemID)
		credit = c
		return next, err
	})
	if err != nil {
		s.opts.Logger.Printf("session %s: sale of %s rejected: %v", s.ID, itemID, err)
	}
	return credit, err
}

// mutate applies f to the hunter as one atomic intent. The hunter is left
// unchanged when f fails.
func (s *Session) mutate(f func(hunter.Hunter) (hunter.Hunter, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Hunter == nil {
		return ErrNoHunter
	}
	next, err := f(s.state.Hunter.Clone())
	if err != nil {
		return err
	}
	s.setHunter(next)
	return nil
}
