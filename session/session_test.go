package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"hunter_ai/awakening"
	"hunter_ai/hunter"
	"hunter_ai/narrator"
	"hunter_ai/prompts"
	"hunter_ai/reconcile"
	"hunter_ai/reveal"
)

type virtualClock struct{ now time.Time }

func (c *virtualClock) Now() time.Time          { return c.now }
func (c *virtualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeGenerator struct {
	mu      sync.Mutex
	actions []string
	last    narrator.Request
	resp    narrator.Response
	err     error
	block   chan struct{}
}

func (g *fakeGenerator) GenerateScene(ctx context.Context, req narrator.Request) (narrator.Response, error) {
	g.mu.Lock()
	g.actions = append(g.actions, req.Action)
	g.last = req
	block := g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	return g.resp, g.err
}

type recorder struct {
	mu   sync.Mutex
	sigs []Signal
}

func (r *recorder) Notify(_ string, sig Signal) {
	r.mu.Lock()
	r.sigs = append(r.sigs, sig)
	r.mu.Unlock()
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.sigs {
		out = append(out, s.Kind)
	}
	return out
}

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func ip(v int) *int       { return &v }
func sp(v string) *string { return &v }

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestSession(gen narrator.Generator) (*Session, *virtualClock, *recorder) {
	clock := &virtualClock{now: testNow}
	rec := &recorder{}
	s := New("s1", Options{
		Generator: gen,
		Rand:      awakening.NewSeeded(7),
		Clock:     clock,
		NewID:     counter(),
		Logger:    log.New(io.Discard, "", 0),
		Notifier:  rec,
		Timing: Timing{
			RollDelay:          4500 * time.Millisecond,
			RevealDelay:        3500 * time.Millisecond,
			ReawakenStatsDelay: 3 * time.Second,
			ReawakenRankDelay:  5 * time.Second,
		},
	})
	return s, clock, rec
}

func awakenedState(rank hunter.Rank) State {
	h := hunter.New("Jinwoo", 24)
	h.Rank = rank
	h.Stats = hunter.Stats{Strength: 10, Agility: 12, Perception: 7, Vitality: 9, Intelligence: 11}
	h.Gold = 1000
	h.AwakeningHistory = &hunter.AwakeningHistory{Date: "01/01/2026", OriginalRank: rank}
	return State{Hunter: &h, Mode: ModeNormal, Style: narrator.Detailed, Awakened: true}
}

func TestAwakeningFlow(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{Narrative: "You wake up.", Options: []string{"Stand"}}}
	s, clock, _ := newTestSession(gen)

	if _, err := s.BeginAwakening(); !errors.Is(err, ErrNoHunter) {
		t.Fatalf("begin without profile: %v", err)
	}
	shell, err := s.CreateProfile("Jinwoo", ModeHardcore)
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if shell.Age < 18 || shell.Age >= 33 || shell.AwakeningHistory != nil {
		t.Fatalf("shell = %+v", shell)
	}

	phase, err := s.BeginAwakening()
	if err != nil || phase != reveal.Rolling {
		t.Fatalf("begin = %s, %v", phase, err)
	}
	if phase, h, _ := s.AwakeningStatus(); phase != reveal.Rolling || h != nil {
		t.Fatalf("rolling leaked the result: %s %v", phase, h)
	}
	if _, err := s.FinalizeAwakening(context.Background()); !errors.Is(err, ErrRevealPending) {
		t.Fatalf("finalize during roll: %v", err)
	}

	clock.Advance(4500 * time.Millisecond)
	phase, rolled, _ := s.AwakeningStatus()
	if phase != reveal.Revealing || rolled == nil || rolled.AwakeningHistory == nil {
		t.Fatalf("revealing = %s %v", phase, rolled)
	}
	if rolled.AwakeningHistory.Date != "14/03/2026" {
		t.Fatalf("awakening date = %q", rolled.AwakeningHistory.Date)
	}

	clock.Advance(3500 * time.Millisecond)
	if phase, _, _ := s.AwakeningStatus(); phase != reveal.Summary {
		t.Fatalf("phase = %s", phase)
	}
	resp, err := s.FinalizeAwakening(context.Background())
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if resp.Narrative != "You wake up." || gen.actions[0] != prompts.OpeningAction {
		t.Fatalf("opening = %q, actions %q", resp.Narrative, gen.actions)
	}

	st := s.Snapshot()
	if !st.Awakened || st.Mode != ModeHardcore || st.Hunter.Rank != rolled.Rank || len(st.History) != 2 {
		t.Fatalf("state = %+v", st)
	}
	if _, err := s.BeginAwakening(); !errors.Is(err, ErrAlreadyAwakened) {
		t.Fatalf("second awakening: %v", err)
	}
}

func TestActWaitsForAwakening(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{
		Narrative: "Gold rains down.",
		Updates:   &reconcile.Update{Gold: ip(777)},
	}}
	s, clock, _ := newTestSession(gen)
	if _, err := s.CreateProfile("Jinwoo", ModeNormal); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Act(context.Background(), "Look around"); !errors.Is(err, ErrNotAwakened) {
		t.Fatalf("act on profile shell: %v", err)
	}
	if _, err := s.BeginAwakening(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Act(context.Background(), "Look around"); !errors.Is(err, ErrNotAwakened) {
		t.Fatalf("act during reveal: %v", err)
	}
	if len(gen.actions) != 0 || len(s.Snapshot().History) != 0 {
		t.Fatal("turn played before the awakening")
	}

	clock.Advance(8 * time.Second)
	if _, err := s.FinalizeAwakening(context.Background()); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	st := s.Snapshot()
	if st.Hunter.Gold != 777 || len(st.History) != 2 {
		t.Fatalf("gold = %d, history %d", st.Hunter.Gold, len(st.History))
	}
}

func TestGeneratorSeesDerivedPools(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{Narrative: "ok"}}
	s, _, _ := newTestSession(gen)
	if err := s.Restore(awakenedState(hunter.RankC)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Act(context.Background(), "Train"); err != nil {
		t.Fatal(err)
	}
	if h := gen.last.Hunter; h.MaxHP != 140 || h.MaxMP != 75 {
		t.Fatalf("generator saw %d/%d, want 140/75", h.MaxHP, h.MaxMP)
	}

	helmet, err := s.Buy("4")
	if err != nil {
		t.Fatal(err)
	}
	s.Equip(helmet.ID)
	if h := s.Snapshot().Hunter; h.MaxHP != 150 {
		t.Fatalf("stored max hp after equip = %d, want 150", h.MaxHP)
	}
}

func TestActFallsBackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	s, _, _ := newTestSession(gen)
	if err := s.Restore(awakenedState(hunter.RankC)); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot().Hunter.Clone()

	resp, err := s.Act(context.Background(), "Enter the gate")
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if resp.Narrative != prompts.FallbackNarrative {
		t.Fatalf("narrative = %q", resp.Narrative)
	}
	st := s.Snapshot()
	if st.Hunter.Gold != before.Gold || st.Hunter.Rank != before.Rank {
		t.Fatal("fallback changed the hunter")
	}
	want := []Exchange{{RoleUser, "Enter the gate"}, {RoleSystem, prompts.FallbackNarrative}}
	if len(st.History) != 2 || st.History[0] != want[0] || st.History[1] != want[1] {
		t.Fatalf("history = %+v", st.History)
	}
}

func TestActRejectsBlankAndMissingHunter(t *testing.T) {
	s, _, _ := newTestSession(&fakeGenerator{})
	if _, err := s.Act(context.Background(), "   "); !errors.Is(err, ErrEmptyAction) {
		t.Fatalf("blank: %v", err)
	}
	if _, err := s.Act(context.Background(), "look"); !errors.Is(err, ErrNoHunter) {
		t.Fatalf("no hunter: %v", err)
	}
}

func TestActIsSingleFlight(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{Narrative: "ok"}, block: make(chan struct{})}
	s, _, _ := newTestSession(gen)
	_ = s.Restore(awakenedState(hunter.RankE))

	done := make(chan error)
	go func() {
		_, err := s.Act(context.Background(), "first")
		done <- err
	}()
	for !s.Busy() {
		time.Sleep(time.Millisecond)
	}
	if _, err := s.Act(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second act: %v", err)
	}
	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first act: %v", err)
	}
	if s.Busy() {
		t.Fatal("still busy")
	}
	if len(gen.actions) != 1 {
		t.Fatalf("generator called %d times", len(gen.actions))
	}
}

func TestActReconcilesAndSignals(t *testing.T) {
	inv := &hunter.Guild{ID: "g1", Name: "White Tiger", Rank: hunter.RankA, Benefits: []string{"Healers"}}
	gen := &fakeGenerator{resp: narrator.Response{
		Narrative: "The gate collapses and your body burns.",
		Options:   []string{"Rest"},
		Updates: &reconcile.Update{
			Gold:            ip(1500),
			Rank:            sp("A"),
			GuildInvitation: inv,
			WorldEvent:      &hunter.WorldEvent{Title: "Red Gate"},
		},
		Events: []string{"+500 gold"},
	}}
	s, clock, rec := newTestSession(gen)
	_ = s.Restore(awakenedState(hunter.RankC))

	if _, err := s.Act(context.Background(), "Clear the boss room"); err != nil {
		t.Fatalf("act: %v", err)
	}

	st := s.Snapshot()
	if st.Hunter.Gold != 1500 || st.Hunter.Rank != hunter.RankA || len(st.Hunter.WorldLog) != 1 {
		t.Fatalf("hunter = %+v", st.Hunter)
	}
	if st.PendingInvitation == nil || st.PendingInvitation.Name != "White Tiger" {
		t.Fatal("invitation not pending")
	}
	if st.Hunter.Guild != nil {
		t.Fatal("invitation joined the guild")
	}
	if st.LastResponse == nil || st.LastResponse.Events[0] != "+500 gold" {
		t.Fatal("last response not kept")
	}

	got := rec.kinds()
	want := []string{SignalInvitation, SignalReawakening, SignalTurn}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("signals = %v, want %v", got, want)
	}

	sig, phase, ok := s.Reawakening()
	if !ok || phase != reveal.Surge || sig.Before.Rank != hunter.RankC || sig.After.Rank != hunter.RankA {
		t.Fatalf("reawakening = %v %s %v", ok, phase, sig)
	}
	clock.Advance(3 * time.Second)
	if _, phase, _ := s.Reawakening(); phase != reveal.StatsRise {
		t.Fatalf("phase = %s", phase)
	}
	clock.Advance(5 * time.Second)
	if _, phase, _ := s.Reawakening(); phase != reveal.RankShift {
		t.Fatalf("phase = %s", phase)
	}
	s.DismissReawakening()
	if _, _, ok := s.Reawakening(); ok {
		t.Fatal("overlay not dismissed")
	}
}

func TestAcceptInvitation(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{Narrative: "Welcome."}}
	s, _, _ := newTestSession(gen)
	st := awakenedState(hunter.RankB)
	st.PendingInvitation = &hunter.Guild{ID: "g1", Name: "Hunters Guild", Rank: hunter.RankS, Reputation: 80}
	_ = s.Restore(st)

	if _, err := s.AcceptInvitation(context.Background()); err != nil {
		t.Fatalf("accept: %v", err)
	}
	got := s.Snapshot()
	g := got.Hunter.Guild
	if g == nil || g.Name != "Hunters Guild" || g.PlayerRank == nil || *g.PlayerRank != hunter.GuildRecruit || g.Reputation != 10 {
		t.Fatalf("guild = %+v", g)
	}
	if len(got.Hunter.GuildHistory) != 1 || got.Hunter.GuildHistory[0] != "Hunters Guild" {
		t.Fatalf("guild history = %v", got.Hunter.GuildHistory)
	}
	if got.PendingInvitation != nil {
		t.Fatal("invitation still pending")
	}
	if gen.actions[0] != fmt.Sprintf(prompts.AcceptGuild, "Hunters Guild") {
		t.Fatalf("action = %q", gen.actions[0])
	}
	if _, err := s.AcceptInvitation(context.Background()); !errors.Is(err, ErrNoInvitation) {
		t.Fatalf("second accept: %v", err)
	}
}

func TestAcceptInvitationDuringTurnKeepsInvitation(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{Narrative: "ok"}, block: make(chan struct{})}
	s, _, _ := newTestSession(gen)
	st := awakenedState(hunter.RankB)
	st.PendingInvitation = &hunter.Guild{ID: "g1", Name: "Hunters Guild"}
	_ = s.Restore(st)

	done := make(chan error)
	go func() {
		_, err := s.Act(context.Background(), "Walk home")
		done <- err
	}()
	for !s.Busy() {
		time.Sleep(time.Millisecond)
	}
	if _, err := s.AcceptInvitation(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("accept during turn: %v", err)
	}
	close(gen.block)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	got := s.Snapshot()
	if got.Hunter.Guild != nil || len(got.Hunter.GuildHistory) != 0 || s.Invitation() == nil {
		t.Fatal("rejected accept changed the hunter")
	}
	if _, err := s.AcceptInvitation(context.Background()); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if gen.actions[1] != fmt.Sprintf(prompts.AcceptGuild, "Hunters Guild") {
		t.Fatalf("actions = %q", gen.actions)
	}
}

func TestDeclineInvitation(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{Narrative: "They nod."}}
	s, _, _ := newTestSession(gen)
	st := awakenedState(hunter.RankB)
	st.PendingInvitation = &hunter.Guild{ID: "g1", Name: "Fiend"}
	_ = s.Restore(st)

	if _, err := s.DeclineInvitation(context.Background()); err != nil {
		t.Fatalf("decline: %v", err)
	}
	got := s.Snapshot()
	if got.Hunter.Guild != nil || got.PendingInvitation != nil {
		t.Fatal("decline joined or kept the invitation")
	}
	if got.Hunter.GuildHistory[0] != "Declined: Fiend" {
		t.Fatalf("guild history = %v", got.Hunter.GuildHistory)
	}
}

func TestCallContact(t *testing.T) {
	gen := &fakeGenerator{resp: narrator.Response{Narrative: "Ring ring."}}
	s, _, _ := newTestSession(gen)
	st := awakenedState(hunter.RankD)
	st.Hunter.Contacts = []hunter.Contact{{ID: "c1", Name: "Yoo Jinho", Profession: "Heir"}}
	_ = s.Restore(st)

	if _, err := s.CallContact(context.Background(), "missing"); !errors.Is(err, ErrUnknownContact) {
		t.Fatalf("missing contact: %v", err)
	}
	if _, err := s.CallContact(context.Background(), "c1"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if want := fmt.Sprintf(prompts.CallContact, "Yoo Jinho", "Heir"); gen.actions[0] != want {
		t.Fatalf("action = %q", gen.actions[0])
	}
}

func TestStoreAndEquipmentIntents(t *testing.T) {
	s, _, _ := newTestSession(&fakeGenerator{})
	_ = s.Restore(awakenedState(hunter.RankE))

	dagger, err := s.Buy("3")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !s.Equip(dagger.ID) {
		t.Fatal("equip failed")
	}
	v, _ := s.View()
	if v.Stats.Strength != 12 || v.Gold != 800 {
		t.Fatalf("view = %+v", v)
	}
	if s.Equip("nope") {
		t.Fatal("equipped a missing item")
	}

	credit, err := s.Sell(dagger.ID)
	if err != nil || credit != 100 {
		t.Fatalf("sell = %d, %v", credit, err)
	}
	v, _ = s.View()
	if v.Gold != 900 || v.Stats.Strength != 10 || v.Equipment.Get(hunter.SlotWeapon) != nil {
		t.Fatalf("view after sale = %+v", v)
	}

	if _, err := s.Buy("5"); err == nil {
		t.Fatal("bought an unaffordable relic")
	}
	if v, _ := s.View(); v.Gold != 900 {
		t.Fatalf("failed purchase changed gold to %d", v.Gold)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s, _, _ := newTestSession(&fakeGenerator{})
	_ = s.Restore(awakenedState(hunter.RankE))
	snap := s.Snapshot()
	snap.Hunter.Gold = 1
	snap.History = append(snap.History, Exchange{RoleUser, "x"})

	again := s.Snapshot()
	if again.Hunter.Gold != 1000 || len(again.History) != 0 {
		t.Fatal("snapshot aliases session state")
	}
}

func TestToggleStyle(t *testing.T) {
	s, _, _ := newTestSession(&fakeGenerator{})
	if s.ToggleStyle() != narrator.Simplified || s.ToggleStyle() != narrator.Detailed {
		t.Fatal("toggle broken")
	}
}

func TestManager(t *testing.T) {
	m := NewManager(Options{NewID: counter(), Logger: log.New(io.Discard, "", 0)})
	a := m.Create()
	b := m.Create()
	if a.ID == b.ID {
		t.Fatal("duplicate session ids")
	}
	got, err := m.Get(a.ID)
	if err != nil || got != a {
		t.Fatalf("get = %v, %v", got, err)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("unknown: %v", err)
	}
	m.Delete(a.ID)
	if m.Len() != 1 {
		t.Fatalf("len = %d", m.Len())
	}
}
