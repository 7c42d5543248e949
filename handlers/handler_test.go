package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hunter_ai/awakening"
	"hunter_ai/hunter"
	"hunter_ai/narrator"
	"hunter_ai/saves"
	"hunter_ai/session"
)

type virtualClock struct{ now time.Time }

func (c *virtualClock) Now() time.Time { return c.now }

type scriptedGenerator struct{ narrative string }

func (g scriptedGenerator) GenerateScene(_ context.Context, req narrator.Request) (narrator.Response, error) {
	return narrator.Response{Narrative: g.narrative + " (" + req.Action + ")", Options: []string{"Look around"}}, nil
}

type noLive struct{}

func (noLive) Serve(w http.ResponseWriter, _ *http.Request, _ string) {
	w.WriteHeader(http.StatusNotImplemented)
}

type fixture struct {
	t      *testing.T
	mux    *http.ServeMux
	mgr    *session.Manager
	clock  *virtualClock
	cookie *http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := saves.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open saves: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := &virtualClock{now: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
	logger := log.New(io.Discard, "", 0)
	mgr := session.NewManager(session.Options{
		Generator: scriptedGenerator{narrative: "The System responds"},
		Rand:      awakening.NewSeeded(3),
		Clock:     clock,
		Logger:    logger,
		Timing:    session.Timing{RollDelay: time.Second, RevealDelay: time.Second},
	})
	h := &Handler{Manager: mgr, Saves: store, Live: noLive{}, Logger: logger}
	mux := http.NewServeMux()
	h.Routes(mux)
	return &fixture{t: t, mux: mux, mgr: mgr, clock: clock}
}

func (f *fixture) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	f.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			f.cookie = c
		}
	}
	return rec
}

func (f *fixture) session() *session.Session {
	f.t.Helper()
	if f.cookie == nil {
		f.t.Fatal("no session cookie")
	}
	s, err := f.mgr.Get(f.cookie.Value)
	if err != nil {
		f.t.Fatalf("session: %v", err)
	}
	return s
}

func (f *fixture) awakened(gold int) *session.Session {
	f.t.Helper()
	f.do(http.MethodGet, "/", nil)
	s := f.session()
	h := hunter.New("Jinwoo", 24)
	h.Gold = gold
	h.AwakeningHistory = &hunter.AwakeningHistory{Date: "01/06/2026", OriginalRank: hunter.RankE}
	if err := s.Restore(session.State{Hunter: &h, Awakened: true}); err != nil {
		f.t.Fatal(err)
	}
	return s
}

func TestIndexSetsCookieAndShowsStartForm(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.cookie == nil || f.cookie.Value == "" {
		t.Fatal("no session cookie set")
	}
	if !strings.Contains(rec.Body.String(), `hx-post="/start"`) {
		t.Fatal("start form missing")
	}
}

func TestAwakeningFlow(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/start", url.Values{"name": {"Jinwoo"}, "mode": {"hardcore"}})
	if !strings.Contains(rec.Body.String(), `hx-get="/awakening"`) {
		t.Fatalf("start did not begin the awakening: %s", rec.Body.String())
	}

	f.do(http.MethodPost, "/awakening/finalize", url.Values{})
	if f.session().Snapshot().Awakened {
		t.Fatal("finalized during roll")
	}

	f.clock.now = f.clock.now.Add(2 * time.Second)
	rec = f.do(http.MethodGet, "/awakening", nil)
	if !strings.Contains(rec.Body.String(), "/awakening/finalize") {
		t.Fatalf("summary missing: %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/awakening/finalize", url.Values{})
	body := rec.Body.String()
	if !strings.Contains(body, "The System responds") || !strings.Contains(body, `id="sheet"`) {
		t.Fatalf("game view missing opening scene: %s", body)
	}
	if st := f.session().Snapshot(); !st.Awakened || st.Mode != session.ModeHardcore {
		t.Fatalf("state = %+v", st)
	}
}

func TestActionRendersScene(t *testing.T) {
	f := newFixture(t)
	f.awakened(0)
	rec := f.do(http.MethodPost, "/action", url.Values{"action": {"Enter the gate"}})
	if !strings.Contains(rec.Body.String(), "The System responds (Enter the gate)") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	rec = f.do(http.MethodPost, "/action", url.Values{"action": {"  "}})
	if !strings.Contains(rec.Body.String(), "Describe what you want to do.") {
		t.Fatal("blank action not reported")
	}
}

func TestBuyAndSell(t *testing.T) {
	f := newFixture(t)
	s := f.awakened(100)

	rec := f.do(http.MethodPost, "/buy", url.Values{"item": {"3"}})
	if !strings.Contains(rec.Body.String(), "Not enough gold.") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/buy", url.Values{"item": {"1"}})
	if !strings.Contains(rec.Body.String(), "Bought Minor Health Potion.") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	st := s.Snapshot()
	if st.Hunter.Gold != 50 || len(st.Hunter.Inventory) != 1 {
		t.Fatalf("hunter = %+v", st.Hunter)
	}

	rec = f.do(http.MethodPost, "/sell", url.Values{"item": {st.Hunter.Inventory[0].ID}})
	if !strings.Contains(rec.Body.String(), "Sold for 25 gold.") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestEquipAndUnequip(t *testing.T) {
	f := newFixture(t)
	s := f.awakened(1000)
	it, err := s.Buy("3")
	if err != nil {
		t.Fatal(err)
	}

	f.do(http.MethodPost, "/equip", url.Values{"item": {it.ID}})
	if v, _ := s.View(); v.Stats.Strength != 2 {
		t.Fatalf("strength = %d", v.Stats.Strength)
	}
	f.do(http.MethodPost, "/unequip", url.Values{"slot": {"weapon"}})
	if v, _ := s.View(); v.Stats.Strength != 0 {
		t.Fatalf("strength after unequip = %d", v.Stats.Strength)
	}
	rec := f.do(http.MethodPost, "/unequip", url.Values{"slot": {"cape"}})
	if !strings.Contains(rec.Body.String(), "Unknown equipment slot.") {
		t.Fatal("bad slot not reported")
	}
}

func TestSaveAndLoad(t *testing.T) {
	f := newFixture(t)
	f.awakened(777)
	rec := f.do(http.MethodPost, "/save", url.Values{"slot": {"alpha"}})
	if !strings.Contains(rec.Body.String(), "Game saved.") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	f.cookie = nil
	f.do(http.MethodGet, "/", nil)
	rec = f.do(http.MethodPost, "/load", url.Values{"slot": {"alpha"}})
	if !strings.Contains(rec.Body.String(), "Game loaded.") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if st := f.session().Snapshot(); st.Hunter == nil || st.Hunter.Gold != 777 {
		t.Fatalf("loaded state = %+v", st)
	}

	rec = f.do(http.MethodPost, "/load", url.Values{"slot": {"missing"}})
	if !strings.Contains(rec.Body.String(), "That save slot is empty.") {
		t.Fatal("missing slot not reported")
	}
}

func TestDownloadChronicle(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/download", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status without hunter = %d", rec.Code)
	}

	f.awakened(0)
	rec = f.do(http.MethodGet, "/download", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("status = %d, type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Fatal("body is not a pdf")
	}
}

func TestGuildWithoutInvitation(t *testing.T) {
	f := newFixture(t)
	f.awakened(0)
	rec := f.do(http.MethodPost, "/guild/accept", url.Values{})
	if !strings.Contains(rec.Body.String(), "There is no pending invitation.") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestSlotPickerListsAndDeletesSaves(t *testing.T) {
	f := newFixture(t)
	f.awakened(10)
	rec := f.do(http.MethodPost, "/save", url.Values{"slot": {"alpha"}})
	body := rec.Body.String()
	if !strings.Contains(body, `<ul id="slots">`) || !strings.Contains(body, `name="slot" value="alpha"`) {
		t.Fatalf("slot picker missing: %s", body)
	}

	f.cookie = nil
	rec = f.do(http.MethodGet, "/", nil)
	if !strings.Contains(rec.Body.String(), "<strong>alpha</strong> Jinwoo") {
		t.Fatalf("start form does not offer the save: %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/saves/delete", url.Values{"slot": {"alpha"}})
	body = rec.Body.String()
	if !strings.Contains(body, "Save deleted.") || strings.Contains(body, `<ul id="slots">`) {
		t.Fatalf("body = %s", body)
	}
	rec = f.do(http.MethodPost, "/load", url.Values{"slot": {"alpha"}})
	if !strings.Contains(rec.Body.String(), "That save slot is empty.") {
		t.Fatal("deleted slot still loads")
	}
}

func TestNewGameDropsSession(t *testing.T) {
	f := newFixture(t)
	f.awakened(500)
	old := f.cookie.Value

	rec := f.do(http.MethodPost, "/new", url.Values{})
	if !strings.Contains(rec.Body.String(), `hx-post="/start"`) {
		t.Fatalf("new game does not show the start form: %s", rec.Body.String())
	}
	if f.cookie.Value == old {
		t.Fatal("session cookie not replaced")
	}
	if _, err := f.mgr.Get(old); err == nil {
		t.Fatal("old session still live")
	}
	if n := f.mgr.Len(); n != 1 {
		t.Fatalf("live sessions = %d", n)
	}
	if st := f.session().Snapshot(); st.Hunter != nil {
		t.Fatalf("fresh session has a hunter: %+v", st.Hunter)
	}
}
