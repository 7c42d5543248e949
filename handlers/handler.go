package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"hunter_ai/chronicle"
	"hunter_ai/hunter"
	"hunter_ai/saves"
	"hunter_ai/session"
	"hunter_ai/shop"
	"hunter_ai/templates"
)

// CookieName holds the player's session id.
const CookieName = "hunter_session"

const title = "Hunter System"

// SaveStore persists session snapshots by slot.
type SaveStore interface {
	Save(ctx context.Context, slot string, st session.State) error
	Load(ctx context.Context, slot string) (session.State, error)
	List(ctx context.Context) ([]saves.Slot, error)
	Delete(ctx context.Context, slot string) error
}

// Live attaches a WebSocket connection to a session.
type Live interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string)
}

type Handler struct {
	Manager *session.Manager
	Saves   SaveStore
	Live    Live
	Logger  *log.Logger
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /start", h.Start)
	mux.HandleFunc("GET /awakening", h.Awakening)
	mux.HandleFunc("POST /awakening/finalize", h.FinalizeAwakening)
	mux.HandleFunc("POST /action", h.Action)
	mux.HandleFunc("POST /style", h.ToggleStyle)
	mux.HandleFunc("POST /avatar", h.SetAvatar)
	mux.HandleFunc("POST /equip", h.Equip)
	mux.HandleFunc("POST /unequip", h.Unequip)
	mux.HandleFunc("POST /buy", h.Buy)
	mux.HandleFunc("POST /sell", h.Sell)
	mux.HandleFunc("POST /guild/accept", h.AcceptGuild)
	mux.HandleFunc("POST /guild/decline", h.DeclineGuild)
	mux.HandleFunc("POST /contact/call", h.CallContact)
	mux.HandleFunc("GET /reawakening", h.Reawakening)
	mux.HandleFunc("POST /reawakening/dismiss", h.DismissReawakening)
	mux.HandleFunc("POST /save", h.Save)
	mux.HandleFunc("POST /load", h.Load)
	mux.HandleFunc("POST /saves/delete", h.DeleteSlot)
	mux.HandleFunc("POST /new", h.NewGame)
	mux.HandleFunc("GET /download", h.DownloadChronicle)
	mux.HandleFunc("GET /ws", h.Socket)
}

// session returns the caller's session, creating one and setting the cookie
// when the cookie is missing or stale.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if s, err := h.Manager.Get(c.Value); err == nil {
			return s
		}
	}
	return h.newSession(w)
}

func (h *Handler) newSession(w http.ResponseWriter) *session.Session {
	s := h.Manager.Create()
	h.Logger.Printf("session %s: created, %d live", s.ID, h.Manager.Len())
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// slots lists the save slots for the slot picker. A failing store only
// hides the picker.
func (h *Handler) slots(ctx context.Context) []saves.Slot {
	list, err := h.Saves.List(ctx)
	if err != nil {
		h.Logger.Printf("list save slots: %v", err)
		return nil
	}
	return list
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.Logger.Printf("render %s: %v", r.URL.Path, err)
	}
}

// screen picks the view for the session's stage: registration, awakening
// or the game itself.
func (h *Handler) screen(ctx context.Context, s *session.Session, notice string) templ.Component {
	st := s.Snapshot()
	switch {
	case st.Hunter == nil:
		return templates.StartForm(notice, h.slots(ctx))
	case !st.Awakened:
		phase, rolled, _ := s.AwakeningStatus()
		return templates.Awakening(phase, rolled)
	}
	v := templates.GameView{
		Hunter:     hunter.View(*st.Hunter),
		Style:      st.Style,
		Scene:      st.LastResponse,
		Invitation: s.Invitation(),
		Notice:     notice,
		Busy:       s.Busy(),
		Slots:      h.slots(ctx),
	}
	if sig, phase, ok := s.Reawakening(); ok {
		v.Reawakening = templates.Reawakening(*sig, phase)
	}
	return templates.Game(v)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	h.render(w, r, templates.Index(title, h.screen(r.Context(), s, "")))
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	mode := session.Mode(strings.ToUpper(strings.TrimSpace(r.FormValue("mode"))))
	switch mode {
	case session.ModeNormal, session.ModeHardcore, session.ModeIronman:
	default:
		mode = session.ModeNormal
	}
	if _, err := s.CreateProfile(r.FormValue("name"), mode); err != nil {
		h.render(w, r, templates.StartForm(noticeFor(err), h.slots(r.Context())))
		return
	}
	if _, err := s.BeginAwakening(); err != nil {
		h.Logger.Printf("session %s: begin awakening: %v", s.ID, err)
	}
	h.render(w, r, h.screen(r.Context(), s, ""))
}

func (h *Handler) Awakening(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.screen(r.Context(), h.session(w, r), ""))
}

func (h *Handler) FinalizeAwakening(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	_, err := s.FinalizeAwakening(r.Context())
	h.render(w, r, h.screen(r.Context(), s, noticeFor(err)))
}

func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	_, err := s.Act(r.Context(), r.FormValue("action"))
	h.render(w, r, h.screen(r.Context(), s, noticeFor(err)))
}

func (h *Handler) ToggleStyle(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.ToggleStyle()
	h.render(w, r, h.screen(r.Context(), s, ""))
}

func (h *Handler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	err := s.SetAvatar(r.FormValue("avatar"))
	h.render(w, r, h.screen(r.Context(), s, noticeFor(err)))
}

func (h *Handler) Equip(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	notice := ""
	if !s.Equip(r.FormValue("item")) {
		notice = "That item cannot be equipped."
	}
	h.render(w, r, h.screen(r.Context(), s, notice))
}

func (h *Handler) Unequip(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	slot, ok := hunter.ParseSlot(r.FormValue("slot"))
	if !ok {
		h.render(w, r, h.screen(r.Context(), s, "Unknown equipment slot."))
		return
	}
	err := s.Unequip(slot)
	h.render(w, r, h.screen(r.Context(), s, noticeFor(err)))
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	notice := ""
	it, err := s.Buy(r.FormValue("item"))
	if err != nil {
		notice = noticeFor(err)
	} else {
		notice = fmt.Sprintf("Bought %s.", it.Name)
	}
	h.render(w, r, h.screen(r.Context(), s, notice))
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	notice := ""
	credit, err := s.Sell(r.FormValue("item"))
	if err != nil {
		notice = noticeFor(err)
	} else {
		notice = fmt.Sprintf("Sold for %d gold.", credit)
	}
	h.render(w, r, h.screen(r.Context(), s, notice))
}

func (h *Handler) AcceptGuild(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	_, err := s.AcceptInvitation(r.Context())
	h.render(w, r, h.screen(r.Context(), s, noticeFor(err)))
}

func (h *Handler) DeclineGuild(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	_, err := s.DeclineInvitation(r.Context())
	h.render(w, r, h.screen(r.Context(), s, noticeFor(err)))
}

func (h *Handler) CallContact(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	_, err := s.CallContact(r.Context(), r.FormValue("contact"))
	h.render(w, r, h.screen(r.Context(), s, noticeFor(err)))
}

func (h *Handler) Reawakening(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	sig, phase, ok := s.Reawakening()
	if !ok {
		return
	}
	h.render(w, r, templates.Reawakening(*sig, phase))
}

func (h *Handler) DismissReawakening(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).DismissReawakening()
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	slot := r.FormValue("slot")
	notice := "Game saved."
	if err := h.Saves.Save(r.Context(), slot, s.Snapshot()); err != nil {
		h.Logger.Printf("session %s: save %q: %v", s.ID, slot, err)
		notice = noticeFor(err)
	}
	h.render(w, r, h.screen(r.Context(), s, notice))
}

func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	slot := r.FormValue("slot")
	st, err := h.Saves.Load(r.Context(), slot)
	if err == nil {
		err = s.Restore(st)
	}
	notice := "Game loaded."
	if err != nil {
		h.Logger.Printf("session %s: load %q: %v", s.ID, slot, err)
		notice = noticeFor(err)
	}
	h.render(w, r, h.screen(r.Context(), s, notice))
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	slot := r.FormValue("slot")
	notice := "Save deleted."
	if err := h.Saves.Delete(r.Context(), slot); err != nil {
		h.Logger.Printf("session %s: delete %q: %v", s.ID, slot, err)
		notice = noticeFor(err)
	}
	h.render(w, r, h.screen(r.Context(), s, notice))
}

// NewGame drops the caller's session and starts over with a fresh one.
func (h *Handler) NewGame(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		h.Manager.Delete(c.Value)
	}
	s := h.newSession(w)
	h.render(w, r, h.screen(r.Context(), s, ""))
}

func (h *Handler) DownloadChronicle(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	st := s.Snapshot()
	if st.Hunter == nil {
		http.Error(w, "There is no hunter to chronicle yet.", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="hunter_chronicle.pdf"`)
	if err := chronicle.Write(w, st); err != nil {
		h.Logger.Printf("session %s: chronicle: %v", s.ID, err)
	}
}

func (h *Handler) Socket(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	h.Live.Serve(w, r, s.ID)
}

// noticeFor turns an intent error into a message for the player.
func noticeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrBusy):
		return "The System is still processing your last action."
	case errors.Is(err, session.ErrEmptyAction):
		return "Describe what you want to do."
	case errors.Is(err, session.ErrNotAwakened):
		return "Finish your awakening first."
	case errors.Is(err, session.ErrRevealPending):
		return "The awakening is not complete yet."
	case errors.Is(err, session.ErrNoInvitation):
		return "There is no pending invitation."
	case errors.Is(err, session.ErrUnknownContact):
		return "That contact is unknown."
	case errors.Is(err, shop.ErrInsufficientFunds):
		return "Not enough gold."
	case errors.Is(err, shop.ErrUnknownItem):
		return "That item is not sold here."
	case errors.Is(err, shop.ErrNotOwned):
		return "You do not own that item."
	case errors.Is(err, saves.ErrSlotNotFound):
		return "That save slot is empty."
	case errors.Is(err, session.ErrNoHunter):
		return "Create a hunter first."
	default:
		return err.Error()
	}
}
