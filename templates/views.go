package templates

import (
	"github.com/a-h/templ"

	"hunter_ai/hunter"
	"hunter_ai/narrator"
	"hunter_ai/saves"
)

//go:generate templ generate

// GameView is everything the main game screen shows.
type GameView struct {
	Hunter      hunter.Hunter
	Style       narrator.Style
	Scene       *narrator.Response
	Invitation  *hunter.Guild
	Reawakening templ.Component
	Notice      string
	// Busy is set while a turn is in flight.
	Busy  bool
	Slots []saves.Slot
}
