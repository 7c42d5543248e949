// Package chronicle renders a session as a downloadable PDF: the hunter's
// sheet followed by the story so far.
package chronicle

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"hunter_ai/hunter"
	"hunter_ai/session"
)

const (
	lineHeight = 6.0
	pageWidth  = 0 // full width between margins
)

// Write renders st as a PDF to w.
func Write(w io.Writer, st session.State) error {
	return write(w, st, true)
}

func write(w io.Writer, st session.State, compress bool) error {
	if st.Hunter == nil {
		return session.ErrNoHunter
	}
	h := hunter.View(*st.Hunter)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle("Hunter Chronicle: "+h.Name, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(pageWidth, 10, tr(h.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(pageWidth, lineHeight, tr(fmt.Sprintf("Rank %s (%s) %s, level %d", h.Rank, h.Rank.Rarity(), h.Class, h.Level)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Status")
	line(pdf, tr, "HP %d/%d   MP %d/%d   EXP %d/%d", h.HP, h.MaxHP, h.MP, h.MaxMP, h.Exp, h.NextLevelExp)
	line(pdf, tr, "Strength %d   Agility %d   Perception %d   Vitality %d   Intelligence %d",
		h.Stats.Strength, h.Stats.Agility, h.Stats.Perception, h.Stats.Vitality, h.Stats.Intelligence)
	line(pdf, tr, "Gold %d   Luck %d   Condition %s   Age %d", h.Gold, h.Luck, h.PhysicalCondition, h.Age)
	if h.PersonalObjective != "" {
		line(pdf, tr, "Objective: %s", h.PersonalObjective)
	}
	if len(h.Status) > 0 {
		line(pdf, tr, "Effects: %s", strings.Join(h.Status, ", "))
	}
	if h.Guild != nil {
		line(pdf, tr, "Guild: %s (rank %s)", h.Guild.Name, h.Guild.Rank)
	}

	if ah := h.AwakeningHistory; ah != nil {
		section(pdf, "Awakening")
		line(pdf, tr, "Awakened %s as rank %s", ah.Date, ah.OriginalRank)
		for _, re := range ah.Reawakenings {
			line(pdf, tr, "Reawakened %s: %s to %s", re.Date, re.OldRank, re.NewRank)
		}
	}

	if len(h.Inventory) > 0 {
		section(pdf, "Inventory")
		for _, it := range h.Inventory {
			mark := ""
			if _, ok := h.Equipment.Holding(it.ID); ok {
				mark = " [equipped]"
			}
			line(pdf, tr, "%s (%s, rank %s)%s", it.Name, it.Type, it.Rank, mark)
		}
	}

	if len(h.Contacts) > 0 {
		section(pdf, "Contacts")
		for _, c := range h.Contacts {
			line(pdf, tr, "%s, %s (rank %s): %s, %s", c.Name, c.Profession, c.Rank, c.Friendship, c.Status)
		}
	}

	if len(h.WorldLog) > 0 {
		section(pdf, "World Log")
		for _, e := range h.WorldLog {
			line(pdf, tr, "%s  %s [%s]", e.Date, e.Title, e.Impact)
		}
	}

	if len(st.History) > 0 {
		pdf.AddPage()
		section(pdf, "Chronicle")
		for _, ex := range st.History {
			if ex.Role == session.RoleUser {
				pdf.SetFont("Arial", "I", 10)
				pdf.MultiCell(pageWidth, lineHeight, tr("> "+ex.Text), "", "L", false)
				continue
			}
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(pageWidth, lineHeight, tr(ex.Text), "", "L", false)
			pdf.Ln(2)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render chronicle: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(pageWidth, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
}

func line(pdf *gofpdf.Fpdf, tr func(string) string, format string, args ...any) {
	pdf.MultiCell(pageWidth, lineHeight, tr(fmt.Sprintf(format, args...)), "", "L", false)
}
