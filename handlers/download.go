package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jung-kurt/gofpdf"

	"dungeon_ai/game"
)

// Download renders the session's transcript as a PDF.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Open(w, r)
	st, err := h.loadState(id)
	if err != nil {
		log.Printf("handlers: load state: %v", err)
		http.Error(w, "Errore nel caricamento della sessione.", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // Italian accents
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(h.Setting.Name), "", "L", false)
	pdf.Ln(4)

	for _, msg := range st.Messages {
		switch msg.Role {
		case game.RoleUser:
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr("> "+msg.Content), "", "L", false)
		case game.RoleAssistant:
			if msg.Content == "" {
				continue
			}
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(msg.Content), "", "L", false)
		default:
			continue
		}
		pdf.Ln(3)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.pdf"`, h.Setting.ID))
	if err := pdf.Output(w); err != nil {
		log.Printf("handlers: write pdf: %v", err)
	}
}
