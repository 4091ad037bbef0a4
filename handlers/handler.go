// Package handlers wires the game engine to HTTP. Each setting gets its own
// route group; every player turn is one synchronous request-response cycle
// against that player's session state.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"dungeon_ai/game"
	"dungeon_ai/narrator"
	"dungeon_ai/save"
	"dungeon_ai/session"
	"dungeon_ai/setting"
	"dungeon_ai/templates"
)

// Narrator produces story completions. Satisfied by *narrator.Client;
// narrowed to an interface so handler tests can stub it.
type Narrator interface {
	Complete(ctx context.Context, msgs []game.Message, withTools bool) (*narrator.Reply, error)
}

// Handler serves one setting's game.
type Handler struct {
	Setting  *setting.Setting
	Narrator Narrator
	Sessions *session.Manager
	Saves    *save.Store
	Roller   *game.Roller
}

// Register mounts the handler's routes under /<setting id>/.
func (h *Handler) Register(mux *http.ServeMux) {
	base := "/" + h.Setting.ID
	mux.HandleFunc("GET "+base+"/{$}", h.ChatPage)
	mux.HandleFunc("POST "+base+"/chat", h.Turn)
	mux.HandleFunc("POST "+base+"/use", h.UseItem)
	mux.HandleFunc("POST "+base+"/reset", h.Reset)
	mux.HandleFunc("GET "+base+"/saves", h.SavesPage)
	mux.HandleFunc("GET "+base+"/load", h.Load)
	mux.HandleFunc("GET "+base+"/download", h.Download)
}

func (h *Handler) basePath() string {
	return "/" + h.Setting.ID
}

func (h *Handler) stateKey() string {
	return "state/" + h.Setting.ID
}

func (h *Handler) flashKey() string {
	return "flash/" + h.Setting.ID
}

// loadState reconstructs the session's game state, returning an
// uninitialized state when the session holds none.
func (h *Handler) loadState(id string) (*game.State, error) {
	st := &game.State{}
	data, ok, err := h.Sessions.Get(id, h.stateKey())
	if err != nil {
		return nil, err
	}
	if !ok {
		return st, nil
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	st.Restore(snap, h.Setting)
	return st, nil
}

func (h *Handler) persist(id string, st *game.State) error {
	data, err := json.Marshal(st.Snapshot())
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	return h.Sessions.Put(id, h.stateKey(), data)
}

// flash stores the turn's notices so they survive the redirect.
func (h *Handler) flash(id string, notes []game.Note) {
	if len(notes) == 0 {
		return
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return
	}
	if err := h.Sessions.Put(id, h.flashKey(), data); err != nil {
		log.Printf("handlers: store notices: %v", err)
	}
}

func (h *Handler) popNotes(id string) []game.Note {
	data, ok, err := h.Sessions.Pop(id, h.flashKey())
	if err != nil {
		log.Printf("handlers: read notices: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var notes []game.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil
	}
	return notes
}

// ChatPage renders the game, starting a fresh one when the session holds no
// state yet.
func (h *Handler) ChatPage(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Open(w, r)
	st, err := h.loadState(id)
	if err != nil {
		log.Printf("handlers: load state: %v", err)
		http.Error(w, "Errore nel caricamento della sessione.", http.StatusInternalServerError)
		return
	}
	if !st.Initialized() {
		st.Initialize(h.Setting)
		if err := h.persist(id, st); err != nil {
			log.Printf("handlers: persist new game: %v", err)
		}
	}

	templates.Chat(templates.ChatData{
		Setting:  h.Setting,
		State:    st,
		Notes:    h.popNotes(id),
		BasePath: h.basePath(),
	}).Render(r.Context(), w)
}

// Turn runs one player turn: optional dice resolution, the narrator call,
// event application and persistence. Follows the POST-redirect-GET pattern
// so a refresh never re-sends the turn.
func (h *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Open(w, r)
	st, err := h.loadState(id)
	if err != nil {
		log.Printf("handlers: load state: %v", err)
		http.Error(w, "Errore nel caricamento della sessione.", http.StatusInternalServerError)
		return
	}
	if !st.Initialized() {
		st.Initialize(h.Setting)
	}

	input := strings.TrimSpace(r.FormValue("user_input"))
	if input == "" {
		http.Redirect(w, r, h.basePath()+"/", http.StatusSeeOther)
		return
	}

	var notes []game.Note

	// A roll request is resolved locally; the narrator only ever sees the
	// formatted result, never decides the outcome.
	if skill, ok := game.DetectRoll(input, h.Setting.DiceTrigger); ok {
		input = h.Roller.Resolve(skill, st.Stats, h.Setting).Message()
	}
	st.Append(game.Message{Role: game.RoleUser, Content: input})

	reply, err := h.Narrator.Complete(r.Context(), h.withContext(st), true)
	if err != nil {
		// The turn is aborted past this point; the player's message stays
		// in the transcript so a retry re-sends the same context.
		log.Printf("handlers: narrator: %v", err)
		notes = append(notes, game.Note{Kind: game.NoteError, Text: "Errore di comunicazione con il narratore. Riprova."})
		h.finishTurn(w, r, id, st, notes)
		return
	}

	st.Append(game.Message{Role: game.RoleAssistant, Content: reply.Text, ToolCalls: reply.Calls})

	if len(reply.Calls) > 0 {
		notes = append(notes, st.ApplyToolCalls(reply.Calls, h.Setting)...)

		// Second call: the model turns the tool outcomes into prose.
		final, err := h.Narrator.Complete(r.Context(), st.Messages, false)
		if err != nil || final.Text == "" {
			if err != nil {
				log.Printf("handlers: narrator follow-up: %v", err)
			}
			st.Append(game.Message{Role: game.RoleAssistant, Content: "Cosa fai?"})
		} else {
			st.Append(game.Message{Role: game.RoleAssistant, Content: final.Text})
		}
	} else if reply.Text != "" {
		notes = append(notes, st.ApplyReply(reply.Text, h.Setting)...)
	}

	h.finishTurn(w, r, id, st, notes)
}

// finishTurn persists the session, snapshots to disk and redirects back to
// the chat page. A failed file write is a warning, not an error: the
// session state is the source of truth.
func (h *Handler) finishTurn(w http.ResponseWriter, r *http.Request, id string, st *game.State, notes []game.Note) {
	if err := h.persist(id, st); err != nil {
		log.Printf("handlers: persist state: %v", err)
		notes = append(notes, game.Note{Kind: game.NoteError, Text: "Errore nel salvataggio della sessione."})
	}
	if _, err := h.Saves.Write(saveOwner(id, h.Setting.ID), st.Snapshot()); err != nil {
		log.Printf("handlers: write save file: %v", err)
		notes = append(notes, game.Note{Kind: game.NoteWarning, Text: "Salvataggio su file non riuscito."})
	}
	h.flash(id, notes)
	http.Redirect(w, r, h.basePath()+"/", http.StatusSeeOther)
}

// withContext returns the outbound transcript: the stored messages plus one
// synthesized game-context message. The context message is never persisted;
// it is rebuilt from live state for every call.
func (h *Handler) withContext(st *game.State) []game.Message {
	inventory := strings.Join(st.Inventory.Items(), ", ")
	if inventory == "" {
		inventory = "vuoto"
	}
	ctxMsg := game.Message{Role: game.RoleUser, Content: fmt.Sprintf(
		"[CONTESTO PARTITA] Il giocatore è di livello %d. Ha %d/%d HP. Inventario: %s. Obiettivo attuale: %s. Crea una sfida appropriata per il suo livello.",
		st.Level, st.Vitals.HP, st.Vitals.MaxHP, inventory, st.Objective)}

	out := make([]game.Message, 0, len(st.Messages)+1)
	out = append(out, st.Messages...)
	return append(out, ctxMsg)
}

// UseItem spends a consumable from the inventory for its healing value. An
// item that is not held or not consumable is ignored; the page just reloads.
func (h *Handler) UseItem(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Open(w, r)
	st, err := h.loadState(id)
	if err != nil {
		log.Printf("handlers: load state: %v", err)
		http.Error(w, "Errore nel caricamento della sessione.", http.StatusInternalServerError)
		return
	}

	if st.Initialized() {
		item := strings.TrimSpace(r.FormValue("item"))
		if note, ok := st.UseItem(item, h.Setting); ok {
			notes := []game.Note{note}
			if err := h.persist(id, st); err != nil {
				log.Printf("handlers: persist state: %v", err)
				notes = append(notes, game.Note{Kind: game.NoteError, Text: "Errore nel salvataggio della sessione."})
			}
			h.flash(id, notes)
		}
	}
	http.Redirect(w, r, h.basePath()+"/", http.StatusSeeOther)
}

// Reset wipes the session's game state. Save files are untouched.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Open(w, r)
	if err := h.Sessions.Delete(id, h.stateKey()); err != nil {
		log.Printf("handlers: reset: %v", err)
	}
	h.flash(id, []game.Note{{Kind: game.NoteInfo, Text: "Nuova partita iniziata."}})
	http.Redirect(w, r, h.basePath()+"/", http.StatusSeeOther)
}

// SavesPage lists the player's save files.
func (h *Handler) SavesPage(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Open(w, r)
	files, err := h.Saves.List(saveOwner(id, h.Setting.ID))
	if err != nil {
		log.Printf("handlers: list saves: %v", err)
		http.Error(w, "Errore nella lettura dei salvataggi.", http.StatusInternalServerError)
		return
	}
	templates.Saves(templates.SavesData{
		Setting:  h.Setting,
		Files:    files,
		Notes:    h.popNotes(id),
		BasePath: h.basePath(),
	}).Render(r.Context(), w)
}

// Load replaces the live session state with a save file. Files not owned by
// the requesting player are rejected outright.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Open(w, r)
	filename := r.FormValue("file")

	snap, err := h.Saves.Read(saveOwner(id, h.Setting.ID), filename)
	if errors.Is(err, save.ErrNotAllowed) {
		h.flash(id, []game.Note{{Kind: game.NoteError, Text: "Accesso non autorizzato a questo salvataggio."}})
		http.Redirect(w, r, h.basePath()+"/", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("handlers: load save: %v", err)
		h.flash(id, []game.Note{{Kind: game.NoteError, Text: "Errore nel caricamento della partita."}})
		http.Redirect(w, r, h.basePath()+"/saves", http.StatusSeeOther)
		return
	}

	st := &game.State{}
	st.Restore(snap, h.Setting)
	if err := h.persist(id, st); err != nil {
		log.Printf("handlers: persist loaded state: %v", err)
		http.Error(w, "Errore nel salvataggio della sessione.", http.StatusInternalServerError)
		return
	}
	h.flash(id, []game.Note{{Kind: game.NoteSuccess, Text: fmt.Sprintf("Partita '%s' caricata con successo!", filename)}})
	http.Redirect(w, r, h.basePath()+"/", http.StatusSeeOther)
}

// saveOwner scopes save files by player and setting, so the four games
// never mix their snapshots.
func saveOwner(sessionID, settingID string) string {
	return settingID + "_" + sessionID
}
