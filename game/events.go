package game

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"dungeon_ai/setting"
)

// Event is one state-changing fact recovered from a narrator reply, either
// from a structured tool call or from the text fallback. Both paths apply
// events through the same State.Apply routine.
type Event interface {
	isEvent()
}

// HpAbsolute pins HP to the final value the narrator stated.
type HpAbsolute struct {
	HP int
}

// HpDelta is a relative HP change: positive heals, negative damages.
type HpDelta struct {
	Amount int
	Reason string
}

// ItemsCollected adds items to the inventory.
type ItemsCollected struct {
	Items []string
}

// ObjectiveSet replaces the current objective and marks the previous one
// completed.
type ObjectiveSet struct {
	Text string
}

// ClassChanged switches the player archetype.
type ClassChanged struct {
	Name string
}

func (HpAbsolute) isEvent()     {}
func (HpDelta) isEvent()        {}
func (ItemsCollected) isEvent() {}
func (ObjectiveSet) isEvent()   {}
func (ClassChanged) isEvent()   {}

// NoteKind grades a turn notice for display.
type NoteKind string

const (
	NoteInfo    NoteKind = "info"
	NoteSuccess NoteKind = "success"
	NoteWarning NoteKind = "warning"
	NoteError   NoteKind = "error"
)

// Note is one user-facing notice produced while applying events.
type Note struct {
	Kind NoteKind `json:"kind"`
	Text string   `json:"text"`
}

// Apply mutates the state according to one event and returns the notices to
// show the player. Events that turn out to be no-ops (duplicate item,
// unknown archetype) produce no state change; they are not errors.
func (s *State) Apply(ev Event, cfg *setting.Setting) []Note {
	switch e := ev.(type) {
	case HpAbsolute:
		s.Vitals.SetHP(e.HP)
		return nil

	case HpDelta:
		if e.Amount < 0 {
			applied := s.Vitals.TakeDamage(-e.Amount)
			text := fmt.Sprintf("🩸 Hai perso %d punti ferita", applied)
			if e.Reason != "" {
				text += fmt.Sprintf(" (causa: %s)", e.Reason)
			}
			text += fmt.Sprintf("! HP attuali: %d/%d", s.Vitals.HP, s.Vitals.MaxHP)
			return []Note{{Kind: NoteWarning, Text: text}}
		}
		applied := s.Vitals.Heal(e.Amount)
		return []Note{{Kind: NoteInfo, Text: fmt.Sprintf(
			"✨ Hai recuperato %d punti ferita! HP attuali: %d/%d",
			applied, s.Vitals.HP, s.Vitals.MaxHP)}}

	case ItemsCollected:
		var added, present []string
		for _, item := range e.Items {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if s.Inventory.Add(item) {
				added = append(added, item)
			} else {
				present = append(present, item)
			}
		}
		var notes []Note
		if len(added) > 0 {
			notes = append(notes, Note{Kind: NoteInfo, Text: "📦 Aggiunto all'inventario: " + strings.Join(added, ", ")})
		}
		if len(present) > 0 {
			notes = append(notes, Note{Kind: NoteWarning, Text: "⚠️ Già presente nell'inventario: " + strings.Join(present, ", ")})
		}
		return notes

	case ObjectiveSet:
		s.Objective = strings.TrimSpace(e.Text)
		notes := []Note{{Kind: NoteInfo, Text: "🎯 Nuovo obiettivo: " + s.Objective}}
		if up := s.CompleteObjective(cfg); up != nil {
			text := fmt.Sprintf(
				"🎉 LEVEL UP! Hai raggiunto il livello %d! Le tue statistiche sono aumentate. I tuoi HP massimi sono ora %d (erano %d) e sei stato guarito completamente!",
				up.NewLevel, up.NewMaxHP, up.OldMaxHP)
			notes = append(notes, Note{Kind: NoteSuccess, Text: text})
			// The narrator only learns about the level-up through the
			// transcript, so feed it back as a game-info message.
			s.Append(Message{Role: RoleUser, Content: "[INFO DI GIOCO] " + text})
		}
		return notes

	case ClassChanged:
		change := s.ChangeClass(e.Name, cfg)
		if change == nil {
			return nil
		}
		return []Note{{Kind: NoteSuccess, Text: fmt.Sprintf(
			"🌀 Il tuo approccio è cambiato. Ora sei un %s. %s Hai ottenuto un bonus permanente di +1 a %s!",
			change.Class, change.Description, capitalize(change.BonusStat))}}
	}
	return nil
}

// Tool names the narrator may call on the structured path.
const (
	ToolTakeDamage     = "take_damage"
	ToolHealDamage     = "heal_damage"
	ToolAddToInventory = "add_to_inventory"
	ToolSetObjective   = "set_new_objective"
	ToolChangeClass    = "change_player_class"
)

// ApplyToolCalls dispatches a batch of narrator tool calls onto the state.
// Each call maps to an Event and goes through Apply; a tool-result message
// is appended to the transcript per call so the follow-up completion sees
// the outcomes. Unknown tool names and malformed arguments are logged and
// skipped without aborting the remaining calls.
func (s *State) ApplyToolCalls(calls []ToolCall, cfg *setting.Setting) []Note {
	var notes []Note
	for _, call := range calls {
		ev, result, ok := toolEvent(call)
		if !ok {
			log.Printf("game: skipping tool call %q: bad arguments %v", call.Name, call.Args)
			continue
		}
		if ev != nil {
			notes = append(notes, s.Apply(ev, cfg)...)
		}
		s.Append(Message{Role: RoleTool, ToolName: call.Name, Content: result(s)})
	}
	return notes
}

// toolEvent converts one tool call into an event plus a function that
// renders the result message once the event has been applied. A nil event
// with ok=true means the call is acknowledged but changes nothing.
func toolEvent(call ToolCall) (Event, func(*State) string, bool) {
	switch call.Name {
	case ToolTakeDamage:
		amount, ok := intArg(call.Args, "amount")
		if !ok {
			return nil, nil, false
		}
		reason, _ := call.Args["reason"].(string)
		return HpDelta{Amount: -amount, Reason: reason}, func(s *State) string {
			return fmt.Sprintf("Danno applicato. HP del giocatore ora sono %d.", s.Vitals.HP)
		}, true

	case ToolHealDamage:
		amount, ok := intArg(call.Args, "amount")
		if !ok {
			return nil, nil, false
		}
		return HpDelta{Amount: amount}, func(s *State) string {
			return fmt.Sprintf("Guarigione applicata. HP del giocatore ora sono %d.", s.Vitals.HP)
		}, true

	case ToolAddToInventory:
		items, ok := stringListArg(call.Args, "items")
		if !ok {
			return nil, nil, false
		}
		return ItemsCollected{Items: items}, func(s *State) string {
			return "Inventario aggiornato: " + strings.Join(s.Inventory.Items(), ", ")
		}, true

	case ToolSetObjective:
		desc, ok := call.Args["description"].(string)
		if !ok || strings.TrimSpace(desc) == "" {
			return nil, nil, false
		}
		return ObjectiveSet{Text: desc}, func(s *State) string {
			return fmt.Sprintf("Nuovo obiettivo impostato: %s. Il giocatore è al livello %d.", s.Objective, s.Level)
		}, true

	case ToolChangeClass:
		name, ok := call.Args["new_class"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, nil, false
		}
		return ClassChanged{Name: name}, func(s *State) string {
			return fmt.Sprintf("Classe del giocatore: %s.", s.Class)
		}, true
	}

	log.Printf("game: unknown tool call %q", call.Name)
	return nil, func(*State) string {
		return fmt.Sprintf("Funzione %s non implementata.", call.Name)
	}, true
}

// intArg reads an integer argument, tolerating the numeric types JSON
// decoding may produce.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

// stringListArg reads a list-of-strings argument. Models sometimes send a
// single comma-separated string instead of a list; accept that too.
func stringListArg(args map[string]any, key string) ([]string, bool) {
	switch v := args[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case string:
				out = append(out, it)
			default:
				out = append(out, fmt.Sprint(it))
			}
		}
		return out, true
	case string:
		return strings.Split(v, ","), true
	}
	return nil, false
}
