// Package game implements the setting-agnostic Dungeon Master engine:
// vitals, inventory, stats, dice, character progression, the per-session
// game state, and the extraction of game events from narrator replies.
package game

import (
	"fmt"

	"dungeon_ai/setting"
)

// Role tags a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one structured action requested by the narrator.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"arguments,omitempty"`
}

// Message is one transcript entry. Tool-call metadata is kept on assistant
// messages so the narrator sees its own prior actions; ToolName is set on
// RoleTool messages carrying a dispatch outcome back to the narrator.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	ToolName  string     `json:"name,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// State is the whole game state of one session: character, objective and
// transcript. It is exclusively owned by that session; persistence goes
// through Snapshot/Restore only.
type State struct {
	Vitals              Vitals
	Inventory           Inventory
	Stats               Stats
	Level               int
	ObjectivesCompleted int
	Objective           string
	Class               string
	Messages            []Message
}

// Initialized reports whether the state holds a running game. A zero MaxHP
// can only mean the state was never initialized, since initialization
// requires a positive starting HP and MaxHP never decreases.
func (s *State) Initialized() bool {
	return s.Vitals.MaxHP > 0
}

// Initialize resets every field to the setting's starting values and seeds
// the transcript with the system prompt plus one synthetic status message,
// so the narrator's first reply has grounding context.
func (s *State) Initialize(cfg *setting.Setting) {
	s.Vitals = Vitals{HP: cfg.StartingHP, MaxHP: cfg.StartingHP}
	s.Inventory = Inventory{}
	s.Stats = NormalizeStats(cfg.Stats)
	s.Level = 1
	s.ObjectivesCompleted = 0
	s.Objective = cfg.StartingObjective
	s.Class = cfg.DefaultClass
	s.Messages = []Message{
		{Role: RoleSystem, Content: cfg.SystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(
			"[INFO] Il personaggio ha attualmente %d / %d punti ferita. [INFO] Il personaggio non possiede oggetti.",
			s.Vitals.HP, s.Vitals.MaxHP)},
	}
}

// Reset clears the state back to uninitialized.
func (s *State) Reset() {
	*s = State{}
}

// Append adds a transcript message.
func (s *State) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// Snapshot is the serializable form of a State. Field names match the save
// files written by earlier versions of the game; every field is optional on
// read so that old saves keep loading as fields are added.
type Snapshot struct {
	Messages            []Message      `json:"messages"`
	HP                  *int           `json:"hp,omitempty"`
	MaxHP               *int           `json:"max_hp,omitempty"`
	Inventory           []string       `json:"inventario"`
	Stats               map[string]int `json:"stats"`
	Level               *int           `json:"level,omitempty"`
	ObjectivesCompleted *int           `json:"objectives_completed,omitempty"`
	Objective           string         `json:"objective"`
	Class               string         `json:"player_class"`
}

// Snapshot captures the full state for persistence.
func (s *State) Snapshot() Snapshot {
	hp, maxHP := s.Vitals.HP, s.Vitals.MaxHP
	level, completed := s.Level, s.ObjectivesCompleted
	return Snapshot{
		Messages:            append([]Message(nil), s.Messages...),
		HP:                  &hp,
		MaxHP:               &maxHP,
		Inventory:           s.Inventory.Items(),
		Stats:               s.Stats.Clone(),
		Level:               &level,
		ObjectivesCompleted: &completed,
		Objective:           s.Objective,
		Class:               s.Class,
	}
}

// Restore overwrites the whole state from a snapshot. Missing fields take
// the setting's defaults: snapshots written before a field existed must
// still load.
func (s *State) Restore(snap Snapshot, cfg *setting.Setting) {
	s.Vitals = Vitals{
		HP:    valueOr(snap.HP, cfg.StartingHP),
		MaxHP: valueOr(snap.MaxHP, cfg.StartingHP),
	}
	if s.Vitals.HP > s.Vitals.MaxHP {
		s.Vitals.HP = s.Vitals.MaxHP
	}
	s.Inventory = NewInventory(snap.Inventory)
	if len(snap.Stats) > 0 {
		s.Stats = NormalizeStats(snap.Stats)
	} else {
		s.Stats = NormalizeStats(cfg.Stats)
	}
	s.Level = valueOr(snap.Level, 1)
	if s.Level < 1 {
		s.Level = 1
	}
	s.ObjectivesCompleted = valueOr(snap.ObjectivesCompleted, 0)
	if s.ObjectivesCompleted < 0 {
		s.ObjectivesCompleted = 0
	}
	s.Objective = snap.Objective
	if s.Objective == "" {
		s.Objective = cfg.StartingObjective
	}
	s.Class = snap.Class
	if _, ok := cfg.Archetype(s.Class); !ok {
		s.Class = cfg.DefaultClass
	}
	s.Messages = append([]Message(nil), snap.Messages...)
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
