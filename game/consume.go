package game

import (
	"fmt"

	"dungeon_ai/setting"
)

// UseItem spends one inventory item for its healing value. The item must be
// held and listed in the setting's consumables; anything else reports false
// without touching the state. The item is consumed even at full health,
// wasting it is the player's call.
func (s *State) UseItem(item string, cfg *setting.Setting) (Note, bool) {
	heal, ok := cfg.HealAmount(item)
	if !ok || !s.Inventory.Remove(item) {
		return Note{}, false
	}
	applied := s.Vitals.Heal(heal)
	return Note{Kind: NoteSuccess, Text: fmt.Sprintf(
		"💊 Hai usato '%s' e recuperato %d HP. HP attuali: %d/%d",
		item, applied, s.Vitals.HP, s.Vitals.MaxHP)}, true
}
