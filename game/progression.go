package game

import "dungeon_ai/setting"

// LevelUp describes one completed level transition.
type LevelUp struct {
	OldLevel int
	NewLevel int
	OldMaxHP int
	NewMaxHP int
	Stats    Stats // values after the level-up
}

// CompleteObjective records one finished objective and applies a level-up
// when the running count reaches 10 * level: every stat gains one point,
// max HP grows by the setting's per-level gain, and the character is fully
// healed. Returns nil when no level-up happened.
func (s *State) CompleteObjective(cfg *setting.Setting) *LevelUp {
	s.ObjectivesCompleted++

	needed := 10 * s.Level
	if s.ObjectivesCompleted < needed {
		return nil
	}

	up := &LevelUp{OldLevel: s.Level, OldMaxHP: s.Vitals.MaxHP}
	s.Level++
	s.ObjectivesCompleted -= needed
	for name := range s.Stats {
		s.Stats[name]++
	}
	s.Vitals.MaxHP += cfg.HPPerLevel
	// Level-up always restores vitality in full.
	s.Vitals.HP = s.Vitals.MaxHP

	up.NewLevel = s.Level
	up.NewMaxHP = s.Vitals.MaxHP
	up.Stats = s.Stats.Clone()
	return up
}

// ClassChange describes an applied archetype switch.
type ClassChange struct {
	Class       string
	BonusStat   string
	Description string
}

// ChangeClass switches the character to a new archetype and grants +1 to
// that archetype's bonus stat (when the stat exists in this setting).
// Switching to the current archetype or to a name outside the configured
// set is a no-op and returns nil; narrator output is never an error.
func (s *State) ChangeClass(name string, cfg *setting.Setting) *ClassChange {
	arch, ok := cfg.Archetype(name)
	if !ok || arch.Name == s.Class {
		return nil
	}

	s.Class = arch.Name
	if _, ok := s.Stats[arch.BonusStat]; ok {
		s.Stats[arch.BonusStat]++
	}
	return &ClassChange{
		Class:       arch.Name,
		BonusStat:   arch.BonusStat,
		Description: arch.Description,
	}
}
