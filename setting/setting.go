// Package setting defines the per-setting configuration of the game engine.
//
// The engine itself is setting-agnostic: starting hit points, the stat set,
// the skill synonym table, the archetype roster and the dice tiers all come
// from a Setting. The shipped settings live as embedded YAML documents.
package setting

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed settings/*.yaml
var settingsFS embed.FS

// Archetype is a character class granting a permanent bonus to one stat.
type Archetype struct {
	Name        string `yaml:"name"`
	BonusStat   string `yaml:"bonus_stat"`
	Description string `yaml:"description"`
}

// Tiers holds the dice total thresholds for each success band, from best to
// worst. A total below Partial is a failure.
type Tiers struct {
	Critical int `yaml:"critical"`
	Success  int `yaml:"success"`
	Partial  int `yaml:"partial"`
}

// Setting parametrizes one fictional setting of the engine.
type Setting struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`

	StartingHP int            `yaml:"starting_hp"`
	HPPerLevel int            `yaml:"hp_per_level"`
	Stats      map[string]int `yaml:"stats"`

	// Skills maps free-text skill names to the governing stat. Skill names
	// that already name a stat resolve directly; anything else falls back
	// to FallbackStat.
	Skills       map[string]string `yaml:"skills"`
	FallbackStat string            `yaml:"fallback_stat"`

	Archetypes   []Archetype `yaml:"archetypes"`
	DefaultClass string      `yaml:"default_class"`

	// Consumables maps inventory item names to the HP restored when the
	// player uses them. Items outside this table cannot be used.
	Consumables map[string]int `yaml:"consumables"`

	// DiceTrigger is the word that marks a player message as a skill roll
	// ("tiro" in most settings, "d20" in others).
	DiceTrigger string `yaml:"dice_trigger"`
	DiceTiers   Tiers  `yaml:"dice_tiers"`

	StartingObjective string `yaml:"starting_objective"`

	// SystemPrompt is stored verbatim as the first transcript entry. The
	// engine never parses it.
	SystemPrompt string `yaml:"system_prompt"`
}

// Archetype returns the configured archetype whose name matches under
// case-insensitive comparison, along with its canonical name.
func (s *Setting) Archetype(name string) (Archetype, bool) {
	for _, a := range s.Archetypes {
		if strings.EqualFold(a.Name, strings.TrimSpace(name)) {
			return a, true
		}
	}
	return Archetype{}, false
}

// HealAmount returns the healing value of a consumable item, matched under
// trimmed, case-insensitive comparison like inventory items.
func (s *Setting) HealAmount(item string) (int, bool) {
	v, ok := s.Consumables[strings.ToLower(strings.TrimSpace(item))]
	return v, ok
}

// ResolveSkill maps a skill name to its governing stat. Core stat names
// resolve to themselves; unknown skills resolve to the fallback stat.
func (s *Setting) ResolveSkill(skill string) string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if _, ok := s.Stats[skill]; ok {
		return skill
	}
	if stat, ok := s.Skills[skill]; ok {
		return stat
	}
	return s.FallbackStat
}

// Parse decodes and validates a single setting document.
func Parse(data []byte) (*Setting, error) {
	var s Setting
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode setting: %w", err)
	}

	// Stat and skill keys are matched in lower case everywhere; normalize
	// before validating so mixed-case documents are checked consistently.
	stats := make(map[string]int, len(s.Stats))
	for k, v := range s.Stats {
		stats[strings.ToLower(k)] = v
	}
	s.Stats = stats
	skills := make(map[string]string, len(s.Skills))
	for k, v := range s.Skills {
		skills[strings.ToLower(k)] = strings.ToLower(v)
	}
	s.Skills = skills
	s.FallbackStat = strings.ToLower(s.FallbackStat)
	consumables := make(map[string]int, len(s.Consumables))
	for k, v := range s.Consumables {
		consumables[strings.ToLower(k)] = v
	}
	s.Consumables = consumables

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Setting) validate() error {
	if s.ID == "" {
		return fmt.Errorf("setting: missing id")
	}
	if s.StartingHP <= 0 {
		return fmt.Errorf("setting %s: starting_hp must be positive", s.ID)
	}
	if s.HPPerLevel < 0 {
		return fmt.Errorf("setting %s: hp_per_level must not be negative", s.ID)
	}
	if len(s.Stats) == 0 {
		return fmt.Errorf("setting %s: no stats defined", s.ID)
	}
	for name, v := range s.Stats {
		if v < 0 {
			return fmt.Errorf("setting %s: stat %q is negative", s.ID, name)
		}
	}
	if !statDefined(s.Stats, s.FallbackStat) {
		return fmt.Errorf("setting %s: fallback_stat %q is not a stat", s.ID, s.FallbackStat)
	}
	for skill, stat := range s.Skills {
		if !statDefined(s.Stats, stat) {
			return fmt.Errorf("setting %s: skill %q maps to unknown stat %q", s.ID, skill, stat)
		}
	}
	if len(s.Archetypes) == 0 {
		return fmt.Errorf("setting %s: no archetypes defined", s.ID)
	}
	for _, a := range s.Archetypes {
		if a.Name == "" {
			return fmt.Errorf("setting %s: archetype with empty name", s.ID)
		}
		if !statDefined(s.Stats, a.BonusStat) {
			return fmt.Errorf("setting %s: archetype %q has unknown bonus stat %q", s.ID, a.Name, a.BonusStat)
		}
	}
	for item, heal := range s.Consumables {
		if heal <= 0 {
			return fmt.Errorf("setting %s: consumable %q must heal a positive amount", s.ID, item)
		}
	}
	if _, ok := s.Archetype(s.DefaultClass); !ok {
		return fmt.Errorf("setting %s: default_class %q is not an archetype", s.ID, s.DefaultClass)
	}
	if s.DiceTrigger == "" {
		return fmt.Errorf("setting %s: missing dice_trigger", s.ID)
	}
	if s.DiceTiers.Critical < s.DiceTiers.Success || s.DiceTiers.Success < s.DiceTiers.Partial {
		return fmt.Errorf("setting %s: dice tiers must be ordered critical >= success >= partial", s.ID)
	}
	if s.SystemPrompt == "" {
		return fmt.Errorf("setting %s: missing system_prompt", s.ID)
	}
	return nil
}

func statDefined(stats map[string]int, name string) bool {
	_, ok := stats[strings.ToLower(name)]
	return ok
}

// All loads every embedded setting, ordered by ID.
func All() ([]*Setting, error) {
	entries, err := fs.ReadDir(settingsFS, "settings")
	if err != nil {
		return nil, fmt.Errorf("read settings dir: %w", err)
	}

	var out []*Setting
	for _, e := range entries {
		data, err := settingsFS.ReadFile("settings/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read setting %s: %w", e.Name(), err)
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", e.Name(), err)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
