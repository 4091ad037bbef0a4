package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllEmbeddedSettingsAreValid(t *testing.T) {
	settings, err := All()
	require.NoError(t, err)
	require.Len(t, settings, 4)

	ids := make([]string, len(settings))
	for i, s := range settings {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"ashen", "blightpunk", "bmovie", "hackergame"}, ids, "ordered by id")

	for _, s := range settings {
		assert.NotEmpty(t, s.Name, s.ID)
		assert.Positive(t, s.StartingHP, s.ID)
		assert.NotEmpty(t, s.SystemPrompt, s.ID)
		_, ok := s.Archetype(s.DefaultClass)
		assert.True(t, ok, "%s: default class must be an archetype", s.ID)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing id",
			yaml:    "name: X",
			wantErr: "missing id",
		},
		{
			name: "fallback stat not a stat",
			yaml: `
id: x
starting_hp: 10
stats: {cervello: 1}
fallback_stat: fegato
archetypes: [{name: A, bonus_stat: cervello}]
default_class: A
dice_trigger: tiro
dice_tiers: {critical: 18, success: 15, partial: 10}
system_prompt: p
`,
			wantErr: "fallback_stat",
		},
		{
			name: "skill maps to unknown stat",
			yaml: `
id: x
starting_hp: 10
stats: {cervello: 1}
fallback_stat: cervello
skills: {fuga: gambe}
archetypes: [{name: A, bonus_stat: cervello}]
default_class: A
dice_trigger: tiro
dice_tiers: {critical: 18, success: 15, partial: 10}
system_prompt: p
`,
			wantErr: "unknown stat",
		},
		{
			name: "unordered dice tiers",
			yaml: `
id: x
starting_hp: 10
stats: {cervello: 1}
fallback_stat: cervello
archetypes: [{name: A, bonus_stat: cervello}]
default_class: A
dice_trigger: tiro
dice_tiers: {critical: 10, success: 15, partial: 18}
system_prompt: p
`,
			wantErr: "dice tiers",
		},
		{
			name: "non-positive consumable heal",
			yaml: `
id: x
starting_hp: 10
stats: {cervello: 1}
fallback_stat: cervello
archetypes: [{name: A, bonus_stat: cervello}]
default_class: A
consumables: {medikit: 0}
dice_trigger: tiro
dice_tiers: {critical: 18, success: 15, partial: 10}
system_prompt: p
`,
			wantErr: "consumable",
		},
		{
			name: "default class not an archetype",
			yaml: `
id: x
starting_hp: 10
stats: {cervello: 1}
fallback_stat: cervello
archetypes: [{name: A, bonus_stat: cervello}]
default_class: B
dice_trigger: tiro
dice_tiers: {critical: 18, success: 15, partial: 10}
system_prompt: p
`,
			wantErr: "default_class",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseNormalizesCase(t *testing.T) {
	s, err := Parse([]byte(`
id: x
starting_hp: 10
stats: {Cervello: 1, Fegato: 2}
fallback_stat: Cervello
skills: {Fuga: Fegato}
consumables: {Medikit: 5}
archetypes: [{name: A, bonus_stat: fegato}]
default_class: A
dice_trigger: tiro
dice_tiers: {critical: 18, success: 15, partial: 10}
system_prompt: p
`))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"cervello": 1, "fegato": 2}, s.Stats)
	assert.Equal(t, "cervello", s.FallbackStat)
	assert.Equal(t, "fegato", s.Skills["fuga"])

	heal, ok := s.HealAmount(" MEDIKIT ")
	assert.True(t, ok, "consumable keys are normalized and matched case-insensitively")
	assert.Equal(t, 5, heal)
}

func TestResolveSkill(t *testing.T) {
	s, err := Parse([]byte(`
id: x
starting_hp: 10
stats: {cervello: 1, fegato: 2}
fallback_stat: cervello
skills: {fuga: fegato}
archetypes: [{name: A, bonus_stat: fegato}]
default_class: A
dice_trigger: tiro
dice_tiers: {critical: 18, success: 15, partial: 10}
system_prompt: p
`))
	require.NoError(t, err)

	assert.Equal(t, "fegato", s.ResolveSkill("fegato"), "stat names resolve to themselves")
	assert.Equal(t, "fegato", s.ResolveSkill("Fuga"), "synonyms are case-insensitive")
	assert.Equal(t, "cervello", s.ResolveSkill("ballare"), "unknown skills use the fallback")
}

func TestArchetypeLookup(t *testing.T) {
	s := &Setting{Archetypes: []Archetype{{Name: "Spettro", BonusStat: "prontezza"}}}

	a, ok := s.Archetype(" spettro ")
	assert.True(t, ok)
	assert.Equal(t, "Spettro", a.Name)

	_, ok = s.Archetype("Paladino")
	assert.False(t, ok)
}
