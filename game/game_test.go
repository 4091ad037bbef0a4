package game

import "dungeon_ai/setting"

// testSetting is a small fixture shared by the package tests. Keys are
// already lower-case, matching what setting.Parse produces.
func testSetting() *setting.Setting {
	return &setting.Setting{
		ID:         "test",
		Name:       "Test",
		StartingHP: 20,
		HPPerLevel: 10,
		Stats: map[string]int{
			"carisma":  2,
			"cervello": 3,
			"fegato":   1,
		},
		Skills: map[string]string{
			"fuga":        "fegato",
			"persuasione": "carisma",
		},
		FallbackStat: "cervello",
		Archetypes: []setting.Archetype{
			{Name: "Inquisitore", BonusStat: "carisma", Description: "Parla e la gente ascolta."},
			{Name: "Spettro", BonusStat: "fegato", Description: "Nessuno lo vede arrivare."},
		},
		DefaultClass: "Inquisitore",
		Consumables: map[string]int{
			"medikit": 5,
			"siringa": 3,
		},
		DiceTrigger: "tiro",
		DiceTiers:    setting.Tiers{Critical: 18, Success: 15, Partial: 10},

		StartingObjective: "Scopri dove ti trovi",
		SystemPrompt:      "Sei il narratore di un gioco di ruolo.",
	}
}
