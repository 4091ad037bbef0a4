package narrator

import (
	"github.com/google/generative-ai-go/genai"

	"dungeon_ai/game"
)

// GameTools declares the game actions the narrator may invoke directly.
// The archetype list becomes the enum of change_player_class, so each
// setting gets its own declaration set.
func GameTools(archetypes []string) []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        game.ToolTakeDamage,
				Description: "Applica un danno al giocatore, riducendo i suoi punti ferita (HP).",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"amount": {
							Type:        genai.TypeInteger,
							Description: "La quantità di danno da infliggere.",
						},
						"reason": {
							Type:        genai.TypeString,
							Description: "La causa del danno (es. 'colpito da un costrutto', 'caduta').",
						},
					},
					Required: []string{"amount", "reason"},
				},
			},
			{
				Name:        game.ToolHealDamage,
				Description: "Guarisce il giocatore, aumentando i suoi punti ferita (HP).",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"amount": {
							Type:        genai.TypeInteger,
							Description: "La quantità di HP da recuperare.",
						},
					},
					Required: []string{"amount"},
				},
			},
			{
				Name:        game.ToolAddToInventory,
				Description: "Aggiunge uno o più oggetti all'inventario del giocatore.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"items": {
							Type:        genai.TypeArray,
							Items:       &genai.Schema{Type: genai.TypeString},
							Description: "Una lista di nomi di oggetti da aggiungere (es. ['cavo', 'scheda madre']).",
						},
					},
					Required: []string{"items"},
				},
			},
			{
				Name:        game.ToolSetObjective,
				Description: "Imposta un nuovo obiettivo principale per il giocatore dopo che il precedente è stato completato.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"description": {
							Type:        genai.TypeString,
							Description: "La descrizione testuale del nuovo obiettivo.",
						},
					},
					Required: []string{"description"},
				},
			},
			{
				Name:        game.ToolChangeClass,
				Description: "Cambia la classe del giocatore in base al suo stile di gioco. Da usare solo in momenti narrativi significativi.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"new_class": {
							Type:        genai.TypeString,
							Enum:        archetypes,
							Description: "Il nuovo archetipo del giocatore.",
						},
					},
					Required: []string{"new_class"},
				},
			},
		},
	}}
}
