package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyHpDelta(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)

	notes := st.Apply(HpDelta{Amount: -5, Reason: "trappola"}, cfg)
	assert.Equal(t, 15, st.Vitals.HP)
	require.Len(t, notes, 1)
	assert.Equal(t, NoteWarning, notes[0].Kind)
	assert.Contains(t, notes[0].Text, "Hai perso 5 punti ferita")
	assert.Contains(t, notes[0].Text, "trappola")
	assert.Contains(t, notes[0].Text, "15/20")

	notes = st.Apply(HpDelta{Amount: 3}, cfg)
	assert.Equal(t, 18, st.Vitals.HP)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "Hai recuperato 3 punti ferita")
}

func TestApplyHpAbsolute(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)

	notes := st.Apply(HpAbsolute{HP: 7}, cfg)
	assert.Equal(t, 7, st.Vitals.HP)
	assert.Empty(t, notes, "absolute HP statements carry no notice")
}

func TestApplyItemsCollected(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)
	st.Inventory.Add("Torcia")

	notes := st.Apply(ItemsCollected{Items: []string{"torcia", "Corda", " "}}, cfg)
	assert.Equal(t, []string{"Torcia", "Corda"}, st.Inventory.Items())
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Text, "Aggiunto all'inventario: Corda")
	assert.Contains(t, notes[1].Text, "Già presente nell'inventario: torcia")
}

func TestApplyObjectiveSetTriggersLevelUp(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)
	st.ObjectivesCompleted = 9
	before := len(st.Messages)

	notes := st.Apply(ObjectiveSet{Text: "Fuggi dalla citta"}, cfg)
	assert.Equal(t, "Fuggi dalla citta", st.Objective)
	assert.Equal(t, 2, st.Level)

	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Text, "Nuovo obiettivo")
	assert.Equal(t, NoteSuccess, notes[1].Kind)
	assert.Contains(t, notes[1].Text, "LEVEL UP")

	// The level-up is also fed back into the transcript for the narrator.
	require.Len(t, st.Messages, before+1)
	last := st.Messages[len(st.Messages)-1]
	assert.Equal(t, RoleUser, last.Role)
	assert.Contains(t, last.Content, "[INFO DI GIOCO]")
}

func TestApplyClassChanged(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)

	notes := st.Apply(ClassChanged{Name: "Spettro"}, cfg)
	assert.Equal(t, "Spettro", st.Class)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "Ora sei un Spettro")
	assert.Contains(t, notes[0].Text, "+1 a Fegato")

	assert.Empty(t, st.Apply(ClassChanged{Name: "Spettro"}, cfg), "repeat change is silent")
	assert.Empty(t, st.Apply(ClassChanged{Name: "Paladino"}, cfg), "unknown archetype is silent")
}

func TestApplyToolCalls(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)

	calls := []ToolCall{
		{Name: ToolTakeDamage, Args: map[string]any{"amount": float64(4), "reason": "caduta"}},
		{Name: ToolAddToInventory, Args: map[string]any{"items": []any{"Mappa", "Bussola"}}},
		{Name: ToolSetObjective, Args: map[string]any{"description": "Raggiungi la torre"}},
	}
	notes := st.ApplyToolCalls(calls, cfg)

	assert.Equal(t, 16, st.Vitals.HP)
	assert.Equal(t, []string{"Mappa", "Bussola"}, st.Inventory.Items())
	assert.Equal(t, "Raggiungi la torre", st.Objective)
	assert.NotEmpty(t, notes)

	// One tool-result message per call, in order.
	var toolMsgs []Message
	for _, m := range st.Messages {
		if m.Role == RoleTool {
			toolMsgs = append(toolMsgs, m)
		}
	}
	require.Len(t, toolMsgs, 3)
	assert.Equal(t, ToolTakeDamage, toolMsgs[0].ToolName)
	assert.Contains(t, toolMsgs[0].Content, "HP del giocatore ora sono 16")
	assert.Contains(t, toolMsgs[1].Content, "Mappa, Bussola")
	assert.Contains(t, toolMsgs[2].Content, "Raggiungi la torre")
}

func TestApplyToolCallsSkipsMalformed(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)

	calls := []ToolCall{
		{Name: ToolTakeDamage, Args: map[string]any{"amount": "molto"}}, // unparseable
		{Name: ToolHealDamage, Args: map[string]any{"amount": "3"}},     // numeric string is fine
	}
	st.Vitals.TakeDamage(10)
	st.ApplyToolCalls(calls, cfg)

	assert.Equal(t, 13, st.Vitals.HP, "bad call skipped, good call applied")
}

func TestApplyToolCallsUnknownName(t *testing.T) {
	cfg := testSetting()
	st := &State{}
	st.Initialize(cfg)

	st.ApplyToolCalls([]ToolCall{{Name: "cast_fireball"}}, cfg)

	last := st.Messages[len(st.Messages)-1]
	assert.Equal(t, RoleTool, last.Role)
	assert.Contains(t, last.Content, "non implementata", "unknown tools still get a result message")
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int
		wantOK bool
	}{
		{name: "float64 from JSON", value: float64(7), want: 7, wantOK: true},
		{name: "int", value: 7, want: 7, wantOK: true},
		{name: "numeric string", value: " 7 ", want: 7, wantOK: true},
		{name: "garbage string", value: "sette", wantOK: false},
		{name: "missing", value: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}
			if tt.value != nil {
				args["amount"] = tt.value
			}
			got, ok := intArg(args, "amount")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStringListArg(t *testing.T) {
	got, ok := stringListArg(map[string]any{"items": []any{"a", "b"}}, "items")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = stringListArg(map[string]any{"items": "a,b"}, "items")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = stringListArg(map[string]any{"items": 42}, "items")
	assert.False(t, ok)
}
