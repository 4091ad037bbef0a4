package save

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dungeon_ai/game"
)

func testSnapshot() game.Snapshot {
	hp, maxHP := 15, 20
	return game.Snapshot{
		HP:        &hp,
		MaxHP:     &maxHP,
		Inventory: []string{"Torcia"},
		Objective: "Scopri dove ti trovi",
		Class:     "Inquisitore",
	}
}

func TestWriteAndRead(t *testing.T) {
	st := NewStore(t.TempDir(), 10)

	name, err := st.Write("p1", testSnapshot())
	require.NoError(t, err)
	assert.True(t, st.Owns("p1", name))

	snap, err := st.Read("p1", name)
	require.NoError(t, err)
	require.NotNil(t, snap.HP)
	assert.Equal(t, 15, *snap.HP)
	assert.Equal(t, []string{"Torcia"}, snap.Inventory)
	assert.Equal(t, "Inquisitore", snap.Class)
}

func TestWriteWithinSameSecondKeepsBothSnapshots(t *testing.T) {
	st := NewStore(t.TempDir(), 10)

	first, err := st.Write("p1", testSnapshot())
	require.NoError(t, err)
	second, err := st.Write("p1", testSnapshot())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	names, err := st.List("p1")
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestReadRejectsForeignFiles(t *testing.T) {
	st := NewStore(t.TempDir(), 10)

	name, err := st.Write("p1", testSnapshot())
	require.NoError(t, err)

	_, err = st.Read("p2", name)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestOwns(t *testing.T) {
	st := NewStore(t.TempDir(), 10)

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{name: "own file", filename: "sessione_p1_20250101_120000.json", want: true},
		{name: "other player", filename: "sessione_p2_20250101_120000.json", want: false},
		{name: "path traversal", filename: "../sessione_p1_20250101_120000.json", want: false},
		{name: "wrong extension", filename: "sessione_p1_20250101_120000.txt", want: false},
		{name: "empty", filename: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.Owns("p1", tt.filename))
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir, 10)

	for _, name := range []string{
		"sessione_p1_20250101_120000.json",
		"sessione_p1_20250103_120000.json",
		"sessione_p1_20250102_120000.json",
		"sessione_p2_20250104_120000.json", // other player, excluded
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	names, err := st.List("p1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"sessione_p1_20250103_120000.json",
		"sessione_p1_20250102_120000.json",
		"sessione_p1_20250101_120000.json",
	}, names)
}

func TestListMissingDir(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "nope"), 10)
	names, err := st.List("p1")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestWritePrunesOldest(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir, 3)

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{
		"sessione_p1_20250101_120000.json",
		"sessione_p1_20250102_120000.json",
		"sessione_p1_20250103_120000.json",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}

	_, err := st.Write("p1", testSnapshot())
	require.NoError(t, err)

	names, err := st.List("p1")
	require.NoError(t, err)
	require.Len(t, names, 3, "cap holds after the write")
	assert.NotContains(t, names, "sessione_p1_20250101_120000.json", "oldest file was pruned")
}

func TestPruneIgnoresOtherPlayers(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir, 1)

	other := filepath.Join(dir, "sessione_p2_20250101_120000.json")
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))

	_, err := st.Write("p1", testSnapshot())
	require.NoError(t, err)

	_, err = os.Stat(other)
	assert.NoError(t, err, "another player's save must survive pruning")
}
