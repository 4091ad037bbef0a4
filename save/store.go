// Package save persists game snapshots as JSON files on disk. Files are
// named after the owning player, and that prefix doubles as the
// authorization boundary for loading.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"dungeon_ai/game"
)

// ErrNotAllowed is returned when a player asks for a save file they do not
// own.
var ErrNotAllowed = errors.New("save: not allowed")

// Store writes snapshots under dir, keeping at most keep files per player.
type Store struct {
	dir  string
	keep int
}

// NewStore returns a store rooted at dir. keep is the per-player retention
// cap; values below one keep a single file.
func NewStore(dir string, keep int) *Store {
	if keep < 1 {
		keep = 1
	}
	return &Store{dir: dir, keep: keep}
}

func prefix(player string) string {
	return "sessione_" + player + "_"
}

// Owns reports whether filename belongs to player. Path separators are
// rejected outright so a crafted name cannot escape the save directory.
func (st *Store) Owns(player, filename string) bool {
	return filename == filepath.Base(filename) &&
		strings.HasPrefix(filename, prefix(player)) &&
		strings.HasSuffix(filename, ".json")
}

// Write persists a snapshot for player, pruning the oldest files beyond the
// retention cap first. Returns the written filename. The prune-then-write
// sequence is not transactional: a crash in between only leaves fewer files
// than the cap, which is fine for convenience snapshots.
func (st *Store) Write(player string, snap game.Snapshot) (string, error) {
	if err := os.MkdirAll(st.dir, 0o755); err != nil {
		return "", fmt.Errorf("save: create dir: %w", err)
	}
	if err := st.prune(player); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("save: encode snapshot: %w", err)
	}

	// The timestamp alone collides when two turns finish within the same
	// second; the random suffix keeps both snapshots.
	name := fmt.Sprintf("%s%s_%s.json", prefix(player),
		time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	if err := os.WriteFile(filepath.Join(st.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save: write %s: %w", name, err)
	}
	return name, nil
}

// Read loads a snapshot by filename on behalf of player. Filenames not
// owned by the player are rejected without touching the disk.
func (st *Store) Read(player, filename string) (game.Snapshot, error) {
	var snap game.Snapshot
	if !st.Owns(player, filename) {
		return snap, ErrNotAllowed
	}
	data, err := os.ReadFile(filepath.Join(st.dir, filename))
	if err != nil {
		return snap, fmt.Errorf("save: read %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("save: decode %s: %w", filename, err)
	}
	return snap, nil
}

// List returns the player's save filenames, newest first. The timestamp in
// the name sorts lexicographically.
func (st *Store) List(player string) ([]string, error) {
	entries, err := os.ReadDir(st.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("save: list: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && st.Owns(player, e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// prune removes the player's oldest files (by modification time) until one
// more file fits under the cap.
func (st *Store) prune(player string) error {
	entries, err := os.ReadDir(st.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("save: prune: %w", err)
	}

	type fileAge struct {
		name string
		mod  time.Time
	}
	var files []fileAge
	for _, e := range entries {
		if e.IsDir() || !st.Owns(player, e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileAge{name: e.Name(), mod: info.ModTime()})
	}
	if len(files) < st.keep {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod.Before(files[j].mod) })
	for _, f := range files[:len(files)-st.keep+1] {
		if err := os.Remove(filepath.Join(st.dir, f.name)); err != nil {
			return fmt.Errorf("save: prune %s: %w", f.name, err)
		}
	}
	return nil
}
