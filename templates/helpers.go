package templates

import (
	"fmt"
	"sort"
	"strings"

	"dungeon_ai/game"
)

// HealthStatus represents the player's health state and its corresponding color.
type HealthStatus struct {
	Description string
	Color       string
}

// GetHealthStatus returns a HealthStatus struct based on current and maximum
// hit points.
func GetHealthStatus(hp, maxHP int) HealthStatus {
	if maxHP <= 0 {
		return HealthStatus{"Sconosciuto", "#75715e"}
	}
	percent := hp * 100 / maxHP
	switch {
	case percent >= 80:
		return HealthStatus{"In forze", "#a6e22e"} // Lime Green
	case percent >= 50:
		return HealthStatus{"Ferito", "#e6db74"} // Yellow
	case percent >= 20:
		return HealthStatus{"Malconcio", "#fd971f"} // Orange
	case hp > 0:
		return HealthStatus{"Critico", "#f92672"} // Pink/Red
	default:
		return HealthStatus{"Morto", "#75715e"} // Gray
	}
}

// FormatStats renders the stat block as a stable, sorted line.
func FormatStats(stats game.Stats) string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, stats[name]))
	}
	return strings.Join(parts, " · ")
}

// noteColor maps a notice kind to its banner color.
func noteColor(kind game.NoteKind) string {
	switch kind {
	case game.NoteSuccess:
		return "#a6e22e"
	case game.NoteWarning:
		return "#fd971f"
	case game.NoteError:
		return "#f92672"
	default:
		return "#66d9ef"
	}
}
