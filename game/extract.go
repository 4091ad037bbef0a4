package game

import (
	"regexp"
	"strconv"
	"strings"

	"dungeon_ai/setting"
)

// Fallback extraction: when the narrator returns no structured tool calls,
// game events are recovered from the reply text itself. The narrator is
// prompted to phrase state changes with fixed lead-ins and tags; these
// patterns mirror that contract. Only the first match per kind is honored.
var (
	// An absolute HP statement is more reliable than a relative one and
	// takes precedence: applying both would double-count the change.
	reHPAbsolute = regexp.MustCompile(`(?i)(?:Punti ferita|HP) attuali:\s*(\d+)`)
	reDamage     = regexp.MustCompile(`(?i)Hai perso\s+(\d+)\s+punti ferita`)
	reHeal       = regexp.MustCompile(`(?i)Hai (?:guarito|recuperato)\s+(\d+)\s+punti ferita`)
	reClass      = regexp.MustCompile(`(?i)\[CLASS_CHANGE\]\s*([\p{L}]+)`)
	reItems      = regexp.MustCompile(`(?i)Hai raccolto:?\s*([^\]\[.]+)`)
	reObjective  = regexp.MustCompile(`(?i)\[OBJECTIVE\]\s*(.*)`)
)

// Extract recovers zero or more game events from a narrator reply. It is
// best-effort: no match for a kind simply yields no event of that kind.
func Extract(reply string) []Event {
	var events []Event

	if m := reHPAbsolute.FindStringSubmatch(reply); m != nil {
		if hp, err := strconv.Atoi(m[1]); err == nil {
			events = append(events, HpAbsolute{HP: hp})
		}
	} else {
		if m := reDamage.FindStringSubmatch(reply); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				events = append(events, HpDelta{Amount: -n})
			}
		}
		if m := reHeal.FindStringSubmatch(reply); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				events = append(events, HpDelta{Amount: n})
			}
		}
	}

	if m := reClass.FindStringSubmatch(reply); m != nil {
		events = append(events, ClassChanged{Name: m[1]})
	}

	if m := reItems.FindStringSubmatch(reply); m != nil {
		var items []string
		for _, item := range strings.Split(m[1], ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			events = append(events, ItemsCollected{Items: items})
		}
	}

	if m := reObjective.FindStringSubmatch(reply); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			events = append(events, ObjectiveSet{Text: text})
		}
	}

	return events
}

// ApplyReply runs the fallback extraction over a reply and applies every
// recovered event, returning the accumulated notices.
func (s *State) ApplyReply(reply string, cfg *setting.Setting) []Note {
	var notes []Note
	for _, ev := range Extract(reply) {
		notes = append(notes, s.Apply(ev, cfg)...)
	}
	return notes
}
