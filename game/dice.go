package game

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"dungeon_ai/setting"
)

// Tier classifies a roll total against the setting's thresholds.
type Tier string

const (
	TierCritical Tier = "critical"
	TierSuccess  Tier = "success"
	TierPartial  Tier = "partial"
	TierFailure  Tier = "failure"
)

// label is the player-facing outcome text, matching the narrator's language.
func (t Tier) label() string {
	switch t {
	case TierCritical:
		return "**SUCCESSO CRITICO!** 🎉"
	case TierSuccess:
		return "**SUCCESSO!** ✅"
	case TierPartial:
		return "**SUCCESSO PARZIALE** ⚠️"
	default:
		return "**FALLIMENTO** ❌"
	}
}

// RollResult is the full outcome of one skill roll.
type RollResult struct {
	Skill    string // skill as the player typed it
	Stat     string // resolved governing stat
	Roll     int    // d20 result
	Modifier int    // resolved stat value
	Total    int
	Tier     Tier
}

// Message formats the roll the way it is fed back to the narrator.
func (r RollResult) Message() string {
	return fmt.Sprintf("**TIRO %s (usa %s): %d + %d = %d** - %s",
		strings.ToUpper(r.Skill), capitalize(r.Stat), r.Roll, r.Modifier, r.Total, r.Tier.label())
}

// Roller rolls a d20 from a process-wide pseudo-random source. Not
// cryptographic; it only needs to be fair enough for a story game.
type Roller struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRoller returns a time-seeded roller.
func NewRoller() *Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller returns a deterministic roller, used by tests.
func NewSeededRoller(seed int64) *Roller {
	return &Roller{src: rand.New(rand.NewSource(seed))}
}

// Resolve rolls a d20 for the named skill. The skill resolves to a governing
// stat via the setting (unknown skills fall back to the setting's default
// stat); the stat's value in stats is the modifier.
func (ro *Roller) Resolve(skill string, stats Stats, cfg *setting.Setting) RollResult {
	stat := cfg.ResolveSkill(skill)
	modifier := stats[stat]

	ro.mu.Lock()
	roll := ro.src.Intn(20) + 1
	ro.mu.Unlock()

	total := roll + modifier
	return RollResult{
		Skill:    skill,
		Stat:     stat,
		Roll:     roll,
		Modifier: modifier,
		Total:    total,
		Tier:     classify(total, cfg.DiceTiers),
	}
}

func classify(total int, tiers setting.Tiers) Tier {
	switch {
	case total >= tiers.Critical:
		return TierCritical
	case total >= tiers.Success:
		return TierSuccess
	case total >= tiers.Partial:
		return TierPartial
	default:
		return TierFailure
	}
}

// DetectRoll reports whether a player message asks for a skill roll, based
// on the setting's trigger word ("tiro carisma", "d20 fuga"). When the
// trigger appears without a readable skill name the roll is generic.
func DetectRoll(input, trigger string) (skill string, ok bool) {
	if !strings.Contains(strings.ToLower(input), strings.ToLower(trigger)) {
		return "", false
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(trigger) + `\s+([\p{L}]+)`)
	if m := re.FindStringSubmatch(input); m != nil {
		return m[1], true
	}
	return "Generico", true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
