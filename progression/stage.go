// Package progression holds the pure daily progression rules: stage
// evaluation, pass collection and the merge-patch builders. Nothing in this
// package performs I/O; callers load the snapshot, call in, and persist the
// returned patches.
package progression

import (
	"fmt"
	"time"

	"github.com/coinquest-app/quest_api/shared"
)

type StageKind string

const (
	StageMainGame   StageKind = "maingame"
	StageMinigames  StageKind = "minigames"
	StageVocabs     StageKind = "vocabs"
	StageCalculator StageKind = "calculator"
)

// StageConfig parameterizes the one generic engine with the differences
// between the main game and the mini-game stages.
type StageConfig struct {
	Kind          StageKind
	TerminalLevel int
	HasLife       bool
	StartingLife  int

	// ButtonName is the unit_stage_btn_status key this stage unlocks under.
	ButtonName string

	// QuizKey is the quizzes/trivia sub-map this stage's quiz state lives in.
	QuizKey string
}

var stageConfigs = map[StageKind]StageConfig{
	StageMainGame: {
		Kind:          StageMainGame,
		TerminalLevel: 5,
		HasLife:       true,
		StartingLife:  3,
		ButtonName:    shared.StageLesson,
		QuizKey:       shared.StageLesson,
	},
	StageMinigames: {
		Kind:          StageMinigames,
		TerminalLevel: 10,
		ButtonName:    shared.StageMinigames,
		QuizKey:       shared.StageMinigames,
	},
	StageVocabs: {
		Kind:          StageVocabs,
		TerminalLevel: 10,
		ButtonName:    shared.StageVocabs,
		QuizKey:       shared.StageVocabs,
	},
	StageCalculator: {
		Kind:          StageCalculator,
		TerminalLevel: 10,
		ButtonName:    shared.StageCalculator,
		QuizKey:       shared.StageCalculator,
	},
}

func ConfigFor(kind StageKind) (StageConfig, bool) {
	cfg, ok := stageConfigs[kind]
	return cfg, ok
}

func ParseStageKind(s string) (StageKind, bool) {
	kind := StageKind(s)
	_, ok := stageConfigs[kind]
	return kind, ok
}

// stageIntroducedAt maps a main-game level to the mini-game stage whose pass
// placeholders are seeded when that level is created, so downstream ledger
// checks always find a defined default.
var stageIntroducedAt = map[int]string{
	2: shared.StageMinigames,
	3: shared.StageVocabs,
	4: shared.StageCalculator,
	5: shared.StageVideo,
}

// MaxLife is the main-game life cap; life is clamped to [0, MaxLife] on
// every write.
const MaxLife = 3

// FormatLevelKey renders a level number as the zero-padded two-digit map key
// used throughout the persisted document ("01".."09", then "10", "11", ...).
func FormatLevelKey(level int) string {
	return fmt.Sprintf("%02d", level)
}

// DateLayout is the locale-independent format level dates are persisted in.
const DateLayout = "2006-01-02"

// Older client builds wrote platform short-date strings; keep parsing them.
var legacyDateLayouts = []string{"01/02/2006", "1/2/2006", "02/01/2006"}

// ParseStoredDate parses a persisted level date. ok is false when the string
// matches no known layout; callers treat that as "stored date = epoch", which
// makes the rollover comparison trivially true.
func ParseStoredDate(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayOf truncates a timestamp to its calendar day in UTC. All rollover
// comparisons are date-only; time of day never matters.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AfterDay reports whether a is on a strictly later calendar day than b.
func AfterDay(a, b time.Time) bool {
	return DayOf(a).After(DayOf(b))
}
