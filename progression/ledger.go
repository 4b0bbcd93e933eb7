package progression

import (
	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/shared"
)

// PassKind identifies one of the one-time reward flags tracked on a
// main-game level entry: a gameplay pass per stage plus a trivia pass for
// every stage except lesson.
type PassKind string

const (
	LessonPass     PassKind = "lesson_pass"
	FlashPass      PassKind = "flash_pass"
	MinigamesPass  PassKind = "minigames_pass"
	VocabsPass     PassKind = "vocabs_pass"
	CalculatorPass PassKind = "calculator_pass"
	VideoPass      PassKind = "video_pass"

	FlashTrivia      PassKind = "flash_trivia"
	MinigamesTrivia  PassKind = "minigames_trivia"
	VocabsTrivia     PassKind = "vocabs_trivia"
	CalculatorTrivia PassKind = "calculator_trivia"
	VideoTrivia      PassKind = "video_trivia"
)

var passKinds = map[PassKind]struct {
	field  string
	button string
	trivia bool
}{
	LessonPass:     {field: "lesson_pass_collected", button: shared.StageLesson},
	FlashPass:      {field: "flash_pass_collected", button: shared.StageFlashcard},
	MinigamesPass:  {field: "minigames_pass_collected", button: shared.StageMinigames},
	VocabsPass:     {field: "vocabs_pass_collected", button: shared.StageVocabs},
	CalculatorPass: {field: "calculator_pass_collected", button: shared.StageCalculator},
	VideoPass:      {field: "video_pass_collected", button: shared.StageVideo},

	FlashTrivia:      {field: "flash_trivia_collected", trivia: true},
	MinigamesTrivia:  {field: "minigames_trivia_collected", trivia: true},
	VocabsTrivia:     {field: "vocabs_trivia_collected", trivia: true},
	CalculatorTrivia: {field: "calculator_trivia_collected", trivia: true},
	VideoTrivia:      {field: "video_trivia_collected", trivia: true},
}

func ParsePassKind(s string) (PassKind, bool) {
	kind := PassKind(s)
	_, ok := passKinds[kind]
	return kind, ok
}

// CollectedField is the persisted flag name on the level entry.
func (k PassKind) CollectedField() string {
	return passKinds[k].field
}

// IsTrivia reports whether this is the quiz half of a stage's pass pair.
func (k PassKind) IsTrivia() bool {
	return passKinds[k].trivia
}

// CollectResult describes the outcome of one collection attempt.
// PatchFields are the flag fields to merge into the current main-game level
// entry; UnlockDeltas are unit_stage_btn_status flips.
type CollectResult struct {
	Collected    bool
	PatchFields  map[string]bool
	UnlockDeltas map[string]map[string]bool
}

// RecordPassCollected flips a pass flag if it was newly earned this session
// and not already permanently collected, and computes the button unlocks the
// flip triggers.
//
// Collection is idempotent: an already-collected pass is a no-op regardless
// of session state. Under unit01's two-button rule the lesson and flash
// passes are a linked pair: the lesson and flashcard buttons flip together,
// only at the moment the second half of the pair is collected. Every other
// gameplay pass unlocks its own button the moment its flag flips; trivia
// passes flip no buttons (they gate advancement through the quiz flags).
func RecordPassCollected(sess *SessionContext, unitID string, entry *model.MainGameLevelEntry, kind PassKind) CollectResult {
	res := CollectResult{
		PatchFields:  map[string]bool{},
		UnlockDeltas: map[string]map[string]bool{},
	}
	if entry == nil {
		return res
	}

	field := kind.CollectedField()
	if entry.FlagSet(field) {
		// Already permanently collected; redundant attempts are no-ops.
		return res
	}
	if !sess.Earned(kind) {
		return res
	}

	entry.SetFlag(field, true)
	sess.clearEarned(kind)
	res.Collected = true
	res.PatchFields[field] = true

	switch kind {
	case LessonPass, FlashPass:
		if entry.LessonPassCollected && entry.FlashPassCollected {
			res.UnlockDeltas[unitID] = map[string]bool{
				shared.StageLesson:    true,
				shared.StageFlashcard: true,
			}
		}
	default:
		if !kind.IsTrivia() {
			res.UnlockDeltas[unitID] = map[string]bool{passKinds[kind].button: true}
		}
	}

	return res
}
