package progression

import (
	"time"

	"github.com/coinquest-app/quest_api/model"
)

// StageState is the terminal set of decisions the engine can reach for a
// stage's current level on a given day.
type StageState string

const (
	// NeedsInitialCreation: no entry exists for this level; first-ever play.
	NeedsInitialCreation StageState = "needs_initial_creation"
	// PlayableSameDay: not yet completed today and attempts remain.
	PlayableSameDay StageState = "playable_same_day"
	// NeedsLifeRecovery: attempts exhausted without completing; watch a
	// reward video or wait for the daily reset.
	NeedsLifeRecovery StageState = "needs_life_recovery"
	// AwaitingQuizCompletion: gameplay done, quiz not yet answered.
	AwaitingQuizCompletion StageState = "awaiting_quiz_completion"
	// ReadyToAdvance: gameplay and quiz done on an earlier calendar day.
	ReadyToAdvance StageState = "ready_to_advance"
	// CompletedNotYetAdvanceable: everything done today; tomorrow unlocks.
	CompletedNotYetAdvanceable StageState = "completed_not_yet_advanceable"
	// AllLevelsExhausted: current level is past the curriculum's last level.
	AllLevelsExhausted StageState = "all_levels_exhausted"
)

// LevelState is the normalized per-level view the evaluator works on,
// regardless of whether the entry came from the main game or a mini-game
// block.
type LevelState struct {
	Exists bool
	Played bool
	Date   string
	Life   int
}

func MainGameLevelState(block *model.MainGameBlock, level int) LevelState {
	if block == nil || block.Levels == nil {
		return LevelState{}
	}
	entry, ok := block.Levels[FormatLevelKey(level)]
	if !ok {
		return LevelState{}
	}
	return LevelState{Exists: true, Played: entry.Played, Date: entry.Date, Life: entry.Life}
}

func MiniGameLevelState(block *model.MiniGameStageBlock, level int) LevelState {
	if block == nil || block.Levels == nil {
		return LevelState{}
	}
	entry, ok := block.Levels[FormatLevelKey(level)]
	if !ok {
		return LevelState{}
	}
	return LevelState{Exists: true, Played: entry.Played, Date: entry.Date}
}

// Decision is the evaluator's result. DateAnomaly is set when the stored date
// failed to parse and the epoch fallback was applied; callers log it.
type Decision struct {
	State       StageState
	DateAnomaly bool
}

// Evaluate decides what a stage's current level permits today. Pure function
// over the already-loaded snapshot; it never fails.
//
// The single mechanism gating progression is the strict date-only comparison:
// advancement is permitted only when today is a later calendar day than the
// stored play date. An unparsable stored date degrades to "always
// advanceable".
// TODO: confirm with product whether a corrupt date should block advancement
// instead of allowing it; current behavior matches the shipped clients.
func Evaluate(cfg StageConfig, currentLevel int, state LevelState, quizDone bool, now time.Time) Decision {
	if currentLevel > cfg.TerminalLevel {
		return Decision{State: AllLevelsExhausted}
	}

	// Absence always wins: a missing entry means "never played", whatever
	// level/quiz state might otherwise suggest.
	if !state.Exists {
		return Decision{State: NeedsInitialCreation}
	}

	if !state.Played {
		if cfg.HasLife && state.Life <= 0 {
			return Decision{State: NeedsLifeRecovery}
		}
		return Decision{State: PlayableSameDay}
	}

	if !quizDone {
		return Decision{State: AwaitingQuizCompletion}
	}

	stored, ok := ParseStoredDate(state.Date)
	if !ok {
		// Epoch fallback: zero time is before any real day, so the rollover
		// check passes.
		return Decision{State: ReadyToAdvance, DateAnomaly: true}
	}
	if AfterDay(now, stored) {
		return Decision{State: ReadyToAdvance}
	}
	return Decision{State: CompletedNotYetAdvanceable}
}

// QuizDone looks up the quiz-answered flag for a stage level inside a unit's
// quizzes map. Absent keys read as false; absence is a valid first-time state.
func QuizDone(quizzes map[string]map[string]bool, quizKey string, level int) bool {
	if quizzes == nil {
		return false
	}
	levels, ok := quizzes[quizKey]
	if !ok {
		return false
	}
	return levels[FormatLevelKey(level)]
}
