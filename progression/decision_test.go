package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinquest-app/quest_api/model"
)

var (
	mainCfg, _ = ConfigFor(StageMainGame)
	miniCfg, _ = ConfigFor(StageMinigames)

	today     = time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	yesterday = today.AddDate(0, 0, -1)
)

func dateStr(t time.Time) string {
	return DayOf(t).Format(DateLayout)
}

func TestEvaluateInitialCreation(t *testing.T) {
	t.Run("missing entry wins over everything", func(t *testing.T) {
		d := Evaluate(mainCfg, 1, LevelState{}, true, today)
		assert.Equal(t, NeedsInitialCreation, d.State)
	})

	t.Run("missing levels map", func(t *testing.T) {
		block := &model.MainGameBlock{Level: 1}
		state := MainGameLevelState(block, 1)
		d := Evaluate(mainCfg, 1, state, false, today)
		assert.Equal(t, NeedsInitialCreation, d.State)
	})

	t.Run("nil block", func(t *testing.T) {
		state := MainGameLevelState(nil, 1)
		d := Evaluate(mainCfg, 1, state, false, today)
		assert.Equal(t, NeedsInitialCreation, d.State)
	})
}

func TestEvaluateTerminal(t *testing.T) {
	t.Run("level past curriculum end", func(t *testing.T) {
		d := Evaluate(mainCfg, 6, LevelState{}, false, today)
		assert.Equal(t, AllLevelsExhausted, d.State)
	})

	t.Run("terminal level itself is still playable", func(t *testing.T) {
		d := Evaluate(mainCfg, 5, LevelState{}, false, today)
		assert.Equal(t, NeedsInitialCreation, d.State)
	})
}

func TestEvaluateUnplayed(t *testing.T) {
	t.Run("life remaining", func(t *testing.T) {
		state := LevelState{Exists: true, Life: 2, Date: dateStr(today)}
		d := Evaluate(mainCfg, 1, state, false, today)
		assert.Equal(t, PlayableSameDay, d.State)
	})

	t.Run("zero life and not played", func(t *testing.T) {
		state := LevelState{Exists: true, Life: 0, Date: dateStr(today)}
		d := Evaluate(mainCfg, 1, state, false, today)
		assert.Equal(t, NeedsLifeRecovery, d.State)
	})

	t.Run("mini-games have no life gate", func(t *testing.T) {
		state := LevelState{Exists: true, Life: 0, Date: dateStr(today)}
		d := Evaluate(miniCfg, 1, state, false, today)
		assert.Equal(t, PlayableSameDay, d.State)
	})
}

func TestEvaluatePlayed(t *testing.T) {
	t.Run("quiz pending trumps zero life", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Life: 0, Date: dateStr(today)}
		d := Evaluate(mainCfg, 1, state, false, today)
		assert.Equal(t, AwaitingQuizCompletion, d.State)
	})

	t.Run("same day never advances", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Date: dateStr(today)}
		d := Evaluate(mainCfg, 1, state, true, today)
		assert.Equal(t, CompletedNotYetAdvanceable, d.State)
	})

	t.Run("same calendar day at different times never advances", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Date: dateStr(today)}
		almostMidnight := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
		d := Evaluate(mainCfg, 1, state, true, almostMidnight)
		assert.Equal(t, CompletedNotYetAdvanceable, d.State)
	})

	t.Run("next day advances", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Date: dateStr(yesterday)}
		d := Evaluate(mainCfg, 1, state, true, today)
		assert.Equal(t, ReadyToAdvance, d.State)
		assert.False(t, d.DateAnomaly)
	})

	t.Run("stored date in the future does not advance", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Date: dateStr(today.AddDate(0, 0, 3))}
		d := Evaluate(mainCfg, 1, state, true, today)
		assert.Equal(t, CompletedNotYetAdvanceable, d.State)
	})

	t.Run("earlier day without quiz still waits on quiz", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Date: dateStr(yesterday)}
		d := Evaluate(mainCfg, 1, state, false, today)
		assert.Equal(t, AwaitingQuizCompletion, d.State)
	})
}

func TestEvaluateDateFallback(t *testing.T) {
	t.Run("unparsable date is always advanceable and flagged", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Date: "not-a-date"}
		d := Evaluate(mainCfg, 1, state, true, today)
		assert.Equal(t, ReadyToAdvance, d.State)
		assert.True(t, d.DateAnomaly)
	})

	t.Run("legacy short-date layouts still parse", func(t *testing.T) {
		state := LevelState{Exists: true, Played: true, Date: "08/31/2026"}
		d := Evaluate(mainCfg, 1, state, true, today)
		assert.Equal(t, CompletedNotYetAdvanceable, d.State)
		assert.False(t, d.DateAnomaly)
	})
}

func TestLevelStateHelpers(t *testing.T) {
	block := &model.MainGameBlock{
		Level: 2,
		Levels: map[string]model.MainGameLevelEntry{
			"02": {Life: 1, Played: true, Date: "2026-08-30"},
		},
	}

	state := MainGameLevelState(block, 2)
	require.True(t, state.Exists)
	assert.True(t, state.Played)
	assert.Equal(t, 1, state.Life)
	assert.Equal(t, "2026-08-30", state.Date)

	assert.False(t, MainGameLevelState(block, 3).Exists)

	mini := &model.MiniGameStageBlock{
		Level: 1,
		Levels: map[string]model.MiniGameLevelEntry{
			"01": {Played: true, Date: "2026-08-30"},
		},
	}
	ms := MiniGameLevelState(mini, 1)
	require.True(t, ms.Exists)
	assert.True(t, ms.Played)
}

func TestQuizDone(t *testing.T) {
	quizzes := map[string]map[string]bool{
		"minigames": {"01": true, "02": false},
	}

	assert.True(t, QuizDone(quizzes, "minigames", 1))
	assert.False(t, QuizDone(quizzes, "minigames", 2))
	assert.False(t, QuizDone(quizzes, "minigames", 3))
	assert.False(t, QuizDone(quizzes, "vocabs", 1))
	assert.False(t, QuizDone(nil, "minigames", 1))
}
