package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/shared"
)

func dig(t *testing.T, p Patch, path ...string) Patch {
	t.Helper()
	cur := p
	for _, key := range path {
		next, ok := cur[key].(Patch)
		require.True(t, ok, "missing patch key %q", key)
		cur = next
	}
	return cur
}

func TestFormatLevelKey(t *testing.T) {
	assert.Equal(t, "01", FormatLevelKey(1))
	assert.Equal(t, "09", FormatLevelKey(9))
	assert.Equal(t, "10", FormatLevelKey(10))
	assert.Equal(t, "11", FormatLevelKey(11))
}

func TestBuildInitialStageDataMainGame(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	p := BuildInitialStageData(mainCfg, shared.FirstUnit, now, nil, nil)

	block := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame")
	assert.Equal(t, 1, block["level"])
	assert.Equal(t, 0, block["game_points"])

	entry := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame", "levels", "01")
	assert.Equal(t, "2026-08-31", entry["date"])
	assert.Equal(t, false, entry["played"])
	assert.Equal(t, 3, entry["life"])

	quiz := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "quizzes", shared.StageLesson)
	assert.Equal(t, false, quiz["01"])

	trivia := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "trivia", shared.StageLesson)
	assert.Equal(t, map[string]interface{}{}, trivia["01"])
}

func TestBuildInitialStageDataVocabs(t *testing.T) {
	cfg, ok := ConfigFor(StageVocabs)
	require.True(t, ok)

	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	words := map[string]bool{"w001": true, "w002": true}
	p := BuildInitialStageData(cfg, shared.FirstUnit, now, nil, words)

	entry := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "vocabs", "levels", "01")
	assert.Equal(t, words, entry["words"])
	_, hasLife := entry["life"]
	assert.False(t, hasLife, "mini-game entries carry no life")
}

func TestBuildNextLevelData(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	t.Run("level 2 seeds minigames placeholders", func(t *testing.T) {
		p := BuildNextLevelData(mainCfg, shared.FirstUnit, 2, now, nil, nil)

		block := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame")
		assert.Equal(t, 2, block["level"])

		entry := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame", "levels", "02")
		assert.Equal(t, "2026-08-31", entry["date"])
		assert.Equal(t, false, entry["played"])
		assert.Equal(t, MaxLife, entry["life"])
		assert.Equal(t, false, entry["minigames_pass_collected"])
		assert.Equal(t, false, entry["minigames_trivia_collected"])
	})

	t.Run("9 to 10 rollover keeps two-digit keys", func(t *testing.T) {
		cfg, _ := ConfigFor(StageMinigames)

		p9 := BuildNextLevelData(cfg, shared.FirstUnit, 9, now, nil, nil)
		dig(t, p9, shared.FieldUnitStageData, shared.FirstUnit, "minigames", "levels", "09")

		p10 := BuildNextLevelData(cfg, shared.FirstUnit, 10, now, nil, nil)
		levels := dig(t, p10, shared.FieldUnitStageData, shared.FirstUnit, "minigames", "levels")
		_, ok := levels["10"]
		assert.True(t, ok)
		_, bad := levels["010"]
		assert.False(t, bad)
	})

	t.Run("mini-game levels have no pass placeholders", func(t *testing.T) {
		cfg, _ := ConfigFor(StageCalculator)
		p := BuildNextLevelData(cfg, shared.FirstUnit, 3, now, nil, nil)
		entry := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "calculator", "levels", "03")
		_, ok := entry["vocabs_pass_collected"]
		assert.False(t, ok)
	})
}

func TestBuildLifeResetPatch(t *testing.T) {
	t.Run("clamps into range", func(t *testing.T) {
		p := BuildLifeResetPatch(mainCfg, shared.FirstUnit, 1, 7)
		entry := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame", "levels", "01")
		assert.Equal(t, 3, entry["life"])

		p = BuildLifeResetPatch(mainCfg, shared.FirstUnit, 1, -2)
		entry = dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame", "levels", "01")
		assert.Equal(t, 0, entry["life"])
	})

	t.Run("nil for lifeless stages", func(t *testing.T) {
		assert.Nil(t, BuildLifeResetPatch(miniCfg, shared.FirstUnit, 1, 3))
	})
}

func TestBuildMarkPlayedPatch(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 50, 0, 0, time.UTC)
	p := BuildMarkPlayedPatch(mainCfg, shared.FirstUnit, 1, now)

	entry := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame", "levels", "01")
	assert.Equal(t, true, entry["played"])
	assert.Equal(t, "2026-08-31", entry["date"])
}

func TestBuildQuizCompletedPatch(t *testing.T) {
	p := BuildQuizCompletedPatch(shared.FirstUnit, shared.StageVocabs, 4)
	quiz := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "quizzes", shared.StageVocabs)
	assert.Equal(t, true, quiz["04"])
}

func TestBuildPassFlagsAndButtons(t *testing.T) {
	p := BuildPassFlagsPatch(shared.FirstUnit, 2, map[string]bool{"minigames_pass_collected": true})
	entry := dig(t, p, shared.FieldUnitStageData, shared.FirstUnit, "maingame", "levels", "02")
	assert.Equal(t, true, entry["minigames_pass_collected"])

	assert.Nil(t, BuildPassFlagsPatch(shared.FirstUnit, 2, nil))

	btns := BuildButtonUnlockPatch(map[string]map[string]bool{
		shared.FirstUnit: {shared.StageLesson: true, shared.StageFlashcard: true},
	})
	unit := dig(t, btns, shared.FieldUnitStageBtnState, shared.FirstUnit)
	assert.Equal(t, true, unit[shared.StageLesson])
	assert.Equal(t, true, unit[shared.StageFlashcard])

	assert.Nil(t, BuildButtonUnlockPatch(nil))
}

func TestBuildChildSkeleton(t *testing.T) {
	p := BuildChildSkeleton(model.ChildProfile{Name: "Mia", Grade: "2", Avatar: "fox", Pin: "hash"})

	profile := dig(t, p, shared.FieldProfile)
	assert.Equal(t, "Mia", profile["name"])

	score := dig(t, p, shared.FieldPointsScore)
	assert.Equal(t, 0, score["xp"])

	unit := dig(t, p, shared.FieldUnitStageBtnState, shared.FirstUnit)
	assert.Equal(t, true, unit[shared.StageLesson])
	assert.Equal(t, false, unit[shared.StageMinigames])
}

func TestMergePatches(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	played := BuildMarkPlayedPatch(mainCfg, shared.FirstUnit, 1, now)
	flags := BuildPassFlagsPatch(shared.FirstUnit, 1, map[string]bool{"lesson_pass_collected": true})

	merged := MergePatches(played, flags)
	entry := dig(t, merged, shared.FieldUnitStageData, shared.FirstUnit, "maingame", "levels", "01")
	assert.Equal(t, true, entry["played"])
	assert.Equal(t, true, entry["lesson_pass_collected"])

	assert.Equal(t, played, MergePatches(played, nil))
	assert.Equal(t, flags, MergePatches(nil, flags))
}
