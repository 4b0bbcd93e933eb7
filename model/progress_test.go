package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChildDocument(t *testing.T) {
	// Shapes as the store hands them back: interface{} values, float64/int64
	// numbers depending on the driver.
	raw := map[string]interface{}{
		"profile": map[string]interface{}{
			"name":  "Mia",
			"grade": "2",
		},
		"points_score": map[string]interface{}{
			"xp":    int64(120),
			"coins": float64(7),
		},
		"unit_stage_btn_status": map[string]interface{}{
			"unit01": map[string]interface{}{
				"lesson":    true,
				"flashcard": false,
			},
		},
		"unit_stage_data": map[string]interface{}{
			"unit01": map[string]interface{}{
				"maingame": map[string]interface{}{
					"level":       int64(2),
					"game_points": int64(40),
					"levels": map[string]interface{}{
						"01": map[string]interface{}{
							"life":                  int64(0),
							"played":                true,
							"date":                  "2026-08-30",
							"lesson_pass_collected": true,
						},
						"02": map[string]interface{}{
							"life":   int64(3),
							"played": false,
							"date":   "2026-08-31",
						},
					},
				},
				"quizzes": map[string]interface{}{
					"lesson": map[string]interface{}{"01": true},
				},
				"vocabs": map[string]interface{}{
					"level": int64(1),
					"levels": map[string]interface{}{
						"01": map[string]interface{}{
							"date":   "2026-08-31",
							"played": false,
							"words":  map[string]interface{}{"w001": true, "w002": false},
						},
					},
				},
			},
		},
	}

	doc, err := DecodeChildDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, "Mia", doc.Profile.Name)
	assert.Equal(t, 120, doc.PointsScore.XP)
	assert.Equal(t, 7, doc.PointsScore.Coins)
	assert.True(t, doc.UnitStageBtnState["unit01"]["lesson"])

	unit, ok := doc.UnitStageData["unit01"]
	require.True(t, ok)
	assert.Equal(t, 2, unit.MainGame.Level)

	first := unit.MainGame.Levels["01"]
	assert.True(t, first.Played)
	assert.True(t, first.LessonPassCollected)
	assert.False(t, first.FlashPassCollected)
	assert.Equal(t, 0, first.Life)

	assert.True(t, unit.Quizzes["lesson"]["01"])

	vocab := unit.Vocabs.Levels["01"]
	assert.Equal(t, map[string]bool{"w001": true, "w002": false}, vocab.Words)
}

func TestDecodeChildDocumentEmpty(t *testing.T) {
	doc, err := DecodeChildDocument(map[string]interface{}{})
	require.NoError(t, err)
	assert.NotNil(t, doc.UnitStageBtnState)
	assert.NotNil(t, doc.UnitStageData)
	assert.Empty(t, doc.UnitStageData)
}

func TestFlagSetRoundTrip(t *testing.T) {
	entry := &MainGameLevelEntry{}

	fields := []string{
		"lesson_pass_collected", "flash_pass_collected",
		"minigames_pass_collected", "vocabs_pass_collected",
		"calculator_pass_collected", "video_pass_collected",
		"flash_trivia_collected", "minigames_trivia_collected",
		"vocabs_trivia_collected", "calculator_trivia_collected",
		"video_trivia_collected",
	}
	for _, f := range fields {
		assert.False(t, entry.FlagSet(f), f)
		entry.SetFlag(f, true)
		assert.True(t, entry.FlagSet(f), f)
	}

	assert.False(t, entry.FlagSet("unknown_field"))
}
