package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coinquest-app/quest_api/progression"
)

func TestMergeValueTree(t *testing.T) {
	t.Run("patch leaves win over existing leaves", func(t *testing.T) {
		doc := map[string]interface{}{
			"unit_stage_data": map[string]interface{}{
				"unit01": map[string]interface{}{
					"maingame": map[string]interface{}{
						"level":       1,
						"game_points": 40,
					},
				},
			},
		}
		patch := progression.Patch{
			"unit_stage_data": progression.Patch{
				"unit01": progression.Patch{
					"maingame": progression.Patch{"game_points": 55},
				},
			},
		}

		out := mergeValueTree(doc, patch)

		unit := out["unit_stage_data"].(map[string]interface{})["unit01"].(map[string]interface{})
		mg := unit["maingame"].(map[string]interface{})
		assert.Equal(t, 55, mg["game_points"])
		assert.Equal(t, 1, mg["level"], "untouched siblings survive the merge")
	})

	t.Run("new branches are created", func(t *testing.T) {
		out := mergeValueTree(map[string]interface{}{}, progression.Patch{
			"profile": progression.Patch{"name": "Minh"},
		})

		profile := out["profile"].(map[string]interface{})
		assert.Equal(t, "Minh", profile["name"])
	})

	t.Run("map of bools merges as a subtree", func(t *testing.T) {
		doc := map[string]interface{}{
			"unit_stage_btn_status": map[string]interface{}{
				"unit01": map[string]interface{}{
					"lesson":    true,
					"flashcard": false,
				},
			},
		}
		patch := progression.Patch{
			"unit_stage_btn_status": progression.Patch{
				"unit01": map[string]bool{"flashcard": true},
			},
		}

		out := mergeValueTree(doc, patch)

		buttons := out["unit_stage_btn_status"].(map[string]interface{})["unit01"].(map[string]interface{})
		assert.Equal(t, true, buttons["flashcard"])
		assert.Equal(t, true, buttons["lesson"])
	})

	t.Run("scalar replaces a subtree outright", func(t *testing.T) {
		doc := map[string]interface{}{"field": map[string]interface{}{"a": 1}}
		out := mergeValueTree(doc, progression.Patch{"field": "flat"})
		assert.Equal(t, "flat", out["field"])
	})

	t.Run("input maps are not mutated", func(t *testing.T) {
		doc := map[string]interface{}{"points_score": map[string]interface{}{"xp": 10}}
		_ = mergeValueTree(doc, progression.Patch{
			"points_score": progression.Patch{"xp": 99},
		})
		assert.Equal(t, 10, doc["points_score"].(map[string]interface{})["xp"])
	})
}

func TestToValueMap(t *testing.T) {
	assert.Nil(t, toValueMap("scalar"))
	assert.Nil(t, toValueMap(42))

	m := toValueMap(progression.Patch{"k": 1})
	assert.Equal(t, 1, m["k"])

	b := toValueMap(map[string]bool{"lesson": true})
	assert.Equal(t, true, b["lesson"])
}
