package progression

import (
	"time"

	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/shared"
)

// Patch is a nested value tree rooted at the child document, suitable for a
// deep-merge write. Builders only ever include the leaves a transition
// changes; sibling fields are preserved by the store's merge semantics.
type Patch map[string]interface{}

func stageData(unitID string, inner Patch) Patch {
	return Patch{
		shared.FieldUnitStageData: Patch{
			unitID: inner,
		},
	}
}

func clampLife(life int) int {
	if life < 0 {
		return 0
	}
	if life > MaxLife {
		return MaxLife
	}
	return life
}

// BuildInitialStageData creates the full first-play skeleton for a stage:
// level 1, its "01" entry stamped with today, an empty quiz-tracking entry
// and the trivia question set for the first level. Used on
// NeedsInitialCreation; absence of the block up to now was the valid
// "never played" state.
//
// trivia is the opaque question set copied into the child's trivia block;
// words seeds the vocabs availability map and is ignored for other stages.
func BuildInitialStageData(cfg StageConfig, unitID string, now time.Time, trivia map[string]interface{}, words map[string]bool) Patch {
	firstKey := FormatLevelKey(1)
	today := DayOf(now).Format(DateLayout)

	entry := Patch{
		"date":   today,
		"played": false,
	}
	if cfg.HasLife {
		entry["life"] = clampLife(cfg.StartingLife)
	}
	if cfg.Kind == StageVocabs && len(words) > 0 {
		entry["words"] = words
	}

	block := Patch{
		"level":  1,
		"levels": Patch{firstKey: entry},
	}
	if cfg.Kind == StageMainGame {
		block["game_points"] = 0
	}

	if trivia == nil {
		trivia = map[string]interface{}{}
	}

	return stageData(unitID, Patch{
		string(cfg.Kind): block,
		"quizzes": Patch{
			cfg.QuizKey: Patch{firstKey: false},
		},
		"trivia": Patch{
			cfg.QuizKey: Patch{firstKey: trivia},
		},
	})
}

// BuildNextLevelData adds the entry for a freshly unlocked level. Main-game
// entries restart with full life and, from level 2 on, carry the pass
// placeholder flags for the stage that level introduces so later ledger
// checks read a defined default instead of a missing key.
func BuildNextLevelData(cfg StageConfig, unitID string, nextLevel int, now time.Time, trivia map[string]interface{}, words map[string]bool) Patch {
	key := FormatLevelKey(nextLevel)
	today := DayOf(now).Format(DateLayout)

	entry := Patch{
		"date":   today,
		"played": false,
	}
	if cfg.HasLife {
		entry["life"] = MaxLife
	}
	if cfg.Kind == StageVocabs && len(words) > 0 {
		entry["words"] = words
	}
	if cfg.Kind == StageMainGame {
		if stage, ok := stageIntroducedAt[nextLevel]; ok {
			entry[stage+"_pass_collected"] = false
			entry[stage+"_trivia_collected"] = false
		}
	}

	if trivia == nil {
		trivia = map[string]interface{}{}
	}

	return stageData(unitID, Patch{
		string(cfg.Kind): Patch{
			"level":  nextLevel,
			"levels": Patch{key: entry},
		},
		"quizzes": Patch{
			cfg.QuizKey: Patch{key: false},
		},
		"trivia": Patch{
			cfg.QuizKey: Patch{key: trivia},
		},
	})
}

// BuildLifeResetPatch writes a new life value for the video-reward recovery
// flow. Returns nil for stages without a life concept.
func BuildLifeResetPatch(cfg StageConfig, unitID string, level, newLife int) Patch {
	if !cfg.HasLife {
		return nil
	}
	return stageData(unitID, Patch{
		string(cfg.Kind): Patch{
			"levels": Patch{
				FormatLevelKey(level): Patch{"life": clampLife(newLife)},
			},
		},
	})
}

// BuildMarkPlayedPatch marks a level completed today. The date stamp is what
// the next evaluation's rollover comparison runs against.
func BuildMarkPlayedPatch(cfg StageConfig, unitID string, level int, now time.Time) Patch {
	return stageData(unitID, Patch{
		string(cfg.Kind): Patch{
			"levels": Patch{
				FormatLevelKey(level): Patch{
					"played": true,
					"date":   DayOf(now).Format(DateLayout),
				},
			},
		},
	})
}

// BuildQuizCompletedPatch flips the quiz-answered flag for a stage level.
func BuildQuizCompletedPatch(unitID, quizKey string, level int) Patch {
	return stageData(unitID, Patch{
		"quizzes": Patch{
			quizKey: Patch{FormatLevelKey(level): true},
		},
	})
}

// BuildPassFlagsPatch merges collected-pass flags into the current main-game
// level entry, from a ledger CollectResult.
func BuildPassFlagsPatch(unitID string, level int, fields map[string]bool) Patch {
	if len(fields) == 0 {
		return nil
	}
	entry := Patch{}
	for field, v := range fields {
		entry[field] = v
	}
	return stageData(unitID, Patch{
		string(StageMainGame): Patch{
			"levels": Patch{FormatLevelKey(level): entry},
		},
	})
}

// BuildButtonUnlockPatch merges stage-button unlock flips.
func BuildButtonUnlockPatch(deltas map[string]map[string]bool) Patch {
	if len(deltas) == 0 {
		return nil
	}
	units := Patch{}
	for unitID, buttons := range deltas {
		b := Patch{}
		for name, v := range buttons {
			b[name] = v
		}
		units[unitID] = b
	}
	return Patch{shared.FieldUnitStageBtnState: units}
}

// BuildWordsPatch overwrites the vocabs availability map for a level after a
// round, so asked words stay retired until the pool refills.
func BuildWordsPatch(unitID string, level int, words map[string]bool) Patch {
	return stageData(unitID, Patch{
		string(StageVocabs): Patch{
			"levels": Patch{
				FormatLevelKey(level): Patch{"words": words},
			},
		},
	})
}

// BuildGamePointsPatch writes the main-game points accumulator as an
// absolute value computed from the snapshot.
func BuildGamePointsPatch(unitID string, total int) Patch {
	return stageData(unitID, Patch{
		string(StageMainGame): Patch{"game_points": total},
	})
}

// BuildPointsScorePatch writes the child's counters as absolute values.
func BuildPointsScorePatch(score model.PointsScore) Patch {
	return Patch{
		shared.FieldPointsScore: Patch{
			"xp":     score.XP,
			"coins":  score.Coins,
			"stars":  score.Stars,
			"visits": score.Visits,
			"passes": score.Passes,
		},
	}
}

// BuildChildSkeleton is the one-time document created with a child profile:
// unit01's lesson unlocked, zeroed counters, everything else lazily created
// on first access.
func BuildChildSkeleton(profile model.ChildProfile) Patch {
	return Patch{
		shared.FieldProfile: Patch{
			"name":   profile.Name,
			"grade":  profile.Grade,
			"avatar": profile.Avatar,
			"pin":    profile.Pin,
		},
		shared.FieldPointsScore: Patch{
			"xp": 0, "coins": 0, "stars": 0, "visits": 0, "passes": 0,
		},
		shared.FieldUnitStageBtnState: Patch{
			shared.FirstUnit: Patch{
				shared.StageLesson:     true,
				shared.StageFlashcard:  false,
				shared.StageMinigames:  false,
				shared.StageVocabs:     false,
				shared.StageCalculator: false,
				shared.StageVideo:      false,
			},
		},
	}
}

// MergePatches deep-merges b into a copy of a; leaves of b win. Used when a
// transition produces several fragments that must go out as one write.
func MergePatches(a, b Patch) Patch {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := Patch{}
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		bv, bok := v.(Patch)
		av, aok := out[k].(Patch)
		if aok && bok {
			out[k] = MergePatches(av, bv)
			continue
		}
		out[k] = v
	}
	return out
}
