package shared

const (
	ParentID = "parent_id"
	ChildID  = "child_id"

	// Stage button names as persisted in unit_stage_btn_status.
	StageLesson     = "lesson"
	StageFlashcard  = "flashcard"
	StageMinigames  = "minigames"
	StageVocabs     = "vocabs"
	StageCalculator = "calculator"
	StageVideo      = "video"

	// Top-level fields of the child progress document.
	FieldProfile           = "profile"
	FieldPointsScore       = "points_score"
	FieldUnitStageBtnState = "unit_stage_btn_status"
	FieldUnitStageData     = "unit_stage_data"

	FirstUnit = "unit01"

	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeDragDrop       = "drag_drop"
	QuestionTypeCurrencyMatch  = "currency_match"
	QuestionTypeNumberMatch    = "number_match"
)
