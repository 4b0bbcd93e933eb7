// model/progress.go
package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// ChildProgressDocument is the typed view over the per-child Firestore
// document at parent/{parentId}/children/{childId}. The document is only ever
// merge-patched after creation, so every field here has to survive partial
// absence: missing maps mean "never played", not corruption.
type ChildProgressDocument struct {
	Profile           ChildProfile               `json:"profile"`
	PointsScore       PointsScore                `json:"points_score"`
	UnitStageBtnState map[string]map[string]bool `json:"unit_stage_btn_status"`
	UnitStageData     map[string]UnitStageBlock  `json:"unit_stage_data"`
}

type ChildProfile struct {
	Name   string `json:"name"`
	Grade  string `json:"grade"`
	Avatar string `json:"avatar"`
	Pin    string `json:"pin"` // bcrypt hash, never the raw PIN
}

type PointsScore struct {
	XP     int `json:"xp"`
	Coins  int `json:"coins"`
	Stars  int `json:"stars"`
	Visits int `json:"visits"`
	Passes int `json:"passes"`
}

// UnitStageBlock groups everything persisted for one curriculum unit.
type UnitStageBlock struct {
	MainGame   MainGameBlock                     `json:"maingame"`
	Quizzes    map[string]map[string]bool        `json:"quizzes"`
	Trivia     map[string]map[string]interface{} `json:"trivia"`
	Minigames  MiniGameStageBlock                `json:"minigames"`
	Vocabs     MiniGameStageBlock                `json:"vocabs"`
	Calculator MiniGameStageBlock                `json:"calculator"`
}

type MainGameBlock struct {
	Level      int                           `json:"level"`
	Levels     map[string]MainGameLevelEntry `json:"levels"`
	GamePoints int                           `json:"game_points"`
}

// MainGameLevelEntry carries the per-level daily state plus the pass flags
// collected while that level was current. A pass flag, once true, is never
// reset for that level.
type MainGameLevelEntry struct {
	Life   int    `json:"life"`
	Played bool   `json:"played"`
	Date   string `json:"date"`

	LessonPassCollected     bool `json:"lesson_pass_collected"`
	FlashPassCollected      bool `json:"flash_pass_collected"`
	MinigamesPassCollected  bool `json:"minigames_pass_collected"`
	VocabsPassCollected     bool `json:"vocabs_pass_collected"`
	CalculatorPassCollected bool `json:"calculator_pass_collected"`
	VideoPassCollected      bool `json:"video_pass_collected"`

	FlashTriviaCollected      bool `json:"flash_trivia_collected"`
	MinigamesTriviaCollected  bool `json:"minigames_trivia_collected"`
	VocabsTriviaCollected     bool `json:"vocabs_trivia_collected"`
	CalculatorTriviaCollected bool `json:"calculator_trivia_collected"`
	VideoTriviaCollected      bool `json:"video_trivia_collected"`
}

// FlagSet reads a pass flag by its persisted field name.
func (e *MainGameLevelEntry) FlagSet(field string) bool {
	switch field {
	case "lesson_pass_collected":
		return e.LessonPassCollected
	case "flash_pass_collected":
		return e.FlashPassCollected
	case "minigames_pass_collected":
		return e.MinigamesPassCollected
	case "vocabs_pass_collected":
		return e.VocabsPassCollected
	case "calculator_pass_collected":
		return e.CalculatorPassCollected
	case "video_pass_collected":
		return e.VideoPassCollected
	case "flash_trivia_collected":
		return e.FlashTriviaCollected
	case "minigames_trivia_collected":
		return e.MinigamesTriviaCollected
	case "vocabs_trivia_collected":
		return e.VocabsTriviaCollected
	case "calculator_trivia_collected":
		return e.CalculatorTriviaCollected
	case "video_trivia_collected":
		return e.VideoTriviaCollected
	}
	return false
}

// SetFlag writes a pass flag by its persisted field name.
func (e *MainGameLevelEntry) SetFlag(field string, v bool) {
	switch field {
	case "lesson_pass_collected":
		e.LessonPassCollected = v
	case "flash_pass_collected":
		e.FlashPassCollected = v
	case "minigames_pass_collected":
		e.MinigamesPassCollected = v
	case "vocabs_pass_collected":
		e.VocabsPassCollected = v
	case "calculator_pass_collected":
		e.CalculatorPassCollected = v
	case "video_pass_collected":
		e.VideoPassCollected = v
	case "flash_trivia_collected":
		e.FlashTriviaCollected = v
	case "minigames_trivia_collected":
		e.MinigamesTriviaCollected = v
	case "vocabs_trivia_collected":
		e.VocabsTriviaCollected = v
	case "calculator_trivia_collected":
		e.CalculatorTriviaCollected = v
	case "video_trivia_collected":
		e.VideoTriviaCollected = v
	}
}

// MiniGameStageBlock is the shape shared by minigames, vocabs and calculator.
// Mini-game levels advance independently of the main game and carry no life.
type MiniGameStageBlock struct {
	Level  int                           `json:"level"`
	Levels map[string]MiniGameLevelEntry `json:"levels"`
}

type MiniGameLevelEntry struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`

	// Vocabs only: question id -> still available to ask today.
	Words map[string]bool `json:"words,omitempty"`
}

// decode converts the store's untyped value tree into a typed DTO through a
// sonic round-trip. Firestore hands back map[string]interface{} with int64 and
// float64 numbers; the round-trip normalizes all of that in one place so the
// rest of the code never sees an untyped map.
func decode(raw interface{}, out interface{}) error {
	b, err := sonic.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode raw document: %w", err)
	}
	if err := sonic.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func DecodeChildDocument(raw map[string]interface{}) (*ChildProgressDocument, error) {
	var doc ChildProgressDocument
	if err := decode(raw, &doc); err != nil {
		return nil, err
	}
	if doc.UnitStageBtnState == nil {
		doc.UnitStageBtnState = map[string]map[string]bool{}
	}
	if doc.UnitStageData == nil {
		doc.UnitStageData = map[string]UnitStageBlock{}
	}
	return &doc, nil
}

func DecodeUnitStageBlock(raw map[string]interface{}) (*UnitStageBlock, error) {
	var block UnitStageBlock
	if err := decode(raw, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

func DecodeMainGameBlock(raw map[string]interface{}) (*MainGameBlock, error) {
	var block MainGameBlock
	if err := decode(raw, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

func DecodeMiniGameStageBlock(raw map[string]interface{}) (*MiniGameStageBlock, error) {
	var block MiniGameStageBlock
	if err := decode(raw, &block); err != nil {
		return nil, err
	}
	return &block, nil
}
