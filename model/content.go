// model/content.go
package model

import (
	"encoding/json"
	"time"
)

// TriviaQuestion is one entry in the static question bank. Questions are
// grouped per stage and level and copied opaquely into the child's trivia
// block when a stage level is first created.
type TriviaQuestion struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	Stage     string          `json:"stage" gorm:"not null;index:idx_trivia_stage_level"`
	Level     int             `json:"level" gorm:"not null;index:idx_trivia_stage_level"`
	Type      string          `json:"type"` // multiple_choice, drag_drop, currency_match, number_match
	Question  string          `json:"question" gorm:"type:text"`
	Options   json.RawMessage `json:"options" gorm:"type:text"` // JSON array of choices
	Answer    string          `json:"answer"`
	Points    int             `json:"points" gorm:"default:10"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// VocabWord is one entry in the vocabulary bank. The word ids seed the
// per-level "words" availability map so a child is not asked the same word
// twice in a row.
type VocabWord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Level     int       `json:"level" gorm:"not null;index"`
	Word      string    `json:"word" gorm:"not null"`
	Meaning   string    `json:"meaning" gorm:"type:text"`
	ImageURL  string    `json:"image_url"`
	AudioURL  string    `json:"audio_url"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LessonAsset points at a media object (lesson video, flashcard sheet) stored
// in the object store; served to the client as a presigned URL.
type LessonAsset struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UnitID     string    `json:"unit_id" gorm:"not null;index"`
	Stage      string    `json:"stage" gorm:"not null"`
	Level      int       `json:"level" gorm:"not null"`
	Kind       string    `json:"kind"` // video, flashcard, audio
	ObjectKey  string    `json:"object_key" gorm:"not null"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
