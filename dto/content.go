package dto

import "encoding/json"

type TriviaQuestionResponse struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Question string          `json:"question"`
	Options  json.RawMessage `json:"options"`
	Points   int             `json:"points"`
}

type VocabWordResponse struct {
	ID       string `json:"id"`
	Word     string `json:"word"`
	Meaning  string `json:"meaning"`
	ImageURL string `json:"image_url"`
	AudioURL string `json:"audio_url"`
}

type UpsertTriviaQuestionRequest struct {
	ID       string          `json:"id" validate:"omitempty,max=64"`
	Stage    string          `json:"stage" validate:"required,oneof=maingame minigames vocabs calculator"`
	Level    int             `json:"level" validate:"required,gte=1,lte=10"`
	Type     string          `json:"type" validate:"required,oneof=multiple_choice drag_drop currency_match number_match"`
	Question string          `json:"question" validate:"required"`
	Options  json.RawMessage `json:"options" validate:"required"`
	Answer   string          `json:"answer" validate:"required"`
	Points   int             `json:"points" validate:"gte=0"`
}

func (r UpsertTriviaQuestionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpsertVocabWordRequest struct {
	ID      string `json:"id" validate:"omitempty,max=64"`
	Level   int    `json:"level" validate:"required,gte=1,lte=10"`
	Word    string `json:"word" validate:"required"`
	Meaning string `json:"meaning" validate:"required"`
}

func (r UpsertVocabWordRequest) Validate() error {
	return GetValidator().Struct(r)
}

type MediaURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
