package dto

// StageRequest selects the stage a progression call operates on. UnitID and
// Stage arrive as path params; the struct exists for validation symmetry with
// body-carrying requests.
type StageRequest struct {
	UnitID string `json:"unit_id" validate:"required" example:"unit01"`
	Stage  string `json:"stage" validate:"required,oneof=maingame minigames vocabs calculator" example:"maingame"`
}

func (r StageRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteLevelRequest struct {
	GamePoints int `json:"game_points" validate:"gte=0" example:"120"`
}

func (r CompleteLevelRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoseLifeRequest struct {
	// Lives lost in one report; clients send 1.
	Count int `json:"count" validate:"omitempty,gte=1,lte=3" example:"1"`
}

func (r LoseLifeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type QuizAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

func (r QuizAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type EarnPassRequest struct {
	Kind string `json:"kind" validate:"required" example:"minigames_pass"`
}

func (r EarnPassRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateWordsRequest struct {
	// Word id -> still available. The whole map is overwritten.
	Words map[string]bool `json:"words" validate:"required"`
}

func (r UpdateWordsRequest) Validate() error {
	return GetValidator().Struct(r)
}

type StageStatusResponse struct {
	UnitID      string `json:"unit_id"`
	Stage       string `json:"stage"`
	Level       int    `json:"level"`
	State       string `json:"state"`
	Life        int    `json:"life,omitempty"`
	QuizDone    bool   `json:"quiz_done"`
	DateAnomaly bool   `json:"date_anomaly,omitempty"`
}

type StartStageResponse struct {
	UnitID  string `json:"unit_id"`
	Stage   string `json:"stage"`
	Level   int    `json:"level"`
	Created bool   `json:"created"`
	Queued  bool   `json:"queued,omitempty"`
}

type TransitionResponse struct {
	UnitID string `json:"unit_id"`
	Stage  string `json:"stage"`
	Level  int    `json:"level"`
	State  string `json:"state"`
	Life   int    `json:"life,omitempty"`
	Queued bool   `json:"queued,omitempty"`
}

type AdvanceResponse struct {
	UnitID        string `json:"unit_id"`
	Stage         string `json:"stage"`
	PreviousLevel int    `json:"previous_level"`
	Level         int    `json:"level"`
	Advanced      bool   `json:"advanced"`
	State         string `json:"state"`
	Queued        bool   `json:"queued,omitempty"`
}

type QuizAnswerResponse struct {
	Correct bool `json:"correct"`
	Points  int  `json:"points"`
	Queued  bool `json:"queued,omitempty"`
}

type CollectPassResponse struct {
	Kind      string                     `json:"kind"`
	Collected bool                       `json:"collected"`
	Unlocked  map[string]map[string]bool `json:"unlocked,omitempty"`
	Queued    bool                       `json:"queued,omitempty"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Online       bool   `json:"online"`
	ClockSynced  bool   `json:"clock_synced"`
	PendingCount int64  `json:"pending_writes"`
}
