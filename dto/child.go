package dto

type CreateChildRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=50" example:"Minh"`
	Grade  string `json:"grade" validate:"required,oneof=k1 k2 g1 g2 g3" example:"g1"`
	Avatar string `json:"avatar" validate:"omitempty,max=64" example:"fox"`
	Pin    string `json:"pin" validate:"required,len=4,numeric" example:"1234"`
}

func (r CreateChildRequest) Validate() error {
	return GetValidator().Struct(r)
}

type VerifyPinRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric" example:"1234"`
}

func (r VerifyPinRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ChildSummary struct {
	ChildID string `json:"child_id"`
	Name    string `json:"name"`
	Grade   string `json:"grade"`
	Avatar  string `json:"avatar"`
}

type ChildResponse struct {
	ChildID     string                     `json:"child_id"`
	Name        string                     `json:"name"`
	Grade       string                     `json:"grade"`
	Avatar      string                     `json:"avatar"`
	PointsScore PointsScoreResponse        `json:"points_score"`
	ButtonState map[string]map[string]bool `json:"unit_stage_btn_status"`
}

type PointsScoreResponse struct {
	XP     int `json:"xp"`
	Coins  int `json:"coins"`
	Stars  int `json:"stars"`
	Visits int `json:"visits"`
	Passes int `json:"passes"`
}
