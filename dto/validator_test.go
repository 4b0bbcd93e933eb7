package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateChildRequestValidate(t *testing.T) {
	valid := CreateChildRequest{Name: "Minh", Grade: "g1", Pin: "1234"}
	assert.NoError(t, valid.Validate())

	t.Run("pin must be four digits", func(t *testing.T) {
		bad := valid
		bad.Pin = "12a4"
		assert.Error(t, bad.Validate())

		bad.Pin = "123"
		assert.Error(t, bad.Validate())
	})

	t.Run("grade restricted to known set", func(t *testing.T) {
		bad := valid
		bad.Grade = "g9"
		assert.Error(t, bad.Validate())
	})
}

func TestStageRequestValidate(t *testing.T) {
	assert.NoError(t, StageRequest{UnitID: "unit01", Stage: "maingame"}.Validate())
	assert.NoError(t, StageRequest{UnitID: "unit01", Stage: "vocabs"}.Validate())
	assert.Error(t, StageRequest{UnitID: "unit01", Stage: "video"}.Validate())
	assert.Error(t, StageRequest{Stage: "maingame"}.Validate())
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Email:    "parent@example.com",
		Username: "janedoe",
		Password: "SecurePass123!",
	}
	assert.NoError(t, valid.Validate())

	t.Run("weak password rejected", func(t *testing.T) {
		bad := valid
		bad.Password = "password"
		assert.Error(t, bad.Validate())
	})

	t.Run("validation errors carry field names", func(t *testing.T) {
		bad := valid
		bad.Email = "not-an-email"
		err := bad.Validate()
		assert.Error(t, err)

		resp := CreateValidationErrorResponse(err)
		assert.Equal(t, 400, resp.Code)
		assert.NotEmpty(t, resp.Errors)
		assert.Equal(t, "Email", resp.Errors[0].Field)
	})
}
