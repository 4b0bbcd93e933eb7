package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/progression"
	"github.com/coinquest-app/quest_api/shared"
)

type ProgressionHandler struct {
	progressionSvc ProgressionServiceInterface
}

func NewProgressionHandler(progressionSvc ProgressionServiceInterface) *ProgressionHandler {
	return &ProgressionHandler{progressionSvc: progressionSvc}
}

func stageParams(c *fiber.Ctx) (parent, child, unit string, kind progression.StageKind, err error) {
	parent = parentID(c)
	child = c.Params("childId")
	unit = c.Params("unitId")

	kind, ok := progression.ParseStageKind(c.Params("stage"))
	if !ok {
		return "", "", "", "", shared.NewBadRequestError(nil, "unknown stage")
	}
	return parent, child, unit, kind, nil
}

// @Summary Get stage status
// @Description Evaluate what the stage's current level permits today
// @Tags progression
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param stage path string true "Stage" Enums(maingame, minigames, vocabs, calculator)
// @Success 200 {object} shared.Response{data=dto.StageStatusResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/stages/{stage}/status [get]
func (h *ProgressionHandler) StageStatus(c *fiber.Ctx) error {
	parent, child, unit, kind, err := stageParams(c)
	if err != nil {
		return err
	}

	resp, err := h.progressionSvc.StageStatus(c.Context(), parent, child, unit, kind)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Start a stage
// @Description Create first-play stage data if needed and confirm the stage is playable
// @Tags progression
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param stage path string true "Stage" Enums(maingame, minigames, vocabs, calculator)
// @Success 200 {object} shared.Response{data=dto.StartStageResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/stages/{stage}/start [post]
func (h *ProgressionHandler) StartStage(c *fiber.Ctx) error {
	parent, child, unit, kind, err := stageParams(c)
	if err != nil {
		return err
	}

	resp, err := h.progressionSvc.StartStage(c.Context(), parent, child, unit, kind)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Complete the current level
// @Description Mark today's level played; date-stamps the entry for the rollover check
// @Tags progression
// @Accept json
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param stage path string true "Stage" Enums(maingame, minigames, vocabs, calculator)
// @Param completeLevelRequest body dto.CompleteLevelRequest false "Round results"
// @Success 200 {object} shared.Response{data=dto.TransitionResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/stages/{stage}/complete [post]
func (h *ProgressionHandler) CompleteLevel(c *fiber.Ctx) error {
	parent, child, unit, kind, err := stageParams(c)
	if err != nil {
		return err
	}

	var req dto.CompleteLevelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
		}
	}

	resp, err := h.progressionSvc.CompleteLevel(c.Context(), parent, child, unit, kind, req.GamePoints)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Advance to the next level
// @Description Move the stage forward if gameplay and quiz finished on an earlier day
// @Tags progression
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param stage path string true "Stage" Enums(maingame, minigames, vocabs, calculator)
// @Success 200 {object} shared.Response{data=dto.AdvanceResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/stages/{stage}/advance [post]
func (h *ProgressionHandler) Advance(c *fiber.Ctx) error {
	parent, child, unit, kind, err := stageParams(c)
	if err != nil {
		return err
	}

	resp, err := h.progressionSvc.Advance(c.Context(), parent, child, unit, kind)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Complete the stage quiz
// @Description Flip the quiz-answered flag for the stage's current level
// @Tags progression
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param stage path string true "Stage" Enums(maingame, minigames, vocabs, calculator)
// @Success 200 {object} shared.Response{data=dto.TransitionResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/stages/{stage}/quiz/complete [post]
func (h *ProgressionHandler) CompleteQuiz(c *fiber.Ctx) error {
	parent, child, unit, kind, err := stageParams(c)
	if err != nil {
		return err
	}

	resp, err := h.progressionSvc.CompleteQuiz(c.Context(), parent, child, unit, kind)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Grade a trivia answer
// @Tags progression
// @Accept json
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param quizAnswerRequest body dto.QuizAnswerRequest true "Answer"
// @Success 200 {object} shared.Response{data=dto.QuizAnswerResponse}
// @Router /api/v1/children/{childId}/quiz/answer [post]
func (h *ProgressionHandler) AnswerQuiz(c *fiber.Ctx) error {
	var req dto.QuizAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.progressionSvc.AnswerQuiz(c.Context(), parentID(c), c.Params("childId"), req.QuestionID, req.Answer)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Lose main-game life
// @Tags progression
// @Accept json
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param loseLifeRequest body dto.LoseLifeRequest false "Lives lost"
// @Success 200 {object} shared.Response{data=dto.TransitionResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/lose_life [post]
func (h *ProgressionHandler) LoseLife(c *fiber.Ctx) error {
	var req dto.LoseLifeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
		}
	}

	resp, err := h.progressionSvc.LoseLife(c.Context(), parentID(c), c.Params("childId"), c.Params("unitId"), req.Count)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Recover main-game life
// @Description Refill life to the cap after the reward video
// @Tags progression
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Success 200 {object} shared.Response{data=dto.TransitionResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/recover_life [post]
func (h *ProgressionHandler) RecoverLife(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.RecoverLife(c.Context(), parentID(c), c.Params("childId"), c.Params("unitId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Report a pass earned
// @Description Record a pass earned mid-session; nothing persists until collection
// @Tags progression
// @Accept json
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param earnPassRequest body dto.EarnPassRequest true "Pass kind"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/children/{childId}/units/{unitId}/passes/earn [post]
func (h *ProgressionHandler) EarnPass(c *fiber.Ctx) error {
	var req dto.EarnPassRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	kind, ok := progression.ParsePassKind(req.Kind)
	if !ok {
		return shared.NewBadRequestError(nil, "unknown pass kind")
	}

	h.progressionSvc.MarkPassEarned(parentID(c), c.Params("childId"), c.Params("unitId"), kind)
	return shared.ResponseOK(c, nil)
}

// @Summary Collect an earned pass
// @Description Bank a pass earned this session and apply any button unlocks
// @Tags progression
// @Accept json
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param earnPassRequest body dto.EarnPassRequest true "Pass kind"
// @Success 200 {object} shared.Response{data=dto.CollectPassResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/passes/collect [post]
func (h *ProgressionHandler) CollectPass(c *fiber.Ctx) error {
	var req dto.EarnPassRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	kind, ok := progression.ParsePassKind(req.Kind)
	if !ok {
		return shared.NewBadRequestError(nil, "unknown pass kind")
	}

	resp, err := h.progressionSvc.CollectPass(c.Context(), parentID(c), c.Params("childId"), c.Params("unitId"), kind)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Update vocab word availability
// @Description Overwrite the current vocabs level's word availability map
// @Tags progression
// @Accept json
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param unitId path string true "Unit ID"
// @Param updateWordsRequest body dto.UpdateWordsRequest true "Word availability"
// @Success 200 {object} shared.Response{data=dto.TransitionResponse}
// @Router /api/v1/children/{childId}/units/{unitId}/words [put]
func (h *ProgressionHandler) UpdateWords(c *fiber.Ctx) error {
	var req dto.UpdateWordsRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.progressionSvc.UpdateWords(c.Context(), parentID(c), c.Params("childId"), c.Params("unitId"), req.Words)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
