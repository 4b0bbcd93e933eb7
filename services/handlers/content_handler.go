package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// @Summary Get trivia questions
// @Description Question bank for a stage level, answers omitted
// @Tags content
// @Produce json
// @Security Bearer
// @Param stage path string true "Stage" Enums(maingame, minigames, vocabs, calculator)
// @Param level path int true "Level"
// @Success 200 {object} shared.Response{data=[]dto.TriviaQuestionResponse}
// @Router /api/v1/content/trivia/{stage}/{level} [get]
func (h *ContentHandler) GetTriviaQuestions(c *fiber.Ctx) error {
	level, err := c.ParamsInt("level")
	if err != nil {
		return shared.NewBadRequestError(err, "invalid level")
	}

	questions, err := h.contentSvc.TriviaQuestions(c.Params("stage"), level)
	if err != nil {
		return err
	}

	resp := make([]dto.TriviaQuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, dto.TriviaQuestionResponse{
			ID:       q.ID,
			Type:     q.Type,
			Question: q.Question,
			Options:  q.Options,
			Points:   q.Points,
		})
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Get vocab words
// @Tags content
// @Produce json
// @Security Bearer
// @Param level path int true "Level"
// @Success 200 {object} shared.Response{data=[]dto.VocabWordResponse}
// @Router /api/v1/content/vocab/{level} [get]
func (h *ContentHandler) GetVocabWords(c *fiber.Ctx) error {
	level, err := c.ParamsInt("level")
	if err != nil {
		return shared.NewBadRequestError(err, "invalid level")
	}

	words, err := h.contentSvc.VocabWords(level)
	if err != nil {
		return err
	}

	resp := make([]dto.VocabWordResponse, 0, len(words))
	for _, w := range words {
		resp = append(resp, dto.VocabWordResponse{
			ID:       w.ID,
			Word:     w.Word,
			Meaning:  w.Meaning,
			ImageURL: w.ImageURL,
			AudioURL: w.AudioURL,
		})
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Upsert a trivia question
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param upsertTriviaQuestionRequest body dto.UpsertTriviaQuestionRequest true "Question"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/trivia [post]
func (h *ContentHandler) UpsertTriviaQuestion(c *fiber.Ctx) error {
	var req dto.UpsertTriviaQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	if req.ID == "" {
		id, _ := uuid.NewV7()
		req.ID = id.String()
	}
	if req.Points == 0 {
		req.Points = 10
	}

	q := &model.TriviaQuestion{
		ID:        req.ID,
		Stage:     req.Stage,
		Level:     req.Level,
		Type:      req.Type,
		Question:  req.Question,
		Options:   req.Options,
		Answer:    req.Answer,
		Points:    req.Points,
		IsActive:  true,
		UpdatedAt: time.Now(),
	}
	if err := h.contentSvc.UpsertTriviaQuestion(q); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}

// @Summary Upsert a vocab word
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param upsertVocabWordRequest body dto.UpsertVocabWordRequest true "Word"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/vocab [post]
func (h *ContentHandler) UpsertVocabWord(c *fiber.Ctx) error {
	var req dto.UpsertVocabWordRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	if req.ID == "" {
		id, _ := uuid.NewV7()
		req.ID = id.String()
	}

	w := &model.VocabWord{
		ID:        req.ID,
		Level:     req.Level,
		Word:      req.Word,
		Meaning:   req.Meaning,
		IsActive:  true,
		UpdatedAt: time.Now(),
	}
	if err := h.contentSvc.UpsertVocabWord(w); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}
