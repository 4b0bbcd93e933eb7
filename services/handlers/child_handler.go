package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/shared"
)

type ChildHandler struct {
	childSvc ChildServiceInterface
}

func NewChildHandler(childSvc ChildServiceInterface) *ChildHandler {
	return &ChildHandler{childSvc: childSvc}
}

func parentID(c *fiber.Ctx) string {
	id, _ := c.Locals(shared.ParentID).(string)
	return id
}

// @Summary Create a child profile
// @Description Create a child under the authenticated parent with a play PIN
// @Tags children
// @Accept json
// @Produce json
// @Security Bearer
// @Param createChildRequest body dto.CreateChildRequest true "Child profile"
// @Success 201 {object} shared.Response{data=dto.ChildSummary}
// @Router /api/v1/children [post]
func (h *ChildHandler) CreateChild(c *fiber.Ctx) error {
	var req dto.CreateChildRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.childSvc.CreateChild(c.Context(), parentID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Child created successfully", resp)
}

// @Summary List children
// @Tags children
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.ChildSummary}
// @Router /api/v1/children [get]
func (h *ChildHandler) ListChildren(c *fiber.Ctx) error {
	resp, err := h.childSvc.ListChildren(c.Context(), parentID(c))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Get a child profile
// @Tags children
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Success 200 {object} shared.Response{data=dto.ChildResponse}
// @Router /api/v1/children/{childId} [get]
func (h *ChildHandler) GetChild(c *fiber.Ctx) error {
	resp, err := h.childSvc.GetChild(c.Context(), parentID(c), c.Params("childId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Verify a child PIN
// @Description Check the play PIN before switching into a child session
// @Tags children
// @Accept json
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Param verifyPinRequest body dto.VerifyPinRequest true "PIN"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/children/{childId}/verify_pin [post]
func (h *ChildHandler) VerifyPin(c *fiber.Ctx) error {
	var req dto.VerifyPinRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.childSvc.VerifyPin(c.Context(), parentID(c), c.Params("childId"), req.Pin); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "PIN verified", nil)
}

// @Summary Delete a child profile
// @Tags children
// @Produce json
// @Security Bearer
// @Param childId path string true "Child ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/children/{childId} [delete]
func (h *ChildHandler) DeleteChild(c *fiber.Ctx) error {
	if err := h.childSvc.DeleteChild(c.Context(), parentID(c), c.Params("childId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Child deleted", nil)
}
