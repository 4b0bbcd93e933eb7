package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinquest-app/quest_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

// @Summary Get a lesson asset URL
// @Description Presigned, time-limited download URL for a lesson video or flashcard sheet
// @Tags media
// @Produce json
// @Security Bearer
// @Param unitId path string true "Unit ID"
// @Param stage path string true "Stage"
// @Param level path int true "Level"
// @Param kind path string true "Asset kind" Enums(video, flashcard, audio)
// @Success 200 {object} shared.Response{data=dto.MediaURLResponse}
// @Router /api/v1/media/{unitId}/{stage}/{level}/{kind} [get]
func (h *MediaHandler) AssetURL(c *fiber.Ctx) error {
	level, err := c.ParamsInt("level")
	if err != nil {
		return shared.NewBadRequestError(err, "invalid level")
	}

	resp, err := h.mediaSvc.AssetURL(c.Context(), c.Params("unitId"), c.Params("stage"), level, c.Params("kind"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Upload a lesson asset
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security Bearer
// @Param unitId path string true "Unit ID"
// @Param stage path string true "Stage"
// @Param level path int true "Level"
// @Param kind path string true "Asset kind" Enums(video, flashcard, audio)
// @Param file formData file true "Asset file"
// @Success 201 {object} shared.Response{data=model.LessonAsset}
// @Router /api/v1/admin/media/{unitId}/{stage}/{level}/{kind} [post]
func (h *MediaHandler) UploadAsset(c *fiber.Ctx) error {
	level, err := c.ParamsInt("level")
	if err != nil {
		return shared.NewBadRequestError(err, "invalid level")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewInternalError(err, "failed to read upload")
	}
	defer file.Close()

	asset, err := h.mediaSvc.UploadAsset(
		c.Params("unitId"), c.Params("stage"), level, c.Params("kind"),
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size,
	)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, asset)
}

// @Summary Delete a lesson asset
// @Tags admin
// @Produce json
// @Security Bearer
// @Param assetId path string true "Asset ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/media/{assetId} [delete]
func (h *MediaHandler) DeleteAsset(c *fiber.Ctx) error {
	if err := h.mediaSvc.DeleteAsset(c.Params("assetId")); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}
