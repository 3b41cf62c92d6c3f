package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ideadeck/api-gateway/internal/aiclient"
	"ideadeck/api-gateway/internal/promptbuilder"
	"ideadeck/api-gateway/utils"
)

// GenerateThumbnailPromptRequest defines the expected request body for a
// thumbnail image-generation prompt.
type GenerateThumbnailPromptRequest struct {
	Style               string `json:"style"`
	DominantColor       string `json:"dominantColor"`
	Expression          string `json:"expression"`
	CompositionElements string `json:"compositionElements"`
}

// ThumbnailPromptResponse carries the single free-text prompt paragraph.
type ThumbnailPromptResponse struct {
	Prompt string `json:"prompt"`
}

// GenerateThumbnailPrompt godoc
// @Summary Generate an image-model prompt for a thumbnail
// @Description Produces one detailed English paragraph suitable for Midjourney or DALL-E.
// @Tags generation
// @Accept  json
// @Produce  json
// @Param   request body GenerateThumbnailPromptRequest true "Thumbnail input"
// @Success 200 {object} ThumbnailPromptResponse
// @Failure 500 "Upstream model failure"
// @Router /generate/thumbnail-prompt [post]
func (h *ApplicationHandler) GenerateThumbnailPrompt(c *fiber.Ctx) error {
	req := new(GenerateThumbnailPromptRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse request JSON: %v", err))
	}

	prompt := promptbuilder.Thumbnail(promptbuilder.ThumbnailInput{
		Style:               req.Style,
		DominantColor:       req.DominantColor,
		Expression:          req.Expression,
		CompositionElements: req.CompositionElements,
	})

	text, err := h.AI.GenerateText(c.UserContext(), aiclient.ModelThumbnail, prompt)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, upstreamMessage(err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, ThumbnailPromptResponse{Prompt: text})
}
