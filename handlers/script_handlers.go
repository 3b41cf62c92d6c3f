package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ideadeck/api-gateway/internal/aiclient"
	"ideadeck/api-gateway/internal/promptbuilder"
	"ideadeck/api-gateway/utils"
)

// GenerateScriptRequest defines the expected request body for script
// generation. At least one of title and description must be filled.
type GenerateScriptRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Theme          string `json:"theme"`
	Category       string `json:"category"`
	ClipCount      int    `json:"clipCount" validate:"omitempty,gt=0"`
	Mode           string `json:"mode" validate:"omitempty,oneof=storyboard narrative"`
	VisualStyle    string `json:"visualStyle"`
	CameraMovement string `json:"cameraMovement"`
}

// ScriptResponse carries the generated script. The story is an opaque ordered
// sequence of labeled scenes; it is displayed as raw text, never parsed.
type ScriptResponse struct {
	Story string `json:"story"`
}

// GenerateScript godoc
// @Summary Generate a structured short-video script
// @Description Produces a hook / body clips / closing script with time estimates, visuals and narration per clip.
// @Tags generation
// @Accept  json
// @Produce  json
// @Param   request body GenerateScriptRequest true "Script input"
// @Success 200 {object} ScriptResponse
// @Failure 400 "Both title and description empty"
// @Failure 500 "Upstream model failure"
// @Router /generate/script [post]
func (h *ApplicationHandler) GenerateScript(c *fiber.Ctx) error {
	req := new(GenerateScriptRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse request JSON: %v", err))
	}

	req.Title = utils.SanitizeInput(req.Title)
	req.Description = utils.SanitizeInput(req.Description)
	if req.Title == "" && req.Description == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Fill in at least a title or a description.")
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Invalid request: %v", utils.FormatValidationErrors(err)))
	}

	prompt := promptbuilder.Script(promptbuilder.ScriptInput{
		Title:          req.Title,
		Description:    req.Description,
		Theme:          req.Theme,
		Category:       req.Category,
		ClipCount:      req.ClipCount,
		Mode:           req.Mode,
		VisualStyle:    req.VisualStyle,
		CameraMovement: req.CameraMovement,
	})

	story, err := h.AI.GenerateText(c.UserContext(), aiclient.ModelScript, prompt)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, upstreamMessage(err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, ScriptResponse{Story: story})
}
