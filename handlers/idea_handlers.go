package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ideadeck/api-gateway/internal/aiclient"
	"ideadeck/api-gateway/internal/extractor"
	"ideadeck/api-gateway/internal/promptbuilder"
	"ideadeck/api-gateway/models"
	"ideadeck/api-gateway/utils"
)

// GenerateIdeasRequest defines the expected request body for idea generation.
// Keyword is required; region and time range fall back to defaults.
type GenerateIdeasRequest struct {
	Keyword   string `json:"keyword"`
	Region    string `json:"region" validate:"omitempty,oneof=id us"`
	TimeRange string `json:"timeRange" validate:"omitempty,oneof=1d 7d 30d"`
}

// IdeasResponse is the payload inside the success envelope.
type IdeasResponse struct {
	Ideas []models.IdeaCandidate `json:"ideas"`
}

// GenerateIdeas godoc
// @Summary Generate content ideas for a keyword
// @Description Asks the model for 5-10 short-form video ideas matching the keyword, region and time range.
// @Tags generation
// @Accept  json
// @Produce  json
// @Param   request body GenerateIdeasRequest true "Idea search input"
// @Success 200 {object} IdeasResponse "Ideas generated (may be empty when the model reply was unparseable)"
// @Failure 400 "Missing keyword"
// @Failure 500 "Upstream model failure"
// @Router /generate/ideas [post]
func (h *ApplicationHandler) GenerateIdeas(c *fiber.Ctx) error {
	req := new(GenerateIdeasRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse request JSON: %v", err))
	}

	// Fail fast before any model call: a whitespace-only keyword counts as empty.
	req.Keyword = utils.SanitizeInput(req.Keyword)
	if req.Keyword == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Keyword is required.")
	}
	if req.Region == "" {
		req.Region = "id"
	}
	if req.TimeRange == "" {
		req.TimeRange = "1d"
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Invalid request: %v", utils.FormatValidationErrors(err)))
	}

	prompt := promptbuilder.Ideas(promptbuilder.IdeaInput{
		Keyword:   req.Keyword,
		Region:    req.Region,
		TimeRange: req.TimeRange,
	})

	raw, err := h.AI.GenerateText(c.UserContext(), aiclient.ModelIdeas, prompt)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, upstreamMessage(err))
	}

	ideas, err := extractor.DecodeIdeas(raw)
	if err != nil {
		// Best effort: an unparseable reply degrades to an empty result so a
		// flaky model never blocks browsing. The failure is still logged.
		h.Logger.WithField("keyword", req.Keyword).WithError(err).Warn("Idea reply did not parse, returning empty list")
		ideas = []models.IdeaCandidate{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, IdeasResponse{Ideas: ideas})
}
