package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ideadeck/api-gateway/internal/aiclient"
	"ideadeck/api-gateway/internal/extractor"
	"ideadeck/api-gateway/internal/promptbuilder"
	"ideadeck/api-gateway/utils"
)

// GenerateMetadataRequest defines the expected request body for SEO metadata
// generation. Tags arrive comma-joined, exactly as typed in the form.
type GenerateMetadataRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Language    string `json:"language" validate:"omitempty,oneof=id en"`
}

// MetadataResponse is the optimized metadata. Title and description fall back
// to the request values when the model omits them; tags default to empty.
type MetadataResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// metadataPayload is the raw decoded model reply. Tags stay raw so a malformed
// tags field degrades to empty instead of failing the whole object.
type metadataPayload struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        json.RawMessage `json:"tags"`
}

// GenerateMetadata godoc
// @Summary Generate SEO metadata for a video
// @Description Optimizes the title, writes a short description and proposes 15-25 tags.
// @Tags generation
// @Accept  json
// @Produce  json
// @Param   request body GenerateMetadataRequest true "Metadata input"
// @Success 200 {object} MetadataResponse
// @Failure 500 "Upstream or parse failure"
// @Router /generate/metadata [post]
func (h *ApplicationHandler) GenerateMetadata(c *fiber.Ctx) error {
	req := new(GenerateMetadataRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse request JSON: %v", err))
	}
	if req.Language == "" {
		req.Language = "id"
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Invalid request: %v", utils.FormatValidationErrors(err)))
	}

	prompt := promptbuilder.Metadata(promptbuilder.MetadataInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Language:    req.Language,
	})

	raw, err := h.AI.GenerateText(c.UserContext(), aiclient.ModelMetadata, prompt)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, upstreamMessage(err))
	}

	var payload metadataPayload
	if err := extractor.ExtractObject(raw, &payload); err != nil {
		// Unlike the ideas flow, partial metadata is useless, so a parse
		// failure fails the request wholesale.
		h.Logger.WithError(err).Error("Metadata reply did not parse")
		return utils.RespondWithError(c, fiber.StatusInternalServerError,
			"Could not parse the AI reply. Try again in a moment or adjust the input.")
	}

	result := MetadataResponse{
		Title:       payload.Title,
		Description: payload.Description,
		Tags:        []string{},
	}
	if result.Title == "" {
		result.Title = req.Title
	}
	if result.Description == "" {
		result.Description = req.Description
	}
	if len(payload.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(payload.Tags, &tags); err == nil {
			result.Tags = tags
		}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}
