package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ideadeck/api-gateway/internal/store"
	"ideadeck/api-gateway/middleware"
	"ideadeck/api-gateway/models"
	"ideadeck/api-gateway/utils"
)

// SaveIdeaRequest defines the expected request body for saving an idea
// candidate, including the search context it came from.
type SaveIdeaRequest struct {
	Title        string `json:"title" validate:"required"`
	Category     string `json:"category"`
	SearchVolume string `json:"searchVolume"`
	Keyword      string `json:"keyword"`
	Region       string `json:"region"`
	TimeRange    string `json:"timeRange"`
}

// SaveIdea godoc
// @Summary Save an idea candidate to the caller's list
// @Description Appends one saved idea row for the signed-in user. Saving twice creates two records.
// @Tags ideas
// @Accept  json
// @Produce  json
// @Param   request body SaveIdeaRequest true "Idea to save"
// @Success 201 {object} models.SavedIdea
// @Failure 400 "Missing title"
// @Failure 401 "No active session"
// @Failure 403 "Store access rules rejected the write"
// @Router /ideas [post]
func (h *ApplicationHandler) SaveIdea(c *fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	if ident == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Sign in to save ideas.")
	}

	req := new(SaveIdeaRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse request JSON: %v", err))
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Invalid request: %v", utils.FormatValidationErrors(err)))
	}

	saved, err := h.Store.Save(ident.UserID, models.SavedIdea{
		Title:        req.Title,
		Category:     req.Category,
		SearchVolume: req.SearchVolume,
		Keyword:      utils.SanitizeInput(req.Keyword),
		Region:       req.Region,
		TimeRange:    req.TimeRange,
	})
	if err != nil {
		if errors.Is(err, store.ErrPermissionDenied) {
			return utils.RespondWithError(c, fiber.StatusForbidden, err.Error())
		}
		h.Logger.WithField("user_id", ident.UserID).WithError(err).Error("Saving idea failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save the idea. Try again in a moment.")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, saved)
}

// ListIdeas godoc
// @Summary List the caller's saved ideas
// @Description Returns every saved idea owned by the signed-in user, newest first.
// @Tags ideas
// @Produce  json
// @Success 200 {array} models.SavedIdea
// @Failure 401 "No active session"
// @Router /ideas [get]
func (h *ApplicationHandler) ListIdeas(c *fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	if ident == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Sign in to view your ideas.")
	}

	ideas, err := h.Store.List(ident.UserID)
	if err != nil {
		h.Logger.WithField("user_id", ident.UserID).WithError(err).Error("Listing ideas failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not load your ideas. Refresh and try again.")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, ideas)
}

// DeleteIdea godoc
// @Summary Delete one saved idea
// @Description Removes the record by id within the caller's own rows. Unconditional once invoked.
// @Tags ideas
// @Produce  json
// @Param   id path string true "Saved idea record id"
// @Success 200 "Delete processed"
// @Failure 400 "Malformed record id"
// @Failure 401 "No active session"
// @Router /ideas/{id} [delete]
func (h *ApplicationHandler) DeleteIdea(c *fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	if ident == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Sign in to manage your ideas.")
	}

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Malformed idea id.")
	}

	if err := h.Store.Delete(ident.UserID, recordID); err != nil {
		if errors.Is(err, store.ErrPermissionDenied) {
			return utils.RespondWithError(c, fiber.StatusForbidden, err.Error())
		}
		h.Logger.WithField("idea_id", recordID).WithError(err).Error("Deleting idea failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not delete the idea. Try again in a moment.")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": recordID})
}
