package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"ideadeck/api-gateway/internal/store"
)

// TextGenerator defines what handlers expect from the generative model client.
// This allows for decoupling and easier testing; the concrete implementation
// lives in the aiclient package.
type TextGenerator interface {
	GenerateText(ctx context.Context, model string, prompt string) (string, error)
}

// genericUpstreamMessage is the fallback shown when the model call fails
// without a usable message of its own.
const genericUpstreamMessage = "Something went wrong while calling the AI service. Try again in a moment."

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	AI       TextGenerator
	Store    *store.IdeaStore
	Logger   *logrus.Logger
	Validate *validator.Validate
}

// NewApplicationHandler creates an ApplicationHandler with the given dependencies.
func NewApplicationHandler(ai TextGenerator, ideaStore *store.IdeaStore, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		AI:       ai,
		Store:    ideaStore,
		Logger:   logger,
		Validate: validator.New(),
	}
}

// upstreamMessage maps a model-call failure to the user-facing message:
// the upstream-supplied message when present, otherwise the generic fallback.
func upstreamMessage(err error) string {
	if err == nil || err.Error() == "" {
		return genericUpstreamMessage
	}
	return err.Error()
}
