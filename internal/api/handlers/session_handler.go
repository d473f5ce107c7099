package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/session"
	"github.com/mapr-agent/recommender/pkg/logger"
)

type SessionHandler struct {
	orchestrator *session.Orchestrator
}

func NewSessionHandler(orchestrator *session.Orchestrator) *SessionHandler {
	return &SessionHandler{orchestrator: orchestrator}
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session id is required",
		})
	}

	result, found, err := h.orchestrator.History(c.Context(), sessionID)
	if err != nil {
		logger.Error("Failed to look up session", zap.String("session_id", sessionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up session",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(result)
}
