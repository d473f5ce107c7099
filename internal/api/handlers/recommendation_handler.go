package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/internal/session"
	"github.com/mapr-agent/recommender/pkg/logger"
)

type RecommendationHandler struct {
	orchestrator *session.Orchestrator
}

func NewRecommendationHandler(orchestrator *session.Orchestrator) *RecommendationHandler {
	return &RecommendationHandler{orchestrator: orchestrator}
}

type recommendationRequest struct {
	Name            string            `json:"name"`
	Age             int               `json:"age"`
	Preferences     []string          `json:"preferences"`
	PurchaseHistory []string          `json:"purchase_history"`
	BudgetMin       float64           `json:"budget_min"`
	BudgetMax       float64           `json:"budget_max"`
	BrowsingHistory []string          `json:"browsing_history"`
	Demographics    map[string]string `json:"demographics"`
}

func (h *RecommendationHandler) HandleRecommendations(c *fiber.Ctx) error {
	var req recommendationRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	profile, err := session.CreateProfile(req.Name, req.Age, req.Preferences, session.ProfileOptions{
		PurchaseHistory: req.PurchaseHistory,
		BudgetMin:       req.BudgetMin,
		BudgetMax:       req.BudgetMax,
		BrowsingHistory: req.BrowsingHistory,
		Demographics:    req.Demographics,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.orchestrator.Run(c.Context(), profile)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logger.Error("Failed to run recommendation session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate recommendations",
		})
	}

	return c.JSON(result)
}

func isValidationError(err error) bool {
	return errors.Is(err, model.ErrInvalidBudget) ||
		errors.Is(err, model.ErrNegativeAge) ||
		errors.Is(err, model.ErrInvalidPrice)
}
