package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/catalog"
	"github.com/mapr-agent/recommender/internal/metrics"
	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/pkg/logger"
)

type ProductHandler struct {
	catalog catalog.Catalog
}

func NewProductHandler(cat catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	query := c.Query("query")
	category := c.Query("category")

	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	products := h.catalog.Search(query, category, tags)
	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// AddProduct is the admin mutation hook; it is not part of the
// per-request pipeline.
func (h *ProductHandler) AddProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		logger.Error("Failed to parse product body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.catalog.Add(product); err != nil {
		status := fiber.StatusBadRequest
		if strings.Contains(err.Error(), "already exists") {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.CatalogSize.Set(float64(len(h.catalog.All())))
	logger.Info("Product added", zap.String("product_id", product.ID), zap.String("name", product.Name))

	return c.Status(fiber.StatusCreated).JSON(product)
}
