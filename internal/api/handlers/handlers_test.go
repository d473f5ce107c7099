package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapr-agent/recommender/internal/catalog"
	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/internal/question"
	"github.com/mapr-agent/recommender/internal/response"
	"github.com/mapr-agent/recommender/internal/scoring"
	"github.com/mapr-agent/recommender/internal/session"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cat := catalog.NewSeeded()
	orchestrator := session.NewOrchestrator(
		cat,
		session.NewMemoryStore(),
		response.NewSimulator(),
		scoring.FixedConfidence(0.85),
		question.FirstSelector,
		session.DefaultPerformanceParams(),
	)

	app := fiber.New()
	api := app.Group("/api/v1")

	recommendationHandler := NewRecommendationHandler(orchestrator)
	sessionHandler := NewSessionHandler(orchestrator)
	productHandler := NewProductHandler(cat)

	api.Post("/recommendations", recommendationHandler.HandleRecommendations)
	api.Get("/sessions/:id", sessionHandler.GetSession)
	api.Get("/products", productHandler.SearchProducts)
	api.Post("/products", productHandler.AddProduct)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestHandleRecommendations(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/recommendations", map[string]any{
		"name":             "Alex Chen",
		"age":              28,
		"preferences":      []string{"gaming", "technology"},
		"purchase_history": []string{"1"},
		"budget_min":       200,
		"budget_max":       800,
		"browsing_history": []string{"electronics_gaming"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.SessionResult
	decodeBody(t, resp, &result)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "Alex Chen", result.Profile.Name)
	assert.NotEmpty(t, result.Finalization.Recommendations)
}

func TestHandleRecommendationsValidation(t *testing.T) {
	app := newTestApp(t)

	t.Run("missing name", func(t *testing.T) {
		resp := postJSON(t, app, "/api/v1/recommendations", map[string]any{"age": 30})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("inverted budget", func(t *testing.T) {
		resp := postJSON(t, app, "/api/v1/recommendations", map[string]any{
			"name":       "Broken",
			"age":        30,
			"budget_min": 900,
			"budget_max": 100,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("negative age", func(t *testing.T) {
		resp := postJSON(t, app, "/api/v1/recommendations", map[string]any{
			"name": "Broken",
			"age":  -4,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetSession(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/recommendations", map[string]any{
		"name":        "Sarah Johnson",
		"age":         45,
		"preferences": []string{"home"},
		"budget_min":  50,
		"budget_max":  300,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created model.SessionResult
	decodeBody(t, resp, &created)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.SessionID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched model.SessionResult
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.SessionID, fetched.SessionID)
}

func TestGetSessionNotFound(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchProducts(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=electronics&tags=audio", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Products []model.Product `json:"products"`
		Count    int             `json:"count"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, 2, body.Count)
	for _, p := range body.Products {
		assert.Equal(t, "Electronics", p.Category)
	}
}

func TestAddProduct(t *testing.T) {
	app := newTestApp(t)

	product := model.Product{
		ID:       "99",
		Name:     "USB Microphone",
		Category: "Electronics",
		Price:    119.99,
		Rating:   4.4,
		Stock:    12,
		Tags:     []string{"audio", "streaming"},
	}

	resp := postJSON(t, app, "/api/v1/products", product)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate IDs conflict.
	resp = postJSON(t, app, "/api/v1/products", product)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Invalid products are rejected.
	resp = postJSON(t, app, "/api/v1/products", model.Product{ID: "100", Price: -5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
