package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/api/handlers"
	"github.com/mapr-agent/recommender/internal/catalog"
	"github.com/mapr-agent/recommender/internal/metrics"
	"github.com/mapr-agent/recommender/internal/middleware/ratelimit"
	"github.com/mapr-agent/recommender/internal/question"
	"github.com/mapr-agent/recommender/internal/response"
	"github.com/mapr-agent/recommender/internal/scoring"
	"github.com/mapr-agent/recommender/internal/session"
	"github.com/mapr-agent/recommender/pkg/config"
	appLogger "github.com/mapr-agent/recommender/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting product recommender API server")

	metrics.Init()

	cat := catalog.NewSeeded()
	metrics.CatalogSize.Set(float64(len(cat.All())))

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create session store", zap.Error(err))
	}
	defer closeStore()

	orchestrator := session.NewOrchestrator(
		cat,
		store,
		response.NewSimulator(),
		scoring.FixedConfidence(cfg.Simulation.BrowseConfidence),
		question.SeededSelector(cfg.Simulation.QuestionSeed),
		session.PerformanceParams{
			RecommendationConfidence: cfg.Simulation.RecommendationConfidence,
			UserEngagementScore:      cfg.Simulation.EngagementScore,
			ConversionProbability:    cfg.Simulation.ConversionProbability,
		},
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	limiter := ratelimit.New(ratelimit.Config{Logger: appLogger.Log})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	recommendationHandler := handlers.NewRecommendationHandler(orchestrator)
	sessionHandler := handlers.NewSessionHandler(orchestrator)
	productHandler := handlers.NewProductHandler(cat)

	api := app.Group("/api/v1")

	api.Post("/recommendations", recommendationHandler.HandleRecommendations)
	api.Get("/sessions/:id", sessionHandler.GetSession)
	api.Get("/products", productHandler.SearchProducts)
	api.Post("/products", productHandler.AddProduct)
	api.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

func buildStore(cfg *config.Config) (session.Store, func(), error) {
	if cfg.Store.Backend == "redis" {
		store, err := session.NewRedisStore(
			cfg.Store.Redis.Host,
			cfg.Store.Redis.Port,
			cfg.Store.Redis.Password,
			cfg.Store.Redis.DB,
			time.Duration(cfg.Store.Redis.TTLMinutes)*time.Minute,
		)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return session.NewMemoryStore(), func() {}, nil
}
