package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mapr_session_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapr_sessions_total",
			Help: "Total number of recommendation sessions",
		},
		[]string{"status"},
	)

	RecommendationCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mapr_final_recommendations_count",
			Help:    "Number of final recommendations per session",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	BundleSavings = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mapr_bundle_savings_usd",
			Help:    "Best bundle savings per session in USD",
			Buckets: []float64{0, 10, 25, 50, 100, 250},
		},
	)

	RefinementEffectiveness = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mapr_refinement_effectiveness",
			Help: "Ratio of final to initial recommendations for the last session",
		},
	)

	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mapr_catalog_products_total",
			Help: "Number of products in the catalog",
		},
	)
)

func Init() {
	prometheus.MustRegister(SessionDuration)
	prometheus.MustRegister(SessionsTotal)
	prometheus.MustRegister(RecommendationCount)
	prometheus.MustRegister(BundleSavings)
	prometheus.MustRegister(RefinementEffectiveness)
	prometheus.MustRegister(CatalogSize)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
