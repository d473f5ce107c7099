// Package session sequences the four pipeline phases into one run and
// keeps the resulting records available for follow-up lookups.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/catalog"
	"github.com/mapr-agent/recommender/internal/interaction"
	"github.com/mapr-agent/recommender/internal/interest"
	"github.com/mapr-agent/recommender/internal/metrics"
	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/internal/question"
	"github.com/mapr-agent/recommender/internal/refine"
	"github.com/mapr-agent/recommender/internal/response"
	"github.com/mapr-agent/recommender/internal/scoring"
	"github.com/mapr-agent/recommender/pkg/logger"
)

// PerformanceParams are the simulated session-level figures. They stand
// in for a future scoring model and are configured, not computed.
type PerformanceParams struct {
	RecommendationConfidence float64
	UserEngagementScore      float64
	ConversionProbability    float64
}

func DefaultPerformanceParams() PerformanceParams {
	return PerformanceParams{
		RecommendationConfidence: 0.88,
		UserEngagementScore:      85,
		ConversionProbability:    0.73,
	}
}

type Orchestrator struct {
	catalog   catalog.Catalog
	store     Store
	provider  response.Provider
	estimator scoring.ConfidenceEstimator
	selector  question.Selector
	params    PerformanceParams
}

func NewOrchestrator(cat catalog.Catalog, store Store, provider response.Provider,
	estimator scoring.ConfidenceEstimator, selector question.Selector, params PerformanceParams) *Orchestrator {
	return &Orchestrator{
		catalog:   cat,
		store:     store,
		provider:  provider,
		estimator: estimator,
		selector:  selector,
		params:    params,
	}
}

// ProfileOptions carries the optional profile fields. A zero BudgetMax
// falls back to the default range (0, 1000).
type ProfileOptions struct {
	PurchaseHistory []string
	BudgetMin       float64
	BudgetMax       float64
	BrowsingHistory []string
	Demographics    map[string]string
}

func CreateProfile(name string, age int, preferences []string, opts ProfileOptions) (model.UserProfile, error) {
	if opts.BudgetMax == 0 {
		opts.BudgetMin, opts.BudgetMax = 0, 1000
	}

	profile := model.UserProfile{
		ID:              "user_" + uuid.NewString(),
		Name:            name,
		Age:             age,
		Preferences:     preferences,
		PurchaseHistory: opts.PurchaseHistory,
		BudgetMin:       opts.BudgetMin,
		BudgetMax:       opts.BudgetMax,
		BrowsingHistory: opts.BrowsingHistory,
		Demographics:    opts.Demographics,
	}

	if err := profile.Validate(); err != nil {
		return model.UserProfile{}, err
	}
	return profile, nil
}

// Run executes the four phases in strict sequence and stores the
// assembled session record. Stage engines and their interaction logs are
// created per run, so sessions stay independent and reentrant.
func (o *Orchestrator) Run(ctx context.Context, profile model.UserProfile) (*model.SessionResult, error) {
	if err := profile.Validate(); err != nil {
		metrics.SessionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	start := time.Now()
	sessionID := newSessionID()

	coordinator := interaction.NewRecorder("coordinator_001")
	browserRec := interaction.NewRecorder("browser_001")
	questionerRec := interaction.NewRecorder("questioner_001")
	finalizerRec := interaction.NewRecorder("finalizer_001")

	scorer := scoring.NewEngine(o.catalog, o.estimator, browserRec)
	planner := question.NewPlanner(o.selector, questionerRec)
	refiner := refine.NewEngine(o.catalog, finalizerRec)

	logger.Info("Starting recommendation session",
		zap.String("session_id", sessionID),
		zap.String("user_id", profile.ID),
	)
	coordinator.Log("Starting pipeline coordination", map[string]any{"user_id": profile.ID})

	interests := interest.Compute(profile, o.catalog)

	browsing := scorer.Browse(profile, interests)
	questioning := planner.Plan(profile, browsing.RecommendedProducts)
	answers := o.provider.Respond(questioning.Questions, profile)
	finalization := refiner.Finalize(profile, browsing.RecommendedProducts, answers)

	coordinator.Log("Pipeline coordination complete", map[string]any{
		"phases_completed":      4,
		"final_recommendations": len(finalization.Recommendations),
	})

	interactions := map[string][]model.Interaction{
		"browser":     browserRec.Entries(),
		"questioner":  questionerRec.Entries(),
		"finalizer":   finalizerRec.Entries(),
		"coordinator": coordinator.Entries(),
	}
	totalInteractions := browserRec.Len() + questionerRec.Len() + finalizerRec.Len() + coordinator.Len()

	result := &model.SessionResult{
		SessionID:         sessionID,
		Profile:           profile,
		Browsing:          browsing,
		Questioning:       questioning,
		Responses:         answers,
		Finalization:      finalization,
		AgentInteractions: interactions,
		Summary:           summarize(browsing, finalization),
		Metrics:           o.performanceMetrics(totalInteractions),
		CreatedAt:         time.Now(),
	}

	if err := o.store.Put(ctx, result); err != nil {
		metrics.SessionsTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}

	observe(result, time.Since(start))

	logger.Info("Session complete",
		zap.String("session_id", sessionID),
		zap.Int("final_recommendations", len(finalization.Recommendations)),
		zap.Float64("refinement_effectiveness", result.Summary.RefinementEffectiveness),
	)

	return result, nil
}

// History returns a previously stored session, if any.
func (o *Orchestrator) History(ctx context.Context, sessionID string) (*model.SessionResult, bool, error) {
	return o.store.Get(ctx, sessionID)
}

func summarize(browsing model.BrowseResult, finalization model.FinalResult) model.SessionSummary {
	initial := len(browsing.RecommendedProducts)
	final := len(finalization.Recommendations)

	divisor := initial
	if divisor < 1 {
		divisor = 1
	}

	level := "medium"
	if final > 0 {
		level = "high"
	}

	return model.SessionSummary{
		InitiallyFound:          initial,
		FinallyRecommended:      final,
		RefinementEffectiveness: float64(final) / float64(divisor),
		CrossSellOpportunities:  len(finalization.CrossSell),
		BundleOffers:            len(finalization.Bundles),
		TotalPotentialValue:     finalization.Pricing.IndividualTotal,
		PersonalizationLevel:    level,
	}
}

func (o *Orchestrator) performanceMetrics(totalInteractions int) model.PerformanceMetrics {
	efficiency := 100 - float64(totalInteractions)*2
	if efficiency < 0 {
		efficiency = 0
	}
	if efficiency > 100 {
		efficiency = 100
	}

	return model.PerformanceMetrics{
		TotalAgentInteractions:   totalInteractions,
		SessionEfficiencyScore:   efficiency,
		RecommendationConfidence: o.params.RecommendationConfidence,
		UserEngagementScore:      o.params.UserEngagementScore,
		ConversionProbability:    o.params.ConversionProbability,
	}
}

func observe(result *model.SessionResult, elapsed time.Duration) {
	metrics.SessionsTotal.WithLabelValues("ok").Inc()
	metrics.SessionDuration.Observe(elapsed.Seconds())
	metrics.RecommendationCount.Observe(float64(len(result.Finalization.Recommendations)))
	metrics.BundleSavings.Observe(result.Finalization.Pricing.BestBundleSavings)
	metrics.RefinementEffectiveness.Set(result.Summary.RefinementEffectiveness)
}

func newSessionID() string {
	fragment := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("mapr_session_%d_%s", time.Now().Unix(), fragment)
}
