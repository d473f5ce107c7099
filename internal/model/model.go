package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidBudget = errors.New("budget minimum exceeds maximum")
	ErrNegativeAge   = errors.New("age must be non-negative")
	ErrInvalidPrice  = errors.New("price must be non-negative")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
	ErrInvalidStock  = errors.New("stock must be non-negative")
	ErrEmptyID       = errors.New("identifier must not be empty")
)

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Features    []string `json:"features"`
	Description string   `json:"description"`
	Stock       int      `json:"stock"`
	Tags        []string `json:"tags"`
}

func (p Product) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: %w", p.ID, ErrInvalidPrice)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("product %s: %w", p.ID, ErrInvalidRating)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %s: %w", p.ID, ErrInvalidStock)
	}
	return nil
}

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type UserProfile struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Age             int               `json:"age"`
	Preferences     []string          `json:"preferences"`
	PurchaseHistory []string          `json:"purchase_history"`
	BudgetMin       float64           `json:"budget_min"`
	BudgetMax       float64           `json:"budget_max"`
	BrowsingHistory []string          `json:"browsing_history"`
	Demographics    map[string]string `json:"demographics"`
}

func (u UserProfile) Validate() error {
	if u.Age < 0 {
		return ErrNegativeAge
	}
	if u.BudgetMin < 0 || u.BudgetMax < 0 {
		return ErrInvalidPrice
	}
	if u.BudgetMin > u.BudgetMax {
		return ErrInvalidBudget
	}
	return nil
}

// InterestMap holds accumulated per-topic affinity weights. Weights are
// additive across signal sources and intentionally not normalized.
type InterestMap map[string]float64

type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}

type QuestionType string

const (
	QuestionBudget     QuestionType = "budget_clarification"
	QuestionFeatures   QuestionType = "feature_preferences"
	QuestionUsage      QuestionType = "usage_context"
	QuestionExperience QuestionType = "experience_level"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Question struct {
	Type     QuestionType `json:"type"`
	Text     string       `json:"text"`
	Context  string       `json:"context"`
	Priority Priority     `json:"priority"`
}

type Concern struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

type FollowUp struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Options []string `json:"options,omitempty"`
}

type Strategy struct {
	Approach        string `json:"approach"`
	Tone            string `json:"tone"`
	MaxQuestions    int    `json:"max_questions"`
	Personalization string `json:"personalization_level"`
}

// Answers carries the user's (or the simulator's) responses to the
// clarification questions. Nil MaxPrice means no price cap was given.
type Answers struct {
	MaxPrice           *float64 `json:"max_price,omitempty"`
	PreferredCategory  string   `json:"preferred_category,omitempty"`
	UsageContext       string   `json:"usage_context,omitempty"`
	ExperienceLevel    string   `json:"experience_level,omitempty"`
	RequiredFeatures   []string `json:"required_features,omitempty"`
	DeliveryPreference string   `json:"delivery_preference,omitempty"`
}

type Bundle struct {
	Name          string    `json:"name"`
	Products      []Product `json:"products"`
	OriginalPrice float64   `json:"original_price"`
	BundlePrice   float64   `json:"bundle_price"`
	Savings       float64   `json:"savings"`
	Description   string    `json:"description"`
}

type Pricing struct {
	IndividualTotal    float64  `json:"individual_total"`
	BestBundleSavings  float64  `json:"best_bundle_savings"`
	PaymentOptions     []string `json:"payment_options"`
	FinancingAvailable bool     `json:"financing_available"`
	MonthlyPayment     float64  `json:"monthly_payment,omitempty"`
}

type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CartPreview struct {
	Items             []CartItem `json:"items"`
	Subtotal          float64    `json:"subtotal"`
	EstimatedTax      float64    `json:"estimated_tax"`
	EstimatedShipping float64    `json:"estimated_shipping"`
	EstimatedTotal    float64    `json:"estimated_total"`
}

type Interaction struct {
	AgentID   string         `json:"agent_id"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

type BrowseResult struct {
	RecommendedProducts []Product          `json:"recommended_products"`
	UserInterests       InterestMap        `json:"user_interests"`
	Reasoning           []string           `json:"reasoning"`
	ConfidenceScores    map[string]float64 `json:"confidence_scores"`
}

type QuestionResult struct {
	Questions        []Question `json:"clarification_questions"`
	Concerns         []Concern  `json:"potential_concerns"`
	FollowUps        []FollowUp `json:"follow_up_scenarios"`
	QuestionPriority []string   `json:"question_priority"`
	Strategy         Strategy   `json:"interaction_strategy"`
}

type FinalSummary struct {
	Summary          string  `json:"summary"`
	Confidence       float64 `json:"confidence"`
	TotalValue       float64 `json:"total_value"`
	PotentialSavings float64 `json:"potential_savings"`
	Strength         string  `json:"recommendation_strength"`
}

type FinalResult struct {
	Recommendations     []Product    `json:"final_recommendations"`
	CrossSell           []Product    `json:"cross_sell_suggestions"`
	Upsell              []Product    `json:"upsell_suggestions"`
	Bundles             []Bundle     `json:"bundle_offers"`
	Pricing             Pricing      `json:"pricing_information"`
	Cart                CartPreview  `json:"cart_preview"`
	NextSteps           []string     `json:"next_steps"`
	PersonalizedMessage string       `json:"personalized_message"`
	Summary             FinalSummary `json:"final_summary"`
}

type SessionSummary struct {
	InitiallyFound          int     `json:"products_initially_found"`
	FinallyRecommended      int     `json:"products_finally_recommended"`
	RefinementEffectiveness float64 `json:"refinement_effectiveness"`
	CrossSellOpportunities  int     `json:"cross_sell_opportunities"`
	BundleOffers            int     `json:"bundle_offers_created"`
	TotalPotentialValue     float64 `json:"total_potential_value"`
	PersonalizationLevel    string  `json:"personalization_level"`
}

type PerformanceMetrics struct {
	TotalAgentInteractions   int     `json:"total_agent_interactions"`
	SessionEfficiencyScore   float64 `json:"session_efficiency_score"`
	RecommendationConfidence float64 `json:"recommendation_confidence"`
	UserEngagementScore      float64 `json:"user_engagement_score"`
	ConversionProbability    float64 `json:"conversion_probability"`
}

// SessionResult is the full record of one pipeline run. It is assembled
// once by the orchestrator and never mutated afterwards.
type SessionResult struct {
	SessionID         string                   `json:"session_id"`
	Profile           UserProfile              `json:"user_profile"`
	Browsing          BrowseResult             `json:"phase_1_browsing"`
	Questioning       QuestionResult           `json:"phase_2_questioning"`
	Responses         Answers                  `json:"phase_3_responses"`
	Finalization      FinalResult              `json:"phase_4_finalization"`
	AgentInteractions map[string][]Interaction `json:"agent_interactions"`
	Summary           SessionSummary           `json:"session_summary"`
	Metrics           PerformanceMetrics       `json:"performance_metrics"`
	CreatedAt         time.Time                `json:"created_at"`
}
