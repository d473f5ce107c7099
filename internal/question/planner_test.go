package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapr-agent/recommender/internal/interaction"
	"github.com/mapr-agent/recommender/internal/model"
)

func newTestPlanner() *Planner {
	return NewPlanner(FirstSelector, interaction.NewRecorder("questioner_test"))
}

func candidateSet() []model.Product {
	return []model.Product{
		{ID: "1", Name: "Gaming Laptop Pro", Category: "Electronics", Price: 700, Features: []string{"a", "b", "c", "d", "e"}, Tags: []string{"gaming"}},
		{ID: "3", Name: "Smart Fitness Watch", Category: "Wearables", Price: 250, Features: []string{"a"}, Tags: []string{"fitness"}},
		{ID: "4", Name: "Coffee Maker Deluxe", Category: "Home", Price: 90, Features: []string{"a"}, Tags: []string{"kitchen"}},
	}
}

func questionTypes(questions []model.Question) []model.QuestionType {
	types := make([]model.QuestionType, 0, len(questions))
	for _, q := range questions {
		types = append(types, q.Type)
	}
	return types
}

func TestPlanGeneratesAllQuestionKinds(t *testing.T) {
	pl := newTestPlanner()
	profile := model.UserProfile{Age: 30, BudgetMin: 100, BudgetMax: 800}

	result := pl.Plan(profile, candidateSet())

	assert.Equal(t, []model.QuestionType{
		model.QuestionBudget,   // 700 spread > 500
		model.QuestionFeatures, // 3 distinct categories
		model.QuestionUsage,    // always with candidates
		model.QuestionExperience, // gaming tag present
	}, questionTypes(result.Questions))

	assert.Equal(t, model.PriorityHigh, result.Questions[0].Priority)
	assert.Equal(t, model.PriorityHigh, result.Questions[1].Priority)
	assert.Equal(t, model.PriorityMedium, result.Questions[2].Priority)
	assert.Equal(t, model.PriorityMedium, result.Questions[3].Priority)
}

func TestPlanNarrowBudgetAndFewCategories(t *testing.T) {
	pl := newTestPlanner()
	profile := model.UserProfile{Age: 30, BudgetMin: 100, BudgetMax: 500}
	candidates := candidateSet()[1:] // two categories, no gaming tag

	result := pl.Plan(profile, candidates)

	assert.Equal(t, []model.QuestionType{model.QuestionUsage}, questionTypes(result.Questions))
}

func TestPlanNoCandidatesNoQuestions(t *testing.T) {
	pl := newTestPlanner()
	profile := model.UserProfile{Age: 30, BudgetMin: 0, BudgetMax: 1000}

	result := pl.Plan(profile, nil)

	assert.Empty(t, result.Questions)
	assert.Empty(t, result.FollowUps)
	assert.Empty(t, result.QuestionPriority)
}

func TestPriorityOrderingPreservesGenerationOrderWithinTiers(t *testing.T) {
	pl := newTestPlanner()
	profile := model.UserProfile{Age: 30, BudgetMin: 100, BudgetMax: 800}

	result := pl.Plan(profile, candidateSet())

	require.Len(t, result.QuestionPriority, 4)
	// High-priority texts first, in generation order, then medium.
	assert.Equal(t, result.Questions[0].Text, result.QuestionPriority[0])
	assert.Equal(t, result.Questions[1].Text, result.QuestionPriority[1])
	assert.Equal(t, result.Questions[2].Text, result.QuestionPriority[2])
	assert.Equal(t, result.Questions[3].Text, result.QuestionPriority[3])
}

func TestConcerns(t *testing.T) {
	pl := newTestPlanner()

	t.Run("budget concern when average price nears the limit", func(t *testing.T) {
		profile := model.UserProfile{Age: 30, BudgetMax: 400}
		candidates := []model.Product{
			{ID: "1", Category: "Electronics", Price: 390, Features: []string{"a"}},
		}

		result := pl.Plan(profile, candidates)

		require.Len(t, result.Concerns, 1)
		assert.Equal(t, "budget_concern", result.Concerns[0].Type)
	})

	t.Run("complexity concern for older users and feature-heavy products", func(t *testing.T) {
		profile := model.UserProfile{Age: 55, BudgetMax: 5000}
		candidates := []model.Product{
			{ID: "1", Category: "Electronics", Price: 100, Features: []string{"a", "b", "c", "d", "e"}},
		}

		result := pl.Plan(profile, candidates)

		require.Len(t, result.Concerns, 1)
		assert.Equal(t, "complexity_concern", result.Concerns[0].Type)
	})

	t.Run("no concerns for comfortable budget and simple products", func(t *testing.T) {
		profile := model.UserProfile{Age: 30, BudgetMax: 5000}
		candidates := []model.Product{
			{ID: "1", Category: "Electronics", Price: 100, Features: []string{"a"}},
		}

		result := pl.Plan(profile, candidates)

		assert.Empty(t, result.Concerns)
	})
}

func TestFollowUps(t *testing.T) {
	pl := newTestPlanner()
	profile := model.UserProfile{Age: 30, BudgetMax: 1000}

	result := pl.Plan(profile, candidateSet())

	require.Len(t, result.FollowUps, 3)
	assert.Equal(t, "accessory_suggestion", result.FollowUps[0].Type)
	assert.Equal(t, "alternatives", result.FollowUps[1].Type)
	assert.Equal(t, "timing", result.FollowUps[2].Type)

	// No accessory follow-up when the top candidate is not Electronics.
	result = pl.Plan(profile, candidateSet()[1:])
	require.Len(t, result.FollowUps, 2)
	assert.Equal(t, "alternatives", result.FollowUps[0].Type)
}

func TestStrategyAgeBands(t *testing.T) {
	pl := newTestPlanner()
	candidates := candidateSet()

	tests := []struct {
		age  int
		want model.Strategy
	}{
		{age: 22, want: model.Strategy{Approach: "casual", Tone: "enthusiastic", MaxQuestions: 3, Personalization: "high"}},
		{age: 25, want: model.Strategy{Approach: "consultative", Tone: "friendly", MaxQuestions: 3, Personalization: "high"}},
		{age: 45, want: model.Strategy{Approach: "consultative", Tone: "friendly", MaxQuestions: 3, Personalization: "high"}},
		{age: 60, want: model.Strategy{Approach: "consultative", Tone: "friendly", MaxQuestions: 3, Personalization: "high"}},
		{age: 61, want: model.Strategy{Approach: "consultative", Tone: "patient", MaxQuestions: 2, Personalization: "high"}},
	}

	for _, tt := range tests {
		profile := model.UserProfile{Age: tt.age, BudgetMax: 1000}
		result := pl.Plan(profile, candidates)
		assert.Equal(t, tt.want, result.Strategy, "age %d", tt.age)
	}
}

func TestSeededSelectorIsDeterministic(t *testing.T) {
	a := SeededSelector(7)
	b := SeededSelector(7)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a(3), b(3))
	}
}
