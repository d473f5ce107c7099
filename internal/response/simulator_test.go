package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapr-agent/recommender/internal/model"
)

func TestSimulatorBudgetAnswer(t *testing.T) {
	s := NewSimulator()
	profile := model.UserProfile{Age: 28, BudgetMin: 200, BudgetMax: 800}
	questions := []model.Question{{Type: model.QuestionBudget}}

	answers := s.Respond(questions, profile)

	// midpoint 500, plus 30% of the distance to the cap: 590
	require.NotNil(t, answers.MaxPrice)
	assert.InDelta(t, 590, *answers.MaxPrice, 1e-9)
}

func TestSimulatorPreferredCategory(t *testing.T) {
	s := NewSimulator()
	profile := model.UserProfile{Preferences: []string{"gaming", "audio"}}
	questions := []model.Question{{Type: model.QuestionFeatures}}

	answers := s.Respond(questions, profile)

	assert.Equal(t, "Gaming", answers.PreferredCategory)
}

func TestSimulatorUsageContextByAge(t *testing.T) {
	s := NewSimulator()
	questions := []model.Question{{Type: model.QuestionUsage}}

	answers := s.Respond(questions, model.UserProfile{Age: 39})
	assert.Equal(t, "personal", answers.UsageContext)

	answers = s.Respond(questions, model.UserProfile{Age: 40})
	assert.Equal(t, "home", answers.UsageContext)
}

func TestSimulatorAnswersFirstTwoQuestionsOnly(t *testing.T) {
	s := NewSimulator()
	profile := model.UserProfile{Age: 28, BudgetMin: 0, BudgetMax: 1000, Preferences: []string{"gaming"}}
	questions := []model.Question{
		{Type: model.QuestionBudget},
		{Type: model.QuestionUsage},
		{Type: model.QuestionExperience}, // beyond the two-question window
	}

	answers := s.Respond(questions, profile)

	assert.NotNil(t, answers.MaxPrice)
	assert.Equal(t, "personal", answers.UsageContext)
	assert.Empty(t, answers.ExperienceLevel)
}

func TestSimulatorAlwaysSetsBaselineAnswers(t *testing.T) {
	s := NewSimulator()

	answers := s.Respond(nil, model.UserProfile{})

	assert.Equal(t, []string{"high quality", "reliable"}, answers.RequiredFeatures)
	assert.Equal(t, "standard", answers.DeliveryPreference)
	assert.Nil(t, answers.MaxPrice)
	assert.Empty(t, answers.PreferredCategory)
}

func TestSimulatorExperienceLevel(t *testing.T) {
	s := NewSimulator()
	questions := []model.Question{{Type: model.QuestionExperience}}

	answers := s.Respond(questions, model.UserProfile{})

	assert.Equal(t, "intermediate", answers.ExperienceLevel)
}

func TestSimulatorIsDeterministic(t *testing.T) {
	s := NewSimulator()
	profile := model.UserProfile{Age: 33, BudgetMin: 100, BudgetMax: 900, Preferences: []string{"fitness"}}
	questions := []model.Question{{Type: model.QuestionBudget}, {Type: model.QuestionFeatures}}

	first := s.Respond(questions, profile)
	second := s.Respond(questions, profile)

	assert.Equal(t, first, second)
}
