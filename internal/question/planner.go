// Package question derives clarification questions, concerns and
// follow-up scenarios from the browsing phase's candidates.
package question

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mapr-agent/recommender/internal/interaction"
	"github.com/mapr-agent/recommender/internal/model"
)

const wideBudgetThreshold = 500

// Selector picks one of n template variants. Injectable so tests can pin
// the choice; the default is a seeded rand.
type Selector func(n int) int

func SeededSelector(seed int64) Selector {
	r := rand.New(rand.NewSource(seed))
	return func(n int) int { return r.Intn(n) }
}

// FirstSelector always picks the first variant.
func FirstSelector(int) int { return 0 }

var templates = map[model.QuestionType][]string{
	model.QuestionBudget: {
		"What's your preferred price range for this type of product?",
		"Are you looking for budget-friendly or premium options?",
		"How much are you willing to spend on this item?",
	},
	model.QuestionFeatures: {
		"Which features are most important to you?",
		"Do you have any specific requirements for this product?",
		"What would make this product perfect for your needs?",
	},
	model.QuestionUsage: {
		"How do you plan to use this product?",
		"Is this for personal use or professional purposes?",
		"Where will you primarily use this item?",
	},
	model.QuestionExperience: {
		"Are you a beginner or experienced with this type of product?",
		"Do you prefer simple or advanced features?",
		"How familiar are you with similar products?",
	},
}

type Planner struct {
	selector Selector
	recorder *interaction.Recorder
}

func NewPlanner(selector Selector, recorder *interaction.Recorder) *Planner {
	if selector == nil {
		selector = FirstSelector
	}
	return &Planner{selector: selector, recorder: recorder}
}

// Plan builds the full questioning-phase result for the given candidates.
func (pl *Planner) Plan(profile model.UserProfile, candidates []model.Product) model.QuestionResult {
	pl.recorder.Log("Analyzing recommendations for clarification needs",
		map[string]any{"product_count": len(candidates)})

	questions := pl.targetedQuestions(profile, candidates)
	result := model.QuestionResult{
		Questions:        questions,
		Concerns:         concerns(profile, candidates),
		FollowUps:        followUps(candidates),
		QuestionPriority: prioritize(questions),
		Strategy:         strategyFor(profile),
	}

	pl.recorder.Log("Generated clarification questions",
		map[string]any{"question_count": len(questions)})

	return result
}

func (pl *Planner) pick(t model.QuestionType) string {
	variants := templates[t]
	return variants[pl.selector(len(variants))]
}

func (pl *Planner) targetedQuestions(profile model.UserProfile, candidates []model.Product) []model.Question {
	questions := make([]model.Question, 0)
	if len(candidates) == 0 {
		return questions
	}

	if profile.BudgetMax-profile.BudgetMin > wideBudgetThreshold {
		questions = append(questions, model.Question{
			Type:     model.QuestionBudget,
			Text:     pl.pick(model.QuestionBudget),
			Context:  fmt.Sprintf("Your budget range is $%.0f-$%.0f", profile.BudgetMin, profile.BudgetMax),
			Priority: model.PriorityHigh,
		})
	}

	categories := distinctCategories(candidates)
	if len(categories) > 2 {
		questions = append(questions, model.Question{
			Type:     model.QuestionFeatures,
			Text:     fmt.Sprintf("I see recommendations across %s. Which category interests you most?", strings.Join(categories, ", ")),
			Context:  "Multiple product categories identified",
			Priority: model.PriorityHigh,
		})
	}

	questions = append(questions, model.Question{
		Type:     model.QuestionUsage,
		Text:     pl.pick(model.QuestionUsage),
		Context:  fmt.Sprintf("Recommended: %s", candidates[0].Name),
		Priority: model.PriorityMedium,
	})

	if prod := firstComplex(candidates); prod != nil {
		questions = append(questions, model.Question{
			Type:     model.QuestionExperience,
			Text:     pl.pick(model.QuestionExperience),
			Context:  fmt.Sprintf("Complex product detected: %s", prod.Name),
			Priority: model.PriorityMedium,
		})
	}

	return questions
}

func concerns(profile model.UserProfile, candidates []model.Product) []model.Concern {
	out := make([]model.Concern, 0)
	if len(candidates) > 0 {
		total := 0.0
		for _, p := range candidates {
			total += p.Price
		}
		if total/float64(len(candidates)) > profile.BudgetMax*0.8 {
			out = append(out, model.Concern{
				Type:       "budget_concern",
				Message:    "The recommended products are near your budget limit.",
				Suggestion: "Would you like to see more budget-friendly alternatives?",
			})
		}
	}

	if profile.Age > 50 {
		for _, p := range candidates {
			if len(p.Features) > 4 {
				out = append(out, model.Concern{
					Type:       "complexity_concern",
					Message:    "Some recommended products have many features.",
					Suggestion: "Would you prefer simpler, more straightforward options?",
				})
				break
			}
		}
	}

	return out
}

func followUps(candidates []model.Product) []model.FollowUp {
	out := make([]model.FollowUp, 0)
	if len(candidates) == 0 {
		return out
	}

	if main := candidates[0]; main.Category == "Electronics" {
		out = append(out, model.FollowUp{
			Type:    "accessory_suggestion",
			Message: fmt.Sprintf("For your %s, would you also need any accessories?", main.Name),
			Options: []string{"Cases", "Cables", "Extended warranty"},
		})
	}

	out = append(out, model.FollowUp{
		Type:    "alternatives",
		Message: "Would you like to see alternative options in different price ranges?",
		Options: []string{"Lower price", "Higher end", "Different brand"},
	})
	out = append(out, model.FollowUp{
		Type:    "timing",
		Message: "When are you planning to make this purchase?",
	})

	return out
}

// prioritize emits question texts high first, then medium, then low,
// preserving generation order within each tier.
func prioritize(questions []model.Question) []string {
	ordered := make([]string, 0, len(questions))
	for _, tier := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		for _, q := range questions {
			if q.Priority == tier {
				ordered = append(ordered, q.Text)
			}
		}
	}
	return ordered
}

func strategyFor(profile model.UserProfile) model.Strategy {
	strategy := model.Strategy{
		Approach:        "consultative",
		Tone:            "friendly",
		MaxQuestions:    3,
		Personalization: "high",
	}

	switch {
	case profile.Age > 60:
		strategy.Tone = "patient"
		strategy.MaxQuestions = 2
	case profile.Age < 25:
		strategy.Approach = "casual"
		strategy.Tone = "enthusiastic"
	}

	return strategy
}

func distinctCategories(products []model.Product) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

func firstComplex(products []model.Product) *model.Product {
	for i, p := range products {
		if p.HasTag("gaming") || p.HasTag("professional") {
			return &products[i]
		}
	}
	return nil
}
