// Package response defines the contract for answering clarification
// questions. Real deployments capture actual user input; this core ships
// a deterministic simulator with the same interface.
package response

import (
	"strings"

	"github.com/mapr-agent/recommender/internal/model"
)

// Provider maps the planned questions to an answer set.
type Provider interface {
	Respond(questions []model.Question, profile model.UserProfile) model.Answers
}

// Simulator derives answers deterministically from the profile. Only the
// first two questions are answered, mirroring a brief real interaction.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) Respond(questions []model.Question, profile model.UserProfile) model.Answers {
	answers := model.Answers{
		RequiredFeatures:   []string{"high quality", "reliable"},
		DeliveryPreference: "standard",
	}

	for i, q := range questions {
		if i >= 2 {
			break
		}
		switch q.Type {
		case model.QuestionBudget:
			mid := (profile.BudgetMin + profile.BudgetMax) / 2
			maxPrice := mid + (profile.BudgetMax-mid)*0.3
			answers.MaxPrice = &maxPrice
		case model.QuestionFeatures:
			if len(profile.Preferences) > 0 {
				answers.PreferredCategory = titleCase(profile.Preferences[0])
			}
		case model.QuestionUsage:
			if profile.Age < 40 {
				answers.UsageContext = "personal"
			} else {
				answers.UsageContext = "home"
			}
		case model.QuestionExperience:
			answers.ExperienceLevel = "intermediate"
		}
	}

	return answers
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
