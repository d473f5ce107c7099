// Package scoring implements the three recommendation strategies and the
// browsing phase that fuses them: hybrid filtering over the catalog,
// budget filtering, then a profile-specific ranking pass.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/catalog"
	"github.com/mapr-agent/recommender/internal/interaction"
	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/pkg/logger"
)

const (
	fusionTopN    = 10
	collabWeight  = 0.6
	contentWeight = 0.4
	surfacedTopN  = 5
)

// ConfidenceEstimator supplies the per-product confidence attached to the
// browse result.
type ConfidenceEstimator interface {
	Confidence(p model.Product) float64
}

// FixedConfidence reports the same confidence for every product.
type FixedConfidence float64

func (f FixedConfidence) Confidence(model.Product) float64 { return float64(f) }

type Engine struct {
	catalog   catalog.Catalog
	estimator ConfidenceEstimator
	recorder  *interaction.Recorder
}

func NewEngine(cat catalog.Catalog, estimator ConfidenceEstimator, recorder *interaction.Recorder) *Engine {
	return &Engine{
		catalog:   cat,
		estimator: estimator,
		recorder:  recorder,
	}
}

// Collaborative scores every product by category interest, tag interest
// and rating. Interest keys match case-insensitively.
func (e *Engine) Collaborative(interests model.InterestMap) []model.ScoredProduct {
	scored := make([]model.ScoredProduct, 0)
	for _, p := range e.catalog.All() {
		score := weightFold(interests, p.Category) * 0.4
		for _, tag := range p.Tags {
			score += weightFold(interests, tag) * 0.2
		}
		score += (p.Rating / 5.0) * 0.3
		scored = append(scored, model.ScoredProduct{Product: p, Score: score})
	}
	sortByScore(scored)
	return scored
}

// ContentBased scores products by feature/preference substring overlap
// plus category interest.
func (e *Engine) ContentBased(profile model.UserProfile, interests model.InterestMap) []model.ScoredProduct {
	scored := make([]model.ScoredProduct, 0)
	for _, p := range e.catalog.All() {
		score := 0.0
		for _, feature := range p.Features {
			for _, pref := range profile.Preferences {
				if strings.Contains(strings.ToLower(feature), strings.ToLower(pref)) {
					score += 0.4
				}
			}
		}
		score += interests[p.Category] * 0.3
		scored = append(scored, model.ScoredProduct{Product: p, Score: score})
	}
	sortByScore(scored)
	return scored
}

// Hybrid fuses the top ten of both strategies with rank-based weights.
// Products absent from both top-ten lists are dropped, not zero-filled.
func (e *Engine) Hybrid(profile model.UserProfile, interests model.InterestMap) []model.ScoredProduct {
	collab := e.Collaborative(interests)
	content := e.ContentBased(profile, interests)

	combined := make(map[string]float64)
	var order []string // first-contribution order breaks score ties

	accumulate := func(ranked []model.ScoredProduct, weight float64) {
		for i, sp := range ranked {
			if i >= fusionTopN {
				break
			}
			id := sp.Product.ID
			if _, seen := combined[id]; !seen {
				order = append(order, id)
			}
			combined[id] += float64(fusionTopN-i) / float64(fusionTopN) * weight
		}
	}
	accumulate(collab, collabWeight)
	accumulate(content, contentWeight)

	fused := make([]model.ScoredProduct, 0, len(order))
	for _, id := range order {
		if p, ok := e.catalog.Get(id); ok {
			fused = append(fused, model.ScoredProduct{Product: p, Score: combined[id]})
		}
	}
	sortByScore(fused)
	return fused
}

// FilterByBudget keeps products priced within [min, max], bounds inclusive.
func FilterByBudget(products []model.Product, min, max float64) []model.Product {
	kept := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Price >= min && p.Price <= max {
			kept = append(kept, p)
		}
	}
	return kept
}

// Rank re-scores budget-filtered candidates with user-specific factors.
func Rank(products []model.Product, profile model.UserProfile) []model.ScoredProduct {
	scored := make([]model.ScoredProduct, 0, len(products))
	for _, p := range products {
		score := 0.0
		if profile.Age < 30 && p.HasTag("gaming") {
			score += 0.2
		} else if profile.Age >= 30 && p.HasTag("home") {
			score += 0.2
		}
		score += (p.Rating - 3.0) / 2.0 * 0.3
		if p.Stock > 10 {
			score += 0.1
		}
		scored = append(scored, model.ScoredProduct{Product: p, Score: score})
	}
	sortByScore(scored)
	return scored
}

// Browse runs the full browsing phase: hybrid fusion, budget filter and
// ranking. The top five candidates are surfaced with reasoning and
// confidence scores.
func (e *Engine) Browse(profile model.UserProfile, interests model.InterestMap) model.BrowseResult {
	e.recorder.Log("Starting product browsing and recommendation", map[string]any{"user_id": profile.ID})

	fused := e.Hybrid(profile, interests)
	products := make([]model.Product, 0, len(fused))
	for _, sp := range fused {
		products = append(products, sp.Product)
	}

	withinBudget := FilterByBudget(products, profile.BudgetMin, profile.BudgetMax)
	ranked := Rank(withinBudget, profile)

	top := make([]model.Product, 0, surfacedTopN)
	confidence := make(map[string]float64, surfacedTopN)
	for i, sp := range ranked {
		if i >= surfacedTopN {
			break
		}
		top = append(top, sp.Product)
		confidence[sp.Product.ID] = e.estimator.Confidence(sp.Product)
	}

	result := model.BrowseResult{
		RecommendedProducts: top,
		UserInterests:       interests,
		Reasoning:           reasoning(ranked, profile),
		ConfidenceScores:    confidence,
	}

	logger.Debug("Browsing phase complete",
		zap.String("user_id", profile.ID),
		zap.Int("candidates", len(ranked)),
		zap.Int("surfaced", len(top)),
	)
	e.recorder.Log("Generated initial recommendations", map[string]any{
		"count":          len(ranked),
		"top_categories": topicKeys(interests),
	})

	return result
}

func reasoning(ranked []model.ScoredProduct, profile model.UserProfile) []string {
	reasons := make([]string, 0, 3)
	for i, sp := range ranked {
		if i >= 3 {
			break
		}
		p := sp.Product
		var parts []string
		if containsFold(profile.Preferences, p.Category) {
			parts = append(parts, fmt.Sprintf("matches your interest in %s", p.Category))
		}
		if p.Rating >= 4.5 {
			parts = append(parts, "highly rated by customers")
		}
		if tagOverlap(p.Tags, profile.Preferences) {
			parts = append(parts, "aligns with your preferences")
		}
		reasons = append(reasons, p.Name+": "+strings.Join(parts, ", "))
	}
	return reasons
}

// weightFold sums the weights of all interest keys equal to key under
// case folding.
func weightFold(interests model.InterestMap, key string) float64 {
	total := 0.0
	for k, w := range interests {
		if strings.EqualFold(k, key) {
			total += w
		}
	}
	return total
}

func sortByScore(scored []model.ScoredProduct) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func tagOverlap(tags, preferences []string) bool {
	for _, tag := range tags {
		for _, pref := range preferences {
			if tag == pref {
				return true
			}
		}
	}
	return false
}

func topicKeys(interests model.InterestMap) []string {
	keys := make([]string, 0, len(interests))
	for k := range interests {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
