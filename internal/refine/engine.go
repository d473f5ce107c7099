// Package refine turns clarified answers into the final picks: re-scored
// top products, cross-sell/upsell sets, bundle offers and pricing.
package refine

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
	finalTopN          = 3
	crossSellCap       = 2
	upsellCap          = 2
	bundleDiscount     = 0.10
	accessoryDiscount  = 0.15
	taxRate            = 0.08
	shippingFee        = 9.99
	freeShippingAbove  = 50.0
	financingThreshold = 500.0
	financingMonths    = 12
)

// Complementary product names by tag. The rules are static; real catalogs
// would derive them from co-purchase data.
func defaultCrossSellRules() map[string][]string {
	return map[string][]string{
		"gaming":  {"Gaming Mouse RGB", "Wireless Headphones Elite"},
		"laptop":  {"Gaming Mouse RGB", "Wireless Headphones Elite"},
		"fitness": {"Bluetooth Speaker"},
		"kitchen": {"Smart Fitness Watch"},
		"audio":   {"Gaming Laptop Pro"},
	}
}

type Engine struct {
	catalog  catalog.Catalog
	rules    map[string][]string
	recorder *interaction.Recorder
}

func NewEngine(cat catalog.Catalog, recorder *interaction.Recorder) *Engine {
	return &Engine{
		catalog:  cat,
		rules:    defaultCrossSellRules(),
		recorder: recorder,
	}
}

// Refine re-scores candidates against the answers and keeps the top three.
// Candidates over the answered max price are excluded outright, not
// down-weighted. Category matching is case-insensitive.
func (e *Engine) Refine(candidates []model.Product, answers model.Answers) []model.Product {
	scored := make([]model.ScoredProduct, 0, len(candidates))

	for _, p := range candidates {
		score := 1.0

		if answers.PreferredCategory != "" {
			if strings.EqualFold(p.Category, answers.PreferredCategory) {
				score *= 1.5
			} else {
				score *= 0.5
			}
		}

		if answers.MaxPrice != nil {
			if p.Price > *answers.MaxPrice {
				continue
			}
			score *= 1.2
		}

		if len(answers.RequiredFeatures) > 0 && featureMatch(p, answers.RequiredFeatures) {
			score *= 1.3
		}

		scored = append(scored, model.ScoredProduct{Product: p, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	refined := make([]model.Product, 0, finalTopN)
	for i, sp := range scored {
		if i >= finalTopN {
			break
		}
		refined = append(refined, sp.Product)
	}
	return refined
}

// CrossSell collects complementary products from the rules table, keeping
// only items affordable within half the remaining budget.
func (e *Engine) CrossSell(refined []model.Product, profile model.UserProfile) []model.Product {
	collected := make([]model.Product, 0)
	for _, p := range refined {
		for _, tag := range p.Tags {
			for _, name := range e.rules[tag] {
				candidate, ok := e.findByName(name)
				if !ok || containsProduct(refined, candidate.ID) {
					continue
				}
				collected = append(collected, candidate)
			}
		}
	}

	remaining := profile.BudgetMax - totalPrice(refined)
	affordable := make([]model.Product, 0, crossSellCap)
	for _, p := range collected {
		if p.Price <= remaining*0.5 {
			affordable = append(affordable, p)
			if len(affordable) == crossSellCap {
				break
			}
		}
	}
	return affordable
}

// Upsell finds, per refined product, the cheapest same-category option
// that is strictly pricier, within budget and at least as well rated.
func (e *Engine) Upsell(refined []model.Product, profile model.UserProfile) []model.Product {
	upsells := make([]model.Product, 0, upsellCap)
	for _, p := range refined {
		if len(upsells) == upsellCap {
			break
		}
		var best *model.Product
		for _, alt := range e.catalog.Search("", p.Category, nil) {
			if alt.Price <= p.Price || alt.Price > profile.BudgetMax || alt.Rating < p.Rating {
				continue
			}
			if best == nil || alt.Price < best.Price {
				alt := alt
				best = &alt
			}
		}
		if best != nil {
			upsells = append(upsells, *best)
		}
	}
	return upsells
}

// Bundles builds up to two offers: the first two refined products at 10%
// off, and the top product with the first cross-sell item at 15% off the
// accessory's price only.
func (e *Engine) Bundles(refined, crossSell []model.Product) []model.Bundle {
	bundles := make([]model.Bundle, 0, 2)

	if len(refined) >= 2 {
		original := refined[0].Price + refined[1].Price
		savings := original * bundleDiscount
		bundles = append(bundles, model.Bundle{
			Name:          "Recommended Bundle",
			Products:      []model.Product{refined[0], refined[1]},
			OriginalPrice: original,
			BundlePrice:   original - savings,
			Savings:       savings,
			Description:   "Perfect combination for your needs",
		})
	}

	if len(refined) > 0 && len(crossSell) > 0 {
		main, accessory := refined[0], crossSell[0]
		original := main.Price + accessory.Price
		savings := accessory.Price * accessoryDiscount
		bundles = append(bundles, model.Bundle{
			Name:          "Complete Setup Bundle",
			Products:      []model.Product{main, accessory},
			OriginalPrice: original,
			BundlePrice:   original - savings,
			Savings:       savings,
			Description:   fmt.Sprintf("Get everything you need with %s", accessory.Name),
		})
	}

	return bundles
}

func (e *Engine) Pricing(refined []model.Product, bundles []model.Bundle) model.Pricing {
	pricing := model.Pricing{
		IndividualTotal: totalPrice(refined),
		PaymentOptions:  []string{"Credit Card", "PayPal", "Apple Pay"},
	}

	for _, b := range bundles {
		if b.Savings > pricing.BestBundleSavings {
			pricing.BestBundleSavings = b.Savings
		}
	}

	if pricing.IndividualTotal > financingThreshold {
		pricing.FinancingAvailable = true
		pricing.MonthlyPayment = pricing.IndividualTotal / financingMonths
	}

	return pricing
}

func (e *Engine) CartPreview(refined []model.Product) model.CartPreview {
	items := make([]model.CartItem, 0, len(refined))
	for _, p := range refined {
		items = append(items, model.CartItem{Name: p.Name, Price: p.Price, Quantity: 1})
	}

	subtotal := totalPrice(refined)
	shipping := 0.0
	if subtotal < freeShippingAbove {
		shipping = shippingFee
	}

	return model.CartPreview{
		Items:             items,
		Subtotal:          subtotal,
		EstimatedTax:      subtotal * taxRate,
		EstimatedShipping: shipping,
		EstimatedTotal:    subtotal*(1+taxRate) + shipping,
	}
}

func (e *Engine) Message(profile model.UserProfile, refined []model.Product) string {
	if len(refined) == 0 {
		return fmt.Sprintf("Hi %s, I couldn't find perfect matches right now, but let me know if you'd like to explore more options!", profile.Name)
	}

	main := refined[0]
	prefs := profile.Preferences
	if len(prefs) > 2 {
		prefs = prefs[:2]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s! Based on your preferences for %s, ", profile.Name, strings.Join(prefs, ", "))
	fmt.Fprintf(&b, "I think the %s would be perfect for you. ", main.Name)
	if main.Rating >= 4.5 {
		b.WriteString("It has excellent customer reviews ")
	}
	if len(refined) > 1 {
		plural := ""
		if len(refined) > 2 {
			plural = "s"
		}
		fmt.Fprintf(&b, "and I've also included %d other great option%s ", len(refined)-1, plural)
	}
	b.WriteString("that match your needs and budget. Ready to take a look?")
	return b.String()
}

func (e *Engine) Summary(refined []model.Product, pricing model.Pricing) model.FinalSummary {
	plural := "es"
	if len(refined) == 1 {
		plural = ""
	}
	strength := "Medium"
	if len(refined) >= 2 {
		strength = "High"
	}
	return model.FinalSummary{
		Summary:          fmt.Sprintf("Found %d perfect match%s for you", len(refined), plural),
		Confidence:       0.92,
		TotalValue:       pricing.IndividualTotal,
		PotentialSavings: pricing.BestBundleSavings,
		Strength:         strength,
	}
}

// Finalize runs the whole finalization phase over the browse candidates
// and the answered questions.
func (e *Engine) Finalize(profile model.UserProfile, candidates []model.Product, answers model.Answers) model.FinalResult {
	e.recorder.Log("Starting finalization process", map[string]any{
		"products": len(candidates),
	})

	refined := e.Refine(candidates, answers)
	crossSell := e.CrossSell(refined, profile)
	upsell := e.Upsell(refined, profile)
	bundles := e.Bundles(refined, crossSell)
	pricing := e.Pricing(refined, bundles)

	result := model.FinalResult{
		Recommendations:     refined,
		CrossSell:           crossSell,
		Upsell:              upsell,
		Bundles:             bundles,
		Pricing:             pricing,
		Cart:                e.CartPreview(refined),
		NextSteps:           nextSteps(),
		PersonalizedMessage: e.Message(profile, refined),
		Summary:             e.Summary(refined, pricing),
	}

	logger.Debug("Finalization complete",
		zap.String("user_id", profile.ID),
		zap.Int("refined", len(refined)),
		zap.Int("cross_sell", len(crossSell)),
		zap.Int("bundles", len(bundles)),
	)
	e.recorder.Log("Finalization complete", map[string]any{"final_count": len(refined)})

	return result
}

func nextSteps() []string {
	return []string{
		"Review your personalized recommendations",
		"Consider the bundle offers for additional savings",
		"Add items to cart when ready",
		"Proceed to secure checkout",
		"Track your order after purchase",
	}
}

func featureMatch(p model.Product, required []string) bool {
	joined := strings.ToLower(strings.Join(p.Features, " "))
	for _, req := range required {
		if strings.Contains(joined, strings.ToLower(req)) {
			return true
		}
	}
	return false
}

func (e *Engine) findByName(name string) (model.Product, bool) {
	for _, p := range e.catalog.All() {
		if p.Name == name {
			return p, true
		}
	}
	return model.Product{}, false
}

func containsProduct(products []model.Product, id string) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func totalPrice(products []model.Product) float64 {
	total := 0.0
	for _, p := range products {
		total += p.Price
	}
	return total
}
