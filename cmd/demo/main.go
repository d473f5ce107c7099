// Demo driver: runs the full pipeline for three sample users and prints
// each session the way the storefront would present it.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/mapr-agent/recommender/internal/catalog"
	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/internal/question"
	"github.com/mapr-agent/recommender/internal/response"
	"github.com/mapr-agent/recommender/internal/scoring"
	"github.com/mapr-agent/recommender/internal/session"
	"github.com/mapr-agent/recommender/pkg/logger"
)

type demoUser struct {
	name     string
	age      int
	prefs    []string
	history  []string
	budget   [2]float64
	browsing []string
}

func demoUsers() []demoUser {
	return []demoUser{
		{
			name:     "Alex Chen",
			age:      28,
			prefs:    []string{"gaming", "technology", "performance"},
			history:  []string{"1"},
			budget:   [2]float64{200, 800},
			browsing: []string{"electronics_gaming", "electronics_audio"},
		},
		{
			name:     "Sarah Johnson",
			age:      45,
			prefs:    []string{"home", "convenience", "quality"},
			budget:   [2]float64{50, 300},
			browsing: []string{"home_kitchen", "home_appliances"},
		},
		{
			name:     "Mike Rodriguez",
			age:      35,
			prefs:    []string{"fitness", "health", "technology"},
			history:  []string{"3"},
			budget:   [2]float64{100, 500},
			browsing: []string{"wearables_fitness", "electronics_audio"},
		},
	}
}

func main() {
	if err := logger.Init("warn", "console", "stdout"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Initializing multi-stage product recommender...")

	orchestrator := session.NewOrchestrator(
		catalog.NewSeeded(),
		session.NewMemoryStore(),
		response.NewSimulator(),
		scoring.FixedConfidence(0.85),
		question.SeededSelector(42),
		session.DefaultPerformanceParams(),
	)

	for _, u := range demoUsers() {
		rule()
		color.New(color.Bold).Printf("Processing recommendations for %s...\n", u.name)
		rule()

		profile, err := session.CreateProfile(u.name, u.age, u.prefs, session.ProfileOptions{
			PurchaseHistory: u.history,
			BudgetMin:       u.budget[0],
			BudgetMax:       u.budget[1],
			BrowsingHistory: u.browsing,
		})
		if err != nil {
			color.Red("Failed to create profile: %v", err)
			continue
		}

		result, err := orchestrator.Run(context.Background(), profile)
		if err != nil {
			color.Red("Pipeline failed: %v", err)
			continue
		}

		printSession(result)
	}

	rule()
	color.Green("Demo complete.")
}

func printSession(result *model.SessionResult) {
	header := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)

	profile := result.Profile
	fmt.Printf("\nRecommendations for: %s (Age: %d)\n", profile.Name, profile.Age)
	fmt.Printf("Budget Range: $%.2f - $%.2f\n", profile.BudgetMin, profile.BudgetMax)
	fmt.Printf("Interests: %s\n", strings.Join(profile.Preferences, ", "))

	final := result.Finalization

	header.Printf("\nFINAL RECOMMENDATIONS (%d products):\n", len(final.Recommendations))
	for i, p := range final.Recommendations {
		fmt.Printf("\n%d. %s\n", i+1, p.Name)
		fmt.Printf("   Price: $%.2f | Rating: %.1f/5.0 | Category: %s\n", p.Price, p.Rating, p.Category)
		fmt.Printf("   Features: %s\n", strings.Join(p.Features, ", "))
		fmt.Printf("   %s\n", p.Description)
	}

	if len(final.CrossSell) > 0 {
		header.Printf("\nYOU MIGHT ALSO LIKE (%d items):\n", len(final.CrossSell))
		for _, p := range final.CrossSell {
			fmt.Printf("- %s - $%.2f\n", p.Name, p.Price)
		}
	}

	if len(final.Bundles) > 0 {
		header.Printf("\nSPECIAL BUNDLE OFFERS (%d bundles):\n", len(final.Bundles))
		for _, b := range final.Bundles {
			fmt.Printf("- %s\n", b.Name)
			fmt.Printf("  Original: $%.2f | Bundle Price: $%.2f | ", b.OriginalPrice, b.BundlePrice)
			label.Printf("You Save: $%.2f\n", b.Savings)
		}
	}

	cart := final.Cart
	header.Println("\nCART PREVIEW:")
	fmt.Printf("Subtotal: $%.2f\n", cart.Subtotal)
	fmt.Printf("Tax: $%.2f\n", cart.EstimatedTax)
	fmt.Printf("Shipping: $%.2f\n", cart.EstimatedShipping)
	fmt.Printf("TOTAL: $%.2f\n", cart.EstimatedTotal)

	if final.PersonalizedMessage != "" {
		header.Println("\nPERSONAL MESSAGE:")
		fmt.Println(final.PersonalizedMessage)
	}

	m := result.Metrics
	header.Println("\nSESSION METRICS:")
	fmt.Printf("Recommendation Confidence: %.0f%%\n", m.RecommendationConfidence*100)
	fmt.Printf("User Engagement Score: %.0f/100\n", m.UserEngagementScore)
	fmt.Printf("Conversion Probability: %.0f%%\n", m.ConversionProbability*100)
	fmt.Printf("Session ID: %s\n", result.SessionID)
}

func rule() {
	fmt.Println(strings.Repeat("=", 70))
}
