package interest

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mapr-agent/recommender/internal/catalog"
	"github.com/mapr-agent/recommender/internal/model"
	"github.com/mapr-agent/recommender/pkg/logger"
)

// Signal weights for each profile source. Weights accumulate additively
// across sources and are never clamped or normalized.
const (
	preferenceWeight = 0.3
	browsingWeight   = 0.2
	categoryWeight   = 0.5
	tagWeight        = 0.1
)

// Compute derives the interest map from a profile's preferences, browsing
// history and resolvable purchase history. Purchase IDs that no longer
// resolve in the catalog are skipped.
func Compute(profile model.UserProfile, cat catalog.Catalog) model.InterestMap {
	interests := make(model.InterestMap)

	for _, pref := range profile.Preferences {
		interests[pref] += preferenceWeight
	}

	for _, item := range profile.BrowsingHistory {
		topic := item
		if i := strings.Index(item, "_"); i >= 0 {
			topic = item[:i]
		}
		interests[topic] += browsingWeight
	}

	for _, id := range profile.PurchaseHistory {
		product, ok := cat.Get(id)
		if !ok {
			logger.Debug("Skipping unresolvable purchase",
				zap.String("user_id", profile.ID),
				zap.String("product_id", id),
			)
			continue
		}
		interests[product.Category] += categoryWeight
		for _, tag := range product.Tags {
			interests[tag] += tagWeight
		}
	}

	return interests
}
