// backend/src/metrics/filter.go
package metrics

import (
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
)

// Filter bounds a metrics computation: inclusive date range plus optional
// marketplace and tenant restrictions. Zero Start/End mean unbounded.
type Filter struct {
	Start         time.Time
	End           time.Time
	MarketplaceID *int64
	TenantID      *int64
}

// Apply returns the subset of sales the filter admits. Callers that already
// hold a pre-filtered set (e.g. a store range query) can skip it.
func (f Filter) Apply(sales []models.CanonicalSale) []models.CanonicalSale {
	out := make([]models.CanonicalSale, 0, len(sales))
	for _, s := range sales {
		if !f.Start.IsZero() && s.SaleDate.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && s.SaleDate.After(f.End) {
			continue
		}
		if f.MarketplaceID != nil && s.MarketplaceID != *f.MarketplaceID {
			continue
		}
		if f.TenantID != nil && (s.TenantID == nil || *s.TenantID != *f.TenantID) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func isValid(s models.CanonicalSale) bool {
	return models.ValidStatuses[s.OrderStatus]
}
