// backend/src/metrics/abc.go
package metrics

import (
	"sort"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/shopspring/decimal"
)

// ABCThresholds are the cumulative-revenue cutoffs for the A and B classes,
// expressed as ratios of total revenue.
type ABCThresholds struct {
	A float64
	B float64
}

// DefaultABCThresholds follows the classic 80/15/5 Pareto split.
var DefaultABCThresholds = ABCThresholds{A: 0.80, B: 0.95}

// ABCEntry is one SKU of the Pareto classification, ranked by revenue.
type ABCEntry struct {
	SKU                 string  `json:"sku"`
	NomeProduto         string  `json:"nome_produto"`
	Faturamento         float64 `json:"faturamento"`
	Percentual          float64 `json:"percentual"`
	PercentualAcumulado float64 `json:"percentual_acumulado"`
	Classe              string  `json:"classe"`
}

// ABCByRevenue groups valid-status sales by SKU, ranks SKUs by revenue and
// classifies them A while the cumulative share stays within the A threshold,
// B within the B threshold, C otherwise. Ties keep first-encountered SKU
// order (the sort is stable).
func ABCByRevenue(sales []models.CanonicalSale, thresholds ABCThresholds) []ABCEntry {
	if thresholds.A <= 0 {
		thresholds = DefaultABCThresholds
	}

	type skuAgg struct {
		sku     string
		name    string
		revenue decimal.Decimal
	}
	index := make(map[string]int)
	var aggs []skuAgg

	for _, s := range sales {
		if !isValid(s) {
			continue
		}
		i, ok := index[s.SKU]
		if !ok {
			i = len(aggs)
			index[s.SKU] = i
			aggs = append(aggs, skuAgg{sku: s.SKU, name: s.ProductName})
		}
		aggs[i].revenue = aggs[i].revenue.Add(s.GrossAmount)
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].revenue.GreaterThan(aggs[j].revenue)
	})

	total := decimal.Zero
	for _, a := range aggs {
		total = total.Add(a.revenue)
	}

	hundred := decimal.NewFromInt(100)
	cumulative := decimal.Zero
	entries := make([]ABCEntry, 0, len(aggs))
	for _, a := range aggs {
		share := decimal.Zero
		if total.IsPositive() {
			share = a.revenue.Div(total).Mul(hundred)
		}
		cumulative = cumulative.Add(share)

		classe := "C"
		ratio := cumulative.Div(hundred).InexactFloat64()
		if ratio <= thresholds.A {
			classe = "A"
		} else if ratio <= thresholds.B {
			classe = "B"
		}

		entries = append(entries, ABCEntry{
			SKU:                 a.sku,
			NomeProduto:         a.name,
			Faturamento:         round2(a.revenue),
			Percentual:          round2(share),
			PercentualAcumulado: round2(cumulative),
			Classe:              classe,
		})
	}
	return entries
}
