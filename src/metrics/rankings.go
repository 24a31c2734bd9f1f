// backend/src/metrics/rankings.go
package metrics

import (
	"sort"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/shopspring/decimal"
)

// ProductRank is one product of the top-products ranking.
type ProductRank struct {
	SKU         string  `json:"sku"`
	NomeProduto string  `json:"nome_produto"`
	Pedidos     int     `json:"pedidos"`
	Unidades    int     `json:"unidades"`
	Faturamento float64 `json:"faturamento"`
	Lucro       float64 `json:"lucro"`
}

// GeoRank is one state or city of the geographic breakdown.
type GeoRank struct {
	Local       string  `json:"local"`
	Pedidos     int     `json:"pedidos"`
	Faturamento float64 `json:"faturamento"`
}

// TierMargin aggregates revenue and profit per price tier.
type TierMargin struct {
	Faixa       string  `json:"faixa_preco"`
	Pedidos     int     `json:"pedidos"`
	Faturamento float64 `json:"faturamento"`
	Lucro       float64 `json:"lucro"`
	MargemMedia float64 `json:"margem_media"`
}

// TopProducts ranks SKUs by valid-status revenue, truncated to limit
// (limit <= 0 means no truncation).
func TopProducts(sales []models.CanonicalSale, limit int) []ProductRank {
	type agg struct {
		name    string
		orders  int
		units   int
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	bysku := make(map[string]*agg)
	order := make([]string, 0)

	for _, s := range sales {
		if !isValid(s) {
			continue
		}
		a, ok := bysku[s.SKU]
		if !ok {
			a = &agg{name: s.ProductName}
			bysku[s.SKU] = a
			order = append(order, s.SKU)
		}
		a.orders++
		if s.Units != nil {
			a.units += *s.Units
		} else {
			a.units++
		}
		a.revenue = a.revenue.Add(s.GrossAmount)
		if s.NetProfit != nil {
			a.profit = a.profit.Add(*s.NetProfit)
		}
	}

	ranks := make([]ProductRank, 0, len(order))
	for _, sku := range order {
		a := bysku[sku]
		ranks = append(ranks, ProductRank{
			SKU:         sku,
			NomeProduto: a.name,
			Pedidos:     a.orders,
			Unidades:    a.units,
			Faturamento: round2(a.revenue),
			Lucro:       round2(a.profit),
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Faturamento > ranks[j].Faturamento })
	return truncate(ranks, limit)
}

// GeoByState ranks buyer states by valid-status revenue. Records without a
// state are grouped under "—" so the completeness gap stays visible.
func GeoByState(sales []models.CanonicalSale, limit int) []GeoRank {
	return geoBreakdown(sales, limit, func(s models.CanonicalSale) string { return s.BuyerState })
}

// GeoByCity ranks buyer cities by valid-status revenue.
func GeoByCity(sales []models.CanonicalSale, limit int) []GeoRank {
	return geoBreakdown(sales, limit, func(s models.CanonicalSale) string { return s.BuyerCity })
}

func geoBreakdown(sales []models.CanonicalSale, limit int, dim func(models.CanonicalSale) string) []GeoRank {
	type agg struct {
		orders  int
		revenue decimal.Decimal
	}
	groups := make(map[string]*agg)
	order := make([]string, 0)

	for _, s := range sales {
		if !isValid(s) {
			continue
		}
		key := dim(s)
		if key == "" {
			key = "—"
		}
		a, ok := groups[key]
		if !ok {
			a = &agg{}
			groups[key] = a
			order = append(order, key)
		}
		a.orders++
		a.revenue = a.revenue.Add(s.GrossAmount)
	}

	ranks := make([]GeoRank, 0, len(order))
	for _, key := range order {
		a := groups[key]
		ranks = append(ranks, GeoRank{Local: key, Pedidos: a.orders, Faturamento: round2(a.revenue)})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Faturamento > ranks[j].Faturamento })
	return truncate(ranks, limit)
}

// MarginByTier aggregates valid-status sales per price tier. The average
// margin only averages records that actually have a margin; tiers where no
// record carries financial sub-components report zero.
func MarginByTier(sales []models.CanonicalSale) []TierMargin {
	type agg struct {
		orders     int
		revenue    decimal.Decimal
		profit     decimal.Decimal
		marginSum  decimal.Decimal
		marginSeen int
	}
	groups := make(map[string]*agg)

	for _, s := range sales {
		if !isValid(s) || s.PriceTier == "" {
			continue
		}
		a, ok := groups[s.PriceTier]
		if !ok {
			a = &agg{}
			groups[s.PriceTier] = a
		}
		a.orders++
		a.revenue = a.revenue.Add(s.GrossAmount)
		if s.NetProfit != nil {
			a.profit = a.profit.Add(*s.NetProfit)
		}
		if s.MarginPercent != nil {
			a.marginSum = a.marginSum.Add(*s.MarginPercent)
			a.marginSeen++
		}
	}

	result := make([]TierMargin, 0, len(groups))
	for _, tier := range []string{models.TierBaixo, models.TierMedio, models.TierAlto} {
		a, ok := groups[tier]
		if !ok {
			continue
		}
		tm := TierMargin{
			Faixa:       tier,
			Pedidos:     a.orders,
			Faturamento: round2(a.revenue),
			Lucro:       round2(a.profit),
		}
		if a.marginSeen > 0 {
			tm.MargemMedia = round2(a.marginSum.Div(decimal.NewFromInt(int64(a.marginSeen))))
		}
		result = append(result, tm)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Faturamento > result[j].Faturamento })
	return result
}

func truncate[T any](xs []T, limit int) []T {
	if limit > 0 && len(xs) > limit {
		return xs[:limit]
	}
	return xs
}
