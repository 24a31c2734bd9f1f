// backend/src/metrics/rankings_test.go
package metrics

import (
	"testing"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopProducts(t *testing.T) {
	units := 3
	withUnits := sale("2025-01-10", models.StatusPago, "A", "300.00")
	withUnits.Units = &units
	profit := decimal.RequireFromString("45.50")
	withUnits.NetProfit = &profit

	sales := []models.CanonicalSale{
		withUnits,
		sale("2025-01-11", models.StatusPago, "B", "120.00"),
		sale("2025-01-12", models.StatusPago, "B", "80.00"),
		sale("2025-01-13", models.StatusCancelado, "A", "999.00"),
	}

	ranks := TopProducts(sales, 10)
	require.Len(t, ranks, 2)

	assert.Equal(t, "A", ranks[0].SKU)
	assert.Equal(t, 1, ranks[0].Pedidos)
	assert.Equal(t, 3, ranks[0].Unidades)
	assert.Equal(t, 300.0, ranks[0].Faturamento)
	assert.Equal(t, 45.50, ranks[0].Lucro)

	assert.Equal(t, "B", ranks[1].SKU)
	assert.Equal(t, 2, ranks[1].Pedidos)
	// Without units, each order counts as one unit.
	assert.Equal(t, 2, ranks[1].Unidades)
	assert.Equal(t, 200.0, ranks[1].Faturamento)
}

func TestTopProductsLimit(t *testing.T) {
	sales := []models.CanonicalSale{
		sale("2025-01-10", models.StatusPago, "A", "30.00"),
		sale("2025-01-10", models.StatusPago, "B", "20.00"),
		sale("2025-01-10", models.StatusPago, "C", "10.00"),
	}
	ranks := TopProducts(sales, 2)
	require.Len(t, ranks, 2)
	assert.Equal(t, "A", ranks[0].SKU)

	// Non-positive limit disables truncation.
	assert.Len(t, TopProducts(sales, 0), 3)
}

func TestGeoByState(t *testing.T) {
	sp := sale("2025-01-10", models.StatusPago, "A", "100.00")
	sp.BuyerState = "SP"
	sp2 := sale("2025-01-11", models.StatusPago, "B", "50.00")
	sp2.BuyerState = "SP"
	mg := sale("2025-01-12", models.StatusPago, "C", "70.00")
	mg.BuyerState = "MG"
	noState := sale("2025-01-13", models.StatusPago, "D", "10.00")

	ranks := GeoByState([]models.CanonicalSale{sp, sp2, mg, noState}, 10)
	require.Len(t, ranks, 3)
	assert.Equal(t, GeoRank{Local: "SP", Pedidos: 2, Faturamento: 150.0}, ranks[0])
	assert.Equal(t, GeoRank{Local: "MG", Pedidos: 1, Faturamento: 70.0}, ranks[1])
	// Missing geography is reported under a placeholder, not dropped.
	assert.Equal(t, GeoRank{Local: "—", Pedidos: 1, Faturamento: 10.0}, ranks[2])
}

func TestMarginByTier(t *testing.T) {
	cheap := sale("2025-01-10", models.StatusPago, "A", "40.00")
	cheap.PriceTier = models.TierBaixo
	margin := decimal.RequireFromString("25.00")
	netp := decimal.RequireFromString("10.00")
	cheap.MarginPercent = &margin
	cheap.NetProfit = &netp

	cheapNoMargin := sale("2025-01-11", models.StatusPago, "B", "30.00")
	cheapNoMargin.PriceTier = models.TierBaixo

	expensive := sale("2025-01-12", models.StatusPago, "C", "500.00")
	expensive.PriceTier = models.TierAlto

	noTier := sale("2025-01-13", models.StatusPago, "D", "10.00")

	tiers := MarginByTier([]models.CanonicalSale{cheap, cheapNoMargin, expensive, noTier})
	require.Len(t, tiers, 2)

	assert.Equal(t, models.TierAlto, tiers[0].Faixa)
	assert.Equal(t, 500.0, tiers[0].Faturamento)
	assert.Equal(t, 0.0, tiers[0].MargemMedia)

	low := tiers[1]
	assert.Equal(t, models.TierBaixo, low.Faixa)
	assert.Equal(t, 2, low.Pedidos)
	assert.Equal(t, 70.0, low.Faturamento)
	assert.Equal(t, 10.0, low.Lucro)
	// The average only spans records that carry a margin.
	assert.Equal(t, 25.0, low.MargemMedia)
}

func TestFilterApply(t *testing.T) {
	mkt1, mkt2 := int64(1), int64(2)
	tenant := int64(7)

	a := sale("2025-01-10", models.StatusPago, "A", "10.00")
	a.MarketplaceID = mkt1
	b := sale("2025-02-10", models.StatusPago, "B", "10.00")
	b.MarketplaceID = mkt2
	c := sale("2025-03-10", models.StatusPago, "C", "10.00")
	c.MarketplaceID = mkt1
	c.TenantID = &tenant

	all := []models.CanonicalSale{a, b, c}

	assert.Len(t, Filter{}.Apply(all), 3)

	jan := Filter{Start: a.SaleDate, End: a.SaleDate}
	require.Len(t, jan.Apply(all), 1)

	byMkt := Filter{MarketplaceID: &mkt1}
	assert.Len(t, byMkt.Apply(all), 2)

	byTenant := Filter{TenantID: &tenant}
	got := byTenant.Apply(all)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].SKU)
}
