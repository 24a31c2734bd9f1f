// backend/src/metrics/kpis_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(date string, status, sku string, amount string) models.CanonicalSale {
	d, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		panic(err)
	}
	return models.CanonicalSale{
		SKU:         sku,
		ProductName: "Produto " + sku,
		OrderStatus: status,
		SaleDate:    d,
		GrossAmount: decimal.RequireFromString(amount),
	}
}

func TestSummary(t *testing.T) {
	sales := []models.CanonicalSale{
		sale("2025-01-10", models.StatusPago, "A", "10.50"),
		sale("2025-01-11", models.StatusCancelado, "B", "99.99"),
	}

	res := Summary(sales)
	assert.Equal(t, 10.50, res.Faturamento)
	assert.Equal(t, 1, res.PedidosTotais)
	assert.Equal(t, 10.50, res.TicketMedio)
	assert.Equal(t, 50.0, res.TaxaCancelamento)
}

func TestSummaryEmpty(t *testing.T) {
	res := Summary(nil)
	assert.Equal(t, SummaryResult{}, res)
}

func TestSummaryAllValidStatusesCount(t *testing.T) {
	sales := []models.CanonicalSale{
		sale("2025-01-10", models.StatusPago, "A", "10.00"),
		sale("2025-01-10", models.StatusEnviado, "B", "20.00"),
		sale("2025-01-10", models.StatusEntregue, "C", "30.00"),
		sale("2025-01-10", "devolvido", "D", "40.00"), // unknown status: neither valid nor cancelled
	}
	res := Summary(sales)
	assert.Equal(t, 60.0, res.Faturamento)
	assert.Equal(t, 3, res.PedidosTotais)
	assert.Equal(t, 20.0, res.TicketMedio)
	assert.Equal(t, 0.0, res.TaxaCancelamento)
}

func TestTimeseriesMatchesSummaryTotal(t *testing.T) {
	sales := []models.CanonicalSale{
		sale("2025-01-12", models.StatusPago, "A", "10.00"),
		sale("2025-01-10", models.StatusPago, "B", "15.25"),
		sale("2025-01-10", models.StatusEnviado, "C", "4.75"),
		sale("2025-01-11", models.StatusCancelado, "D", "50.00"),
	}

	points := Timeseries(sales)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-01-10", points[0].Data)
	assert.Equal(t, 20.0, points[0].Faturamento)
	assert.Equal(t, "2025-01-12", points[1].Data)
	assert.Equal(t, 10.0, points[1].Faturamento)

	var total float64
	for _, p := range points {
		total += p.Faturamento
	}
	assert.Equal(t, Summary(sales).Faturamento, total)
}

func TestStatusBreakdown(t *testing.T) {
	sales := []models.CanonicalSale{
		sale("2025-01-10", models.StatusPago, "A", "1"),
		sale("2025-01-10", models.StatusPago, "B", "1"),
		sale("2025-01-10", models.StatusCancelado, "C", "1"),
		sale("2025-01-10", "aguardando retirada", "D", "1"),
	}

	counts := StatusBreakdown(sales)
	require.Len(t, counts, 3)
	assert.Equal(t, StatusCount{Status: models.StatusPago, Count: 2}, counts[0])
	// Ties resolve alphabetically; the unknown status is reported, not hidden.
	assert.Equal(t, StatusCount{Status: "aguardando retirada", Count: 1}, counts[1])
	assert.Equal(t, StatusCount{Status: models.StatusCancelado, Count: 1}, counts[2])
}
