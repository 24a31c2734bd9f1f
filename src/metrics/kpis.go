// backend/src/metrics/kpis.go
package metrics

import (
	"sort"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/shopspring/decimal"
)

// SummaryResult is the KPI card block of the dashboard. Revenue and average
// ticket are computed over valid statuses only; the cancellation rate relates
// cancelled orders to everything that was either valid or cancelled.
type SummaryResult struct {
	Faturamento      float64 `json:"faturamento"`
	PedidosTotais    int     `json:"pedidos_totais"`
	TicketMedio      float64 `json:"ticket_medio"`
	TaxaCancelamento float64 `json:"taxa_cancelamento"`
}

// Summary computes the KPI block. Empty input yields a zero-valued result,
// never an error: "no data" is a renderable state.
func Summary(sales []models.CanonicalSale) SummaryResult {
	revenue := decimal.Zero
	validCount := 0
	cancelled := 0

	for _, s := range sales {
		switch {
		case isValid(s):
			revenue = revenue.Add(s.GrossAmount)
			validCount++
		case s.OrderStatus == models.StatusCancelado:
			cancelled++
		}
	}

	res := SummaryResult{
		Faturamento:   round2(revenue),
		PedidosTotais: validCount,
	}
	if validCount > 0 {
		res.TicketMedio = round2(revenue.Div(decimal.NewFromInt(int64(validCount))))
	}
	if total := validCount + cancelled; total > 0 {
		rate := decimal.NewFromInt(int64(cancelled)).
			Div(decimal.NewFromInt(int64(total))).
			Mul(decimal.NewFromInt(100))
		res.TaxaCancelamento = round2(rate)
	}
	return res
}

// TimeseriesPoint is one day of revenue.
type TimeseriesPoint struct {
	Data        string  `json:"data"` // YYYY-MM-DD
	Faturamento float64 `json:"faturamento_diario"`
}

// Timeseries groups valid-status revenue by sale date, ascending.
func Timeseries(sales []models.CanonicalSale) []TimeseriesPoint {
	byDay := make(map[string]decimal.Decimal)
	for _, s := range sales {
		if !isValid(s) {
			continue
		}
		day := s.SaleDate.Format("2006-01-02")
		byDay[day] = byDay[day].Add(s.GrossAmount)
	}

	points := make([]TimeseriesPoint, 0, len(byDay))
	for day, total := range byDay {
		points = append(points, TimeseriesPoint{Data: day, Faturamento: round2(total)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Data < points[j].Data })
	return points
}

// StatusCount is one slice of the status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusBreakdown counts sales per normalized status, including statuses that
// matched no canonical alias, so novel marketplace vocabulary is visible to
// operators. Descending by count, ties by name.
func StatusBreakdown(sales []models.CanonicalSale) []StatusCount {
	byStatus := make(map[string]int)
	for _, s := range sales {
		byStatus[s.OrderStatus]++
	}

	counts := make([]StatusCount, 0, len(byStatus))
	for status, n := range byStatus {
		counts = append(counts, StatusCount{Status: status, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Status < counts[j].Status
	})
	return counts
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
