// backend/src/services/dashboard_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alyal/vendalytics/backend/src/metrics"
	"github.com/alyal/vendalytics/backend/src/model"
	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/alyal/vendalytics/backend/src/utils"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// Cache key templates, one per dashboard block, parameterized by filter.
const (
	ckSales      = "sales_%s"
	ckSummary    = "summary_%s"
	ckTimeseries = "timeseries_%s"
	ckStatus     = "status_%s"
	ckABC        = "abc_%s"
	ckRFM        = "rfm_%s"
	ckCohort     = "cohort_%s"
)

type dashboardServiceImpl struct {
	db          *sql.DB
	reportCache *cache.Cache
	abc         metrics.ABCThresholds
}

// NewDashboardService builds the metrics facade over the sale store. Results
// are cached per filter until the next successful upload.
func NewDashboardService(db *sql.DB, reportCache *cache.Cache, abc metrics.ABCThresholds) DashboardService {
	return &dashboardServiceImpl{db: db, reportCache: reportCache, abc: abc}
}

// loadSales fetches (and memoizes) the canonical record set for a filter.
// Every metric of the same dashboard view shares this one query.
func (s *dashboardServiceImpl) loadSales(ctx context.Context, f model.SaleFilter) ([]models.CanonicalSale, error) {
	key := fmt.Sprintf(ckSales, filterKey(f))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]models.CanonicalSale), nil
	}
	sales, err := model.ListSales(ctx, s.db, model.SaleFilter{
		Start: f.Start, End: f.End, MarketplaceID: f.MarketplaceID, TenantID: f.TenantID,
	})
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(key, sales, cache.DefaultExpiration)
	return sales, nil
}

func (s *dashboardServiceImpl) Summary(ctx context.Context, f model.SaleFilter) (metrics.SummaryResult, error) {
	key := fmt.Sprintf(ckSummary, filterKey(f))
	if cached, found := s.reportCache.Get(key); found {
		return cached.(metrics.SummaryResult), nil
	}
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return metrics.SummaryResult{}, err
	}
	res := metrics.Summary(sales)
	s.reportCache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *dashboardServiceImpl) SummaryWithComparison(ctx context.Context, f model.SaleFilter) (*SummaryComparison, error) {
	current, err := s.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	prevFilter := previousPeriod(f)
	previous, err := s.Summary(ctx, prevFilter)
	if err != nil {
		return nil, err
	}
	abcData, err := s.ABC(ctx, f)
	if err != nil {
		return nil, err
	}
	return &SummaryComparison{
		Current:  current,
		Previous: previous,
		Insights: buildInsights(current, previous, abcData),
	}, nil
}

func (s *dashboardServiceImpl) Timeseries(ctx context.Context, f model.SaleFilter) ([]metrics.TimeseriesPoint, error) {
	key := fmt.Sprintf(ckTimeseries, filterKey(f))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]metrics.TimeseriesPoint), nil
	}
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	res := metrics.Timeseries(sales)
	s.reportCache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *dashboardServiceImpl) StatusBreakdown(ctx context.Context, f model.SaleFilter) ([]metrics.StatusCount, error) {
	key := fmt.Sprintf(ckStatus, filterKey(f))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]metrics.StatusCount), nil
	}
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	res := metrics.StatusBreakdown(sales)
	s.reportCache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *dashboardServiceImpl) ABC(ctx context.Context, f model.SaleFilter) ([]metrics.ABCEntry, error) {
	key := fmt.Sprintf(ckABC, filterKey(f))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]metrics.ABCEntry), nil
	}
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	res := metrics.ABCByRevenue(sales, s.abc)
	s.reportCache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *dashboardServiceImpl) TopProducts(ctx context.Context, f model.SaleFilter, limit int) ([]metrics.ProductRank, error) {
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	return metrics.TopProducts(sales, limit), nil
}

func (s *dashboardServiceImpl) GeoStates(ctx context.Context, f model.SaleFilter, limit int) ([]metrics.GeoRank, error) {
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	return metrics.GeoByState(sales, limit), nil
}

func (s *dashboardServiceImpl) GeoCities(ctx context.Context, f model.SaleFilter, limit int) ([]metrics.GeoRank, error) {
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	return metrics.GeoByCity(sales, limit), nil
}

func (s *dashboardServiceImpl) MarginTiers(ctx context.Context, f model.SaleFilter) ([]metrics.TierMargin, error) {
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	return metrics.MarginByTier(sales), nil
}

func (s *dashboardServiceImpl) RFM(ctx context.Context, f model.SaleFilter) ([]metrics.RFMCustomer, error) {
	key := fmt.Sprintf(ckRFM, filterKey(f))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]metrics.RFMCustomer), nil
	}
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	reference := f.End
	if reference.IsZero() {
		reference = time.Now().UTC()
	}
	res := metrics.RFMSegments(sales, reference)
	s.reportCache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *dashboardServiceImpl) Cohort(ctx context.Context, f model.SaleFilter) ([]metrics.CohortRow, error) {
	key := fmt.Sprintf(ckCohort, filterKey(f))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]metrics.CohortRow), nil
	}
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return nil, err
	}
	res := metrics.CohortRetention(sales)
	s.reportCache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *dashboardServiceImpl) AdjustPeriod(ctx context.Context, f model.SaleFilter) (model.SaleFilter, bool, error) {
	sales, err := s.loadSales(ctx, f)
	if err != nil {
		return f, false, err
	}
	if len(sales) > 0 {
		return f, false, nil
	}
	min, max, ok, err := model.DataBoundaries(ctx, s.db, f.MarketplaceID, f.TenantID)
	if err != nil || !ok {
		return f, false, err
	}
	if min.Equal(f.Start) && max.Equal(f.End) {
		return f, false, nil
	}
	f.Start, f.End = min, max
	return f, true, nil
}

func (s *dashboardServiceImpl) InvalidateCache() {
	s.reportCache.Flush()
}

func filterKey(f model.SaleFilter) string {
	mkt, tenant := int64(0), int64(0)
	if f.MarketplaceID != nil {
		mkt = *f.MarketplaceID
	}
	if f.TenantID != nil {
		tenant = *f.TenantID
	}
	return fmt.Sprintf("%s_%s_mp%d_t%d",
		f.Start.Format("2006-01-02"), f.End.Format("2006-01-02"), mkt, tenant)
}

// previousPeriod shifts the filter to the window of identical length that
// ends the day before the current one starts.
func previousPeriod(f model.SaleFilter) model.SaleFilter {
	days := int(f.End.Sub(f.Start).Hours()/24) + 1
	prevEnd := f.Start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))
	f.Start, f.End = prevStart, prevEnd
	return f
}

func buildInsights(current, previous metrics.SummaryResult, abcData []metrics.ABCEntry) []string {
	insights := []string{
		fmt.Sprintf("Faturamento do período: %s (%s).",
			utils.FormatCurrencyBR(decimal.NewFromFloat(current.Faturamento)),
			variationText(current.Faturamento, previous.Faturamento)),
		fmt.Sprintf("Total de pedidos válidos: %d (%s).",
			current.PedidosTotais,
			variationText(float64(current.PedidosTotais), float64(previous.PedidosTotais))),
	}
	if current.TaxaCancelamento > 0 {
		insights = append(insights, fmt.Sprintf("Taxa de cancelamento em %s%% no período analisado.",
			utils.FormatDecimalBR(current.TaxaCancelamento, 1)))
	} else {
		insights = append(insights, "Nenhum pedido cancelado no período selecionado.")
	}
	if len(abcData) > 0 {
		top := abcData[0]
		insights = append(insights, fmt.Sprintf("SKU de maior faturamento: %s com %s%% do total (classe %s).",
			top.SKU, utils.FormatDecimalBR(top.Percentual, 1), top.Classe))
	}
	return insights
}

func variationText(current, previous float64) string {
	if previous != 0 {
		variation := (current - previous) / previous * 100
		switch {
		case variation > 0:
			return fmt.Sprintf("aumento de %s%% em relação ao período anterior", utils.FormatDecimalBR(variation, 1))
		case variation < 0:
			return fmt.Sprintf("queda de %s%% em relação ao período anterior", utils.FormatDecimalBR(-variation, 1))
		default:
			return "estabilidade em relação ao período anterior"
		}
	}
	if current > 0 {
		return "crescimento sobre um período sem registros"
	}
	return "sem variação em relação ao período anterior"
}
