// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"

	"github.com/alyal/vendalytics/backend/src/metrics"
	"github.com/alyal/vendalytics/backend/src/model"
	"github.com/alyal/vendalytics/backend/src/models"
)

// Common service errors.
var (
	ErrParsingFailed      = errors.New("file parsing failed")
	ErrUnknownMarketplace = errors.New("unknown marketplace")
	ErrUnknownAdapter     = errors.New("unknown adapter")
	ErrEmptyUpload        = errors.New("uploaded file is empty")
)

// IngestionService runs the full upload pipeline: decode, detect format,
// parse with per-row error isolation, persist the batch atomically.
//
// A fatal file problem comes back as an error and no ImportResult. A file
// where every row failed comes back as a zero-Imported ImportResult with the
// row errors, which the caller must present differently.
type IngestionService interface {
	ProcessUpload(ctx context.Context, file io.Reader, marketplaceID int64, tenantID *int64, filename string, forceAdapter string) (*models.ImportResult, error)
}

// DashboardService computes the analytics blocks over stored sales,
// memoizing per-filter results until the next upload invalidates them.
type DashboardService interface {
	Summary(ctx context.Context, f model.SaleFilter) (metrics.SummaryResult, error)
	SummaryWithComparison(ctx context.Context, f model.SaleFilter) (*SummaryComparison, error)
	Timeseries(ctx context.Context, f model.SaleFilter) ([]metrics.TimeseriesPoint, error)
	StatusBreakdown(ctx context.Context, f model.SaleFilter) ([]metrics.StatusCount, error)
	ABC(ctx context.Context, f model.SaleFilter) ([]metrics.ABCEntry, error)
	TopProducts(ctx context.Context, f model.SaleFilter, limit int) ([]metrics.ProductRank, error)
	GeoStates(ctx context.Context, f model.SaleFilter, limit int) ([]metrics.GeoRank, error)
	GeoCities(ctx context.Context, f model.SaleFilter, limit int) ([]metrics.GeoRank, error)
	MarginTiers(ctx context.Context, f model.SaleFilter) ([]metrics.TierMargin, error)
	RFM(ctx context.Context, f model.SaleFilter) ([]metrics.RFMCustomer, error)
	Cohort(ctx context.Context, f model.SaleFilter) ([]metrics.CohortRow, error)

	// AdjustPeriod widens an empty requested window to the stored data
	// boundaries, mirroring the dashboard's "período sem dados" fallback.
	AdjustPeriod(ctx context.Context, f model.SaleFilter) (model.SaleFilter, bool, error)

	InvalidateCache()
}

// SummaryComparison pairs the current KPI block with the immediately
// preceding period of the same length, plus rendered insight sentences.
type SummaryComparison struct {
	Current  metrics.SummaryResult `json:"current"`
	Previous metrics.SummaryResult `json:"previous"`
	Insights []string              `json:"insights"`
}
