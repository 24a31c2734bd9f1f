// backend/src/services/ingestion_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/alyal/vendalytics/backend/src/model"
	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/alyal/vendalytics/backend/src/parsers"
	"github.com/alyal/vendalytics/backend/src/security/validation"
	"github.com/google/uuid"
)

type ingestionServiceImpl struct {
	db        *sql.DB
	adapters  []parsers.Adapter
	fallback  parsers.Adapter
	dashboard DashboardService
}

// NewIngestionService wires the pipeline. Adapters are tried in order by the
// format detector; fallback handles files no fingerprint claims. The
// dashboard service (optional) has its cache invalidated after every commit.
func NewIngestionService(db *sql.DB, adapters []parsers.Adapter, fallback parsers.Adapter, dashboard DashboardService) IngestionService {
	return &ingestionServiceImpl{
		db:        db,
		adapters:  adapters,
		fallback:  fallback,
		dashboard: dashboard,
	}
}

func (s *ingestionServiceImpl) ProcessUpload(ctx context.Context, file io.Reader, marketplaceID int64, tenantID *int64, filename string, forceAdapter string) (*models.ImportResult, error) {
	marketplace, err := model.GetMarketplaceByID(ctx, s.db, marketplaceID)
	if err != nil {
		if errors.Is(err, model.ErrMarketplaceNotFound) {
			return nil, ErrUnknownMarketplace
		}
		return nil, err
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyUpload
	}

	adapter, err := s.pickAdapter(raw, forceAdapter)
	if err != nil {
		return nil, err
	}
	logger.L.Info("Adapter selected for upload",
		"adapter", adapter.Name(), "marketplace", marketplace.Nome, "filename", filename, "bytes", len(raw))

	records, rowErrors, err := adapter.ParseFile(raw)
	if err != nil {
		logger.L.Warn("Upload failed with fatal file error",
			"adapter", adapter.Name(), "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	batchID := uuid.New()
	for i := range records {
		records[i].MarketplaceID = marketplaceID
		records[i].TenantID = tenantID
		sanitizeRecord(&records[i])
	}

	if err := model.InsertSalesBatch(ctx, s.db, batchID, records); err != nil {
		return nil, fmt.Errorf("persisting batch %s: %w", batchID, err)
	}

	if s.dashboard != nil && len(records) > 0 {
		s.dashboard.InvalidateCache()
	}

	result := &models.ImportResult{
		BatchID:       batchID,
		MarketplaceID: marketplaceID,
		TenantID:      tenantID,
		Adapter:       adapter.Name(),
		Filename:      filename,
		Records:       records,
		Imported:      len(records),
		Failed:        len(rowErrors),
		RowErrors:     rowErrors,
	}
	logger.L.Info("Upload processed",
		"batchID", batchID, "adapter", adapter.Name(), "imported", result.Imported, "rowErrors", result.Failed)
	return result, nil
}

// sanitizeRecord cleans every free-text field before persistence: HTML
// stripped, formula triggers neutralized, lengths capped. Amounts and dates
// are already typed at this point and need no treatment.
func sanitizeRecord(rec *models.CanonicalSale) {
	rec.OrderNumber = validation.CleanField(rec.OrderNumber, validation.MaxOrderIDLength)
	rec.SKU = validation.CleanField(rec.SKU, validation.MaxSKULength)
	rec.ProductName = validation.CleanField(rec.ProductName, validation.MaxProductNameLength)
	rec.ListingTitle = validation.CleanField(rec.ListingTitle, validation.MaxProductNameLength)
	rec.BuyerName = validation.CleanField(rec.BuyerName, validation.MaxBuyerNameLength)
	rec.BuyerDocument = validation.CleanField(rec.BuyerDocument, validation.MaxDocumentLength)
	rec.BuyerCity = validation.CleanField(rec.BuyerCity, validation.MaxCityLength)
	rec.BuyerState = validation.CleanField(rec.BuyerState, validation.MaxStateLength)
	rec.ShippingMethod = validation.CleanField(rec.ShippingMethod, validation.MaxProductNameLength)
}

func (s *ingestionServiceImpl) pickAdapter(raw []byte, forceAdapter string) (parsers.Adapter, error) {
	if forceAdapter != "" {
		for _, a := range append(s.adapters, s.fallback) {
			if a.Name() == forceAdapter {
				return a, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, forceAdapter)
	}

	headers, err := parsers.FileHeaders(raw)
	if err != nil {
		// Header discovery failing on text files is fatal; the adapters
		// would fail the same way with a worse message.
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}
	return parsers.SelectAdapter(headers, s.adapters, s.fallback), nil
}
