// backend/src/models/result.go
package models

import "github.com/google/uuid"

// ImportResult is the outcome of a single file ingestion. RowErrors only holds
// row-scoped problems; a fatal file problem (undecodable bytes, missing
// required columns, empty file) is returned as an error by the pipeline and
// never produces an ImportResult.
type ImportResult struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	MarketplaceID int64           `json:"marketplace_id"`
	TenantID      *int64          `json:"tenant_id,omitempty"`
	Adapter       string          `json:"adapter"`
	Filename      string          `json:"filename"`
	Records       []CanonicalSale `json:"-"`
	Imported      int             `json:"imported"`
	Failed        int             `json:"failed"`
	RowErrors     []string        `json:"row_errors"`
}

// Marketplace is a registered sales channel. Uploads are always attributed to
// one explicitly by the caller; the adapter fingerprint is advisory only.
type Marketplace struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}
