// backend/src/model/sale_store.go
package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleFilter bounds a sales query. Zero dates mean unbounded; nil ids mean
// "all". Limit <= 0 disables pagination.
type SaleFilter struct {
	Start         time.Time
	End           time.Time
	MarketplaceID *int64
	TenantID      *int64
	Limit         int
	Offset        int
}

const saleColumns = `id, marketplace_id, tenant_id, source, order_number, sku, product_name,
	listing_title, order_status, sale_date, gross_amount, units, unit_price,
	buyer_name, buyer_document, buyer_state, buyer_city, shipping_method,
	product_revenue, markup_revenue, installment_fee, marketplace_fee,
	shipping_revenue, shipping_fee, shipping_cost, weight_adjustment, refunds,
	price_tier, net_profit, margin_percent`

// InsertSalesBatch persists one import batch inside a single transaction.
// The batch commits as a unit: a failure on any row rolls back everything,
// leaving re-import as the recovery path. Row-level parse failures were
// already excluded by the pipeline and never reach this point.
func InsertSalesBatch(ctx context.Context, db *sql.DB, batchID uuid.UUID, sales []models.CanonicalSale) error {
	if len(sales) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales (
			batch_id, marketplace_id, tenant_id, source, order_number, sku, product_name,
			listing_title, order_status, sale_date, gross_amount, units, unit_price,
			buyer_name, buyer_document, buyer_state, buyer_city, shipping_method,
			product_revenue, markup_revenue, installment_fee, marketplace_fee,
			shipping_revenue, shipping_fee, shipping_cost, weight_adjustment, refunds,
			price_tier, net_profit, margin_percent, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("preparing sales insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range sales {
		_, err := stmt.ExecContext(ctx,
			batchID.String(), s.MarketplaceID, s.TenantID, s.Source, nullStr(s.OrderNumber),
			s.SKU, s.ProductName, nullStr(s.ListingTitle), s.OrderStatus,
			s.SaleDate.Format("2006-01-02"), s.GrossAmount.String(), s.Units,
			decStr(s.UnitPrice), nullStr(s.BuyerName), nullStr(s.BuyerDocument),
			nullStr(s.BuyerState), nullStr(s.BuyerCity), nullStr(s.ShippingMethod),
			decStr(s.ProductRevenue), decStr(s.MarkupRevenue), decStr(s.InstallmentFee),
			decStr(s.MarketplaceFee), decStr(s.ShippingRevenue), decStr(s.ShippingFee),
			decStr(s.ShippingCost), decStr(s.WeightAdjustment), decStr(s.Refunds),
			nullStr(s.PriceTier), decStr(s.NetProfit), decStr(s.MarginPercent), now,
		)
		if err != nil {
			return fmt.Errorf("inserting sale sku=%s: %w", s.SKU, err)
		}
	}
	return tx.Commit()
}

// ListSales returns canonical records matching the filter, newest first.
// It feeds both the paginated listing and the metrics engine.
func ListSales(ctx context.Context, db *sql.DB, f SaleFilter) ([]models.CanonicalSale, error) {
	where, args := buildWhere(f)
	query := fmt.Sprintf(`SELECT %s FROM sales %s ORDER BY sale_date DESC, id DESC`, saleColumns, where)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	sales := make([]models.CanonicalSale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// CountSales returns the number of records matching the filter, for
// pagination headers.
func CountSales(ctx context.Context, db *sql.DB, f SaleFilter) (int, error) {
	where, args := buildWhere(f)
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales "+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting sales: %w", err)
	}
	return n, nil
}

// DataBoundaries returns the earliest and latest sale date on record for the
// given scope, or ok=false when there is no data at all. The dashboard uses
// it to auto-adjust a period the user picked that contains nothing.
func DataBoundaries(ctx context.Context, db *sql.DB, marketplaceID, tenantID *int64) (min, max time.Time, ok bool, err error) {
	where, args := buildWhere(SaleFilter{MarketplaceID: marketplaceID, TenantID: tenantID})
	var minStr, maxStr sql.NullString
	err = db.QueryRowContext(ctx, "SELECT MIN(sale_date), MAX(sale_date) FROM sales "+where, args...).
		Scan(&minStr, &maxStr)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("querying data boundaries: %w", err)
	}
	if !minStr.Valid || !maxStr.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	min, err = time.ParseInLocation("2006-01-02", minStr.String, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	max, err = time.ParseInLocation("2006-01-02", maxStr.String, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return min, max, true, nil
}

func buildWhere(f SaleFilter) (string, []any) {
	var conds []string
	var args []any
	if !f.Start.IsZero() {
		conds = append(conds, "sale_date >= ?")
		args = append(args, f.Start.Format("2006-01-02"))
	}
	if !f.End.IsZero() {
		conds = append(conds, "sale_date <= ?")
		args = append(args, f.End.Format("2006-01-02"))
	}
	if f.MarketplaceID != nil {
		conds = append(conds, "marketplace_id = ?")
		args = append(args, *f.MarketplaceID)
	}
	if f.TenantID != nil {
		conds = append(conds, "tenant_id = ?")
		args = append(args, *f.TenantID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanSale(rows *sql.Rows) (models.CanonicalSale, error) {
	var s models.CanonicalSale
	var tenantID sql.NullInt64
	var units sql.NullInt64
	var saleDate string
	var gross string
	var orderNumber, listingTitle, buyerName, buyerDocument, buyerState, buyerCity, shippingMethod, priceTier sql.NullString
	var unitPrice, productRevenue, markupRevenue, installmentFee, marketplaceFee sql.NullString
	var shippingRevenue, shippingFee, shippingCost, weightAdjustment, refunds, netProfit, marginPercent sql.NullString

	err := rows.Scan(
		&s.ID, &s.MarketplaceID, &tenantID, &s.Source, &orderNumber, &s.SKU, &s.ProductName,
		&listingTitle, &s.OrderStatus, &saleDate, &gross, &units, &unitPrice,
		&buyerName, &buyerDocument, &buyerState, &buyerCity, &shippingMethod,
		&productRevenue, &markupRevenue, &installmentFee, &marketplaceFee,
		&shippingRevenue, &shippingFee, &shippingCost, &weightAdjustment, &refunds,
		&priceTier, &netProfit, &marginPercent,
	)
	if err != nil {
		return s, fmt.Errorf("scanning sale: %w", err)
	}

	if tenantID.Valid {
		s.TenantID = &tenantID.Int64
	}
	if units.Valid {
		u := int(units.Int64)
		s.Units = &u
	}
	s.SaleDate, err = time.ParseInLocation("2006-01-02", saleDate, time.UTC)
	if err != nil {
		return s, fmt.Errorf("parsing stored sale_date %q: %w", saleDate, err)
	}
	s.GrossAmount, err = decimal.NewFromString(gross)
	if err != nil {
		return s, fmt.Errorf("parsing stored gross_amount %q: %w", gross, err)
	}

	s.OrderNumber = orderNumber.String
	s.ListingTitle = listingTitle.String
	s.BuyerName = buyerName.String
	s.BuyerDocument = buyerDocument.String
	s.BuyerState = buyerState.String
	s.BuyerCity = buyerCity.String
	s.ShippingMethod = shippingMethod.String
	s.PriceTier = priceTier.String

	for _, pair := range []struct {
		src sql.NullString
		dst **decimal.Decimal
	}{
		{unitPrice, &s.UnitPrice},
		{productRevenue, &s.ProductRevenue},
		{markupRevenue, &s.MarkupRevenue},
		{installmentFee, &s.InstallmentFee},
		{marketplaceFee, &s.MarketplaceFee},
		{shippingRevenue, &s.ShippingRevenue},
		{shippingFee, &s.ShippingFee},
		{shippingCost, &s.ShippingCost},
		{weightAdjustment, &s.WeightAdjustment},
		{refunds, &s.Refunds},
		{netProfit, &s.NetProfit},
		{marginPercent, &s.MarginPercent},
	} {
		if !pair.src.Valid {
			continue
		}
		d, err := decimal.NewFromString(pair.src.String)
		if err != nil {
			return s, fmt.Errorf("parsing stored decimal %q: %w", pair.src.String, err)
		}
		*pair.dst = &d
	}
	return s, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func decStr(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
