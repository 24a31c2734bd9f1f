// backend/src/models/sale.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical order statuses. Every adapter normalizes marketplace-native status
// strings into one of these; anything it cannot map passes through in its
// normalized form so the breakdown reports expose the gap instead of hiding it.
const (
	StatusPago      = "pago"
	StatusEnviado   = "enviado"
	StatusEntregue  = "entregue"
	StatusCancelado = "cancelado"
)

// ValidStatuses are the statuses that count toward revenue and order totals.
// Cancelled sales are excluded from revenue but feed the cancellation rate.
var ValidStatuses = map[string]bool{
	StatusPago:     true,
	StatusEnviado:  true,
	StatusEntregue: true,
}

// Price tier labels, derived from the unit price (or the gross amount when no
// unit price is available) against the 50/200 thresholds.
const (
	TierBaixo = "Baixo"
	TierMedio = "Médio"
	TierAlto  = "Alto"
)

var (
	tierLowMax  = decimal.NewFromInt(50)
	tierHighMin = decimal.NewFromInt(200)
)

// CanonicalSale is the unified, source-independent representation of one sale
// line. Each adapter is responsible for populating as many fields as possible
// directly from the source file, including the normalized status and the
// derived price tier / profit figures. Records are built once by the ingestion
// pipeline and never mutated afterwards; corrections happen via re-import.
type CanonicalSale struct {
	ID            int64     `json:"id,omitempty"` // Database primary key
	MarketplaceID int64     `json:"marketplace_id"`
	TenantID      *int64    `json:"tenant_id,omitempty"` // nil means unassigned
	Source        string    `json:"source"`              // Adapter that produced the record
	OrderNumber   string    `json:"order_number,omitempty"`
	SKU           string    `json:"sku"`
	ProductName   string    `json:"product_name"`
	ListingTitle  string    `json:"listing_title,omitempty"`
	OrderStatus   string    `json:"order_status"`
	SaleDate      time.Time `json:"sale_date"` // Date only, midnight UTC

	GrossAmount decimal.Decimal  `json:"gross_amount"`
	Units       *int             `json:"units,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`

	BuyerName      string `json:"buyer_name,omitempty"`
	BuyerDocument  string `json:"buyer_document,omitempty"`
	BuyerState     string `json:"buyer_state,omitempty"`
	BuyerCity      string `json:"buyer_city,omitempty"`
	ShippingMethod string `json:"shipping_method,omitempty"`

	// Financial sub-components, present only when the source reports them.
	ProductRevenue   *decimal.Decimal `json:"product_revenue,omitempty"`
	MarkupRevenue    *decimal.Decimal `json:"markup_revenue,omitempty"`
	InstallmentFee   *decimal.Decimal `json:"installment_fee,omitempty"`
	MarketplaceFee   *decimal.Decimal `json:"marketplace_fee,omitempty"`
	ShippingRevenue  *decimal.Decimal `json:"shipping_revenue,omitempty"`
	ShippingFee      *decimal.Decimal `json:"shipping_fee,omitempty"`
	ShippingCost     *decimal.Decimal `json:"shipping_cost,omitempty"`
	WeightAdjustment *decimal.Decimal `json:"weight_adjustment,omitempty"`
	Refunds          *decimal.Decimal `json:"refunds,omitempty"`

	// Derived fields, filled by ComputeDerived.
	PriceTier     string           `json:"price_tier,omitempty"`
	NetProfit     *decimal.Decimal `json:"net_profit,omitempty"`
	MarginPercent *decimal.Decimal `json:"margin_percent,omitempty"`
}

// ComputeDerived fills PriceTier, NetProfit and MarginPercent from the fields
// already present on the record. Adapters call it exactly once, after mapping.
//
// The reference price for the tier is the unit price when present, otherwise
// the gross amount. Net profit is product revenue minus the absolute value of
// every cost component (sources report costs with inconsistent signs), and is
// only computed when product revenue is present and positive.
func (s *CanonicalSale) ComputeDerived() {
	ref := s.GrossAmount
	if s.UnitPrice != nil {
		ref = *s.UnitPrice
	}
	if !ref.IsZero() {
		switch {
		case ref.LessThan(tierLowMax):
			s.PriceTier = TierBaixo
		case ref.LessThanOrEqual(tierHighMin):
			s.PriceTier = TierMedio
		default:
			s.PriceTier = TierAlto
		}
	}

	if s.ProductRevenue == nil || !s.ProductRevenue.IsPositive() {
		return
	}
	costs := decimal.Zero
	for _, c := range []*decimal.Decimal{
		s.InstallmentFee,
		s.MarketplaceFee,
		s.ShippingCost,
		s.WeightAdjustment,
		s.Refunds,
	} {
		if c != nil {
			costs = costs.Add(c.Abs())
		}
	}
	net := s.ProductRevenue.Sub(costs)
	margin := net.Div(*s.ProductRevenue).Mul(decimal.NewFromInt(100))
	s.NetProfit = &net
	s.MarginPercent = &margin
}
