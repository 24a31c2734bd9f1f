// backend/src/parsers/generic/parser.go
package generic

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/alyal/vendalytics/backend/src/normalize"
	"github.com/alyal/vendalytics/backend/src/parsers"
	"github.com/alyal/vendalytics/backend/src/security/validation"
	"github.com/shopspring/decimal"
)

// requiredFields is the canonical subset a file must cover for the
// header-synonym strategy to work at all. A missing required column fails the
// whole file; everything else degrades row by row.
var requiredFields = []normalize.Field{
	normalize.FieldProductName,
	normalize.FieldSKU,
	normalize.FieldOrderStatus,
	normalize.FieldSaleDate,
	normalize.FieldGrossAmount,
}

// GenericParser imports any delimited file whose headers can be resolved
// through the canonical synonym table. Columns matching no alias are silently
// ignored.
type GenericParser struct{}

func NewParser() *GenericParser { return &GenericParser{} }

func (p *GenericParser) Name() string { return "generic" }

// Detect claims the file when every required canonical field has a mappable
// header. Marketplace-specific adapters run first, so this only catches
// files none of them fingerprinted.
func (p *GenericParser) Detect(headers []string) bool {
	cols := mapHeaders(headers)
	for _, f := range requiredFields {
		if _, ok := cols[f]; !ok {
			return false
		}
	}
	return true
}

func (p *GenericParser) ParseFile(raw []byte) ([]models.CanonicalSale, []string, error) {
	content, err := parsers.DecodeText(raw)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = parsers.SniffDelimiter(content)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, parsers.ErrNoHeader
	}
	cols := mapHeaders(headers)

	var missing []string
	for _, f := range requiredFields {
		if _, ok := cols[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", parsers.ErrMissingColumns, strings.Join(missing, ", "))
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, parsers.ErrEmptyFile
	}

	var sales []models.CanonicalSale
	var rowErrors []string

	for i, row := range rows {
		lineNum := i + 2
		get := func(f normalize.Field) string {
			idx, ok := cols[f]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		saleDate, err := normalize.ParseDate(get(normalize.FieldSaleDate))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Data inválida", lineNum))
			continue
		}
		sku := get(normalize.FieldSKU)
		if sku == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: SKU obrigatório", lineNum))
			continue
		}
		gross, err := normalize.ParseMoney(get(normalize.FieldGrossAmount))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Valor total inválido", lineNum))
			continue
		}

		name := get(normalize.FieldProductName)
		title := get(normalize.FieldListingTitle)
		if name == "" {
			// Marketplace exports often only carry the listing title.
			name = title
		}
		if name == "" {
			name = sku
		}

		sale := models.CanonicalSale{
			Source:           "generic",
			SKU:              sku,
			ProductName:      validation.SanitizeText(name),
			ListingTitle:     validation.SanitizeText(title),
			OrderStatus:      normalize.Status(get(normalize.FieldOrderStatus)),
			SaleDate:         saleDate,
			GrossAmount:      gross,
			OrderNumber:      get(normalize.FieldOrderNumber),
			Units:            optionalInt(get(normalize.FieldUnits)),
			UnitPrice:        optionalMoney(get(normalize.FieldUnitPrice)),
			BuyerName:        validation.SanitizeText(get(normalize.FieldBuyerName)),
			BuyerDocument:    get(normalize.FieldBuyerDocument),
			BuyerState:       get(normalize.FieldBuyerState),
			BuyerCity:        validation.SanitizeText(get(normalize.FieldBuyerCity)),
			ShippingMethod:   get(normalize.FieldShippingMethod),
			ProductRevenue:   optionalMoney(get(normalize.FieldProductRevenue)),
			MarkupRevenue:    optionalMoney(get(normalize.FieldMarkupRevenue)),
			InstallmentFee:   optionalMoney(get(normalize.FieldInstallmentFee)),
			MarketplaceFee:   optionalMoney(get(normalize.FieldMarketplaceFee)),
			ShippingRevenue:  optionalMoney(get(normalize.FieldShippingRevenue)),
			ShippingFee:      optionalMoney(get(normalize.FieldShippingFee)),
			ShippingCost:     optionalMoney(get(normalize.FieldShippingCost)),
			WeightAdjustment: optionalMoney(get(normalize.FieldWeightAdjustment)),
			Refunds:          optionalMoney(get(normalize.FieldRefunds)),
		}
		sale.ComputeDerived()
		sales = append(sales, sale)
	}

	return sales, rowErrors, nil
}

// mapHeaders resolves raw headers to canonical fields; the first header to
// claim a field wins, later duplicates are ignored.
func mapHeaders(headers []string) map[normalize.Field]int {
	cols := make(map[normalize.Field]int, len(headers))
	for i, h := range headers {
		f, ok := normalize.MapHeader(normalize.Header(h))
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}
	return cols
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func optionalMoney(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := normalize.ParseMoney(s)
	if err != nil {
		return nil
	}
	return &d
}
