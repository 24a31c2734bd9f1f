// backend/src/parsers/shopee/parser.go
package shopee

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/alyal/vendalytics/backend/src/normalize"
	"github.com/alyal/vendalytics/backend/src/parsers"
	"github.com/alyal/vendalytics/backend/src/security/validation"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Native column names of the Shopee order export (XLSX, first sheet).
var columnMap = map[string]normalize.Field{
	"ID do pedido":                     normalize.FieldOrderNumber,
	"Status do pedido":                 normalize.FieldOrderStatus,
	"Data de criação do pedido":        normalize.FieldSaleDate,
	"Nº de referência do SKU principal": normalize.FieldSKU,
	"Nome do Produto":                  normalize.FieldProductName,
	"Nome da variação":                 normalize.FieldListingTitle,
	"Quantidade":                       normalize.FieldUnits,
	"Preço acordado":                   normalize.FieldUnitPrice,
	"Subtotal do produto":              normalize.FieldProductRevenue,
	"Total do pedido":                  normalize.FieldGrossAmount,
	"Cidade":                           normalize.FieldBuyerCity,
	"Estado":                           normalize.FieldBuyerState,
}

var indicators = []string{"ID do pedido", "Nº de referência do SKU principal", "Status do pedido"}

// ShopeeParser converts native Shopee order exports (spreadsheets) into
// canonical records.
type ShopeeParser struct{}

func NewParser() *ShopeeParser { return &ShopeeParser{} }

func (p *ShopeeParser) Name() string { return "shopee" }

func (p *ShopeeParser) Detect(headers []string) bool {
	hits := 0
	for _, ind := range indicators {
		for _, h := range headers {
			if strings.TrimSpace(h) == ind {
				hits++
				break
			}
		}
	}
	return hits >= 2
}

func (p *ShopeeParser) ParseFile(raw []byte) ([]models.CanonicalSale, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, parsers.ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, parsers.ErrNoHeader
	}
	if len(rows) < 2 {
		return nil, nil, parsers.ErrEmptyFile
	}

	cols := make(map[normalize.Field]int, len(columnMap))
	for i, h := range rows[0] {
		if field, ok := columnMap[strings.TrimSpace(h)]; ok {
			if _, seen := cols[field]; !seen {
				cols[field] = i
			}
		}
	}

	var sales []models.CanonicalSale
	var rowErrors []string

	for i, row := range rows[1:] {
		lineNum := i + 2
		get := func(field normalize.Field) string {
			idx, ok := cols[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		sku := get(normalize.FieldSKU)
		if sku == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Dados obrigatórios faltando (SKU)", lineNum))
			continue
		}
		saleDate, err := parseSaleDate(get(normalize.FieldSaleDate))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Data de criação inválida", lineNum))
			continue
		}

		gross := decimal.Zero
		if d, err := normalize.ParseMoney(get(normalize.FieldGrossAmount)); err == nil {
			gross = d
		}

		name := get(normalize.FieldProductName)
		title := get(normalize.FieldListingTitle)
		if name == "" {
			name = title
		}
		if name == "" {
			name = sku
		}

		sale := models.CanonicalSale{
			Source:         "shopee",
			SKU:            sku,
			ProductName:    validation.SanitizeText(name),
			ListingTitle:   validation.SanitizeText(title),
			OrderStatus:    normalize.Status(get(normalize.FieldOrderStatus)),
			SaleDate:       saleDate,
			GrossAmount:    gross,
			OrderNumber:    get(normalize.FieldOrderNumber),
			Units:          optionalInt(get(normalize.FieldUnits)),
			UnitPrice:      optionalMoney(get(normalize.FieldUnitPrice)),
			BuyerState:     get(normalize.FieldBuyerState),
			BuyerCity:      validation.SanitizeText(get(normalize.FieldBuyerCity)),
			ProductRevenue: optionalMoney(get(normalize.FieldProductRevenue)),
		}
		sale.ComputeDerived()
		sales = append(sales, sale)
	}

	return sales, rowErrors, nil
}

// parseSaleDate accepts the usual string layouts plus a bare Excel serial
// number, which GetRows yields when the date cell carries no number format.
func parseSaleDate(raw string) (time.Time, error) {
	if t, err := normalize.ParseDate(raw); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < 1 || serial > 200000 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
	}
	// Excel serials count days since 1899-12-30.
	base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(serial)), nil
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
