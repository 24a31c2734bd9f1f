// backend/src/parsers/template/parser.go
package template

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

// Column positions of the standard import template. The header row is ignored
// entirely; rows are read by position, not by name.
const (
	colSaleDate = iota
	colSKU
	colProductName
	colStatus
	colGrossAmount
	colOrderNumber
	colUnits
	colUnitPrice
	colBuyerName
	colBuyerDocument
	colBuyerState
	colBuyerCity
	colShippingMethod
	colProductRevenue
	colInstallmentFee
	colMarketplaceFee
	colShippingCost
	colNetProfit
	colMarginPercent
)

const minColumns = 5

// TemplateParser reads the standardized import template CSV: comma-delimited,
// ISO dates, fixed column order. It is the fallback when no marketplace
// fingerprint matches.
type TemplateParser struct{}

func NewParser() *TemplateParser { return &TemplateParser{} }

func (p *TemplateParser) Name() string { return "template" }

// Detect always declines: the template has no distinctive headers, so it only
// ever runs as the detector's fallback.
func (p *TemplateParser) Detect(headers []string) bool { return false }

func (p *TemplateParser) ParseFile(raw []byte) ([]models.CanonicalSale, []string, error) {
	content, err := parsers.DecodeText(raw)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	// Discard the header row.
	if _, err := reader.Read(); err != nil {
		return nil, nil, parsers.ErrEmptyFile
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading template rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, parsers.ErrEmptyFile
	}

	var sales []models.CanonicalSale
	var rowErrors []string

	for i, row := range rows {
		lineNum := i + 2 // line 1 is the header

		if len(row) < minColumns {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Dados insuficientes (mínimo %d colunas)", lineNum, minColumns))
			continue
		}

		saleDate, err := normalize.ParseDate(cell(row, colSaleDate))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Data inválida (use formato YYYY-MM-DD)", lineNum))
			continue
		}

		sku := cell(row, colSKU)
		if sku == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: SKU obrigatório", lineNum))
			continue
		}

		name := cell(row, colProductName)
		if name == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Nome do produto obrigatório", lineNum))
			continue
		}

		grossRaw := cell(row, colGrossAmount)
		if grossRaw == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Valor total obrigatório", lineNum))
			continue
		}
		gross, err := normalize.ParseMoney(grossRaw)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Valor total inválido", lineNum))
			continue
		}

		sale := models.CanonicalSale{
			Source:         "template",
			SKU:            sku,
			ProductName:    validation.SanitizeText(name),
			OrderStatus:    normalize.Status(cell(row, colStatus)),
			SaleDate:       saleDate,
			GrossAmount:    gross,
			OrderNumber:    cell(row, colOrderNumber),
			Units:          optionalInt(cell(row, colUnits)),
			UnitPrice:      optionalMoney(cell(row, colUnitPrice)),
			BuyerName:      validation.SanitizeText(cell(row, colBuyerName)),
			BuyerDocument:  cell(row, colBuyerDocument),
			BuyerState:     cell(row, colBuyerState),
			BuyerCity:      validation.SanitizeText(cell(row, colBuyerCity)),
			ShippingMethod: cell(row, colShippingMethod),
			ProductRevenue: optionalMoney(cell(row, colProductRevenue)),
			InstallmentFee: optionalMoney(cell(row, colInstallmentFee)),
			MarketplaceFee: optionalMoney(cell(row, colMarketplaceFee)),
			ShippingCost:   optionalMoney(cell(row, colShippingCost)),
		}
		sale.ComputeDerived()

		// The template also carries pre-computed profit columns. They only
		// win when the financial sub-components were not enough to compute
		// profit ourselves.
		if sale.NetProfit == nil {
			sale.NetProfit = optionalMoney(cell(row, colNetProfit))
			sale.MarginPercent = optionalMoney(cell(row, colMarginPercent))
		}

		sales = append(sales, sale)
	}

	return sales, rowErrors, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
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
