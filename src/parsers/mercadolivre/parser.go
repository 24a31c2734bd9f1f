// backend/src/parsers/mercadolivre/parser.go
package mercadolivre

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

// Native column names of the Mercado Livre sales report (CSV, usually
// latin-1 with ";" delimiter, 60+ columns of which these matter).
var columnMap = map[string]normalize.Field{
	"N.º de venda":          normalize.FieldOrderNumber,
	"Data da venda":         normalize.FieldSaleDate,
	"Descrição do status":   normalize.FieldOrderStatus,
	"SKU":                   normalize.FieldSKU,
	"Título do anúncio":     normalize.FieldListingTitle,
	"Unidades":              normalize.FieldUnits,
	"Comprador":             normalize.FieldBuyerName,
	"CPF":                   normalize.FieldBuyerDocument,
	"Total (BRL)":           normalize.FieldGrossAmount,
	"Receita por produtos (BRL)": normalize.FieldProductRevenue,
	"Receita por acréscimo no preço (pago pelo comprador)": normalize.FieldMarkupRevenue,
	"Taxa de parcelamento equivalente ao acréscimo":        normalize.FieldInstallmentFee,
	"Tarifa de venda e impostos (BRL)":                     normalize.FieldMarketplaceFee,
	"Receita por envio (BRL)":                              normalize.FieldShippingRevenue,
	"Tarifas de envio (BRL)":                               normalize.FieldShippingFee,
	"Custo de envio com base nas medidas e peso declarados":    normalize.FieldShippingCost,
	"Custo por diferenças nas medidas e no peso do pacote":     normalize.FieldWeightAdjustment,
	"Cancelamentos e reembolsos (BRL)":                         normalize.FieldRefunds,
	"Preço unitário de venda do anúncio (BRL)":                 normalize.FieldUnitPrice,
	"Estado":           normalize.FieldBuyerState,
	"Cidade":           normalize.FieldBuyerCity,
	"Forma de entrega": normalize.FieldShippingMethod,
}

// Headers that fingerprint a Mercado Livre report. Two hits are enough.
var indicators = []string{"N.º de venda", "Tarifa de venda e impostos", "# de anúncio"}

// MercadoLivreParser converts native Mercado Livre sales reports into
// canonical records.
type MercadoLivreParser struct{}

func NewParser() *MercadoLivreParser { return &MercadoLivreParser{} }

func (p *MercadoLivreParser) Name() string { return "mercado_livre" }

func (p *MercadoLivreParser) Detect(headers []string) bool {
	hits := 0
	for _, ind := range indicators {
		for _, h := range headers {
			if strings.Contains(h, ind) {
				hits++
				break
			}
		}
	}
	return hits >= 2
}

func (p *MercadoLivreParser) ParseFile(raw []byte) ([]models.CanonicalSale, []string, error) {
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
	cols := make(map[normalize.Field]int, len(columnMap))
	for i, h := range headers {
		if f, ok := columnMap[strings.TrimSpace(h)]; ok {
			if _, seen := cols[f]; !seen {
				cols[f] = i
			}
		}
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

		sku := get(normalize.FieldSKU)
		if sku == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Dados obrigatórios faltando (SKU)", lineNum))
			continue
		}
		saleDate, err := normalize.ParseDate(get(normalize.FieldSaleDate))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Data da venda inválida", lineNum))
			continue
		}

		gross := decimal.Zero
		if d, err := normalize.ParseMoney(get(normalize.FieldGrossAmount)); err == nil {
			gross = d
		}

		title := get(normalize.FieldListingTitle)
		name := title
		if name == "" {
			name = sku
		}

		sale := models.CanonicalSale{
			Source:           "mercado_livre",
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
