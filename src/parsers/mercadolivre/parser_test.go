// backend/src/parsers/mercadolivre/parser_test.go
package mercadolivre

import (
	"strings"
	"testing"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mlHeaders = []string{
	"N.º de venda",
	"Data da venda",
	"Descrição do status",
	"SKU",
	"Título do anúncio",
	"Unidades",
	"Comprador",
	"CPF",
	"Total (BRL)",
	"Receita por produtos (BRL)",
	"Tarifa de venda e impostos (BRL)",
	"Tarifas de envio (BRL)",
	"Custo de envio com base nas medidas e peso declarados",
	"Cancelamentos e reembolsos (BRL)",
	"Preço unitário de venda do anúncio (BRL)",
	"Estado",
	"Cidade",
}

func mlCSV(rows ...[]string) []byte {
	lines := []string{strings.Join(mlHeaders, ";")}
	for _, r := range rows {
		lines = append(lines, strings.Join(r, ";"))
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestMercadoLivreDetect(t *testing.T) {
	p := NewParser()

	assert.True(t, p.Detect([]string{"N.º de venda", "Data da venda", "Tarifa de venda e impostos (BRL)"}))
	assert.True(t, p.Detect([]string{"N.º de venda", "# de anúncio"}))

	// A single indicator is not enough.
	assert.False(t, p.Detect([]string{"N.º de venda", "sku", "total"}))
	assert.False(t, p.Detect([]string{"order_id", "sku", "total"}))
}

func TestMercadoLivreParseFile(t *testing.T) {
	raw := mlCSV([]string{
		"2000001", "31 de outubro de 2025 14:22 hs.", "Entregue", "ML-SKU-7", "Fone Bluetooth XYZ",
		"1", "Carlos Pereira", "12345678901", "\"189,90\"", "\"189,90\"", "\"-23,50\"", "\"-5,00\"",
		"\"-18,40\"", "", "\"189,90\"", "São Paulo", "Campinas",
	})

	p := NewParser()
	sales, rowErrors, err := p.ParseFile(raw)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, sales, 1)

	s := sales[0]
	assert.Equal(t, "mercado_livre", s.Source)
	assert.Equal(t, "2000001", s.OrderNumber)
	assert.Equal(t, "ML-SKU-7", s.SKU)
	assert.Equal(t, "Fone Bluetooth XYZ", s.ProductName)
	assert.Equal(t, "Fone Bluetooth XYZ", s.ListingTitle)
	assert.Equal(t, models.StatusEntregue, s.OrderStatus)
	assert.True(t, s.SaleDate.Equal(time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "189.9", s.GrossAmount.String())
	assert.Equal(t, "São Paulo", s.BuyerState)
	assert.Equal(t, "Campinas", s.BuyerCity)

	// Costs are reported negative by Mercado Livre; profit uses absolutes:
	// 189.90 - (23.50 + 18.40) = 148.00 (shipping fee is revenue-side, not a cost).
	require.NotNil(t, s.NetProfit)
	assert.Equal(t, "148", s.NetProfit.String())
	assert.Equal(t, models.TierMedio, s.PriceTier)
}

func TestMercadoLivreCancelledStatus(t *testing.T) {
	raw := mlCSV([]string{
		"2000002", "01/10/2025", "Pacote cancelado pelo Mercado Livre", "ML-SKU-8", "Capa",
		"1", "", "", "\"49,90\"", "", "", "", "", "", "", "", "",
	})

	p := NewParser()
	sales, _, err := p.ParseFile(raw)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, models.StatusCancelado, sales[0].OrderStatus)
	assert.Nil(t, sales[0].NetProfit)
}

func TestMercadoLivreRowErrors(t *testing.T) {
	raw := mlCSV(
		[]string{"1", "31/10/2025", "pago", "", "Sem SKU", "1", "", "", "\"10,00\""},
		[]string{"2", "data estranha", "pago", "SKU-OK", "Produto", "1", "", "", "\"10,00\""},
		[]string{"3", "31/10/2025", "pago", "SKU-OK", "Produto", "1", "", "", "sem valor"},
	)

	p := NewParser()
	sales, rowErrors, err := p.ParseFile(raw)
	require.NoError(t, err)

	// The unparseable amount is not a row error: it degrades to zero.
	require.Len(t, sales, 1)
	assert.True(t, sales[0].GrossAmount.IsZero())

	require.Len(t, rowErrors, 2)
	assert.Contains(t, rowErrors[0], "Linha 2")
	assert.Contains(t, rowErrors[0], "SKU")
	assert.Contains(t, rowErrors[1], "Linha 3")
	assert.Contains(t, rowErrors[1], "Data")
}

func TestMercadoLivreTitleFallsBackToSKU(t *testing.T) {
	raw := mlCSV([]string{
		"4", "31/10/2025", "pago", "SKU-SEM-TITULO", "", "1", "", "", "\"10,00\"",
	})

	p := NewParser()
	sales, _, err := p.ParseFile(raw)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "SKU-SEM-TITULO", sales[0].ProductName)
}
