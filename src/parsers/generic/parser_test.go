// backend/src/parsers/generic/parser_test.go
package generic

import (
	"testing"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/alyal/vendalytics/backend/src/parsers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericDetect(t *testing.T) {
	p := NewParser()

	assert.True(t, p.Detect([]string{"Produto", "SKU", "Status", "Data da Venda", "Valor Total"}))
	assert.True(t, p.Detect([]string{"product_name", "sku", "order_status", "order_date", "total_amount"}))

	// Missing the amount column.
	assert.False(t, p.Detect([]string{"Produto", "SKU", "Status", "Data da Venda"}))
	assert.False(t, p.Detect(nil))
}

func TestGenericParseFile(t *testing.T) {
	csv := "Data da Venda;SKU;Produto;Status;Valor Total;Quantidade;Cliente;UF;Cidade\n" +
		"10/03/2025;ABC-1;Carregador Turbo;Entregue;\"89,90\";1;João Souza;MG;Uberlândia\n" +
		"11/03/2025;ABC-2;Cabo USB;Cancelado;\"19,90\";2;Ana Lima;RJ;Niterói\n"

	p := NewParser()
	sales, rowErrors, err := p.ParseFile([]byte(csv))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, sales, 2)

	first := sales[0]
	assert.Equal(t, "generic", first.Source)
	assert.Equal(t, "ABC-1", first.SKU)
	assert.Equal(t, "Carregador Turbo", first.ProductName)
	assert.Equal(t, models.StatusEntregue, first.OrderStatus)
	assert.True(t, first.SaleDate.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "89.9", first.GrossAmount.String())
	assert.Equal(t, "João Souza", first.BuyerName)
	assert.Equal(t, "MG", first.BuyerState)
	assert.Equal(t, "Uberlândia", first.BuyerCity)
	require.NotNil(t, first.Units)
	assert.Equal(t, 1, *first.Units)

	assert.Equal(t, models.StatusCancelado, sales[1].OrderStatus)
}

func TestGenericMissingColumns(t *testing.T) {
	csv := "Data da Venda;Produto;Valor Total\n10/03/2025;Coisa;\"10,00\"\n"
	p := NewParser()
	_, _, err := p.ParseFile([]byte(csv))
	require.ErrorIs(t, err, parsers.ErrMissingColumns)
	assert.Contains(t, err.Error(), "sku")
	assert.Contains(t, err.Error(), "status_pedido")
}

func TestGenericNameFallsBackToTitleThenSKU(t *testing.T) {
	csv := "Data;SKU;Produto;Título do anúncio;Status;Total\n" +
		"2025-01-01;SKU-1;;Anúncio Bonito;pago;\"10,00\"\n" +
		"2025-01-02;SKU-2;;;pago;\"10,00\"\n"

	p := NewParser()
	sales, rowErrors, err := p.ParseFile([]byte(csv))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, sales, 2)
	assert.Equal(t, "Anúncio Bonito", sales[0].ProductName)
	assert.Equal(t, "SKU-2", sales[1].ProductName)
}

func TestGenericRowErrors(t *testing.T) {
	csv := "Data;SKU;Produto;Status;Total\n" +
		"data ruim;SKU-1;Produto;pago;\"10,00\"\n" +
		"2025-01-01;;Produto;pago;\"10,00\"\n" +
		"2025-01-01;SKU-3;Produto;pago;nada\n" +
		"2025-01-01;SKU-4;Produto;pago;\"10,00\"\n"

	p := NewParser()
	sales, rowErrors, err := p.ParseFile([]byte(csv))
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "SKU-4", sales[0].SKU)
	require.Len(t, rowErrors, 3)
	assert.Contains(t, rowErrors[0], "Linha 2")
	assert.Contains(t, rowErrors[1], "Linha 3")
	assert.Contains(t, rowErrors[2], "Linha 4")
}

func TestGenericStripsHTMLFromNames(t *testing.T) {
	csv := "Data;SKU;Produto;Status;Total\n" +
		"2025-01-01;SKU-1;<b>Fone</b> <script>alert(1)</script>Bluetooth;pago;\"10,00\"\n"

	p := NewParser()
	sales, _, err := p.ParseFile([]byte(csv))
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.NotContains(t, sales[0].ProductName, "<")
	assert.Contains(t, sales[0].ProductName, "Fone")
}
