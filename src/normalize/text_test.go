// backend/src/normalize/text_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "coracao", StripAccents("coração"))
	assert.Equal(t, "Sao Paulo", StripAccents("São Paulo"))
	assert.Equal(t, "MEDIO", StripAccents("MÉDIO"))
	assert.Equal(t, "ja normalizado", StripAccents("ja normalizado"))
}

func TestHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"N.º de venda", "n_de_venda"},
		{"Tarifa de venda e impostos (BRL)", "tarifa_de_venda_e_impostos_brl"},
		{"  Data da Venda  ", "data_da_venda"},
		{"SKU", "sku"},
		{"Preço unitário", "preco_unitario"},
		{"valor___total", "valor_total"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Header(tt.in), "input %q", tt.in)
	}
}

func TestMapHeader(t *testing.T) {
	f, ok := MapHeader(Header("Data da Venda"))
	assert.True(t, ok)
	assert.Equal(t, FieldSaleDate, f)

	f, ok = MapHeader(Header("Quantidade"))
	assert.True(t, ok)
	assert.Equal(t, FieldUnits, f)

	f, ok = MapHeader(Header("ID do pedido"))
	assert.True(t, ok)
	assert.Equal(t, FieldOrderNumber, f)

	_, ok = MapHeader(Header("coluna desconhecida"))
	assert.False(t, ok)
}
