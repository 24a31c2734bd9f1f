// backend/src/parsers/detect_test.go
package parsers

import (
	"bytes"
	"testing"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubAdapter struct {
	name    string
	matches bool
}

func (a stubAdapter) Name() string                 { return a.name }
func (a stubAdapter) Detect(headers []string) bool { return a.matches }
func (a stubAdapter) ParseFile(raw []byte) ([]models.CanonicalSale, []string, error) {
	return nil, nil, nil
}

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, IsSpreadsheet([]byte("PK\x03\x04rest")))
	assert.False(t, IsSpreadsheet([]byte("data;valor")))
	assert.False(t, IsSpreadsheet(nil))
}

func TestFileHeadersCSV(t *testing.T) {
	headers, err := FileHeaders([]byte("Data da Venda; SKU ;Total\n2025-01-01;A;10,00\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Data da Venda", "SKU", "Total"}, headers)
}

func TestFileHeadersCommaCSV(t *testing.T) {
	headers, err := FileHeaders([]byte("order_id,sku,total\n1,A,10.00\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"order_id", "sku", "total"}, headers)
}

func TestFileHeadersXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"ID do pedido", "Status do pedido"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	headers, err := FileHeaders(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"ID do pedido", "Status do pedido"}, headers)
}

func TestFileHeadersEmpty(t *testing.T) {
	_, err := FileHeaders([]byte(""))
	assert.Error(t, err)
}

func TestSelectAdapter(t *testing.T) {
	first := stubAdapter{name: "first"}
	second := stubAdapter{name: "second", matches: true}
	fallback := stubAdapter{name: "fallback"}

	picked := SelectAdapter([]string{"x"}, []Adapter{first, second}, fallback)
	assert.Equal(t, "second", picked.Name())

	picked = SelectAdapter([]string{"x"}, []Adapter{first}, fallback)
	assert.Equal(t, "fallback", picked.Name())
}
