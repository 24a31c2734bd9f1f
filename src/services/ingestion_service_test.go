// backend/src/services/ingestion_service_test.go
package services

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/alyal/vendalytics/backend/src/metrics"
	"github.com/alyal/vendalytics/backend/src/model"
	"github.com/alyal/vendalytics/backend/src/parsers"
	"github.com/alyal/vendalytics/backend/src/parsers/generic"
	"github.com/alyal/vendalytics/backend/src/parsers/mercadolivre"
	"github.com/alyal/vendalytics/backend/src/parsers/shopee"
	"github.com/alyal/vendalytics/backend/src/parsers/template"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// openTestDB creates a throwaway SQLite database with the production schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "db", "migrations", "000001_create_sales_schema.up.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	return db
}

func newTestIngestion(t *testing.T, db *sql.DB) (IngestionService, DashboardService) {
	t.Helper()
	adapters := []parsers.Adapter{mercadolivre.NewParser(), shopee.NewParser(), generic.NewParser()}
	dashboard := NewDashboardService(db, cache.New(cache.NoExpiration, 0), metrics.DefaultABCThresholds)
	return NewIngestionService(db, adapters, template.NewParser(), dashboard), dashboard
}

const genericCSV = "Data da Venda;SKU;Produto;Status;Valor Total;Cliente;UF\n" +
	"10/03/2025;ABC-1;Carregador;Entregue;\"89,90\";Maria;SP\n" +
	"11/03/2025;ABC-2;Cabo;Cancelado;\"19,90\";José;RJ\n" +
	"data ruim;ABC-3;Fonte;pago;\"10,00\";Ana;MG\n"

func TestProcessUploadGenericCSV(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestIngestion(t, db)

	result, err := svc.ProcessUpload(context.Background(), strings.NewReader(genericCSV), 3, nil, "vendas.csv", "")
	require.NoError(t, err)

	assert.Equal(t, "generic", result.Adapter)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.RowErrors, 1)
	assert.Contains(t, result.RowErrors[0], "Linha 4")
	assert.NotEmpty(t, result.BatchID)

	stored, err := model.ListSales(context.Background(), db, model.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, s := range stored {
		assert.Equal(t, int64(3), s.MarketplaceID)
	}
}

func TestProcessUploadForceAdapter(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestIngestion(t, db)

	csv := "data,sku,nome,status,valor\n2025-01-01,T-1,Coisa,pago,\"15,00\"\n"
	result, err := svc.ProcessUpload(context.Background(), strings.NewReader(csv), 3, nil, "modelo.csv", "template")
	require.NoError(t, err)
	assert.Equal(t, "template", result.Adapter)
	assert.Equal(t, 1, result.Imported)

	_, err = svc.ProcessUpload(context.Background(), strings.NewReader(csv), 3, nil, "modelo.csv", "inexistente")
	assert.ErrorIs(t, err, ErrUnknownAdapter)
}

func TestProcessUploadUnknownMarketplace(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestIngestion(t, db)

	_, err := svc.ProcessUpload(context.Background(), strings.NewReader(genericCSV), 999, nil, "vendas.csv", "")
	assert.ErrorIs(t, err, ErrUnknownMarketplace)
}

func TestProcessUploadEmptyFile(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestIngestion(t, db)

	_, err := svc.ProcessUpload(context.Background(), strings.NewReader(""), 3, nil, "vazio.csv", "")
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestProcessUploadSanitizesFields(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestIngestion(t, db)

	csv := "Data da Venda;SKU;Produto;Status;Valor Total;Cliente\n" +
		"10/03/2025;S-1;=HYPERLINK(evil);pago;\"10,00\";<i>Maria</i>\n"
	result, err := svc.ProcessUpload(context.Background(), strings.NewReader(csv), 3, nil, "v.csv", "")
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	stored, err := model.ListSales(context.Background(), db, model.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, strings.HasPrefix(stored[0].ProductName, "'="), "formula trigger must be neutralized, got %q", stored[0].ProductName)
	assert.Equal(t, "Maria", stored[0].BuyerName)
}

func TestUploadInvalidatesDashboardCache(t *testing.T) {
	db := openTestDB(t)
	svc, dashboard := newTestIngestion(t, db)
	ctx := context.Background()

	f := model.SaleFilter{}
	before, err := dashboard.Summary(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 0, before.PedidosTotais)

	_, err = svc.ProcessUpload(ctx, strings.NewReader(genericCSV), 3, nil, "vendas.csv", "")
	require.NoError(t, err)

	after, err := dashboard.Summary(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 1, after.PedidosTotais) // Entregue row only; Cancelado excluded
}
