// backend/src/metrics/rfm_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buyerSale(date, doc, name, amount string) models.CanonicalSale {
	s := sale(date, models.StatusPago, "SKU", amount)
	s.BuyerDocument = doc
	s.BuyerName = name
	return s
}

func TestRFMSegments(t *testing.T) {
	reference := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	sales := []models.CanonicalSale{
		// Frequent, recent, high-value buyer.
		buyerSale("2025-06-28", "111", "Alice", "500.00"),
		buyerSale("2025-06-01", "111", "Alice", "450.00"),
		buyerSale("2025-05-10", "111", "Alice", "480.00"),
		buyerSale("2025-04-02", "111", "Alice", "470.00"),
		// Occasional buyer.
		buyerSale("2025-05-15", "222", "Bruno", "80.00"),
		buyerSale("2025-03-20", "222", "Bruno", "90.00"),
		// One-shot buyer long ago.
		buyerSale("2025-01-05", "333", "Carla", "30.00"),
		// Another one-shot, mid-range.
		buyerSale("2025-04-18", "444", "Davi", "200.00"),
	}

	customers := RFMSegments(sales, reference)
	require.Len(t, customers, 4)

	// Sorted by monetary value descending.
	assert.Equal(t, "Alice", customers[0].Cliente)
	assert.Equal(t, 1900.0, customers[0].Monetario)
	assert.Equal(t, 4, customers[0].Frequencia)
	assert.Equal(t, 2, customers[0].RecenciaDias)
	assert.Equal(t, 4, customers[0].R)
	assert.Equal(t, 4, customers[0].F)
	assert.Equal(t, 4, customers[0].M)
	assert.Equal(t, "444", customers[0].Score)
	assert.Equal(t, SegmentCampeoes, customers[0].Segmento)

	// Carla: oldest and smallest.
	last := customers[len(customers)-1]
	assert.Equal(t, "Carla", last.Cliente)
	assert.Equal(t, 1, last.R)
	assert.Equal(t, SegmentPerdidos, last.Segmento)
}

func TestRFMExcludesUnidentifiedBuyers(t *testing.T) {
	sales := []models.CanonicalSale{
		buyerSale("2025-06-01", "", "", "100.00"),
		buyerSale("2025-06-02", "", "Com Nome", "50.00"),
	}
	customers := RFMSegments(sales, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	require.Len(t, customers, 1)
	assert.Equal(t, "Com Nome", customers[0].Cliente)
}

func TestRFMKeyPrefersDocument(t *testing.T) {
	// Same document with diverging name spellings is one buyer.
	sales := []models.CanonicalSale{
		buyerSale("2025-06-01", "999", "J. Silva", "10.00"),
		buyerSale("2025-06-10", "999", "João Silva", "20.00"),
	}
	customers := RFMSegments(sales, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	require.Len(t, customers, 1)
	assert.Equal(t, 2, customers[0].Frequencia)
	assert.Equal(t, 30.0, customers[0].Monetario)
}

func TestRFMIdempotent(t *testing.T) {
	reference := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	sales := []models.CanonicalSale{
		buyerSale("2025-06-28", "111", "Alice", "500.00"),
		buyerSale("2025-05-15", "222", "Bruno", "80.00"),
		buyerSale("2025-01-05", "333", "Carla", "30.00"),
	}
	first := RFMSegments(sales, reference)
	second := RFMSegments(sales, reference)
	assert.Equal(t, first, second)
}

func TestRFMEmpty(t *testing.T) {
	assert.Empty(t, RFMSegments(nil, time.Now()))
}
