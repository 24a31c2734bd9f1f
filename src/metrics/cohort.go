// backend/src/metrics/cohort.go
package metrics

import (
	"sort"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
)

// CohortRow is one acquisition month with its retention series. Retencao[k]
// is the percentage of the cohort active k months after acquisition; index 0
// is always 100 for a non-empty cohort.
type CohortRow struct {
	Coorte   string    `json:"coorte"` // YYYY-MM
	Clientes int       `json:"clientes"`
	Retencao []float64 `json:"retencao"`
}

// CohortRetention assigns every identified buyer to the calendar month of
// their first valid-status purchase and measures how many distinct buyers of
// each cohort come back at each month offset. The matrix is rectangular: all
// rows are padded with 0.0 up to the maximum offset observed anywhere.
func CohortRetention(sales []models.CanonicalSale) []CohortRow {
	type purchase struct {
		buyer string
		month time.Time
	}
	var purchases []purchase
	first := make(map[string]time.Time)

	for _, s := range sales {
		if !isValid(s) {
			continue
		}
		key := s.BuyerDocument
		if key == "" {
			key = s.BuyerName
		}
		if key == "" {
			continue
		}
		month := time.Date(s.SaleDate.Year(), s.SaleDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		purchases = append(purchases, purchase{buyer: key, month: month})
		if f, ok := first[key]; !ok || month.Before(f) {
			first[key] = month
		}
	}

	if len(purchases) == 0 {
		return []CohortRow{}
	}

	// active[cohort][offset] = set of distinct buyers seen at that offset.
	active := make(map[time.Time]map[int]map[string]bool)
	cohortSize := make(map[time.Time]int)
	for _, cohort := range first {
		cohortSize[cohort]++
	}

	maxOffset := 0
	for _, p := range purchases {
		cohort := first[p.buyer]
		offset := monthOffset(cohort, p.month)
		if offset > maxOffset {
			maxOffset = offset
		}
		if active[cohort] == nil {
			active[cohort] = make(map[int]map[string]bool)
		}
		if active[cohort][offset] == nil {
			active[cohort][offset] = make(map[string]bool)
		}
		active[cohort][offset][p.buyer] = true
	}

	cohorts := make([]time.Time, 0, len(cohortSize))
	for c := range cohortSize {
		cohorts = append(cohorts, c)
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].Before(cohorts[j]) })

	rows := make([]CohortRow, 0, len(cohorts))
	for _, cohort := range cohorts {
		size := cohortSize[cohort]
		retention := make([]float64, maxOffset+1)
		for offset := 0; offset <= maxOffset; offset++ {
			buyers := active[cohort][offset]
			if size > 0 && len(buyers) > 0 {
				retention[offset] = roundPct(float64(len(buyers)) / float64(size) * 100)
			}
		}
		rows = append(rows, CohortRow{
			Coorte:   cohort.Format("2006-01"),
			Clientes: size,
			Retencao: retention,
		})
	}
	return rows
}

func monthOffset(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func roundPct(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
