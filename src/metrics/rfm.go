// backend/src/metrics/rfm.go
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/shopspring/decimal"
)

// RFM segment names assigned by the rule table in segmentFor.
const (
	SegmentCampeoes  = "Campeões"
	SegmentFieis     = "Fiéis"
	SegmentEmRisco   = "Em risco"
	SegmentPerdidos  = "Perdidos"
	SegmentRegulares = "Regulares"
)

// RFMCustomer is one identified buyer with quartile scores and segment.
type RFMCustomer struct {
	Cliente      string  `json:"cliente"`
	Documento    string  `json:"documento,omitempty"`
	RecenciaDias int     `json:"recencia_dias"`
	Frequencia   int     `json:"frequencia"`
	Monetario    float64 `json:"monetario"`
	R            int     `json:"r"`
	F            int     `json:"f"`
	M            int     `json:"m"`
	Score        string  `json:"score"`
	Segmento     string  `json:"segmento"`
}

// RFMSegments scores every identified buyer on Recency, Frequency and
// Monetary value, each 1–4 by quartile position within the current buyer
// population. Recency is inverted: the most recent buyer scores 4.
//
// The reference date is the filter's end date. Buyers without a name or
// document on any valid sale are excluded entirely, not scored.
func RFMSegments(sales []models.CanonicalSale, reference time.Time) []RFMCustomer {
	type buyer struct {
		name     string
		document string
		last     time.Time
		count    int
		total    decimal.Decimal
	}
	buyers := make(map[string]*buyer)
	order := make([]string, 0)

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
		b, ok := buyers[key]
		if !ok {
			b = &buyer{name: s.BuyerName, document: s.BuyerDocument}
			if b.name == "" {
				b.name = key
			}
			buyers[key] = b
			order = append(order, key)
		}
		b.count++
		b.total = b.total.Add(s.GrossAmount)
		if s.SaleDate.After(b.last) {
			b.last = s.SaleDate
		}
	}

	if len(buyers) == 0 {
		return []RFMCustomer{}
	}

	recencies := make([]float64, 0, len(buyers))
	frequencies := make([]float64, 0, len(buyers))
	monetaries := make([]float64, 0, len(buyers))
	for _, key := range order {
		b := buyers[key]
		recencies = append(recencies, daysBetween(b.last, reference))
		frequencies = append(frequencies, float64(b.count))
		monetaries = append(monetaries, b.total.InexactFloat64())
	}

	rq := quartiles(recencies)
	fq := quartiles(frequencies)
	mq := quartiles(monetaries)

	customers := make([]RFMCustomer, 0, len(order))
	for i, key := range order {
		b := buyers[key]
		r := 5 - quartileScore(recencies[i], rq) // smaller recency is better
		f := quartileScore(frequencies[i], fq)
		m := quartileScore(monetaries[i], mq)

		customers = append(customers, RFMCustomer{
			Cliente:      b.name,
			Documento:    b.document,
			RecenciaDias: int(recencies[i]),
			Frequencia:   b.count,
			Monetario:    round2(b.total),
			R:            r,
			F:            f,
			M:            m,
			Score:        fmt.Sprintf("%d%d%d", r, f, m),
			Segmento:     segmentFor(r, f, m),
		})
	}

	sort.SliceStable(customers, func(i, j int) bool { return customers[i].Monetario > customers[j].Monetario })
	return customers
}

func segmentFor(r, f, _ int) string {
	switch {
	case r >= 4 && f >= 4:
		return SegmentCampeoes
	case r >= 3 && f >= 3:
		return SegmentFieis
	case r <= 2 && f >= 3:
		return SegmentEmRisco
	case r == 1:
		return SegmentPerdidos
	default:
		return SegmentRegulares
	}
}

func daysBetween(from, to time.Time) float64 {
	d := to.Sub(from).Hours() / 24
	if d < 0 {
		return 0
	}
	return math.Floor(d)
}

// quartiles returns the 25/50/75 percentile boundaries using linear
// interpolation over the sorted values.
func quartiles(values []float64) [3]float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return [3]float64{
		percentile(sorted, 0.25),
		percentile(sorted, 0.50),
		percentile(sorted, 0.75),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// quartileScore places a value in its quartile: 1 for the bottom quarter of
// the population up to 4 for the top.
func quartileScore(v float64, q [3]float64) int {
	switch {
	case v <= q[0]:
		return 1
	case v <= q[1]:
		return 2
	case v <= q[2]:
		return 3
	default:
		return 4
	}
}
