// backend/src/handlers/filters.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alyal/vendalytics/backend/src/model"
)

// defaultPeriodDays is the trailing window used when the request carries no
// explicit date range.
const defaultPeriodDays = 30

// parseSaleFilter extracts the common dashboard filter from query parameters:
// ISO start/end dates (defaulting to the trailing 30 days, swapped when
// inverted) and optional marketplace/tenant ids.
func parseSaleFilter(r *http.Request) model.SaleFilter {
	q := r.URL.Query()

	end, errEnd := time.ParseInLocation("2006-01-02", q.Get("end_date"), time.UTC)
	if errEnd != nil {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	start, errStart := time.ParseInLocation("2006-01-02", q.Get("start_date"), time.UTC)
	if errStart != nil {
		start = end.AddDate(0, 0, -defaultPeriodDays)
	}
	if start.After(end) {
		start, end = end, start
	}

	f := model.SaleFilter{Start: start, End: end}
	if id, ok := positiveInt64(q.Get("marketplace_id")); ok {
		f.MarketplaceID = &id
	}
	if id, ok := positiveInt64(q.Get("tenant_id")); ok {
		f.TenantID = &id
	}
	return f
}

func positiveInt64(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseLimit(r *http.Request, fallback int) int {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
