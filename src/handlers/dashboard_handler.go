// backend/src/handlers/dashboard_handler.go
package handlers

import (
	"context"
	"net/http"

	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/alyal/vendalytics/backend/src/model"
	"github.com/alyal/vendalytics/backend/src/services"
	"github.com/alyal/vendalytics/backend/src/utils"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// filterEnvelope wraps every dashboard payload with the effective period, so
// the client learns when an empty window was auto-adjusted to the data.
type filterEnvelope struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Adjusted  bool   `json:"period_adjusted"`
	Data      any    `json:"data"`
}

// resolveFilter applies the "período sem dados" fallback before computing.
func (h *DashboardHandler) resolveFilter(ctx context.Context, r *http.Request) (model.SaleFilter, bool, error) {
	return h.dashboard.AdjustPeriod(ctx, parseSaleFilter(r))
}

func (h *DashboardHandler) respond(w http.ResponseWriter, f model.SaleFilter, adjusted bool, data any) {
	utils.SendJSONResponse(w, filterEnvelope{
		StartDate: f.Start.Format("2006-01-02"),
		EndDate:   f.End.Format("2006-01-02"),
		Adjusted:  adjusted,
		Data:      data,
	}, http.StatusOK)
}

func (h *DashboardHandler) fail(w http.ResponseWriter, what string, err error) {
	logger.L.Error("Dashboard computation failed", "metric", what, "error", err)
	utils.SendJSONError(w, "Erro ao calcular métricas.", http.StatusInternalServerError)
}

func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "summary", err)
		return
	}
	res, err := h.dashboard.SummaryWithComparison(r.Context(), f)
	if err != nil {
		h.fail(w, "summary", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleTimeseries(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "timeseries", err)
		return
	}
	res, err := h.dashboard.Timeseries(r.Context(), f)
	if err != nil {
		h.fail(w, "timeseries", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "status", err)
		return
	}
	res, err := h.dashboard.StatusBreakdown(r.Context(), f)
	if err != nil {
		h.fail(w, "status", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleABC(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "abc", err)
		return
	}
	res, err := h.dashboard.ABC(r.Context(), f)
	if err != nil {
		h.fail(w, "abc", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "top-products", err)
		return
	}
	res, err := h.dashboard.TopProducts(r.Context(), f, parseLimit(r, 10))
	if err != nil {
		h.fail(w, "top-products", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleGeo(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "geo", err)
		return
	}
	limit := parseLimit(r, 10)
	var res any
	if r.URL.Query().Get("dim") == "cidade" {
		res, err = h.dashboard.GeoCities(r.Context(), f, limit)
	} else {
		res, err = h.dashboard.GeoStates(r.Context(), f, limit)
	}
	if err != nil {
		h.fail(w, "geo", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleMargin(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "margin", err)
		return
	}
	res, err := h.dashboard.MarginTiers(r.Context(), f)
	if err != nil {
		h.fail(w, "margin", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleRFM(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "rfm", err)
		return
	}
	res, err := h.dashboard.RFM(r.Context(), f)
	if err != nil {
		h.fail(w, "rfm", err)
		return
	}
	h.respond(w, f, adjusted, res)
}

func (h *DashboardHandler) HandleCohort(w http.ResponseWriter, r *http.Request) {
	f, adjusted, err := h.resolveFilter(r.Context(), r)
	if err != nil {
		h.fail(w, "cohort", err)
		return
	}
	res, err := h.dashboard.Cohort(r.Context(), f)
	if err != nil {
		h.fail(w, "cohort", err)
		return
	}
	h.respond(w, f, adjusted, res)
}
