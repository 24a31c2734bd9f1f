// backend/src/handlers/sales_handler.go
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/alyal/vendalytics/backend/src/model"
	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/alyal/vendalytics/backend/src/utils"
)

type SalesHandler struct {
	db *sql.DB
}

func NewSalesHandler(db *sql.DB) *SalesHandler {
	return &SalesHandler{db: db}
}

type salesPage struct {
	Vendas []models.CanonicalSale `json:"vendas"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// HandleListSales returns the canonical records for a period, paginated.
func (h *SalesHandler) HandleListSales(w http.ResponseWriter, r *http.Request) {
	f := parseSaleFilter(r)
	f.Limit = parseLimit(r, 100)
	if off, ok := positiveInt64(r.URL.Query().Get("offset")); ok {
		f.Offset = int(off)
	}

	total, err := model.CountSales(r.Context(), h.db, f)
	if err != nil {
		logger.L.Error("Failed to count sales", "error", err)
		utils.SendJSONError(w, "Erro ao listar vendas.", http.StatusInternalServerError)
		return
	}
	sales, err := model.ListSales(r.Context(), h.db, f)
	if err != nil {
		logger.L.Error("Failed to list sales", "error", err)
		utils.SendJSONError(w, "Erro ao listar vendas.", http.StatusInternalServerError)
		return
	}

	if sales == nil {
		sales = []models.CanonicalSale{}
	}
	utils.SendJSONResponse(w, salesPage{Vendas: sales, Total: total, Limit: f.Limit, Offset: f.Offset}, http.StatusOK)
}

// HandleListMarketplaces returns the registered sources for the upload form.
func (h *SalesHandler) HandleListMarketplaces(w http.ResponseWriter, r *http.Request) {
	marketplaces, err := model.ListMarketplaces(r.Context(), h.db)
	if err != nil {
		logger.L.Error("Failed to list marketplaces", "error", err)
		utils.SendJSONError(w, "Erro ao listar marketplaces.", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, marketplaces, http.StatusOK)
}
