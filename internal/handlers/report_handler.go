package handlers

import (
	"net/http"

	"ecoharvest-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewReportHandler(s *store.Store, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{store: s, logger: logger}
}

// --- GET /api/reports ---
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	report, err := h.store.GetSalesReport()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", report)
}

// --- GET /api/reports/valuation ---
// Values all remaining batch stock at its import cost.
func (h *ReportHandler) GetStockValuation(c *gin.Context) {
	valuation, err := h.store.GetStockValuation()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, "", valuation)
}
