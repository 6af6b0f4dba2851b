package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/application/report"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
)

// ReportHandler serves invoice reports
type ReportHandler struct {
	BaseHandler
	reportService *report.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *report.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary godoc
// @ID           getReportSummary
// @Summary      Invoice summary
// @Description  Counts and amounts over the tenant's invoices, optionally bounded by invoice date (inclusive)
// @Tags         reports
// @Produce      json
// @Param        from  query  string  false  "From date (YYYY-MM-DD)"
// @Param        to    query  string  false  "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.SummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var filter report.SummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.reportService.Summary(c.Request.Context(), scope.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
