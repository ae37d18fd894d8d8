package handler

import (
	"net/http"
	"time"

	"erp-backend/internal/service"
	"erp-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/sales", h.GetSalesReport)
	}
}

// GetSalesReport returns sales/purchase/GST totals grouped by time period.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	groupBy := c.DefaultQuery("group_by", "month")
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	// Default to current month
	now := time.Now()
	if startDateStr == "" {
		startDateStr = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(time.RFC3339)
	}
	if endDateStr == "" {
		endDateStr = now.Format(time.RFC3339)
	}

	filter := service.ReportFilter{
		GroupBy:   groupBy,
		StartDate: startDateStr,
		EndDate:   endDateStr,
	}

	data, err := h.reportService.GetSalesReport(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
