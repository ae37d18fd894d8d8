package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// --- DTOs ---

type SalesDataPoint struct {
	Period            string `json:"period"`
	TotalSales        string `json:"total_sales"`
	TotalGSTCollected string `json:"total_gst_collected"`
	TotalPurchases    string `json:"total_purchases"`
	TotalGSTPaid      string `json:"total_gst_paid"`
}

type ReportFilter struct {
	GroupBy   string // day, week, month, quarter, year
	StartDate string // RFC3339
	EndDate   string // RFC3339
}

// --- Interface ---

type ReportService interface {
	GetSalesReport(ctx context.Context, filter ReportFilter) ([]SalesDataPoint, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// --- Implementation ---

// GetSalesReport returns sales and purchase totals grouped by period. All
// figures are summed from the stored per-document columns; nothing is
// recomputed from line items except invoice GST, which has no header column.
func (s *reportService) GetSalesReport(ctx context.Context, filter ReportFilter) ([]SalesDataPoint, error) {
	groupBy := filter.GroupBy
	switch groupBy {
	case "day", "week", "month", "quarter", "year":
		// valid
	default:
		groupBy = "month"
	}

	query := `
		SELECT
			TO_CHAR(DATE_TRUNC($1, d.created_at), 'YYYY-MM-DD') AS period,
			COALESCE(SUM(d.total) FILTER (WHERE d.kind = 'SALE'), 0) AS total_sales,
			COALESCE(SUM(d.gst) FILTER (WHERE d.kind = 'SALE'), 0) AS total_gst_collected,
			COALESCE(SUM(d.total) FILTER (WHERE d.kind = 'PURCHASE'), 0) AS total_purchases,
			COALESCE(SUM(d.gst) FILTER (WHERE d.kind = 'PURCHASE'), 0) AS total_gst_paid
		FROM (
			SELECT i.created_at, i.total,
				(SELECT COALESCE(SUM(ii.gst), 0) FROM invoice_items ii WHERE ii.invoice_id = i.id) AS gst,
				'SALE' AS kind
			FROM invoices i
			UNION ALL
			SELECT p.created_at, p.total, p.gst, 'PURCHASE' AS kind
			FROM purchases p
		) d
		WHERE d.created_at >= $2::timestamptz
		  AND d.created_at <= $3::timestamptz
		GROUP BY DATE_TRUNC($1, d.created_at)
		ORDER BY period
	`

	type rawResult struct {
		Period            string  `gorm:"column:period"`
		TotalSales        float64 `gorm:"column:total_sales"`
		TotalGSTCollected float64 `gorm:"column:total_gst_collected"`
		TotalPurchases    float64 `gorm:"column:total_purchases"`
		TotalGSTPaid      float64 `gorm:"column:total_gst_paid"`
	}

	var rows []rawResult
	if err := s.db.WithContext(ctx).Raw(query,
		groupBy,
		filter.StartDate,
		filter.EndDate,
	).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales report: %w", err)
	}

	result := make([]SalesDataPoint, 0, len(rows))
	for _, r := range rows {
		result = append(result, SalesDataPoint{
			Period:            r.Period,
			TotalSales:        fmt.Sprintf("%.2f", r.TotalSales),
			TotalGSTCollected: fmt.Sprintf("%.2f", r.TotalGSTCollected),
			TotalPurchases:    fmt.Sprintf("%.2f", r.TotalPurchases),
			TotalGSTPaid:      fmt.Sprintf("%.2f", r.TotalGSTPaid),
		})
	}
	return result, nil
}
