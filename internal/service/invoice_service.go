package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"erp-backend/internal/billing"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxDocNoAttempts bounds the generate/check/regenerate loop. The 8-char
// random suffix makes more than one round astronomically unlikely.
const maxDocNoAttempts = 5

// --- DTOs ---

type CreateInvoiceRequest struct {
	CustomerName string            `json:"customer_name" binding:"required"`
	Discount     string            `json:"discount"` // percent 0-100, optional
	Items        []LineItemRequest `json:"items" binding:"required"`
}

type InvoiceFilter struct {
	InvoiceNo    string // partial match on invoice_no
	CustomerName string // partial match on customer_name
	Page         int
	Limit        int
}

type InvoiceResponse struct {
	ID                string               `json:"id"`
	InvoiceNo         string               `json:"invoice_no"`
	CustomerName      string               `json:"customer_name"`
	DiscountPercent   string               `json:"discount_percent"`
	TotalInvoiceValue string               `json:"total_invoice_value"`
	DiscountAmount    string               `json:"discount_amount"`
	Total             string               `json:"total"`
	Items             []LineTotalsResponse `json:"items"`
	CreatedAt         string               `json:"created_at"`
}

// InvoicePreviewResponse carries computed totals for a draft that has not
// been persisted, so a form can refresh totals while the user edits.
type InvoicePreviewResponse struct {
	Items             []LineTotalsResponse `json:"items"`
	TotalInvoiceValue string               `json:"total_invoice_value"`
	DiscountAmount    string               `json:"discount_amount"`
	Total             string               `json:"total"`
}

// GSTBreakdownRow is one tax-rate bucket of a document, with the intrastate
// split and interstate amount precomputed for reporting.
type GSTBreakdownRow struct {
	GSTRate       int    `json:"gst_rate"`
	TaxableAmount string `json:"taxable_amount"`
	GSTAmount     string `json:"gst_amount"`
	CGST          string `json:"cgst"`
	SGST          string `json:"sgst"`
	IGST          string `json:"igst"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	PreviewInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoicePreviewResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	GetGSTBreakdown(ctx context.Context, id string) ([]GSTBreakdownRow, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
	companyCode string
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
	companyCode string,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		txManager:   txManager,
		companyCode: companyCode,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	draft, discount, err := s.buildDraft(req)
	if err != nil {
		return InvoiceResponse{}, err
	}

	catalog, err := loadCatalog(ctx, s.productRepo)
	if err != nil {
		return InvoiceResponse{}, err
	}

	if vr := billing.ValidateInvoice(draft, catalog); !vr.IsValid {
		return InvoiceResponse{}, &ValidationError{Errors: vr.Errors}
	}

	lines, err := billing.NewCalculator(catalog).ComputeAllLineTotals(draft.Items)
	if err != nil {
		return InvoiceResponse{}, err
	}
	totals := billing.ComputeInvoiceTotals(lines, discount)

	invoice := model.Invoice{
		CustomerName:      req.CustomerName,
		DiscountPercent:   decimal.Decimal(discount),
		TotalInvoiceValue: totals.TotalInvoiceValue,
		DiscountAmount:    totals.DiscountAmount,
		Total:             totals.Total,
		Items:             toInvoiceItems(lines),
	}

	if err := s.persistWithFreshNumber(ctx, &invoice); err != nil {
		return InvoiceResponse{}, err
	}

	reloaded, err := s.invoiceRepo.FindByID(ctx, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

func (s *invoiceService) PreviewInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoicePreviewResponse, error) {
	draft, discount, err := s.buildDraft(req)
	if err != nil {
		return InvoicePreviewResponse{}, err
	}

	catalog, err := loadCatalog(ctx, s.productRepo)
	if err != nil {
		return InvoicePreviewResponse{}, err
	}

	lines, err := billing.NewCalculator(catalog).ComputeAllLineTotals(draft.Items)
	if err != nil {
		return InvoicePreviewResponse{}, err
	}
	totals := billing.ComputeInvoiceTotals(lines, discount)

	items := make([]LineTotalsResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, toLineTotalsResponse(l))
	}
	return InvoicePreviewResponse{
		Items:             items,
		TotalInvoiceValue: totals.TotalInvoiceValue.StringFixed(2),
		DiscountAmount:    totals.DiscountAmount.StringFixed(2),
		Total:             totals.Total.StringFixed(2),
	}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		InvoiceNo:    filter.InvoiceNo,
		CustomerName: filter.CustomerName,
		Page:         filter.Page,
		Limit:        filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// GetGSTBreakdown groups a stored invoice's lines by GST rate, with the
// CGST/SGST split and IGST amount per bucket.
func (s *invoiceService) GetGSTBreakdown(ctx context.Context, id string) ([]GSTBreakdownRow, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}

	lines := make([]billing.LineTotals, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		lines = append(lines, billing.LineTotals{
			Product:      item.ProductName,
			GSTRate:      item.GSTRate,
			TaxableValue: item.TaxableValue,
			GST:          item.GST,
			InvoiceValue: item.InvoiceValue,
		})
	}

	buckets := billing.GSTBreakdown(lines)
	rates := make([]int, 0, len(buckets))
	for rate := range buckets {
		rates = append(rates, rate)
	}
	sort.Ints(rates)

	rows := make([]GSTBreakdownRow, 0, len(rates))
	for _, rate := range rates {
		b := buckets[rate]
		cgst, sgst := billing.SplitCGSTSGST(b.GSTAmount)
		rows = append(rows, GSTBreakdownRow{
			GSTRate:       rate,
			TaxableAmount: b.TaxableAmount.StringFixed(2),
			GSTAmount:     b.GSTAmount.StringFixed(2),
			CGST:          cgst.StringFixed(2),
			SGST:          sgst.StringFixed(2),
			IGST:          billing.IGST(b.GSTAmount).StringFixed(2),
		})
	}
	return rows, nil
}

// --- Helpers ---

func (s *invoiceService) buildDraft(req CreateInvoiceRequest) (billing.InvoiceDraft, billing.DiscountPercent, error) {
	items, err := toLineItems(req.Items)
	if err != nil {
		return billing.InvoiceDraft{}, billing.DiscountPercent{}, err
	}

	discount := billing.DiscountPercent(decimal.Zero)
	draft := billing.InvoiceDraft{
		CustomerName: req.CustomerName,
		Items:        items,
	}
	if req.Discount != "" {
		pct, err := decimal.NewFromString(req.Discount)
		if err != nil {
			return billing.InvoiceDraft{}, billing.DiscountPercent{}, fmt.Errorf("invalid discount: %w", err)
		}
		discount = billing.DiscountPercent(pct)
		draft.Discount = &discount
	}
	return draft, discount, nil
}

// persistWithFreshNumber issues a document number and inserts the invoice,
// regenerating the number when the existence check or the unique index
// reports a collision.
func (s *invoiceService) persistWithFreshNumber(ctx context.Context, invoice *model.Invoice) error {
	for attempt := 0; attempt < maxDocNoAttempts; attempt++ {
		docNo := billing.GenerateUniqueNumber(s.companyCode, time.Now())

		exists, err := s.invoiceRepo.ExistsByDocNo(ctx, docNo)
		if err != nil {
			return fmt.Errorf("failed to check invoice number: %w", err)
		}
		if exists {
			continue
		}

		invoice.InvoiceNo = docNo
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.invoiceRepo.Create(txCtx, invoice)
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		return nil
	}
	return fmt.Errorf("failed to issue a unique invoice number after %d attempts", maxDocNoAttempts)
}

// --- Mapping ---

func toInvoiceItems(lines []billing.LineTotals) []model.InvoiceItem {
	items := make([]model.InvoiceItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.InvoiceItem{
			ProductName:  l.Product,
			HSNCode:      l.HSNCode,
			Unit:         l.Unit,
			GSTRate:      l.GSTRate,
			Qty:          l.Qty,
			Rate:         l.Rate,
			TaxableValue: l.TaxableValue,
			GST:          l.GST,
			InvoiceValue: l.InvoiceValue,
			ExpiryDate:   l.ExpiryDate,
		})
	}
	return items
}

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	items := make([]LineTotalsResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, LineTotalsResponse{
			Product:      item.ProductName,
			Qty:          item.Qty.String(),
			Rate:         item.Rate.StringFixed(2),
			GSTRate:      item.GSTRate,
			Unit:         item.Unit,
			HSNCode:      item.HSNCode,
			TaxableValue: item.TaxableValue.StringFixed(2),
			GST:          item.GST.StringFixed(2),
			InvoiceValue: item.InvoiceValue.StringFixed(2),
			ExpiryDate:   item.ExpiryDate.Format("2006-01-02"),
		})
	}
	return InvoiceResponse{
		ID:                inv.ID.String(),
		InvoiceNo:         inv.InvoiceNo,
		CustomerName:      inv.CustomerName,
		DiscountPercent:   inv.DiscountPercent.StringFixed(2),
		TotalInvoiceValue: inv.TotalInvoiceValue.StringFixed(2),
		DiscountAmount:    inv.DiscountAmount.StringFixed(2),
		Total:             inv.Total.StringFixed(2),
		Items:             items,
		CreatedAt:         inv.CreatedAt.Format(time.RFC3339),
	}
}
