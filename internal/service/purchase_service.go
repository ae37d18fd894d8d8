package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"erp-backend/internal/billing"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePurchaseRequest struct {
	VendorName string            `json:"vendor_name" binding:"required"`
	Discount   string            `json:"discount"` // absolute amount, optional
	Items      []LineItemRequest `json:"items" binding:"required"`
}

type PurchaseFilter struct {
	PurchaseNo string // partial match on purchase_no
	VendorName string // partial match on vendor_name
	Page       int
	Limit      int
}

type PurchaseResponse struct {
	ID           string               `json:"id"`
	PurchaseNo   string               `json:"purchase_no"`
	VendorName   string               `json:"vendor_name"`
	Discount     string               `json:"discount"`
	TaxableValue string               `json:"taxable_value"`
	GST          string               `json:"gst"`
	InvoiceValue string               `json:"invoice_value"`
	Total        string               `json:"total"`
	Items        []LineTotalsResponse `json:"items"`
	CreatedAt    string               `json:"created_at"`
}

// --- Interface ---

type PurchaseService interface {
	CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (PurchaseResponse, error)
	GetPurchase(ctx context.Context, id string) (PurchaseResponse, error)
	ListPurchases(ctx context.Context, filter PurchaseFilter) ([]PurchaseResponse, int64, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	txManager    repository.TransactionManager
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *purchaseService) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (PurchaseResponse, error) {
	items, err := toLineItems(req.Items)
	if err != nil {
		return PurchaseResponse{}, err
	}

	discount := billing.DiscountAmount(decimal.Zero)
	draft := billing.PurchaseDraft{
		VendorName: req.VendorName,
		Items:      items,
	}
	if req.Discount != "" {
		amt, err := decimal.NewFromString(req.Discount)
		if err != nil {
			return PurchaseResponse{}, fmt.Errorf("invalid discount: %w", err)
		}
		discount = billing.DiscountAmount(amt)
		draft.Discount = &discount
	}

	catalog, err := loadCatalog(ctx, s.productRepo)
	if err != nil {
		return PurchaseResponse{}, err
	}

	if vr := billing.ValidatePurchase(draft, catalog); !vr.IsValid {
		return PurchaseResponse{}, &ValidationError{Errors: vr.Errors}
	}

	lines, err := billing.NewCalculator(catalog).ComputeAllLineTotals(items)
	if err != nil {
		return PurchaseResponse{}, err
	}
	totals := billing.ComputePurchaseTotals(lines, discount)

	purchase := model.Purchase{
		VendorName:   req.VendorName,
		Discount:     decimal.Decimal(discount),
		TaxableValue: totals.TaxableValue,
		GST:          totals.GST,
		InvoiceValue: totals.InvoiceValue,
		Total:        totals.Total,
		Items:        toPurchaseItems(lines),
	}

	if err := s.persistWithFreshNumber(ctx, &purchase); err != nil {
		return PurchaseResponse{}, err
	}

	reloaded, err := s.purchaseRepo.FindByID(ctx, purchase.ID)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("failed to reload purchase: %w", err)
	}
	return toPurchaseResponse(*reloaded), nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, id string) (PurchaseResponse, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("invalid purchase id: %w", err)
	}
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("purchase not found: %w", err)
	}
	return toPurchaseResponse(*purchase), nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, filter PurchaseFilter) ([]PurchaseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	purchases, total, err := s.purchaseRepo.List(ctx, repository.PurchaseListFilter{
		PurchaseNo: filter.PurchaseNo,
		VendorName: filter.VendorName,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchases: %w", err)
	}

	result := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		result = append(result, toPurchaseResponse(p))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *purchaseService) persistWithFreshNumber(ctx context.Context, purchase *model.Purchase) error {
	for attempt := 0; attempt < maxDocNoAttempts; attempt++ {
		docNo := billing.GenerateUniqueNumber(billing.PurchasePrefix, time.Now())

		exists, err := s.purchaseRepo.ExistsByDocNo(ctx, docNo)
		if err != nil {
			return fmt.Errorf("failed to check purchase number: %w", err)
		}
		if exists {
			continue
		}

		purchase.PurchaseNo = docNo
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.purchaseRepo.Create(txCtx, purchase)
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}
		return nil
	}
	return fmt.Errorf("failed to issue a unique purchase number after %d attempts", maxDocNoAttempts)
}

// --- Mapping ---

func toPurchaseItems(lines []billing.LineTotals) []model.PurchaseItem {
	items := make([]model.PurchaseItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.PurchaseItem{
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

func toPurchaseResponse(p model.Purchase) PurchaseResponse {
	items := make([]LineTotalsResponse, 0, len(p.Items))
	for _, item := range p.Items {
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
	return PurchaseResponse{
		ID:           p.ID.String(),
		PurchaseNo:   p.PurchaseNo,
		VendorName:   p.VendorName,
		Discount:     p.Discount.StringFixed(2),
		TaxableValue: p.TaxableValue.StringFixed(2),
		GST:          p.GST.StringFixed(2),
		InvoiceValue: p.InvoiceValue.StringFixed(2),
		Total:        p.Total.StringFixed(2),
		Items:        items,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
