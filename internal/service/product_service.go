package service

import (
	"context"
	"fmt"

	"erp-backend/internal/billing"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateProductRequest struct {
	Name    string `json:"name" binding:"required"`
	Rate    string `json:"rate" binding:"required"` // decimal string
	GSTRate int    `json:"gst_rate"`
	Unit    string `json:"unit"`
	HSNCode string `json:"hsn_code"`
}

type UpdateProductRequest struct {
	Name    *string `json:"name"`
	Rate    *string `json:"rate"`
	GSTRate *int    `json:"gst_rate"`
	Unit    *string `json:"unit"`
	HSNCode *string `json:"hsn_code"`
}

type ProductResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rate    string `json:"rate"`
	GSTRate int    `json:"gst_rate"`
	Unit    string `json:"unit"`
	HSNCode string `json:"hsn_code"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// --- Implementation ---

func (s *productService) CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error) {
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid rate: %w", err)
	}
	if rate.IsNegative() {
		return ProductResponse{}, fmt.Errorf("rate must not be negative")
	}
	if !billing.IsValidGSTRate(req.GSTRate) {
		return ProductResponse{}, fmt.Errorf("invalid gst_rate %d: must be one of 0, 5, 12, 18, 28", req.GSTRate)
	}
	if req.HSNCode != "" && !billing.IsValidHSNCode(req.HSNCode) {
		return ProductResponse{}, fmt.Errorf("invalid hsn_code %q: must be 4-8 digits", req.HSNCode)
	}

	product := model.Product{
		Name:    req.Name,
		Rate:    rate,
		GSTRate: req.GSTRate,
		Unit:    req.Unit,
		HSNCode: req.HSNCode,
	}
	if err := s.productRepo.Create(ctx, &product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to create product: %w", err)
	}
	return toProductResponse(product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("product not found: %w", err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Rate != nil {
		rate, err := decimal.NewFromString(*req.Rate)
		if err != nil {
			return ProductResponse{}, fmt.Errorf("invalid rate: %w", err)
		}
		product.Rate = rate
	}
	if req.GSTRate != nil {
		if !billing.IsValidGSTRate(*req.GSTRate) {
			return ProductResponse{}, fmt.Errorf("invalid gst_rate %d: must be one of 0, 5, 12, 18, 28", *req.GSTRate)
		}
		product.GSTRate = *req.GSTRate
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.HSNCode != nil {
		if *req.HSNCode != "" && !billing.IsValidHSNCode(*req.HSNCode) {
			return ProductResponse{}, fmt.Errorf("invalid hsn_code %q: must be 4-8 digits", *req.HSNCode)
		}
		product.HSNCode = *req.HSNCode
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to update product: %w", err)
	}
	return toProductResponse(*product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("product not found: %w", err)
	}
	return toProductResponse(*product), nil
}

func (s *productService) ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error) {
	products, total, err := s.productRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	return result, total, nil
}

// --- Mapping ---

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:      p.ID.String(),
		Name:    p.Name,
		Rate:    p.Rate.StringFixed(2),
		GSTRate: p.GSTRate,
		Unit:    p.Unit,
		HSNCode: p.HSNCode,
	}
}
