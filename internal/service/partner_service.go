package service

import (
	"context"
	"fmt"
	"time"

	"erp-backend/internal/billing"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreatePartnerRequest struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=CUSTOMER VENDOR"`
	GSTNumber string `json:"gst_number"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

type UpdatePartnerRequest struct {
	Name      *string `json:"name"`
	GSTNumber *string `json:"gst_number"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	IsActive  *bool   `json:"is_active"`
}

type PartnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	GSTNumber string `json:"gst_number"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type PartnerService interface {
	CreatePartner(ctx context.Context, req CreatePartnerRequest) (PartnerResponse, error)
	UpdatePartner(ctx context.Context, id string, req UpdatePartnerRequest) (PartnerResponse, error)
	DeletePartner(ctx context.Context, id string) error
	GetPartner(ctx context.Context, id string) (PartnerResponse, error)
	ListPartners(ctx context.Context, partnerType string, page, limit int, search string) ([]PartnerResponse, int64, error)
}

type partnerService struct {
	partnerRepo repository.PartnerRepository
}

func NewPartnerService(partnerRepo repository.PartnerRepository) PartnerService {
	return &partnerService{partnerRepo: partnerRepo}
}

// --- Implementation ---

func (s *partnerService) CreatePartner(ctx context.Context, req CreatePartnerRequest) (PartnerResponse, error) {
	if !billing.IsValidGSTNumber(req.GSTNumber) {
		return PartnerResponse{}, fmt.Errorf("invalid gst_number %q", req.GSTNumber)
	}

	partner := model.Partner{
		Name:      req.Name,
		Type:      req.Type,
		GSTNumber: req.GSTNumber,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		IsActive:  true,
	}

	// Vendors get a generated code; regenerate on the rare collision.
	if req.Type == model.PartnerTypeVendor {
		code, err := s.issueVendorCode(ctx)
		if err != nil {
			return PartnerResponse{}, err
		}
		partner.Code = code
	}

	if err := s.partnerRepo.Create(ctx, &partner); err != nil {
		return PartnerResponse{}, fmt.Errorf("failed to create partner: %w", err)
	}
	return toPartnerResponse(partner), nil
}

func (s *partnerService) UpdatePartner(ctx context.Context, id string, req UpdatePartnerRequest) (PartnerResponse, error) {
	partnerID, err := uuid.Parse(id)
	if err != nil {
		return PartnerResponse{}, fmt.Errorf("invalid partner id: %w", err)
	}

	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return PartnerResponse{}, fmt.Errorf("partner not found: %w", err)
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.GSTNumber != nil {
		if !billing.IsValidGSTNumber(*req.GSTNumber) {
			return PartnerResponse{}, fmt.Errorf("invalid gst_number %q", *req.GSTNumber)
		}
		partner.GSTNumber = *req.GSTNumber
	}
	if req.Phone != nil {
		partner.Phone = *req.Phone
	}
	if req.Email != nil {
		partner.Email = *req.Email
	}
	if req.Address != nil {
		partner.Address = *req.Address
	}
	if req.IsActive != nil {
		partner.IsActive = *req.IsActive
	}

	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return PartnerResponse{}, fmt.Errorf("failed to update partner: %w", err)
	}
	return toPartnerResponse(*partner), nil
}

func (s *partnerService) DeletePartner(ctx context.Context, id string) error {
	partnerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid partner id: %w", err)
	}
	if err := s.partnerRepo.Delete(ctx, partnerID); err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	return nil
}

func (s *partnerService) GetPartner(ctx context.Context, id string) (PartnerResponse, error) {
	partnerID, err := uuid.Parse(id)
	if err != nil {
		return PartnerResponse{}, fmt.Errorf("invalid partner id: %w", err)
	}
	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return PartnerResponse{}, fmt.Errorf("partner not found: %w", err)
	}
	return toPartnerResponse(*partner), nil
}

func (s *partnerService) ListPartners(ctx context.Context, partnerType string, page, limit int, search string) ([]PartnerResponse, int64, error) {
	partners, total, err := s.partnerRepo.List(ctx, partnerType, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch partners: %w", err)
	}
	result := make([]PartnerResponse, 0, len(partners))
	for _, p := range partners {
		result = append(result, toPartnerResponse(p))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *partnerService) issueVendorCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxDocNoAttempts; attempt++ {
		code := billing.GenerateVendorCode(time.Now())
		exists, err := s.partnerRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check vendor code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to issue a unique vendor code after %d attempts", maxDocNoAttempts)
}

// --- Mapping ---

func toPartnerResponse(p model.Partner) PartnerResponse {
	return PartnerResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Type:      p.Type,
		Code:      p.Code,
		GSTNumber: p.GSTNumber,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
