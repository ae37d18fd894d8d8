package repository

import (
	"context"

	"erp-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseListFilter struct {
	PurchaseNo string // partial match on purchase_no
	VendorName string // partial match on vendor_name
	Page       int
	Limit      int
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter PurchaseListFilter) ([]model.Purchase, int64, error)
	ExistsByDocNo(ctx context.Context, docNo string) (bool, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return GetDB(ctx, r.db).Create(purchase).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := GetDB(ctx, r.db).Preload("Items").First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) List(ctx context.Context, filter PurchaseListFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Purchase{})
	if filter.PurchaseNo != "" {
		db = db.Where("purchase_no ILIKE ?", "%"+filter.PurchaseNo+"%")
	}
	if filter.VendorName != "" {
		db = db.Where("vendor_name ILIKE ?", "%"+filter.VendorName+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Items").Order("created_at desc").
		Offset(offset).Limit(filter.Limit).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}

func (r *purchaseRepository) ExistsByDocNo(ctx context.Context, docNo string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Purchase{}).
		Where("purchase_no = ?", docNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
