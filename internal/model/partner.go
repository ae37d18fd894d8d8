package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartnerType enum constants
const (
	PartnerTypeCustomer = "CUSTOMER"
	PartnerTypeVendor   = "VENDOR"
)

// Partner represents a customer or vendor in the directory. Vendors carry a
// generated code (VEND...); customers do not.
type Partner struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Type      string         `gorm:"type:varchar(20);not null;index" json:"type"` // CUSTOMER, VENDOR
	Code      string         `gorm:"type:varchar(20);index:idx_partners_code,unique,where:code <> ''" json:"code"`
	GSTNumber string         `gorm:"type:varchar(15)" json:"gst_number"`
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	Address   string         `gorm:"type:text" json:"address"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
