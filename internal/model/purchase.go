package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is an inbound document from a vendor. Unlike sales invoices, the
// discount is an absolute currency amount, and the three per-line components
// are aggregated separately alongside the final total.
type Purchase struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseNo   string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"purchase_no"`
	VendorName   string          `gorm:"type:varchar(255);not null" json:"vendor_name"`
	Discount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount"` // absolute amount
	TaxableValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"taxable_value"`
	GST          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"gst"`
	InvoiceValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"invoice_value"`
	Total        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	Items        []PurchaseItem  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PurchaseItem is a line of a purchase document.
type PurchaseItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductName  string          `gorm:"type:varchar(255);not null" json:"product_name"`
	HSNCode      string          `gorm:"type:varchar(8)" json:"hsn_code"`
	Unit         string          `gorm:"type:varchar(50);not null" json:"unit"`
	GSTRate      int             `gorm:"type:int;not null" json:"gst_rate"`
	Qty          decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty"`
	Rate         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"taxable_value"`
	GST          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"gst"`
	InvoiceValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"invoice_value"`
	ExpiryDate   time.Time       `gorm:"type:date" json:"expiry_date"`
}
