package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a sales document. The discount is a percentage of the total
// invoice value; computed columns are stored exactly as issued and never
// recomputed after creation.
type Invoice struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo         string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"invoice_no"`
	CustomerName      string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	DiscountPercent   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	TotalInvoiceValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_invoice_value"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount_amount"`
	Total             decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	Items             []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InvoiceItem is a line of an invoice. Items are exclusively owned by their
// document; product columns are a hard copy of the master data at issue time.
type InvoiceItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductName  string          `gorm:"type:varchar(255);not null" json:"product_name"`
	HSNCode      string          `gorm:"type:varchar(8)" json:"hsn_code"`
	Unit         string          `gorm:"type:varchar(50)" json:"unit"`
	GSTRate      int             `gorm:"type:int;not null" json:"gst_rate"`
	Qty          decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty"`
	Rate         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"taxable_value"`
	GST          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"gst"`
	InvoiceValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"invoice_value"`
	ExpiryDate   time.Time       `gorm:"type:date" json:"expiry_date"`
}
