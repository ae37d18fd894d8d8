package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMode enum constants
const (
	PaymentModeCash     = "CASH"
	PaymentModeUPI      = "UPI"
	PaymentModeCard     = "CARD"
	PaymentModeTransfer = "TRANSFER"
)

// Payment records money received against a sales invoice.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice   *Invoice        `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Mode      string          `gorm:"type:varchar(20);not null" json:"mode"` // CASH, UPI, CARD, TRANSFER
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
