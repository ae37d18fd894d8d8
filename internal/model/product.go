package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents an item in the product master
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Rate      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	GSTRate   int             `gorm:"type:int;not null;default:0" json:"gst_rate"` // 0, 5, 12, 18, 28
	Unit      string          `gorm:"type:varchar(50)" json:"unit"`
	HSNCode   string          `gorm:"type:varchar(8)" json:"hsn_code"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
