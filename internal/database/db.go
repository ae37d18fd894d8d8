package database

import (
	"log"

	"erp-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	// TranslateError lets services detect unique-index violations
	// (gorm.ErrDuplicatedKey) during document-number conflict retries.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Product{},
		&model.Partner{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.Payment{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
