package persistence

import (
	"github.com/salesledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the ledger schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.CustomerModel{},
		&models.ContactModel{},
		&models.ProductModel{},
		&models.SaleModel{},
		&models.SaleItemModel{},
		&models.PaymentModel{},
		&models.PaymentAllocationModel{},
	)
}
