package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns all contacts of a customer, oldest first
func (r *GormContactRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ledger.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	contacts := make([]*ledger.Contact, len(contactModels))
	for i := range contactModels {
		contacts[i] = contactModels[i].ToDomain()
	}
	return contacts, nil
}

// FindFirstByCustomer returns the customer's earliest contact, nil when none exists
func (r *GormContactRepository) FindFirstByCustomer(ctx context.Context, customerID uuid.UUID) (*ledger.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *ledger.Contact) error {
	model := models.ContactModelFromDomain(contact)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing contact
func (r *GormContactRepository) Update(ctx context.Context, contact *ledger.Contact) error {
	model := models.ContactModelFromDomain(contact)
	result := r.db.WithContext(ctx).Model(&models.ContactModel{}).
		Where("id = ?", contact.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormContactRepository implements ContactRepository
var _ ledger.ContactRepository = (*GormContactRepository)(nil)
