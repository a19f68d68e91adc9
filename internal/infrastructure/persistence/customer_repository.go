package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a customer by exact name
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*ledger.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Search finds customers matching the keyword across name, contact and phone
func (r *GormCustomerRepository) Search(ctx context.Context, keyword string, activeOnly bool, filter shared.Filter) (*shared.Paginated[*ledger.Customer], error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR contact_name LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var customerModels []models.CustomerModel
	if err := query.
		Order("name ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]*ledger.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = customerModels[i].ToDomain()
	}
	page := shared.NewPaginated(customers, total, filter.Page, filter.Limit())
	return &page, nil
}

// Save creates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *ledger.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, customer *ledger.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	result := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("id = ?", customer.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountSales counts the customer's sales on record
func (r *GormCustomerRepository) CountSales(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountPayments counts the customer's payments on record
func (r *GormCustomerRepository) CountPayments(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumSalesTotal sums the customer's sale totals
func (r *GormCustomerRepository) SumSalesTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &models.SaleModel{}, "total_amount", customerID)
}

// SumPaymentsTotal sums the customer's payment amounts
func (r *GormCustomerRepository) SumPaymentsTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &models.PaymentModel{}, "amount", customerID)
}

func (r *GormCustomerRepository) sumColumn(ctx context.Context, model any, column string, customerID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(model).
		Select("SUM(" + column + ")").
		Where("customer_id = ?", customerID).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ ledger.CustomerRepository = (*GormCustomerRepository)(nil)
