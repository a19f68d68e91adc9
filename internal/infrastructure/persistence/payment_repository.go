package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID, allocations preloaded
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).Preload("Allocations").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple payments by their IDs, allocations preloaded
func (r *GormPaymentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ledger.Payment, error) {
	if len(ids) == 0 {
		return []*ledger.Payment{}, nil
	}
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("id IN ?", ids).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindBySale returns payments recorded directly against the sale
func (r *GormPaymentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*ledger.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("sale_id = ?", saleID).
		Order("paid_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindAllocationsBySale returns allocation fragments targeting the sale
// from any payment
func (r *GormPaymentRepository) FindAllocationsBySale(ctx context.Context, saleID uuid.UUID) ([]*ledger.PaymentAllocation, error) {
	var allocationModels []models.PaymentAllocationModel
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	allocations := make([]*ledger.PaymentAllocation, len(allocationModels))
	for i := range allocationModels {
		allocations[i] = allocationModels[i].ToDomain()
	}
	return allocations, nil
}

// Query lists payments matching the query, allocations preloaded
func (r *GormPaymentRepository) Query(ctx context.Context, q ledger.PaymentQuery, filter shared.Filter) (*shared.Paginated[*ledger.Payment], error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if q.CustomerID != nil {
		query = query.Where("customer_id = ?", *q.CustomerID)
	}
	if q.SaleID != nil {
		query = query.Where("sale_id = ?", *q.SaleID)
	}
	if q.Method != nil {
		query = query.Where("method = ?", *q.Method)
	}
	if q.DateFrom != nil {
		query = query.Where("paid_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("paid_at <= ?", *q.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var paymentModels []models.PaymentModel
	if err := query.
		Preload("Allocations").
		Order("paid_at DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(toDomainPayments(paymentModels), total, filter.Page, filter.Limit())
	return &page, nil
}

// Save creates a payment together with its allocation fragments
func (r *GormPaymentRepository) Save(ctx context.Context, payment *ledger.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing payment. Allocation fragments
// added since the last save are created; removed fragments must be deleted
// through DeleteAllocation.
func (r *GormPaymentRepository) Update(ctx context.Context, payment *ledger.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	result := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ?", payment.ID).
		Select("customer_id", "sale_id", "receipt_no", "pay_type", "amount", "method", "paid_at", "note", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	for i := range model.Allocations {
		alloc := model.Allocations[i]
		if err := r.db.WithContext(ctx).
			Where(models.PaymentAllocationModel{ID: alloc.ID}).
			FirstOrCreate(&alloc).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the payment together with its allocations
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&models.PaymentAllocationModel{}, "payment_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.PaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllocation removes a single allocation fragment
func (r *GormPaymentRepository) DeleteAllocation(ctx context.Context, allocationID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentAllocationModel{}, "id = ?", allocationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumPaidForSale recomputes the sale's paid total from stored rows: the
// direct remainders of payments referencing the sale plus all allocation
// fragments targeting it. Direct remainder is the payment amount minus
// the payment's own fragments, so hybrid payments are never double-counted.
func (r *GormPaymentRepository) SumPaidForSale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	db := r.db.WithContext(ctx)

	directAmounts, err := sumDecimal(db.Model(&models.PaymentModel{}).
		Select("SUM(amount)").
		Where("sale_id = ?", saleID))
	if err != nil {
		return decimal.Zero, err
	}

	directAllocated, err := sumDecimal(db.Model(&models.PaymentAllocationModel{}).
		Select("SUM(payment_allocations.amount)").
		Joins("JOIN payments ON payments.id = payment_allocations.payment_id").
		Where("payments.sale_id = ?", saleID))
	if err != nil {
		return decimal.Zero, err
	}

	incoming, err := sumDecimal(db.Model(&models.PaymentAllocationModel{}).
		Select("SUM(amount)").
		Where("sale_id = ?", saleID))
	if err != nil {
		return decimal.Zero, err
	}

	return directAmounts.Sub(directAllocated).Add(incoming), nil
}

// CountAllocationsByCustomer counts allocation fragments on the customer's payments
func (r *GormPaymentRepository) CountAllocationsByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocationModel{}).
		Joins("JOIN payments ON payments.id = payment_allocations.payment_id").
		Where("payments.customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReceiptNumber produces the next RC<yyyymmdd>-<seq> receipt number
// for the given day
func (r *GormPaymentRepository) GenerateReceiptNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := "RC" + day.Format("20060102")
	seq, err := nextSequence(r.db.WithContext(ctx), &models.PaymentModel{}, "receipt_no", prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}

func sumDecimal(query *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := query.Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func toDomainPayments(paymentModels []models.PaymentModel) []*ledger.Payment {
	payments := make([]*ledger.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ ledger.PaymentRepository = (*GormPaymentRepository)(nil)
