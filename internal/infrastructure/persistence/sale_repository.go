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
	"gorm.io/gorm"
)

// saleUpdateColumns are the columns Update may touch. Line items are
// immutable after creation and are never written through Update.
var saleUpdateColumns = []string{
	"buyer_name", "project", "sale_date", "note",
	"total_amount", "paid_amount", "ar_amount", "payment_status",
	"updated_at", "version",
}

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID, line items preloaded
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleNo finds a sale by its sale number
func (r *GormSaleRepository) FindBySaleNo(ctx context.Context, saleNo string) (*ledger.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "sale_no = ?", saleNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple sales by their IDs
func (r *GormSaleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ledger.Sale, error) {
	if len(ids) == 0 {
		return []*ledger.Sale{}, nil
	}
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN ?", ids).
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindOpenByCustomer returns the customer's sales that still carry an
// outstanding balance, ordered by sale date then identifier ascending.
func (r *GormSaleRepository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ledger.Sale, error) {
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND payment_status <> ?", customerID, ledger.PaymentStatusPaid).
		Order("sale_date ASC, id ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindRecentByCustomer returns the customer's latest sales
func (r *GormSaleRepository) FindRecentByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*ledger.Sale, error) {
	if limit <= 0 {
		limit = 10
	}
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("sale_date DESC, created_at DESC").
		Limit(limit).
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// Query lists sales matching the query, line items preloaded
func (r *GormSaleRepository) Query(ctx context.Context, q ledger.SaleQuery, filter shared.Filter) (*shared.Paginated[*ledger.Sale], error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	if q.CustomerID != nil {
		query = query.Where("customer_id = ?", *q.CustomerID)
	}
	if q.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *q.PaymentStatus)
	}
	if q.Keyword != "" {
		pattern := "%" + q.Keyword + "%"
		query = query.Where("sale_no LIKE ? OR project LIKE ? OR buyer_name LIKE ?", pattern, pattern, pattern)
	}
	if q.DateFrom != nil {
		query = query.Where("sale_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("sale_date <= ?", *q.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var saleModels []models.SaleModel
	if err := query.
		Preload("Items").
		Order("sale_date DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&saleModels).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(toDomainSales(saleModels), total, filter.Page, filter.Limit())
	return &page, nil
}

// Save creates a sale together with its line items
func (r *GormSaleRepository) Save(ctx context.Context, sale *ledger.Sale) error {
	model := models.SaleModelFromDomain(sale)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists the sale's mutable columns with an optimistic version
// check. A stale version returns ErrConcurrencyConflict so the caller can
// reload and replay; on success the in-memory version advances with the row.
func (r *GormSaleRepository) Update(ctx context.Context, sale *ledger.Sale) error {
	model := models.SaleModelFromDomain(sale)
	model.Version = sale.Version + 1

	result := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("id = ? AND version = ?", sale.ID, sale.Version).
		Select(saleUpdateColumns).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	sale.IncrementVersion()
	return nil
}

// Delete removes the sale together with its line items and any payments
// still recorded directly against it. Allocation fragments targeting the
// sale are the caller's responsibility.
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&models.SaleItemModel{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.PaymentModel{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateSaleNumber produces the next SO<yyyymmdd>-<seq> number for the
// given day by scanning the day's highest existing number. Uniqueness is
// enforced by the sale_no index; callers retry on collisions.
func (r *GormSaleRepository) GenerateSaleNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := "SO" + day.Format("20060102")
	seq, err := nextSequence(r.db.WithContext(ctx), &models.SaleModel{}, "sale_no", prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}

// nextSequence finds the highest <prefix>-NNNN value in the column and
// returns the following sequence number.
func nextSequence(db *gorm.DB, model any, column, prefix string) (int, error) {
	var maxNumber string
	if err := db.Model(model).
		Select(column).
		Where(column+" LIKE ?", prefix+"-%").
		Order(column + " DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	next := 1
	if len(maxNumber) >= 4 {
		var seq int
		if _, err := fmt.Sscanf(maxNumber[len(maxNumber)-4:], "%04d", &seq); err == nil {
			next = seq + 1
		}
	}
	return next, nil
}

func toDomainSales(saleModels []models.SaleModel) []*ledger.Sale {
	sales := make([]*ledger.Sale, len(saleModels))
	for i := range saleModels {
		sales[i] = saleModels[i].ToDomain()
	}
	return sales
}

// Ensure GormSaleRepository implements SaleRepository
var _ ledger.SaleRepository = (*GormSaleRepository)(nil)
