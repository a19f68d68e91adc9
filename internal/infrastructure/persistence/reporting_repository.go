package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportingRepository serves the statement and activity projections.
// It reads the denormalized columns the balance ledger maintains on sales
// and never writes anything back.
type GormReportingRepository struct {
	db *gorm.DB
}

// NewGormReportingRepository creates a new GormReportingRepository
func NewGormReportingRepository(db *gorm.DB) *GormReportingRepository {
	return &GormReportingRepository{db: db}
}

// Statement lists the customer's sales as statement lines
func (r *GormReportingRepository) Statement(ctx context.Context, q ledger.StatementQuery, page, pageSize int) ([]ledger.StatementLine, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("customer_id = ?", q.CustomerID)
	if q.DateFrom != nil {
		query = query.Where("sale_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("sale_date <= ?", *q.DateTo)
	}
	if q.Keyword != "" {
		pattern := "%" + q.Keyword + "%"
		query = query.Where("sale_no LIKE ? OR project LIKE ? OR buyer_name LIKE ?", pattern, pattern, pattern)
	}
	if q.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *q.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case ledger.StatementSortDateAsc:
		query = query.Order("sale_date ASC, created_at ASC")
	case ledger.StatementSortBalanceDesc:
		query = query.Order("ar_amount DESC, sale_date DESC")
	default:
		query = query.Order("sale_date DESC, created_at DESC")
	}

	var saleModels []models.SaleModel
	if err := query.
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&saleModels).Error; err != nil {
		return nil, 0, err
	}

	lines := make([]ledger.StatementLine, len(saleModels))
	for i, m := range saleModels {
		lines[i] = ledger.StatementLine{
			SaleID:        m.ID,
			SaleNo:        m.SaleNo,
			SaleDate:      m.SaleDate,
			Project:       m.Project,
			BuyerName:     m.BuyerName,
			TotalAmount:   m.TotalAmount,
			PaidAmount:    m.PaidAmount,
			ARAmount:      m.ARAmount,
			PaymentStatus: m.PaymentStatus,
			Note:          m.Note,
		}
	}
	return lines, total, nil
}

// StatementSummary totals the customer's lifetime sales position
func (r *GormReportingRepository) StatementSummary(ctx context.Context, customerID uuid.UUID) (*ledger.StatementSummary, error) {
	var row struct {
		TotalSales decimal.NullDecimal
		TotalPaid  decimal.NullDecimal
		TotalAR    decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Select("SUM(total_amount) AS total_sales, SUM(paid_amount) AS total_paid, SUM(ar_amount) AS total_ar").
		Where("customer_id = ?", customerID).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &ledger.StatementSummary{
		TotalSalesAmount: nullToZero(row.TotalSales),
		TotalPaidAmount:  nullToZero(row.TotalPaid),
		TotalBalance:     nullToZero(row.TotalAR),
	}, nil
}

// saleActivityRow carries the joined columns for a sale feed entry
type saleActivityRow struct {
	models.SaleModel
	CustomerName string
}

// SaleActivities lists sales in the activity feed, newest first
func (r *GormReportingRepository) SaleActivities(ctx context.Context, q ledger.ActivityQuery, page, pageSize int) ([]ledger.SaleActivity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Joins("JOIN customers ON customers.id = sales.customer_id")
	query = applySaleActivityFilter(query, q)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []saleActivityRow
	if err := query.
		Select("sales.*, customers.name AS customer_name").
		Order("sales.sale_date DESC, sales.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	activities := make([]ledger.SaleActivity, len(rows))
	for i, row := range rows {
		activities[i] = ledger.SaleActivity{
			OccurredAt:    row.SaleDate,
			SaleID:        row.ID,
			SaleNo:        row.SaleNo,
			CustomerID:    row.CustomerID,
			CustomerName:  row.CustomerName,
			TotalAmount:   row.TotalAmount,
			PaidAmount:    row.PaidAmount,
			Balance:       row.ARAmount,
			PaymentStatus: row.PaymentStatus,
		}
	}
	return activities, total, nil
}

func applySaleActivityFilter(query *gorm.DB, q ledger.ActivityQuery) *gorm.DB {
	if q.DateFrom != nil {
		query = query.Where("sales.sale_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("sales.sale_date <= ?", *q.DateTo)
	}
	if q.Keyword != "" {
		pattern := "%" + q.Keyword + "%"
		query = query.Where("sales.sale_no LIKE ? OR sales.project LIKE ? OR customers.name LIKE ?", pattern, pattern, pattern)
	}
	if q.Status != nil {
		query = query.Where("sales.payment_status = ?", *q.Status)
	}
	return query
}

// paymentActivityRow carries the joined columns for a payment feed entry
type paymentActivityRow struct {
	models.PaymentModel
	CustomerName string
}

// PaymentActivities lists payments in the activity feed, newest first.
// Each entry carries the numbers of every sale the payment funded: the
// direct reference first, then allocation targets oldest first.
func (r *GormReportingRepository) PaymentActivities(ctx context.Context, q ledger.ActivityQuery, page, pageSize int) ([]ledger.PaymentActivity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Joins("JOIN customers ON customers.id = payments.customer_id")
	if q.DateFrom != nil {
		query = query.Where("payments.paid_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("payments.paid_at <= ?", *q.DateTo)
	}
	if q.Keyword != "" {
		pattern := "%" + q.Keyword + "%"
		query = query.Where("payments.receipt_no LIKE ? OR customers.name LIKE ?", pattern, pattern)
	}
	if q.Method != nil {
		query = query.Where("payments.method = ?", *q.Method)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []paymentActivityRow
	if err := query.
		Select("payments.*, customers.name AS customer_name").
		Order("payments.paid_at DESC, payments.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	saleNos, err := r.fundedSaleNumbers(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	activities := make([]ledger.PaymentActivity, len(rows))
	for i, row := range rows {
		activities[i] = ledger.PaymentActivity{
			OccurredAt:   row.PaidAt,
			PaymentID:    row.ID,
			ReceiptNo:    row.ReceiptNo,
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			Method:       row.Method,
			Amount:       row.Amount,
			SaleNos:      saleNos[row.ID],
			Note:         row.Note,
		}
	}
	return activities, total, nil
}

// fundedSaleNumbers resolves, per payment, the sale numbers the payment
// funded: the direct sale first, then allocation targets by sale date.
func (r *GormReportingRepository) fundedSaleNumbers(ctx context.Context, rows []paymentActivityRow) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	paymentIDs := make([]uuid.UUID, 0, len(rows))
	directSaleIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		paymentIDs = append(paymentIDs, row.ID)
		if row.SaleID != nil {
			directSaleIDs = append(directSaleIDs, *row.SaleID)
		}
	}

	directNos := make(map[uuid.UUID]string, len(directSaleIDs))
	if len(directSaleIDs) > 0 {
		var sales []struct {
			ID     uuid.UUID
			SaleNo string
		}
		if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
			Select("id, sale_no").
			Where("id IN ?", directSaleIDs).
			Scan(&sales).Error; err != nil {
			return nil, err
		}
		for _, s := range sales {
			directNos[s.ID] = s.SaleNo
		}
	}

	var allocRows []struct {
		PaymentID uuid.UUID
		SaleNo    string
		SaleDate  time.Time
	}
	if err := r.db.WithContext(ctx).Model(&models.PaymentAllocationModel{}).
		Select("payment_allocations.payment_id, sales.sale_no, sales.sale_date").
		Joins("JOIN sales ON sales.id = payment_allocations.sale_id").
		Where("payment_allocations.payment_id IN ?", paymentIDs).
		Order("sales.sale_date ASC, sales.sale_no ASC").
		Scan(&allocRows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		var nos []string
		if row.SaleID != nil {
			if no, ok := directNos[*row.SaleID]; ok {
				nos = append(nos, no)
			}
		}
		result[row.ID] = nos
	}
	for _, a := range allocRows {
		result[a.PaymentID] = append(result[a.PaymentID], a.SaleNo)
	}
	return result, nil
}

// priceLineRow carries the joined columns for a pricing projection
type priceLineRow struct {
	SaleID    uuid.UUID
	SaleNo    string
	SaleDate  time.Time
	Project   string
	BuyerName string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
	Remark    string
}

// LastSoldPrice returns the newest line the customer bought the product
// on, nil when they never bought it
func (r *GormReportingRepository) LastSoldPrice(ctx context.Context, customerID, productID uuid.UUID) (*ledger.LastSoldPrice, error) {
	var rows []priceLineRow
	if err := r.db.WithContext(ctx).Model(&models.SaleItemModel{}).
		Select("sales.sale_date, sale_items.qty, sale_items.unit_price").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.customer_id = ? AND sale_items.product_id = ?", customerID, productID).
		Order("sales.sale_date DESC, sales.created_at DESC, sale_items.created_at DESC").
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &ledger.LastSoldPrice{
		UnitPrice: rows[0].UnitPrice,
		Qty:       rows[0].Qty,
		SaleDate:  rows[0].SaleDate,
	}, nil
}

// PriceHistory lists the customer's past purchases of a product,
// newest first
func (r *GormReportingRepository) PriceHistory(ctx context.Context, q ledger.PriceHistoryQuery, page, pageSize int) ([]ledger.PriceHistoryLine, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleItemModel{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.customer_id = ? AND sale_items.product_id = ?", q.CustomerID, q.ProductID)
	if q.DateFrom != nil {
		query = query.Where("sales.sale_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("sales.sale_date <= ?", *q.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []priceLineRow
	if err := query.
		Select("sales.id AS sale_id, sales.sale_no, sales.sale_date, sales.project, sales.buyer_name, sale_items.qty, sale_items.unit_price, sale_items.remark").
		Order("sales.sale_date DESC, sales.created_at DESC, sale_items.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	lines := make([]ledger.PriceHistoryLine, len(rows))
	for i, row := range rows {
		lines[i] = ledger.PriceHistoryLine{
			SaleID:    row.SaleID,
			SaleNo:    row.SaleNo,
			SaleDate:  row.SaleDate,
			Project:   row.Project,
			BuyerName: row.BuyerName,
			Qty:       row.Qty,
			UnitPrice: row.UnitPrice,
			Note:      row.Remark,
		}
	}
	return lines, total, nil
}

// productTrendRow adds the customer columns to a pricing line
type productTrendRow struct {
	priceLineRow
	CustomerID   uuid.UUID
	CustomerName string
}

// ProductTrend lists the product's newest sale lines across all
// customers
func (r *GormReportingRepository) ProductTrend(ctx context.Context, productID uuid.UUID, limit int) ([]ledger.ProductTrendPoint, error) {
	var rows []productTrendRow
	if err := r.db.WithContext(ctx).Model(&models.SaleItemModel{}).
		Select("sales.id AS sale_id, sales.sale_date, sale_items.qty, sale_items.unit_price, customers.id AS customer_id, customers.name AS customer_name").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Where("sale_items.product_id = ?", productID).
		Order("sales.sale_date DESC, sales.created_at DESC, sale_items.created_at DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]ledger.ProductTrendPoint, len(rows))
	for i, row := range rows {
		points[i] = ledger.ProductTrendPoint{
			SaleDate:     row.SaleDate,
			Qty:          row.Qty,
			UnitPrice:    row.UnitPrice,
			SaleID:       row.SaleID,
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
		}
	}
	return points, nil
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Ensure GormReportingRepository implements ReportingRepository
var _ ledger.ReportingRepository = (*GormReportingRepository)(nil)
