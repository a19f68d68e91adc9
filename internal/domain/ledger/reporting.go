package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models for statements and the activity feed. These are
// query-side projections joined across sales, payments, customers and
// contacts; they never feed back into balance computation.

// StatementSort orders statement rows
type StatementSort string

const (
	StatementSortDateDesc    StatementSort = "date_desc"
	StatementSortDateAsc     StatementSort = "date_asc"
	StatementSortBalanceDesc StatementSort = "ar_desc"
)

// IsValid checks if the sort key is supported
func (s StatementSort) IsValid() bool {
	switch s {
	case StatementSortDateDesc, StatementSortDateAsc, StatementSortBalanceDesc:
		return true
	}
	return false
}

// StatementQuery filters a customer statement
type StatementQuery struct {
	CustomerID    uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
	Keyword       string
	PaymentStatus *PaymentStatus
	Sort          StatementSort
}

// StatementLine is one sale on a customer statement
type StatementLine struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	SaleNo        string          `json:"sale_no"`
	SaleDate      time.Time       `json:"sale_date"`
	Project       string          `json:"project"`
	BuyerName     string          `json:"buyer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	ARAmount      decimal.Decimal `json:"ar_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Note          string          `json:"note"`
}

// StatementSummary totals a customer's lifetime position
type StatementSummary struct {
	TotalSalesAmount decimal.Decimal `json:"total_sales_amount"`
	TotalPaidAmount  decimal.Decimal `json:"total_paid_amount"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
}

// SaleActivity is one sale row in the activity feed
type SaleActivity struct {
	OccurredAt    time.Time       `json:"occurred_at"`
	SaleID        uuid.UUID       `json:"sale_id"`
	SaleNo        string          `json:"sale_no"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Balance       decimal.Decimal `json:"balance"`
	PaymentStatus PaymentStatus   `json:"status"`
}

// PaymentActivity is one payment row in the activity feed. SaleNos
// lists the numbers of every sale the payment funded, direct reference
// first, allocation targets oldest first.
type PaymentActivity struct {
	OccurredAt   time.Time       `json:"occurred_at"`
	PaymentID    uuid.UUID       `json:"payment_id"`
	ReceiptNo    string          `json:"receipt_no"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Method       PayMethod       `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	SaleNos      []string        `json:"sale_nos"`
	Note         string          `json:"note"`
}

// ActivityQuery filters the activity feed
type ActivityQuery struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Keyword  string
	Status   *PaymentStatus
	Method   *PayMethod
}

// LastSoldPrice is the most recent price a customer paid for a product
type LastSoldPrice struct {
	UnitPrice decimal.Decimal
	Qty       decimal.Decimal
	SaleDate  time.Time
}

// PriceHistoryQuery filters a customer's purchase history for one product
type PriceHistoryQuery struct {
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// PriceHistoryLine is one past purchase of a product by a customer
type PriceHistoryLine struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	SaleNo    string          `json:"sale_no"`
	SaleDate  time.Time       `json:"sale_date"`
	Project   string          `json:"project"`
	BuyerName string          `json:"buyer_name"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Note      string          `json:"note"`
}

// ProductTrendPoint is one sale of a product across all customers,
// used to chart how its price moves
type ProductTrendPoint struct {
	SaleDate     time.Time       `json:"sale_date"`
	Qty          decimal.Decimal `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SaleID       uuid.UUID       `json:"sale_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
}

// ReportingRepository serves the query-side projections
type ReportingRepository interface {
	Statement(ctx context.Context, q StatementQuery, page, pageSize int) ([]StatementLine, int64, error)
	StatementSummary(ctx context.Context, customerID uuid.UUID) (*StatementSummary, error)
	SaleActivities(ctx context.Context, q ActivityQuery, page, pageSize int) ([]SaleActivity, int64, error)
	PaymentActivities(ctx context.Context, q ActivityQuery, page, pageSize int) ([]PaymentActivity, int64, error)
	// LastSoldPrice returns the newest line the customer bought the
	// product on, nil when they never bought it.
	LastSoldPrice(ctx context.Context, customerID, productID uuid.UUID) (*LastSoldPrice, error)
	PriceHistory(ctx context.Context, q PriceHistoryQuery, page, pageSize int) ([]PriceHistoryLine, int64, error)
	// ProductTrend lists the product's newest sale lines across all
	// customers, at most limit rows.
	ProductTrend(ctx context.Context, productID uuid.UUID, limit int) ([]ProductTrendPoint, error)
}
