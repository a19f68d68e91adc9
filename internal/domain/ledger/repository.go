package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Single-entity finders (FindByID, FindByName, FindBySKU, FindBySaleNo,
// FindFirstByCustomer) return (nil, nil) when no row matches; a non-nil
// error always means the lookup itself failed. Services translate the
// nil result into their own *_NOT_FOUND domain errors.

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByName(ctx context.Context, name string) (*Customer, error)
	Search(ctx context.Context, keyword string, activeOnly bool, filter shared.Filter) (*shared.Paginated[*Customer], error)
	Save(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSales(ctx context.Context, customerID uuid.UUID) (int64, error)
	CountPayments(ctx context.Context, customerID uuid.UUID) (int64, error)
	SumSalesTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	SumPaymentsTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

// ContactRepository persists customer contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Contact, error)
	// FindFirstByCustomer returns the customer's earliest contact, nil
	// when the customer has none. Used to resolve the default buyer for
	// personal customers.
	FindFirstByCustomer(ctx context.Context, customerID uuid.UUID) (*Contact, error)
	Save(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	Search(ctx context.Context, keyword string, activeOnly bool, filter shared.Filter) (*shared.Paginated[*Product], error)
	Save(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferences reports how many sale lines reference the product.
	CountReferences(ctx context.Context, productID uuid.UUID) (int64, error)
}

// SaleQuery narrows sale listings
type SaleQuery struct {
	CustomerID    *uuid.UUID
	PaymentStatus *PaymentStatus
	Keyword       string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// SaleRepository persists sales and their line items
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindBySaleNo(ctx context.Context, saleNo string) (*Sale, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Sale, error)
	// FindOpenByCustomer returns the customer's sales that still carry an
	// outstanding balance, ordered by sale date then identifier ascending.
	FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Sale, error)
	FindRecentByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*Sale, error)
	Query(ctx context.Context, q SaleQuery, filter shared.Filter) (*shared.Paginated[*Sale], error)
	Save(ctx context.Context, sale *Sale) error
	Update(ctx context.Context, sale *Sale) error
	// Delete removes the sale together with its line items and the
	// payments recorded directly against it.
	Delete(ctx context.Context, id uuid.UUID) error
	// GenerateSaleNumber produces the next SO<yyyymmdd>-<seq> number for
	// the given day. Callers retry on unique collisions.
	GenerateSaleNumber(ctx context.Context, day time.Time) (string, error)
}

// PaymentQuery narrows payment listings
type PaymentQuery struct {
	CustomerID *uuid.UUID
	SaleID     *uuid.UUID
	Method     *PayMethod
	DateFrom   *time.Time
	DateTo     *time.Time
}

// PaymentRepository persists payments and their allocations
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Payment, error)
	// FindBySale returns payments recorded directly against the sale,
	// allocations preloaded.
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]*Payment, error)
	// FindAllocationsBySale returns allocation fragments targeting the
	// sale from any payment.
	FindAllocationsBySale(ctx context.Context, saleID uuid.UUID) ([]*PaymentAllocation, error)
	Query(ctx context.Context, q PaymentQuery, filter shared.Filter) (*shared.Paginated[*Payment], error)
	Save(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	// Delete removes the payment together with its allocations.
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAllocation removes a single allocation fragment.
	DeleteAllocation(ctx context.Context, allocationID uuid.UUID) error
	// SumPaidForSale recomputes the sale's paid total from stored rows:
	// the direct remainders of payments referencing the sale plus all
	// allocation fragments targeting it.
	SumPaidForSale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error)
	CountAllocationsByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	GenerateReceiptNumber(ctx context.Context, day time.Time) (string, error)
}
