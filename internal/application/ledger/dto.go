package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest carries the data needed to register a customer
type CreateCustomerRequest struct {
	Type        ledger.CustomerType
	Name        string
	ContactName string
	Phone       string
	Address     string
}

// UpdateCustomerRequest carries a partial customer update
type UpdateCustomerRequest struct {
	Name        *string
	ContactName *string
	Phone       *string
	Address     *string
	Active      *bool
}

// ARSummary aggregates a customer's lifetime position
type ARSummary struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalAR       decimal.Decimal `json:"total_ar"`
}

// CustomerProfile is a customer with their recent sales
type CustomerProfile struct {
	Customer    *ledger.Customer
	RecentSales []*ledger.Sale
}

// CreateProductRequest carries the data needed to register a product
type CreateProductRequest struct {
	Name          string
	SKU           string
	Unit          string
	StandardPrice decimal.Decimal
}

// UpdateProductRequest carries a partial product update
type UpdateProductRequest struct {
	Name          *string
	SKU           *string
	Unit          *string
	StandardPrice *decimal.Decimal
	Active        *bool
}

// SaleItemInput is one order line in a sale creation request
type SaleItemInput struct {
	ProductID uuid.UUID
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
	Remark    string
}

// CreateSaleRequest carries the data needed to open a sale
type CreateSaleRequest struct {
	CustomerID uuid.UUID
	BuyerID    *uuid.UUID
	SaleNo     string
	Project    string
	SaleDate   *time.Time
	Note       string
	Items      []SaleItemInput
}

// CreateDirectPaymentRequest records money against a single sale
type CreateDirectPaymentRequest struct {
	SaleID uuid.UUID
	Amount decimal.Decimal
	Method ledger.PayMethod
	PaidAt *time.Time
	Note   string
}

// SubmitSalePaymentRequest is the settle-at-checkout shortcut
type SubmitSalePaymentRequest struct {
	SaleID  uuid.UUID
	PayType ledger.PayType
	Method  ledger.PayMethod
	Amount  *decimal.Decimal
	Note    string
}

// SubmitSalePaymentResult returns the updated sale and the created
// payment. Payment is nil for the credit path, which records nothing.
type SubmitSalePaymentResult struct {
	Sale    *ledger.Sale
	Payment *ledger.Payment
}

// AllocateToSalesRequest spreads one receipt across chosen sales
type AllocateToSalesRequest struct {
	CustomerID uuid.UUID
	SaleIDs    []uuid.UUID
	Amount     decimal.Decimal
	Method     ledger.PayMethod
	PaidAt     *time.Time
	Note       string
}

// AllocateReceiptRequest spreads one receipt across all the customer's
// open sales using the requested mode
type AllocateReceiptRequest struct {
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	Method     ledger.PayMethod
	Mode       ledger.AllocateMode
	PaidAt     *time.Time
	Note       string
}

// BatchApplyRequest settles chosen sales oldest first with individual
// direct payments instead of a single allocated receipt
type BatchApplyRequest struct {
	CustomerID  uuid.UUID
	SaleIDs     []uuid.UUID
	TotalAmount decimal.Decimal
	Method      ledger.PayMethod
	PaidAt      *time.Time
	Note        string
}

// AllocationResult reports one sale's state after receiving its share
type AllocationResult struct {
	SaleID        uuid.UUID            `json:"sale_id"`
	SaleNo        string               `json:"sale_no"`
	AppliedAmount decimal.Decimal      `json:"applied_amount"`
	PaidAmount    decimal.Decimal      `json:"after_paid_amount"`
	ARAmount      decimal.Decimal      `json:"after_balance"`
	PaymentStatus ledger.PaymentStatus `json:"after_status"`
}

// AllocateResult is the outcome of a receipt allocation
type AllocateResult struct {
	Payment     *ledger.Payment
	Allocations []AllocationResult
}

// PaymentWithSales pairs a payment with the numbers of every sale it
// funded, for listings where readers match receipts to invoices
type PaymentWithSales struct {
	Payment *ledger.Payment
	SaleNos []string
}

// BatchApplyResult is the outcome of a batch settlement
type BatchApplyResult struct {
	CreatedPayments int                `json:"created_payments"`
	Allocations     []AllocationResult `json:"allocations"`
}

// DeleteCheckResult counts what a record purge would remove
type DeleteCheckResult struct {
	SaleCount       int64 `json:"sale_count"`
	PaymentCount    int64 `json:"payment_count"`
	AllocationCount int64 `json:"allocation_count"`
}

// DeleteRecordsRequest names the rows to purge for one customer
type DeleteRecordsRequest struct {
	CustomerID uuid.UUID
	SaleIDs    []uuid.UUID
	PaymentIDs []uuid.UUID
}

// DeleteRecordsResult reports what was removed and what is left
type DeleteRecordsResult struct {
	DeletedSales      int   `json:"deleted_sales"`
	DeletedPayments   int   `json:"deleted_payments"`
	RemainingSales    int64 `json:"remaining_sales"`
	RemainingPayments int64 `json:"remaining_payments"`
}
