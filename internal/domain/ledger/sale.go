package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the settlement state of a sale
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// DerivePaymentStatus computes the settlement status from the total and
// paid amounts. It is a pure function: no other input may influence the
// stored status.
func DerivePaymentStatus(totalAmount, paidAmount decimal.Decimal) PaymentStatus {
	if paidAmount.LessThanOrEqual(decimal.Zero) {
		return PaymentStatusUnpaid
	}
	if valueobject.ApproxGTE(paidAmount, totalAmount) {
		return PaymentStatusPaid
	}
	return PaymentStatusPartial
}

// SaleItem is a line item on a sale. Items are created atomically with
// their sale and are immutable afterwards.
type SaleItem struct {
	ID        uuid.UUID
	SaleID    uuid.UUID
	ProductID uuid.UUID
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Remark    string
	CreatedAt time.Time
}

// NewSaleItem creates a new sale line item.
// LineTotal is qty * unitPrice rounded to 2 places.
func NewSaleItem(saleID, productID uuid.UUID, qty, unitPrice decimal.Decimal, remark string) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &SaleItem{
		ID:        uuid.New(),
		SaleID:    saleID,
		ProductID: productID,
		Qty:       qty,
		UnitPrice: unitPrice,
		LineTotal: valueobject.Round2(qty.Mul(unitPrice)),
		Remark:    strings.TrimSpace(remark),
		CreatedAt: time.Now(),
	}, nil
}

// Sale is the central aggregate: one customer order with line items and a
// running settlement balance.
//
// PaidAmount, ARAmount and PaymentStatus are derived fields. The only
// writer is Settle, which the balance ledger invokes after every payment
// or allocation mutation; nothing else may assign them.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNo        string
	CustomerID    uuid.UUID
	BuyerID       uuid.UUID
	BuyerName     string // snapshotted at creation, independent of later buyer edits
	Project       string
	SaleDate      time.Time
	Note          string
	Items         []SaleItem
	TotalAmount   decimal.Decimal // immutable after creation
	PaidAmount    decimal.Decimal
	ARAmount      decimal.Decimal
	PaymentStatus PaymentStatus
}

// NewSale creates a new sale for a customer. Items are added with AddItem
// before the sale is first persisted; the total is the rounded sum of the
// line totals.
func NewSale(saleNo string, customerID, buyerID uuid.UUID, buyerName, project string, saleDate time.Time, note string) (*Sale, error) {
	if saleNo == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NO", "Sale number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNo:            saleNo,
		CustomerID:        customerID,
		BuyerID:           buyerID,
		BuyerName:         buyerName,
		Project:           strings.TrimSpace(project),
		SaleDate:          saleDate,
		Note:              note,
		Items:             make([]SaleItem, 0),
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		ARAmount:          decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
	}, nil
}

// AddItem appends a line item and recomputes the total. Only valid before
// the sale has received any payment; there is no item update path.
func (s *Sale) AddItem(productID uuid.UUID, qty, unitPrice decimal.Decimal, remark string) (*SaleItem, error) {
	if s.PaidAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a sale with payments")
	}

	item, err := NewSaleItem(s.ID, productID, qty, unitPrice, remark)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotal()
	s.Touch()
	return item, nil
}

// recalculateTotal sums the line totals and rounds once more, keeping the
// derived balance fields consistent for an unpaid sale.
func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal)
	}
	s.TotalAmount = valueobject.Round2(total)
	s.Settle(s.PaidAmount)
}

// Settle is the single writer of the derived settlement triple
// (PaidAmount, ARAmount, PaymentStatus). The balance ledger calls it with
// the recomputed paid sum inside the same transaction as the payment or
// allocation mutation that changed it.
//
// Invariants after Settle: PaidAmount + ARAmount == TotalAmount within
// epsilon, ARAmount >= 0, PaymentStatus a pure function of (total, paid).
func (s *Sale) Settle(paid decimal.Decimal) {
	paid = valueobject.Round2(paid)
	ar := valueobject.Round2(s.TotalAmount.Sub(paid))
	if ar.IsNegative() {
		ar = decimal.Zero
	}
	s.PaidAmount = paid
	s.ARAmount = ar
	s.PaymentStatus = DerivePaymentStatus(s.TotalAmount, paid)
	s.Touch()
}

// Outstanding returns the unpaid balance
func (s *Sale) Outstanding() decimal.Decimal {
	return s.ARAmount
}

// HasOutstanding reports whether the sale still carries an open balance
func (s *Sale) HasOutstanding() bool {
	return s.ARAmount.IsPositive()
}

// IsPaid returns true if the sale is fully settled
func (s *Sale) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// BelongsTo reports whether the sale is owned by the given customer
func (s *Sale) BelongsTo(customerID uuid.UUID) bool {
	return s.CustomerID == customerID
}

// ItemCount returns the number of line items
func (s *Sale) ItemCount() int {
	return len(s.Items)
}
