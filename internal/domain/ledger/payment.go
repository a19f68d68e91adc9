package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayMethod is how the money arrived
type PayMethod string

const (
	PayMethodCash     PayMethod = "cash"
	PayMethodWechat   PayMethod = "wechat"
	PayMethodAlipay   PayMethod = "alipay"
	PayMethodBank     PayMethod = "bank"
	PayMethodTransfer PayMethod = "transfer"
	PayMethodOther    PayMethod = "other"
)

// IsValid checks if the method is one of the allowed payment methods
func (m PayMethod) IsValid() bool {
	switch m {
	case PayMethodCash, PayMethodWechat, PayMethodAlipay, PayMethodBank, PayMethodTransfer, PayMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PayMethod
func (m PayMethod) String() string {
	return string(m)
}

// AllPayMethods returns every allowed payment method
func AllPayMethods() []PayMethod {
	return []PayMethod{PayMethodCash, PayMethodWechat, PayMethodAlipay, PayMethodBank, PayMethodTransfer, PayMethodOther}
}

// PayType is the settlement shortcut that produced the payment
type PayType string

const (
	PayTypePaidFull PayType = "paid_full"
	PayTypeCredit   PayType = "credit"
	PayTypePartial  PayType = "partial"
)

// IsValid checks if the pay type is valid
func (t PayType) IsValid() bool {
	switch t {
	case PayTypePaidFull, PayTypeCredit, PayTypePartial:
		return true
	}
	return false
}

// String returns the string representation of PayType
func (t PayType) String() string {
	return string(t)
}

// PaymentAllocation is a fragment linking one payment to one sale with a
// portion of the payment's amount. It is owned by its payment (cascade
// delete) but only references its sale: deleting a sale must clean up
// allocations pointing at it explicitly.
type PaymentAllocation struct {
	ID        uuid.UUID
	PaymentID uuid.UUID
	SaleID    uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// NewPaymentAllocation creates an allocation fragment
func NewPaymentAllocation(paymentID, saleID uuid.UUID, amount decimal.Decimal) (*PaymentAllocation, error) {
	if paymentID == uuid.Nil || saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation must reference a payment and a sale")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	return &PaymentAllocation{
		ID:        uuid.New(),
		PaymentID: paymentID,
		SaleID:    saleID,
		Amount:    valueobject.Round2(amount),
		CreatedAt: time.Now(),
	}, nil
}

// Payment is a receipt event. Two variants share the record:
//
//   - direct payment: SaleID set, no allocations; the amount applies to
//     exactly one sale;
//   - allocated receipt: SaleID nil, one or more allocation fragments
//     carrying the split across sales.
//
// Deleting a sale demotes a direct payment that still holds allocations
// to other sales into an allocation-only receipt instead of deleting it.
type Payment struct {
	shared.BaseEntity
	CustomerID  uuid.UUID
	SaleID      *uuid.UUID
	ReceiptNo   string
	PayType     PayType
	Amount      decimal.Decimal
	Method      PayMethod
	PaidAt      time.Time
	Note        string
	Allocations []PaymentAllocation
}

// NewDirectPayment creates a payment recorded against exactly one sale,
// without the allocation mechanism.
func NewDirectPayment(customerID, saleID uuid.UUID, receiptNo string, payType PayType, amount decimal.Decimal, method PayMethod, paidAt time.Time, note string) (*Payment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	p, err := newPayment(customerID, receiptNo, payType, amount, method, paidAt, note)
	if err != nil {
		return nil, err
	}
	p.SaleID = &saleID
	return p, nil
}

// NewReceipt creates an undifferentiated multi-order receipt. It carries
// no direct sale reference; the split lives in its allocation fragments.
func NewReceipt(customerID uuid.UUID, receiptNo string, amount decimal.Decimal, method PayMethod, paidAt time.Time, note string) (*Payment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return newPayment(customerID, receiptNo, PayTypePartial, amount, method, paidAt, note)
}

func newPayment(customerID uuid.UUID, receiptNo string, payType PayType, amount decimal.Decimal, method PayMethod, paidAt time.Time, note string) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not allowed")
	}
	if !payType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAY_TYPE", "Pay type is not allowed")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		CustomerID:  customerID,
		ReceiptNo:   receiptNo,
		PayType:     payType,
		Amount:      valueobject.Round2(amount),
		Method:      method,
		PaidAt:      paidAt,
		Note:        strings.TrimSpace(note),
		Allocations: make([]PaymentAllocation, 0),
	}, nil
}

// AddAllocation attaches an allocation fragment for the given sale.
// The fragments plus any direct remainder may never exceed the payment amount.
func (p *Payment) AddAllocation(saleID uuid.UUID, amount decimal.Decimal) (*PaymentAllocation, error) {
	if p.SaleID != nil && *p.SaleID == saleID {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Payment already applies to this sale directly")
	}
	allocated := p.AllocatedTotal().Add(amount)
	if !valueobject.ApproxGTE(p.Amount, allocated) {
		return nil, shared.NewDomainError("ALLOCATION_OVERFLOW", "Allocations cannot exceed the payment amount")
	}

	alloc, err := NewPaymentAllocation(p.ID, saleID, amount)
	if err != nil {
		return nil, err
	}
	p.Allocations = append(p.Allocations, *alloc)
	p.Touch()
	return alloc, nil
}

// AllocatedTotal returns the sum of the payment's allocation fragments
func (p *Payment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// DirectAmount returns the portion of the payment applied directly to its
// referenced sale: the full amount minus any allocation fragments. Zero
// when the payment is an allocation-only receipt. Summing DirectAmount
// and the allocation fragments therefore never double-counts a payment.
func (p *Payment) DirectAmount() decimal.Decimal {
	if p.SaleID == nil {
		return decimal.Zero
	}
	remainder := p.Amount.Sub(p.AllocatedTotal())
	if remainder.IsNegative() {
		return decimal.Zero
	}
	return remainder
}

// IsDirect reports whether the payment targets a single sale directly
func (p *Payment) IsDirect() bool {
	return p.SaleID != nil
}

// DemoteToReceipt clears the direct sale reference, turning the payment
// into an allocation-only receipt. Used when the directly-referenced sale
// is deleted but the payment still holds allocations to other sales.
func (p *Payment) DemoteToReceipt() {
	p.SaleID = nil
	p.Touch()
}

// BelongsTo reports whether the payment is owned by the given customer
func (p *Payment) BelongsTo(customerID uuid.UUID) bool {
	return p.CustomerID == customerID
}
