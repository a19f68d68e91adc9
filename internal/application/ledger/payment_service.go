package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// conflictRetries bounds how often an operation is replayed after an
// optimistic lock conflict on a sale row.
const conflictRetries = 3

// PaymentService records payments and spreads receipts across open
// sales. Every mutation runs in one transaction and finishes by
// recomputing the balance of each touched sale, so a committed state
// never carries stale paid or outstanding figures.
type PaymentService struct {
	scope       TransactionScope
	paymentRepo ledger.PaymentRepository
	saleRepo    ledger.SaleRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, paymentRepo ledger.PaymentRepository, saleRepo ledger.SaleRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{scope: scope, paymentRepo: paymentRepo, saleRepo: saleRepo, logger: logger}
}

// withConflictRetry replays fn when a concurrent writer bumped a sale's
// version under us. Each attempt re-reads inside a fresh transaction.
func (s *PaymentService) withConflictRetry(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = s.scope.Execute(ctx, fn)
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Warn("balance update conflicted, retrying", zap.Int("attempt", attempt+1))
	}
	return err
}

// CreateDirectPayment records money received against a single sale.
// The amount may not exceed the sale's outstanding balance.
func (s *PaymentService) CreateDirectPayment(ctx context.Context, req CreateDirectPaymentRequest) (*ledger.Payment, error) {
	var created *ledger.Payment
	err := s.withConflictRetry(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, req.SaleID)
		if err != nil {
			return fmt.Errorf("load sale: %w", err)
		}
		if sale == nil {
			return shared.NewDomainError("SALE_NOT_FOUND", "Sale not found")
		}
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
		}
		if !valueobject.ApproxGTE(sale.ARAmount, req.Amount) {
			return ledger.ErrAmountExceedsOutstanding
		}

		payment, err := s.buildDirectPayment(ctx, repos, sale, ledger.PayTypePartial, req.Amount, req.Method, req.PaidAt, req.Note)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}
		if err := settleSale(ctx, repos, sale); err != nil {
			return err
		}
		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("direct payment recorded",
		zap.String("payment_id", created.ID.String()),
		zap.String("sale_id", req.SaleID.String()),
		zap.String("amount", created.Amount.String()),
	)
	return created, nil
}

// SubmitSalePayment is the settle-at-checkout shortcut. paid_full pays
// off the current outstanding balance, credit records nothing and
// leaves the sale open, partial pays the supplied amount.
func (s *PaymentService) SubmitSalePayment(ctx context.Context, req SubmitSalePaymentRequest) (*SubmitSalePaymentResult, error) {
	if !req.PayType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAY_TYPE", "Unknown pay type")
	}
	if !req.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}

	var result SubmitSalePaymentResult
	err := s.withConflictRetry(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, req.SaleID)
		if err != nil {
			return fmt.Errorf("load sale: %w", err)
		}
		if sale == nil {
			return shared.NewDomainError("SALE_NOT_FOUND", "Sale not found")
		}

		amount := decimal.Zero
		switch req.PayType {
		case ledger.PayTypePaidFull:
			amount = sale.ARAmount
		case ledger.PayTypeCredit:
			// on credit, nothing collected now
		case ledger.PayTypePartial:
			if req.Amount != nil {
				amount = *req.Amount
			}
		}

		if amount.GreaterThan(decimal.Zero) {
			payment, err := s.buildDirectPayment(ctx, repos, sale, req.PayType, amount, req.Method, nil, req.Note)
			if err != nil {
				return err
			}
			if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
				return fmt.Errorf("save payment: %w", err)
			}
			result.Payment = payment
		}

		if err := settleSale(ctx, repos, sale); err != nil {
			return err
		}
		result.Sale = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AllocateToSales spreads one receipt across an explicit selection of
// the customer's sales, oldest first. One Payment row is created with
// an allocation fragment per funded sale; sales outside the selection
// are never touched.
func (s *PaymentService) AllocateToSales(ctx context.Context, req AllocateToSalesRequest) (*AllocateResult, error) {
	if len(req.SaleIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_SELECTION", "No sales selected")
	}
	return s.allocateReceipt(ctx, req.CustomerID, req.Amount, req.Method, req.PaidAt, req.Note,
		func(repos TransactionalRepositories, customerID uuid.UUID) ([]*ledger.Sale, error) {
			sales, err := repos.SaleRepo().FindByIDs(ctx, req.SaleIDs)
			if err != nil {
				return nil, err
			}
			owned := make([]*ledger.Sale, 0, len(sales))
			for _, sale := range sales {
				if sale.BelongsTo(customerID) {
					owned = append(owned, sale)
				}
			}
			if len(owned) == 0 {
				return nil, shared.NewDomainError("SALE_NOT_FOUND", "No selected sale belongs to the customer")
			}
			return owned, nil
		})
}

// AllocateCustomerReceipt spreads one receipt across all of the
// customer's open sales using the requested mode. Only oldest-first is
// supported.
func (s *PaymentService) AllocateCustomerReceipt(ctx context.Context, req AllocateReceiptRequest) (*AllocateResult, error) {
	if !req.Mode.IsValid() {
		return nil, ledger.ErrUnsupportedMode
	}
	return s.allocateReceipt(ctx, req.CustomerID, req.Amount, req.Method, req.PaidAt, req.Note,
		func(repos TransactionalRepositories, customerID uuid.UUID) ([]*ledger.Sale, error) {
			return repos.SaleRepo().FindOpenByCustomer(ctx, customerID)
		})
}

// allocateReceipt is the shared receipt path: select the candidate
// sales, plan the split, then persist one payment with its fragments
// and resettle every funded sale. Planning failures abort before any
// row is written.
func (s *PaymentService) allocateReceipt(
	ctx context.Context,
	customerID uuid.UUID,
	amount decimal.Decimal,
	method ledger.PayMethod,
	paidAt *time.Time,
	note string,
	selectSales func(repos TransactionalRepositories, customerID uuid.UUID) ([]*ledger.Sale, error),
) (*AllocateResult, error) {
	var result *AllocateResult
	err := s.withConflictRetry(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if customer == nil {
			return shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		if !method.IsValid() {
			return shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
		}

		sales, err := selectSales(repos, customerID)
		if err != nil {
			return err
		}
		saleByID := make(map[uuid.UUID]*ledger.Sale, len(sales))
		targets := make([]ledger.AllocationTarget, 0, len(sales))
		for _, sale := range sales {
			saleByID[sale.ID] = sale
			targets = append(targets, ledger.TargetFromSale(sale))
		}

		plan, err := ledger.PlanAllocation(targets, amount, ledger.OldestFirst)
		if err != nil {
			return err
		}

		when := time.Now().UTC()
		if paidAt != nil {
			when = *paidAt
		}
		receiptNo, err := repos.PaymentRepo().GenerateReceiptNumber(ctx, when)
		if err != nil {
			return fmt.Errorf("generate receipt number: %w", err)
		}
		payment, err := ledger.NewReceipt(customerID, receiptNo, amount, method, when, note)
		if err != nil {
			return err
		}
		for _, entry := range plan.Entries {
			if _, err := payment.AddAllocation(entry.SaleID, entry.Amount); err != nil {
				return err
			}
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return fmt.Errorf("save receipt: %w", err)
		}

		allocations := make([]AllocationResult, 0, len(plan.Entries))
		for _, entry := range plan.Entries {
			sale := saleByID[entry.SaleID]
			if err := settleSale(ctx, repos, sale); err != nil {
				return err
			}
			allocations = append(allocations, AllocationResult{
				SaleID:        sale.ID,
				SaleNo:        sale.SaleNo,
				AppliedAmount: entry.Amount,
				PaidAmount:    sale.PaidAmount,
				ARAmount:      sale.ARAmount,
				PaymentStatus: sale.PaymentStatus,
			})
		}
		result = &AllocateResult{Payment: payment, Allocations: allocations}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receipt allocated",
		zap.String("payment_id", result.Payment.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("amount", amount.String()),
		zap.Int("sales_funded", len(result.Allocations)),
	)
	return result, nil
}

// BatchApply settles a selection of sales oldest first, creating an
// individual direct payment per funded sale instead of one allocated
// receipt. The whole batch shares a single transaction.
func (s *PaymentService) BatchApply(ctx context.Context, req BatchApplyRequest) (*BatchApplyResult, error) {
	var result *BatchApplyResult
	err := s.withConflictRetry(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if customer == nil {
			return shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		if !req.Method.IsValid() {
			return shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
		}

		sales, err := repos.SaleRepo().FindByIDs(ctx, req.SaleIDs)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		saleByID := make(map[uuid.UUID]*ledger.Sale, len(sales))
		targets := make([]ledger.AllocationTarget, 0, len(sales))
		for _, sale := range sales {
			if !sale.BelongsTo(req.CustomerID) {
				continue
			}
			saleByID[sale.ID] = sale
			targets = append(targets, ledger.TargetFromSale(sale))
		}
		if len(targets) == 0 {
			return shared.NewDomainError("SALE_NOT_FOUND", "No selected sale belongs to the customer")
		}

		plan, err := ledger.PlanAllocation(targets, req.TotalAmount, ledger.OldestFirst)
		if err != nil {
			return err
		}

		when := time.Now().UTC()
		if req.PaidAt != nil {
			when = *req.PaidAt
		}

		allocations := make([]AllocationResult, 0, len(plan.Entries))
		for _, entry := range plan.Entries {
			sale := saleByID[entry.SaleID]
			receiptNo, err := repos.PaymentRepo().GenerateReceiptNumber(ctx, when)
			if err != nil {
				return fmt.Errorf("generate receipt number: %w", err)
			}
			payment, err := ledger.NewDirectPayment(req.CustomerID, sale.ID, receiptNo, ledger.PayTypePartial, entry.Amount, req.Method, when, req.Note)
			if err != nil {
				return err
			}
			if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
				return fmt.Errorf("save payment: %w", err)
			}
			if err := settleSale(ctx, repos, sale); err != nil {
				return err
			}
			allocations = append(allocations, AllocationResult{
				SaleID:        sale.ID,
				SaleNo:        sale.SaleNo,
				AppliedAmount: entry.Amount,
				PaidAmount:    sale.PaidAmount,
				ARAmount:      sale.ARAmount,
				PaymentStatus: sale.PaymentStatus,
			})
		}
		result = &BatchApplyResult{CreatedPayments: len(allocations), Allocations: allocations}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeletePayment reverses one payment: its allocations are removed and
// every sale it funded is resettled. Deleting an already deleted
// payment is a no-op.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	return s.withConflictRetry(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("load payment: %w", err)
		}
		if payment == nil {
			return nil
		}

		touched := touchedSales(payment)
		if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		for _, saleID := range touched {
			if err := settleSaleByID(ctx, repos, saleID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPayments pages through payments matching the query. Each entry
// carries the numbers of every sale the payment funded, direct reference
// first, then allocation targets in stored order.
func (s *PaymentService) ListPayments(ctx context.Context, q ledger.PaymentQuery, filter shared.Filter) (*shared.Paginated[PaymentWithSales], error) {
	page, err := s.paymentRepo.Query(ctx, q, filter)
	if err != nil {
		return nil, err
	}

	saleIDs := make([]uuid.UUID, 0, len(page.Items))
	seen := make(map[uuid.UUID]struct{})
	for _, payment := range page.Items {
		for _, id := range touchedSales(payment) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			saleIDs = append(saleIDs, id)
		}
	}

	saleNos := make(map[uuid.UUID]string, len(saleIDs))
	if len(saleIDs) > 0 {
		sales, err := s.saleRepo.FindByIDs(ctx, saleIDs)
		if err != nil {
			return nil, fmt.Errorf("load funded sales: %w", err)
		}
		for _, sale := range sales {
			saleNos[sale.ID] = sale.SaleNo
		}
	}

	items := make([]PaymentWithSales, len(page.Items))
	for i, payment := range page.Items {
		nos := make([]string, 0, len(payment.Allocations)+1)
		for _, id := range touchedSales(payment) {
			if no, ok := saleNos[id]; ok {
				nos = append(nos, no)
			}
		}
		items[i] = PaymentWithSales{Payment: payment, SaleNos: nos}
	}

	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListSaleAllocations returns the allocation fragments funding a sale
func (s *PaymentService) ListSaleAllocations(ctx context.Context, saleID uuid.UUID) ([]*ledger.PaymentAllocation, error) {
	return s.paymentRepo.FindAllocationsBySale(ctx, saleID)
}

func (s *PaymentService) buildDirectPayment(
	ctx context.Context,
	repos TransactionalRepositories,
	sale *ledger.Sale,
	payType ledger.PayType,
	amount decimal.Decimal,
	method ledger.PayMethod,
	paidAt *time.Time,
	note string,
) (*ledger.Payment, error) {
	when := time.Now().UTC()
	if paidAt != nil {
		when = *paidAt
	}
	receiptNo, err := repos.PaymentRepo().GenerateReceiptNumber(ctx, when)
	if err != nil {
		return nil, fmt.Errorf("generate receipt number: %w", err)
	}
	return ledger.NewDirectPayment(sale.CustomerID, sale.ID, receiptNo, payType, amount, method, when, note)
}

// touchedSales collects every sale whose balance depends on the payment
func touchedSales(payment *ledger.Payment) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(payment.Allocations)+1)
	if payment.SaleID != nil {
		seen[*payment.SaleID] = struct{}{}
		ids = append(ids, *payment.SaleID)
	}
	for _, alloc := range payment.Allocations {
		if _, ok := seen[alloc.SaleID]; ok {
			continue
		}
		seen[alloc.SaleID] = struct{}{}
		ids = append(ids, alloc.SaleID)
	}
	return ids
}
