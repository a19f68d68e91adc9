package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DeletionService removes sales and payments in bulk and reverses their
// effect on every balance they touched. Deletion is failure tolerant:
// ids that do not exist or belong to another customer are skipped, so
// a retried purge converges instead of erroring.
type DeletionService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewDeletionService creates a new DeletionService
func NewDeletionService(scope TransactionScope, logger *zap.Logger) *DeletionService {
	return &DeletionService{scope: scope, logger: logger}
}

// DeleteCheck counts the customer's records so callers can confirm a
// purge before running it.
func (s *DeletionService) DeleteCheck(ctx context.Context, customerID uuid.UUID) (*DeleteCheckResult, error) {
	var result *DeleteCheckResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if customer == nil {
			return shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}

		saleCount, err := repos.CustomerRepo().CountSales(ctx, customerID)
		if err != nil {
			return fmt.Errorf("count sales: %w", err)
		}
		paymentCount, err := repos.CustomerRepo().CountPayments(ctx, customerID)
		if err != nil {
			return fmt.Errorf("count payments: %w", err)
		}
		allocationCount, err := repos.PaymentRepo().CountAllocationsByCustomer(ctx, customerID)
		if err != nil {
			return fmt.Errorf("count allocations: %w", err)
		}
		result = &DeleteCheckResult{
			SaleCount:       saleCount,
			PaymentCount:    paymentCount,
			AllocationCount: allocationCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteRecords purges the named sales and payments of one customer in
// a single transaction and resettles every surviving sale they funded.
//
// A payment deletion takes its allocations with it. A sale deletion
// takes its items and direct payments with it, with one exception: a
// direct payment that still allocates money to other sales is kept and
// demoted to an unattached receipt so those allocations stay intact.
func (s *DeletionService) DeleteRecords(ctx context.Context, req DeleteRecordsRequest) (*DeleteRecordsResult, error) {
	var result *DeleteRecordsResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if customer == nil {
			return shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}

		touched := make(map[uuid.UUID]struct{})
		deletedSales := make(map[uuid.UUID]struct{})
		deletedPayments := 0

		payments, err := repos.PaymentRepo().FindByIDs(ctx, req.PaymentIDs)
		if err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		for _, payment := range payments {
			if !payment.BelongsTo(req.CustomerID) {
				continue
			}
			for _, saleID := range touchedSales(payment) {
				touched[saleID] = struct{}{}
			}
			if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
				return fmt.Errorf("delete payment %s: %w", payment.ID, err)
			}
			deletedPayments++
		}

		sales, err := repos.SaleRepo().FindByIDs(ctx, req.SaleIDs)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		for _, sale := range sales {
			if !sale.BelongsTo(req.CustomerID) {
				continue
			}
			touched[sale.ID] = struct{}{}

			n, err := s.detachIncomingAllocations(ctx, repos, sale.ID)
			if err != nil {
				return err
			}
			deletedPayments += n

			n, err = s.detachDirectPayments(ctx, repos, sale.ID)
			if err != nil {
				return err
			}
			deletedPayments += n

			if err := repos.SaleRepo().Delete(ctx, sale.ID); err != nil {
				return fmt.Errorf("delete sale %s: %w", sale.ID, err)
			}
			deletedSales[sale.ID] = struct{}{}
		}

		for saleID := range touched {
			if _, gone := deletedSales[saleID]; gone {
				continue
			}
			if err := settleSaleByID(ctx, repos, saleID); err != nil {
				return err
			}
		}

		remainingSales, err := repos.CustomerRepo().CountSales(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("count remaining sales: %w", err)
		}
		remainingPayments, err := repos.CustomerRepo().CountPayments(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("count remaining payments: %w", err)
		}
		result = &DeleteRecordsResult{
			DeletedSales:      len(deletedSales),
			DeletedPayments:   deletedPayments,
			RemainingSales:    remainingSales,
			RemainingPayments: remainingPayments,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("records purged",
		zap.String("customer_id", req.CustomerID.String()),
		zap.Int("deleted_sales", result.DeletedSales),
		zap.Int("deleted_payments", result.DeletedPayments),
	)
	return result, nil
}

// detachIncomingAllocations strips every allocation fragment pointing at
// the sale. The owning payment is deleted outright when nothing else
// justifies its existence, demoted when its direct reference was this
// sale but other allocations remain, and left alone otherwise. Returns
// the number of payments deleted.
func (s *DeletionService) detachIncomingAllocations(ctx context.Context, repos TransactionalRepositories, saleID uuid.UUID) (int, error) {
	allocations, err := repos.PaymentRepo().FindAllocationsBySale(ctx, saleID)
	if err != nil {
		return 0, fmt.Errorf("load allocations for sale %s: %w", saleID, err)
	}

	owners := make(map[uuid.UUID]struct{})
	for _, alloc := range allocations {
		owners[alloc.PaymentID] = struct{}{}
		if err := repos.PaymentRepo().DeleteAllocation(ctx, alloc.ID); err != nil {
			return 0, fmt.Errorf("delete allocation %s: %w", alloc.ID, err)
		}
	}

	deleted := 0
	for paymentID := range owners {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return deleted, fmt.Errorf("load payment %s: %w", paymentID, err)
		}
		if payment == nil {
			continue
		}

		remaining := 0
		for _, alloc := range payment.Allocations {
			if alloc.SaleID != saleID {
				remaining++
			}
		}
		directHere := payment.SaleID != nil && *payment.SaleID == saleID

		switch {
		case remaining == 0 && (payment.SaleID == nil || directHere):
			if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
				return deleted, fmt.Errorf("delete payment %s: %w", payment.ID, err)
			}
			deleted++
		case directHere:
			payment.DemoteToReceipt()
			if err := repos.PaymentRepo().Update(ctx, payment); err != nil {
				return deleted, fmt.Errorf("demote payment %s: %w", payment.ID, err)
			}
		}
	}
	return deleted, nil
}

// detachDirectPayments handles payments recorded directly against the
// sale that no incoming allocation already dealt with. A payment whose
// money went solely to this sale is deleted; one that also funds other
// sales is demoted to an unattached receipt. Returns the number of
// payments deleted.
func (s *DeletionService) detachDirectPayments(ctx context.Context, repos TransactionalRepositories, saleID uuid.UUID) (int, error) {
	payments, err := repos.PaymentRepo().FindBySale(ctx, saleID)
	if err != nil {
		return 0, fmt.Errorf("load direct payments for sale %s: %w", saleID, err)
	}

	deleted := 0
	for _, payment := range payments {
		if len(payment.Allocations) > 0 {
			payment.DemoteToReceipt()
			if err := repos.PaymentRepo().Update(ctx, payment); err != nil {
				return deleted, fmt.Errorf("demote payment %s: %w", payment.ID, err)
			}
			continue
		}
		if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
			return deleted, fmt.Errorf("delete payment %s: %w", payment.ID, err)
		}
		deleted++
	}
	return deleted, nil
}
