package ledger

import (
	"context"
	"fmt"

	"github.com/salesledger/backend/internal/domain/ledger"
)

// ActivityPage is one page of the activity feed
type ActivityPage[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// TransactionService serves the cross-customer activity feed: every
// sale and every payment in reverse chronological order, for the daily
// cash-up view.
type TransactionService struct {
	reportingRepo ledger.ReportingRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(reportingRepo ledger.ReportingRepository) *TransactionService {
	return &TransactionService{reportingRepo: reportingRepo}
}

// ListSaleActivities pages through sales newest first
func (s *TransactionService) ListSaleActivities(ctx context.Context, q ledger.ActivityQuery, page, pageSize int) (*ActivityPage[ledger.SaleActivity], error) {
	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.reportingRepo.SaleActivities(ctx, q, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("query sale activities: %w", err)
	}
	return &ActivityPage[ledger.SaleActivity]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// ListPaymentActivities pages through payments newest first
func (s *TransactionService) ListPaymentActivities(ctx context.Context, q ledger.ActivityQuery, page, pageSize int) (*ActivityPage[ledger.PaymentActivity], error) {
	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.reportingRepo.PaymentActivities(ctx, q, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("query payment activities: %w", err)
	}
	return &ActivityPage[ledger.PaymentActivity]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}
