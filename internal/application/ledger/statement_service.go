package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
)

// csvExportLimit bounds how many rows a statement export pulls in one
// query.
const csvExportLimit = 5000

// StatementResult is one statement page with the customer's lifetime
// summary attached
type StatementResult struct {
	Summary  ledger.StatementSummary `json:"summary"`
	Items    []ledger.StatementLine  `json:"items"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

// StatementService produces customer statements and their CSV exports
type StatementService struct {
	customerRepo  ledger.CustomerRepository
	reportingRepo ledger.ReportingRepository
}

// NewStatementService creates a new StatementService
func NewStatementService(customerRepo ledger.CustomerRepository, reportingRepo ledger.ReportingRepository) *StatementService {
	return &StatementService{customerRepo: customerRepo, reportingRepo: reportingRepo}
}

// GetStatement returns one page of the customer's statement
func (s *StatementService) GetStatement(ctx context.Context, q ledger.StatementQuery, page, pageSize int) (*StatementResult, error) {
	if err := s.ensureCustomer(ctx, q.CustomerID); err != nil {
		return nil, err
	}
	if q.Sort == "" {
		q.Sort = ledger.StatementSortDateDesc
	}
	if !q.Sort.IsValid() {
		return nil, shared.NewDomainError("INVALID_SORT", "Unknown statement sort key")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, total, err := s.reportingRepo.Statement(ctx, q, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("query statement: %w", err)
	}
	summary, err := s.reportingRepo.StatementSummary(ctx, q.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("query statement summary: %w", err)
	}
	return &StatementResult{
		Summary:  *summary,
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ExportCSV renders the filtered statement as CSV. Column layout is
// what the bookkeeping side expects to import into their spreadsheets.
func (s *StatementService) ExportCSV(ctx context.Context, q ledger.StatementQuery) (string, error) {
	if err := s.ensureCustomer(ctx, q.CustomerID); err != nil {
		return "", err
	}
	if q.Sort == "" {
		q.Sort = ledger.StatementSortDateDesc
	}

	items, _, err := s.reportingRepo.Statement(ctx, q, 1, csvExportLimit)
	if err != nil {
		return "", fmt.Errorf("query statement: %w", err)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"sale_no", "date", "project", "buyer", "total", "paid", "balance", "status", "note"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, line := range items {
		record := []string{
			line.SaleNo,
			line.SaleDate.Format("2006-01-02"),
			line.Project,
			line.BuyerName,
			line.TotalAmount.StringFixed(2),
			line.PaidAmount.StringFixed(2),
			line.ARAmount.StringFixed(2),
			line.PaymentStatus.String(),
			line.Note,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

func (s *StatementService) ensureCustomer(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	}
	return nil
}
