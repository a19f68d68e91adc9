package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// trend queries are bounded so one product with years of history cannot
// drag the whole table into a response
const (
	defaultTrendLimit = 50
	maxTrendLimit     = 200
)

// LastPriceResult answers "what did this customer pay last time". When
// the customer never bought the product only the standard price is
// filled in.
type LastPriceResult struct {
	Found         bool             `json:"found"`
	StandardPrice decimal.Decimal  `json:"standard_price"`
	LastPrice     *decimal.Decimal `json:"last_price,omitempty"`
	LastDate      *time.Time       `json:"last_date,omitempty"`
	LastQty       *decimal.Decimal `json:"last_qty,omitempty"`
}

// PriceHistoryResult is one page of a customer's purchase history for a
// product
type PriceHistoryResult struct {
	Items    []ledger.PriceHistoryLine `json:"items"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

// PricingService answers price lookups used while drafting a sale: what
// a customer paid for a product before and how the product's price moves
// across customers.
type PricingService struct {
	customerRepo  ledger.CustomerRepository
	productRepo   ledger.ProductRepository
	reportingRepo ledger.ReportingRepository
}

// NewPricingService creates a new PricingService
func NewPricingService(customerRepo ledger.CustomerRepository, productRepo ledger.ProductRepository, reportingRepo ledger.ReportingRepository) *PricingService {
	return &PricingService{customerRepo: customerRepo, productRepo: productRepo, reportingRepo: reportingRepo}
}

// LastPrice returns the price the customer last paid for the product,
// falling back to the product's standard price when they never bought it
func (s *PricingService) LastPrice(ctx context.Context, customerID, productID uuid.UUID) (*LastPriceResult, error) {
	product, err := s.ensureCustomerAndProduct(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}

	last, err := s.reportingRepo.LastSoldPrice(ctx, customerID, productID)
	if err != nil {
		return nil, fmt.Errorf("query last price: %w", err)
	}
	if last == nil {
		return &LastPriceResult{Found: false, StandardPrice: product.StandardPrice}, nil
	}
	return &LastPriceResult{
		Found:         true,
		StandardPrice: product.StandardPrice,
		LastPrice:     &last.UnitPrice,
		LastDate:      &last.SaleDate,
		LastQty:       &last.Qty,
	}, nil
}

// History pages through the customer's past purchases of the product,
// newest first
func (s *PricingService) History(ctx context.Context, q ledger.PriceHistoryQuery, page, pageSize int) (*PriceHistoryResult, error) {
	if _, err := s.ensureCustomerAndProduct(ctx, q.CustomerID, q.ProductID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, total, err := s.reportingRepo.PriceHistory(ctx, q, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	return &PriceHistoryResult{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// ProductTrend lists the product's newest sale lines across all
// customers
func (s *PricingService) ProductTrend(ctx context.Context, productID uuid.UUID, limit int) ([]ledger.ProductTrendPoint, error) {
	if limit < 1 {
		limit = defaultTrendLimit
	}
	if limit > maxTrendLimit {
		limit = maxTrendLimit
	}
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	points, err := s.reportingRepo.ProductTrend(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("query product trend: %w", err)
	}
	return points, nil
}

func (s *PricingService) ensureCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*ledger.Product, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	return product, nil
}

func (s *PricingService) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	return nil
}
