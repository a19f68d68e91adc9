package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const saleNumberAttempts = 3

// SaleService manages sale creation and the derived balance of each
// sale. All other services funnel balance changes through
// settleSale so the stored paid/outstanding figures always equal what
// the payment rows sum to.
type SaleService struct {
	scope    TransactionScope
	saleRepo ledger.SaleRepository
	logger   *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(scope TransactionScope, saleRepo ledger.SaleRepository, logger *zap.Logger) *SaleService {
	return &SaleService{scope: scope, saleRepo: saleRepo, logger: logger}
}

// CreateSale opens a new sale for a customer. The sale number is taken
// from the request when supplied, otherwise generated per day; a unique
// collision falls back to a freshly generated number.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*ledger.Sale, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "A sale needs at least one item line")
	}

	var created *ledger.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if customer == nil {
			return shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		if !customer.Active {
			return shared.NewDomainError("CUSTOMER_INACTIVE", "Customer is disabled and cannot order")
		}

		buyer, err := resolveBuyer(ctx, repos, customer, req.BuyerID)
		if err != nil {
			return err
		}

		products, err := repos.ProductRepo().FindByIDs(ctx, productIDs(req.Items))
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		productMap := make(map[uuid.UUID]*ledger.Product, len(products))
		for _, p := range products {
			productMap[p.ID] = p
		}
		for _, item := range req.Items {
			p, ok := productMap[item.ProductID]
			if !ok {
				return shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", item.ProductID))
			}
			if !p.Active {
				return shared.NewDomainError("PRODUCT_INACTIVE", fmt.Sprintf("Product %q is disabled", p.Name))
			}
		}

		saleDate := time.Now().UTC()
		if req.SaleDate != nil {
			saleDate = *req.SaleDate
		}

		preferred := req.SaleNo
		for attempt := 0; attempt < saleNumberAttempts; attempt++ {
			saleNo := preferred
			if saleNo == "" {
				saleNo, err = repos.SaleRepo().GenerateSaleNumber(ctx, saleDate)
				if err != nil {
					return fmt.Errorf("generate sale number: %w", err)
				}
			}

			sale, err := ledger.NewSale(saleNo, customer.ID, buyer.ID, buyer.Name, req.Project, saleDate, req.Note)
			if err != nil {
				return err
			}
			for _, item := range req.Items {
				if _, err := sale.AddItem(item.ProductID, item.Qty, item.UnitPrice, item.Remark); err != nil {
					return err
				}
			}

			if err := repos.SaleRepo().Save(ctx, sale); err != nil {
				if errors.Is(err, shared.ErrAlreadyExists) {
					preferred = ""
					continue
				}
				return fmt.Errorf("save sale: %w", err)
			}
			created = sale
			return nil
		}
		return shared.NewDomainError("SALE_NUMBER_EXHAUSTED", "Could not generate a unique sale number, retry")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("sale_id", created.ID.String()),
		zap.String("sale_no", created.SaleNo),
		zap.String("customer_id", created.CustomerID.String()),
		zap.String("total", created.TotalAmount.String()),
	)
	return created, nil
}

// GetSale returns a sale with its item lines
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*ledger.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load sale: %w", err)
	}
	if sale == nil {
		return nil, shared.NewDomainError("SALE_NOT_FOUND", "Sale not found")
	}
	return sale, nil
}

// NextSaleNumber previews the number the next sale created today would
// receive. Purely informational; creation regenerates under the
// transaction.
func (s *SaleService) NextSaleNumber(ctx context.Context) (string, error) {
	return s.saleRepo.GenerateSaleNumber(ctx, time.Now().UTC())
}

// ListSales pages through sales matching the query
func (s *SaleService) ListSales(ctx context.Context, q ledger.SaleQuery, filter shared.Filter) (*shared.Paginated[*ledger.Sale], error) {
	return s.saleRepo.Query(ctx, q, filter)
}

// resolveBuyer picks the contact recorded as the buyer on a sale.
// Company customers must name one of their contacts. Personal customers
// fall back to their first contact, which is created on the fly from
// the customer's own details when none exists yet.
func resolveBuyer(ctx context.Context, repos TransactionalRepositories, customer *ledger.Customer, buyerID *uuid.UUID) (*ledger.Contact, error) {
	if customer.IsPersonal() {
		if buyerID != nil {
			contact, err := repos.ContactRepo().FindByID(ctx, *buyerID)
			if err != nil {
				return nil, fmt.Errorf("load buyer: %w", err)
			}
			if contact != nil && contact.BelongsTo(customer.ID) {
				return contact, nil
			}
		}
		contact, err := repos.ContactRepo().FindFirstByCustomer(ctx, customer.ID)
		if err != nil {
			return nil, fmt.Errorf("load default buyer: %w", err)
		}
		if contact != nil {
			return contact, nil
		}
		contact, err = ledger.NewDefaultBuyer(customer)
		if err != nil {
			return nil, err
		}
		if err := repos.ContactRepo().Save(ctx, contact); err != nil {
			return nil, fmt.Errorf("save default buyer: %w", err)
		}
		return contact, nil
	}

	if buyerID == nil {
		return nil, shared.NewDomainError("BUYER_REQUIRED", "Company customers must name a buyer")
	}
	contact, err := repos.ContactRepo().FindByID(ctx, *buyerID)
	if err != nil {
		return nil, fmt.Errorf("load buyer: %w", err)
	}
	if contact == nil || !contact.BelongsTo(customer.ID) {
		return nil, shared.NewDomainError("BUYER_NOT_FOUND", "Buyer does not belong to the customer")
	}
	return contact, nil
}

func productIDs(items []SaleItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// settleSale recomputes one sale's derived balance from the payment
// rows inside the current transaction and persists the result. Every
// payment mutation calls this before committing.
func settleSale(ctx context.Context, repos TransactionalRepositories, sale *ledger.Sale) error {
	paid, err := repos.PaymentRepo().SumPaidForSale(ctx, sale.ID)
	if err != nil {
		return fmt.Errorf("sum paid for sale %s: %w", sale.ID, err)
	}
	sale.Settle(paid)
	if err := repos.SaleRepo().Update(ctx, sale); err != nil {
		return fmt.Errorf("persist sale balance: %w", err)
	}
	return nil
}

// settleSaleByID is settleSale for callers that only hold the id.
// Missing sales are skipped, which deletion relies on.
func settleSaleByID(ctx context.Context, repos TransactionalRepositories, saleID uuid.UUID) error {
	sale, err := repos.SaleRepo().FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("load sale %s: %w", saleID, err)
	}
	if sale == nil {
		return nil
	}
	return settleSale(ctx, repos, sale)
}
