package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CustomerService manages customers and their contacts
type CustomerService struct {
	customerRepo ledger.CustomerRepository
	contactRepo  ledger.ContactRepository
	saleRepo     ledger.SaleRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo ledger.CustomerRepository,
	contactRepo ledger.ContactRepository,
	saleRepo ledger.SaleRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		contactRepo:  contactRepo,
		saleRepo:     saleRepo,
		logger:       logger,
	}
}

// CreateCustomer registers a customer. Personal customers immediately
// get a default buyer contact mirroring their own details so sales can
// be opened without picking one.
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*ledger.Customer, error) {
	existing, err := s.customerRepo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check customer name: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("CUSTOMER_EXISTS", "A customer with this name already exists")
	}

	customer, err := ledger.NewCustomer(req.Type, req.Name, req.ContactName, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}

	if customer.IsPersonal() {
		buyer, err := ledger.NewDefaultBuyer(customer)
		if err != nil {
			return nil, err
		}
		if err := s.contactRepo.Save(ctx, buyer); err != nil {
			return nil, fmt.Errorf("save default buyer: %w", err)
		}
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("type", customer.Type.String()),
	)
	return customer, nil
}

// GetCustomer returns one customer
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*ledger.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	}
	return customer, nil
}

// GetProfile returns a customer with their most recent sales
func (s *CustomerService) GetProfile(ctx context.Context, id uuid.UUID, recentLimit int) (*CustomerProfile, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if recentLimit <= 0 {
		recentLimit = 10
	}
	sales, err := s.saleRepo.FindRecentByCustomer(ctx, id, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent sales: %w", err)
	}
	return &CustomerProfile{Customer: customer, RecentSales: sales}, nil
}

// ListCustomers pages through customers, optionally matching a keyword
func (s *CustomerService) ListCustomers(ctx context.Context, keyword string, activeOnly bool, filter shared.Filter) (*shared.Paginated[*ledger.Customer], error) {
	return s.customerRepo.Search(ctx, keyword, activeOnly, filter)
}

// UpdateCustomer applies a partial update
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*ledger.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != customer.Name {
		other, err := s.customerRepo.FindByName(ctx, *req.Name)
		if err != nil {
			return nil, fmt.Errorf("check customer name: %w", err)
		}
		if other != nil {
			return nil, shared.NewDomainError("CUSTOMER_EXISTS", "A customer with this name already exists")
		}
		if err := customer.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	contactName, phone, address := customer.ContactName, customer.Phone, customer.Address
	if req.ContactName != nil {
		contactName = *req.ContactName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	customer.UpdateContactInfo(contactName, phone, address)

	if req.Active != nil {
		if *req.Active {
			customer.Enable()
		} else {
			customer.Disable()
		}
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer hard-deletes a customer. Refused while any sale or
// payment still references them; those must be purged first.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}

	saleCount, err := s.customerRepo.CountSales(ctx, id)
	if err != nil {
		return fmt.Errorf("count sales: %w", err)
	}
	paymentCount, err := s.customerRepo.CountPayments(ctx, id)
	if err != nil {
		return fmt.Errorf("count payments: %w", err)
	}
	if saleCount > 0 || paymentCount > 0 {
		return shared.NewDomainError("CUSTOMER_HAS_RECORDS", "Customer still has sales or payments and cannot be deleted")
	}

	if err := s.customerRepo.Delete(ctx, customer.ID); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// GetARSummary totals the customer's sales against everything received
func (s *CustomerService) GetARSummary(ctx context.Context, id uuid.UUID) (*ARSummary, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}

	totalSales, err := s.customerRepo.SumSalesTotal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}
	totalReceived, err := s.customerRepo.SumPaymentsTotal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	return &ARSummary{
		TotalSales:    valueobject.Round2(totalSales),
		TotalReceived: valueobject.Round2(totalReceived),
		TotalAR:       valueobject.Round2(totalSales.Sub(totalReceived)),
	}, nil
}

// ListOpenSales returns the customer's sales that still carry an
// outstanding balance, oldest first. This is the picker behind receipt
// allocation.
func (s *CustomerService) ListOpenSales(ctx context.Context, customerID uuid.UUID) ([]*ledger.Sale, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load open sales: %w", err)
	}
	return sales, nil
}

// ListContacts returns the customer's contacts
func (s *CustomerService) ListContacts(ctx context.Context, customerID uuid.UUID) ([]*ledger.Contact, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.contactRepo.FindByCustomer(ctx, customerID)
}

// AddContact registers a contact for the customer
func (s *CustomerService) AddContact(ctx context.Context, customerID uuid.UUID, name, phone, role string) (*ledger.Contact, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	contact, err := ledger.NewContact(customerID, name, phone, role)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}
	return contact, nil
}

// UpdateContact edits a contact. The buyer name snapshotted on past
// sales is deliberately untouched.
func (s *CustomerService) UpdateContact(ctx context.Context, customerID, contactID uuid.UUID, name, phone, role string) (*ledger.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("load contact: %w", err)
	}
	if contact == nil || !contact.BelongsTo(customerID) {
		return nil, shared.NewDomainError("CONTACT_NOT_FOUND", "Contact not found")
	}
	if err := contact.Update(name, phone, role); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return contact, nil
}

// RemoveContact deletes a contact
func (s *CustomerService) RemoveContact(ctx context.Context, customerID, contactID uuid.UUID) error {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return fmt.Errorf("load contact: %w", err)
	}
	if contact == nil || !contact.BelongsTo(customerID) {
		return shared.NewDomainError("CONTACT_NOT_FOUND", "Contact not found")
	}
	if err := s.contactRepo.Delete(ctx, contactID); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
