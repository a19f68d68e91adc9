package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByName(ctx context.Context, name string) (*ledger.Customer, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, keyword string, activeOnly bool, filter shared.Filter) (*shared.Paginated[*ledger.Customer], error) {
	args := m.Called(ctx, keyword, activeOnly, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *ledger.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *ledger.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) CountSales(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) CountPayments(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) SumSalesTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCustomerRepository) SumPaymentsTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ledger.Contact, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Contact), args.Error(1)
}

func (m *MockContactRepository) FindFirstByCustomer(ctx context.Context, customerID uuid.UUID) (*ledger.Contact, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *ledger.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *ledger.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ledger.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*ledger.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, keyword string, activeOnly bool, filter shared.Filter) (*shared.Paginated[*ledger.Product], error) {
	args := m.Called(ctx, keyword, activeOnly, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Product]), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *ledger.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *ledger.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountReferences(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBySaleNo(ctx context.Context, saleNo string) (*ledger.Sale, error) {
	args := m.Called(ctx, saleNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ledger.Sale, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ledger.Sale, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindRecentByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*ledger.Sale, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Sale), args.Error(1)
}

func (m *MockSaleRepository) Query(ctx context.Context, q ledger.SaleQuery, filter shared.Filter) (*shared.Paginated[*ledger.Sale], error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Sale]), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *ledger.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Update(ctx context.Context, sale *ledger.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) GenerateSaleNumber(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllocationsBySale(ctx context.Context, saleID uuid.UUID) ([]*ledger.PaymentAllocation, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentRepository) Query(ctx context.Context, q ledger.PaymentQuery, filter shared.Filter) (*shared.Paginated[*ledger.Payment], error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Payment]), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *ledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *ledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeleteAllocation(ctx context.Context, allocationID uuid.UUID) error {
	args := m.Called(ctx, allocationID)
	return args.Error(0)
}

func (m *MockPaymentRepository) SumPaidForSale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) CountAllocationsByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) GenerateReceiptNumber(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

// newMockScope bundles fresh mocks behind a NoOpTransactionScope
func newMockScope() (*NoOpTransactionScope, *MockCustomerRepository, *MockContactRepository, *MockProductRepository, *MockSaleRepository, *MockPaymentRepository) {
	customerRepo := new(MockCustomerRepository)
	contactRepo := new(MockContactRepository)
	productRepo := new(MockProductRepository)
	saleRepo := new(MockSaleRepository)
	paymentRepo := new(MockPaymentRepository)
	scope := NewNoOpTransactionScope(customerRepo, contactRepo, productRepo, saleRepo, paymentRepo)
	return scope, customerRepo, contactRepo, productRepo, saleRepo, paymentRepo
}
