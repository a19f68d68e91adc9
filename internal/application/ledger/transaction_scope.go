package ledger

import (
	"context"

	"github.com/salesledger/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Every balance-changing operation in this package runs
// inside a scope so the sale's stored totals can never drift from the
// payment rows they are derived from.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() ledger.CustomerRepository
	// ContactRepo returns the contact repository scoped to the current transaction
	ContactRepo() ledger.ContactRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() ledger.ProductRepository
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() ledger.SaleRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() ledger.PaymentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	customerRepo ledger.CustomerRepository
	contactRepo  ledger.ContactRepository
	productRepo  ledger.ProductRepository
	saleRepo     ledger.SaleRepository
	paymentRepo  ledger.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	customerRepo ledger.CustomerRepository,
	contactRepo ledger.ContactRepository,
	productRepo ledger.ProductRepository,
	saleRepo ledger.SaleRepository,
	paymentRepo ledger.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customerRepo: customerRepo,
		contactRepo:  contactRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() ledger.CustomerRepository { return s.customerRepo }

// ContactRepo returns the contact repository.
func (s *NoOpTransactionScope) ContactRepo() ledger.ContactRepository { return s.contactRepo }

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() ledger.ProductRepository { return s.productRepo }

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() ledger.SaleRepository { return s.saleRepo }

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() ledger.PaymentRepository { return s.paymentRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
