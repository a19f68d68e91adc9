package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/shared"
)

// DefaultBuyerRole is the role assigned to the auto-created buyer that
// mirrors a personal customer.
const DefaultBuyerRole = "self"

// Contact is a person associated with a customer who places orders
// (the "buyer"), distinct from the billing customer for company accounts.
type Contact struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	Name       string
	Phone      string
	Role       string
	Active     bool
}

// NewContact creates a new contact for a customer
func NewContact(customerID uuid.UUID, name, phone, role string) (*Contact, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}

	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Name:       name,
		Phone:      strings.TrimSpace(phone),
		Role:       strings.TrimSpace(role),
		Active:     true,
	}, nil
}

// NewDefaultBuyer creates the buyer that mirrors a personal customer's
// own name and phone. Exactly one exists per personal customer.
func NewDefaultBuyer(customer *Customer) (*Contact, error) {
	return NewContact(customer.ID, customer.Name, customer.Phone, DefaultBuyerRole)
}

// Update changes the contact's mutable attributes
func (c *Contact) Update(name, phone, role string) error {
	if v := strings.TrimSpace(name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(role); v != "" {
		c.Role = v
	}
	c.Touch()
	return nil
}

// Disable soft-disables the contact
func (c *Contact) Disable() {
	c.Active = false
	c.Touch()
}

// BelongsTo reports whether the contact is owned by the given customer
func (c *Contact) BelongsTo(customerID uuid.UUID) bool {
	return c.CustomerID == customerID
}
