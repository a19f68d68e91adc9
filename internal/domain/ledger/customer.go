package ledger

import (
	"strings"

	"github.com/salesledger/backend/internal/domain/shared"
)

// CustomerType distinguishes company accounts from walk-in personal accounts
type CustomerType string

const (
	CustomerTypeCompany  CustomerType = "company"
	CustomerTypePersonal CustomerType = "personal"
)

// IsValid checks if the customer type is valid
func (t CustomerType) IsValid() bool {
	return t == CustomerTypeCompany || t == CustomerTypePersonal
}

// String returns the string representation of CustomerType
func (t CustomerType) String() string {
	return string(t)
}

// Customer is the billing entity. It owns sales, contacts and payments;
// a customer with any sale or payment on record cannot be hard-deleted.
type Customer struct {
	shared.BaseEntity
	Type        CustomerType
	Name        string
	ContactName string
	Phone       string
	Address     string
	Active      bool
}

// NewCustomer creates a new customer
func NewCustomer(customerType CustomerType, name, contactName, phone, address string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if !customerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be company or personal")
	}
	contactName = strings.TrimSpace(contactName)
	phone = strings.TrimSpace(phone)
	address = strings.TrimSpace(address)
	if contactName == "" || phone == "" || address == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT_INFO", "Contact name, phone and address are required")
	}

	return &Customer{
		BaseEntity:  shared.NewBaseEntity(),
		Type:        customerType,
		Name:        name,
		ContactName: contactName,
		Phone:       phone,
		Address:     address,
		Active:      true,
	}, nil
}

// Rename changes the customer display name
func (c *Customer) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.Touch()
	return nil
}

// UpdateContactInfo updates the contact person details
func (c *Customer) UpdateContactInfo(contactName, phone, address string) {
	if v := strings.TrimSpace(contactName); v != "" {
		c.ContactName = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(address); v != "" {
		c.Address = v
	}
	c.Touch()
}

// ChangeType switches between company and personal classification
func (c *Customer) ChangeType(t CustomerType) error {
	if !t.IsValid() {
		return shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be company or personal")
	}
	c.Type = t
	c.Touch()
	return nil
}

// Disable soft-disables the customer; existing sales and payments are kept
func (c *Customer) Disable() {
	c.Active = false
	c.Touch()
}

// Enable re-activates the customer
func (c *Customer) Enable() {
	c.Active = true
	c.Touch()
}

// IsPersonal returns true for personal-type customers
func (c *Customer) IsPersonal() bool {
	return c.Type == CustomerTypePersonal
}
