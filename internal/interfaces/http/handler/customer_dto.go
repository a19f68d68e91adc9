package handler

import (
	"time"

	"github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
)

// CustomerResponse is the wire shape of a customer
type CustomerResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID.String(),
		Type:        c.Type.String(),
		Name:        c.Name,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Address:     c.Address,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCustomerResponses(customers []*domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out
}

// ContactResponse is the wire shape of a customer contact
type ContactResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func toContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:         c.ID.String(),
		CustomerID: c.CustomerID.String(),
		Name:       c.Name,
		Phone:      c.Phone,
		Role:       c.Role,
		CreatedAt:  c.CreatedAt,
	}
}

func toContactResponses(contacts []*domain.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	return out
}

// CustomerProfileResponse is a customer with their recent sales
type CustomerProfileResponse struct {
	Customer    CustomerResponse `json:"customer"`
	RecentSales []SaleResponse   `json:"recent_sales"`
}

func toCustomerProfileResponse(p *ledger.CustomerProfile) CustomerProfileResponse {
	return CustomerProfileResponse{
		Customer:    toCustomerResponse(p.Customer),
		RecentSales: toSaleResponses(p.RecentSales),
	}
}
