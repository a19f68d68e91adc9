package ledger

import (
	"strings"

	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item referenced by sale line items.
// A product cannot be deleted while any sale item references it.
type Product struct {
	shared.BaseEntity
	Name          string
	SKU           string
	Unit          string
	StandardPrice decimal.Decimal
	Active        bool
}

// NewProduct creates a new product
func NewProduct(name, sku, unit string, standardPrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if standardPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Standard price cannot be negative")
	}

	return &Product{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		SKU:           strings.TrimSpace(sku),
		Unit:          strings.TrimSpace(unit),
		StandardPrice: standardPrice,
		Active:        true,
	}, nil
}

// Update changes the product's mutable attributes
func (p *Product) Update(name, sku, unit string, standardPrice *decimal.Decimal) error {
	if v := strings.TrimSpace(name); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(sku); v != "" {
		p.SKU = v
	}
	if v := strings.TrimSpace(unit); v != "" {
		p.Unit = v
	}
	if standardPrice != nil {
		if standardPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Standard price cannot be negative")
		}
		p.StandardPrice = *standardPrice
	}
	p.Touch()
	return nil
}

// Disable soft-disables the product; disabled products cannot appear on new sales
func (p *Product) Disable() {
	p.Active = false
	p.Touch()
}

// Enable re-activates the product
func (p *Product) Enable() {
	p.Active = true
	p.Touch()
}
