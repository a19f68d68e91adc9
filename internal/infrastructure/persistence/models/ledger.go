package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Type        ledger.CustomerType `gorm:"type:varchar(20);not null;default:'personal'"`
	Name        string              `gorm:"type:varchar(200);not null;uniqueIndex:idx_customer_name"`
	ContactName string              `gorm:"type:varchar(100);not null"`
	Phone       string              `gorm:"type:varchar(50);not null;index"`
	Address     string              `gorm:"type:text;not null"`
	Active      bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *ledger.Customer {
	return &ledger.Customer{
		BaseEntity:  m.BaseModel.ToDomain(),
		Type:        m.Type,
		Name:        m.Name,
		ContactName: m.ContactName,
		Phone:       m.Phone,
		Address:     m.Address,
		Active:      m.Active,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *ledger.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Type = c.Type
	m.Name = c.Name
	m.ContactName = c.ContactName
	m.Phone = c.Phone
	m.Address = c.Address
	m.Active = c.Active
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *ledger.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ContactModel is the persistence model for the Contact domain entity.
type ContactModel struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Phone      string    `gorm:"type:varchar(50)"`
	Role       string    `gorm:"type:varchar(50)"`
	Active     bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *ledger.Contact {
	return &ledger.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		Name:       m.Name,
		Phone:      m.Phone,
		Role:       m.Role,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *ledger.Contact) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CustomerID = c.CustomerID
	m.Name = c.Name
	m.Phone = c.Phone
	m.Role = c.Role
	m.Active = c.Active
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *ledger.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"type:varchar(100);index"`
	Unit          string          `gorm:"type:varchar(50)"`
	StandardPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *ledger.Product {
	return &ledger.Product{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		SKU:           m.SKU,
		Unit:          m.Unit,
		StandardPrice: m.StandardPrice,
		Active:        m.Active,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *ledger.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Unit = p.Unit
	m.StandardPrice = p.StandardPrice
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *ledger.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// SaleModel is the persistence model for the Sale aggregate root.
// The derived settlement triple (paid, ar, status) is stored as written by
// the domain's Settle; the version column backs optimistic locking.
type SaleModel struct {
	AggregateModel
	SaleNo        string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_no"`
	CustomerID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	BuyerID       uuid.UUID            `gorm:"type:uuid;not null"`
	BuyerName     string               `gorm:"type:varchar(100);not null"`
	Project       string               `gorm:"type:varchar(200)"`
	SaleDate      time.Time            `gorm:"not null;index"`
	Note          string               `gorm:"type:text"`
	TotalAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	ARAmount      decimal.Decimal      `gorm:"column:ar_amount;type:decimal(18,4);not null;default:0"`
	PaymentStatus ledger.PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	Items         []SaleItemModel      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale aggregate.
func (m *SaleModel) ToDomain() *ledger.Sale {
	items := make([]ledger.SaleItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = *item.ToDomain()
	}
	return &ledger.Sale{
		BaseAggregateRoot: m.AggregateModel.ToDomainAggregateRoot(),
		SaleNo:            m.SaleNo,
		CustomerID:        m.CustomerID,
		BuyerID:           m.BuyerID,
		BuyerName:         m.BuyerName,
		Project:           m.Project,
		SaleDate:          m.SaleDate,
		Note:              m.Note,
		Items:             items,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		ARAmount:          m.ARAmount,
		PaymentStatus:     m.PaymentStatus,
	}
}

// FromDomain populates the persistence model from a domain Sale aggregate.
func (m *SaleModel) FromDomain(s *ledger.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SaleNo = s.SaleNo
	m.CustomerID = s.CustomerID
	m.BuyerID = s.BuyerID
	m.BuyerName = s.BuyerName
	m.Project = s.Project
	m.SaleDate = s.SaleDate
	m.Note = s.Note
	m.TotalAmount = s.TotalAmount
	m.PaidAmount = s.PaidAmount
	m.ARAmount = s.ARAmount
	m.PaymentStatus = s.PaymentStatus
	m.Items = make([]SaleItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i].FromDomain(&s.Items[i])
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale aggregate.
func SaleModelFromDomain(s *ledger.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is the persistence model for a sale line item.
type SaleItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Qty       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remark    string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() *ledger.SaleItem {
	return &ledger.SaleItem{
		ID:        m.ID,
		SaleID:    m.SaleID,
		ProductID: m.ProductID,
		Qty:       m.Qty,
		UnitPrice: m.UnitPrice,
		LineTotal: m.LineTotal,
		Remark:    m.Remark,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleItem.
func (m *SaleItemModel) FromDomain(item *ledger.SaleItem) {
	m.ID = item.ID
	m.SaleID = item.SaleID
	m.ProductID = item.ProductID
	m.Qty = item.Qty
	m.UnitPrice = item.UnitPrice
	m.LineTotal = item.LineTotal
	m.Remark = item.Remark
	m.CreatedAt = item.CreatedAt
}

// PaymentModel is the persistence model for the Payment domain entity.
// SaleID is null for allocation-only receipts.
type PaymentModel struct {
	BaseModel
	CustomerID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	SaleID      *uuid.UUID               `gorm:"type:uuid;index"`
	ReceiptNo   string                   `gorm:"type:varchar(50);not null;index"`
	PayType     ledger.PayType           `gorm:"type:varchar(20);not null;default:'partial'"`
	Amount      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Method      ledger.PayMethod         `gorm:"type:varchar(20);not null"`
	PaidAt      time.Time                `gorm:"not null;index"`
	Note        string                   `gorm:"type:text"`
	Allocations []PaymentAllocationModel `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	allocations := make([]ledger.PaymentAllocation, len(m.Allocations))
	for i, a := range m.Allocations {
		allocations[i] = *a.ToDomain()
	}
	return &ledger.Payment{
		BaseEntity:  m.BaseModel.ToDomain(),
		CustomerID:  m.CustomerID,
		SaleID:      m.SaleID,
		ReceiptNo:   m.ReceiptNo,
		PayType:     m.PayType,
		Amount:      m.Amount,
		Method:      m.Method,
		PaidAt:      m.PaidAt,
		Note:        m.Note,
		Allocations: allocations,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CustomerID = p.CustomerID
	m.SaleID = p.SaleID
	m.ReceiptNo = p.ReceiptNo
	m.PayType = p.PayType
	m.Amount = p.Amount
	m.Method = p.Method
	m.PaidAt = p.PaidAt
	m.Note = p.Note
	m.Allocations = make([]PaymentAllocationModel, len(p.Allocations))
	for i := range p.Allocations {
		m.Allocations[i].FromDomain(&p.Allocations[i])
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentAllocationModel is the persistence model for an allocation fragment.
// It is cascade-deleted with its owning payment but only references its
// sale, so sale deletion cleans up fragments explicitly.
type PaymentAllocationModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentAllocation.
func (m *PaymentAllocationModel) ToDomain() *ledger.PaymentAllocation {
	return &ledger.PaymentAllocation{
		ID:        m.ID,
		PaymentID: m.PaymentID,
		SaleID:    m.SaleID,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain PaymentAllocation.
func (m *PaymentAllocationModel) FromDomain(a *ledger.PaymentAllocation) {
	m.ID = a.ID
	m.PaymentID = a.PaymentID
	m.SaleID = a.SaleID
	m.Amount = a.Amount
	m.CreatedAt = a.CreatedAt
}
