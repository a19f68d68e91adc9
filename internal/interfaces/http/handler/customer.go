package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer and contact API endpoints, including
// the guarded record purge
type CustomerHandler struct {
	BaseHandler
	customerService *ledgerapp.CustomerService
	deletionService *ledgerapp.DeletionService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *ledgerapp.CustomerService, deletionService *ledgerapp.DeletionService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		deletionService: deletionService,
	}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/:id", h.GetByID)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
	customers.GET("/:id/profile", h.GetProfile)
	customers.GET("/:id/ar-summary", h.GetARSummary)
	customers.GET("/:id/open-sales", h.ListOpenSales)
	customers.GET("/:id/contacts", h.ListContacts)
	customers.POST("/:id/contacts", h.AddContact)
	customers.PUT("/:id/contacts/:contactId", h.UpdateContact)
	customers.DELETE("/:id/contacts/:contactId", h.RemoveContact)
	customers.GET("/:id/delete-check", h.DeleteCheck)
	customers.POST("/:id/delete-records", h.DeleteRecords)
}

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Type        string `json:"type" binding:"required,oneof=company personal"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"required,max=100"`
	Phone       string `json:"phone" binding:"required,max=50"`
	Address     string `json:"address" binding:"required,max=500"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

// ContactRequest represents a request to add or edit a contact
type ContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Phone string `json:"phone" binding:"max=50"`
	Role  string `json:"role" binding:"max=50"`
}

// ListCustomersRequest represents customer list query parameters
type ListCustomersRequest struct {
	dto.ListRequest
	ActiveOnly bool `form:"active_only"`
}

// DeleteRecordsRequest names the sales and payments to purge
type DeleteRecordsRequest struct {
	SaleIDs    []string `json:"sale_ids"`
	PaymentIDs []string `json:"payment_ids"`
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), ledgerapp.CreateCustomerRequest{
		Type:        domain.CustomerType(req.Type),
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCustomerResponse(customer))
}

// GetByID returns one customer
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// GetProfile returns a customer with their recent sales
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req struct {
		Recent int `form:"recent" binding:"omitempty,min=1,max=50"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	profile, err := h.customerService.GetProfile(c.Request.Context(), id, req.Recent)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerProfileResponse(profile))
}

// List pages through customers
func (h *CustomerHandler) List(c *gin.Context) {
	var req ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.customerService.ListCustomers(c.Request.Context(), req.Search, req.ActiveOnly, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toCustomerResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// Update applies a partial customer update
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, ledgerapp.UpdateCustomerRequest{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Address:     req.Address,
		Active:      req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// Delete removes a customer that has no sales or payments on record
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetARSummary totals the customer's sales against everything received
func (h *CustomerHandler) GetARSummary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	summary, err := h.customerService.GetARSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// ListOpenSales returns the customer's unsettled sales, oldest first,
// for picking receipt allocation targets
func (h *CustomerHandler) ListOpenSales(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	sales, err := h.customerService.ListOpenSales(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSaleResponses(sales))
}

// ListContacts returns the customer's contacts
func (h *CustomerHandler) ListContacts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	contacts, err := h.customerService.ListContacts(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toContactResponses(contacts))
}

// AddContact registers a contact for the customer
func (h *CustomerHandler) AddContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contact, err := h.customerService.AddContact(c.Request.Context(), id, req.Name, req.Phone, req.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toContactResponse(contact))
}

// UpdateContact edits a contact
func (h *CustomerHandler) UpdateContact(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contact, err := h.customerService.UpdateContact(c.Request.Context(), customerID, contactID, req.Name, req.Phone, req.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toContactResponse(contact))
}

// RemoveContact deletes a contact
func (h *CustomerHandler) RemoveContact(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	if err := h.customerService.RemoveContact(c.Request.Context(), customerID, contactID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteCheck counts the purgeable records so the caller can confirm
func (h *CustomerHandler) DeleteCheck(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	result, err := h.deletionService.DeleteCheck(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteRecords purges the named sales and payments of the customer,
// reversing their effect on every surviving balance
func (h *CustomerHandler) DeleteRecords(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req DeleteRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	saleIDs, err := parseUUIDs(req.SaleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID in selection")
		return
	}
	paymentIDs, err := parseUUIDs(req.PaymentIDs)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID in selection")
		return
	}

	result, err := h.deletionService.DeleteRecords(c.Request.Context(), ledgerapp.DeleteRecordsRequest{
		CustomerID: id,
		SaleIDs:    saleIDs,
		PaymentIDs: paymentIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
