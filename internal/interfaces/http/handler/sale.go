package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

// SaleHandler handles sale API endpoints, including the per-sale
// payment shortcuts
type SaleHandler struct {
	BaseHandler
	saleService    *ledgerapp.SaleService
	paymentService *ledgerapp.PaymentService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *ledgerapp.SaleService, paymentService *ledgerapp.PaymentService) *SaleHandler {
	return &SaleHandler{saleService: saleService, paymentService: paymentService}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	sales.POST("", h.Create)
	sales.GET("", h.List)
	sales.GET("/next-number", h.NextNumber)
	sales.GET("/:id", h.GetByID)
	sales.GET("/:id/allocations", h.ListAllocations)
	sales.POST("/:id/payments", h.CreatePayment)
	sales.POST("/:id/submit-payment", h.SubmitPayment)
}

// SaleItemRequest is one order line in a sale creation request
type SaleItemRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Qty       float64 `json:"qty" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
	Remark    string  `json:"remark" binding:"max=500"`
}

// CreateSaleRequest represents a request to open a new sale
type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id" binding:"required,uuid"`
	BuyerID    string            `json:"buyer_id" binding:"omitempty,uuid"`
	SaleNo     string            `json:"sale_no" binding:"max=50"`
	Project    string            `json:"project" binding:"max=200"`
	SaleDate   string            `json:"sale_date" binding:"omitempty,datetime=2006-01-02"`
	Note       string            `json:"note" binding:"max=1000"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreatePaymentRequest records money against this sale
type CreatePaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method" binding:"required"`
	PaidAt string  `json:"paid_at" binding:"omitempty,datetime=2006-01-02"`
	Note   string  `json:"note" binding:"max=1000"`
}

// SubmitPaymentRequest is the settle-at-checkout shortcut
type SubmitPaymentRequest struct {
	PayType string   `json:"pay_type" binding:"required,oneof=paid_full credit partial"`
	Method  string   `json:"method" binding:"required"`
	Amount  *float64 `json:"amount" binding:"omitempty,gt=0"`
	Note    string   `json:"note" binding:"max=1000"`
}

// SubmitPaymentResponse returns the resettled sale and the created
// payment, if any
type SubmitPaymentResponse struct {
	Sale    SaleResponse     `json:"sale"`
	Payment *PaymentResponse `json:"payment,omitempty"`
}

// ListSalesRequest represents sale list query parameters
type ListSalesRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=unpaid partial paid"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// Create opens a new sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	buyerID, err := parseUUIDPtr(req.BuyerID)
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}
	saleDate, err := parseDatePtr(req.SaleDate)
	if err != nil {
		h.BadRequest(c, "Invalid sale date")
		return
	}

	items := make([]ledgerapp.SaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		items = append(items, ledgerapp.SaleItemInput{
			ProductID: productID,
			Qty:       toDecimal(item.Qty),
			UnitPrice: toDecimal(item.UnitPrice),
			Remark:    item.Remark,
		})
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), ledgerapp.CreateSaleRequest{
		CustomerID: customerID,
		BuyerID:    buyerID,
		SaleNo:     req.SaleNo,
		Project:    req.Project,
		SaleDate:   saleDate,
		Note:       req.Note,
		Items:      items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toSaleResponse(sale))
}

// GetByID returns a sale with its item lines
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSaleResponse(sale))
}

// NextNumber previews the number the next sale created today would get
func (h *SaleHandler) NextNumber(c *gin.Context) {
	number, err := h.saleService.NextSaleNumber(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"sale_no": number})
}

// List pages through sales matching the query
func (h *SaleHandler) List(c *gin.Context) {
	var req ListSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	q := domain.SaleQuery{Keyword: req.Search}
	customerID, err := parseUUIDPtr(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	q.CustomerID = customerID
	dateFrom, err := parseDatePtr(req.DateFrom)
	if err != nil {
		h.BadRequest(c, "Invalid date_from")
		return
	}
	dateTo, err := parseDatePtr(req.DateTo)
	if err != nil {
		h.BadRequest(c, "Invalid date_to")
		return
	}
	q.DateFrom, q.DateTo = dateFrom, dateTo
	if req.Status != "" {
		status := domain.PaymentStatus(req.Status)
		q.PaymentStatus = &status
	}

	page, err := h.saleService.ListSales(c.Request.Context(), q, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toSaleResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// ListAllocations returns the allocation fragments funding a sale
func (h *SaleHandler) ListAllocations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	allocations, err := h.paymentService.ListSaleAllocations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]AllocationResponse, 0, len(allocations))
	for _, alloc := range allocations {
		out = append(out, AllocationResponse{
			ID:     alloc.ID.String(),
			SaleID: alloc.SaleID.String(),
			Amount: alloc.Amount,
		})
	}
	h.Success(c, out)
}

// CreatePayment records money received against this sale
func (h *SaleHandler) CreatePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	paidAt, err := parseDatePtr(req.PaidAt)
	if err != nil {
		h.BadRequest(c, "Invalid paid_at date")
		return
	}

	payment, err := h.paymentService.CreateDirectPayment(c.Request.Context(), ledgerapp.CreateDirectPaymentRequest{
		SaleID: id,
		Amount: toDecimal(req.Amount),
		Method: domain.PayMethod(req.Method),
		PaidAt: paidAt,
		Note:   req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(payment))
}

// SubmitPayment settles the sale at checkout: paid_full clears the
// outstanding balance, credit records nothing, partial pays the given
// amount
func (h *SaleHandler) SubmitPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.SubmitSalePayment(c.Request.Context(), ledgerapp.SubmitSalePaymentRequest{
		SaleID:  id,
		PayType: domain.PayType(req.PayType),
		Method:  domain.PayMethod(req.Method),
		Amount:  toDecimalPtr(req.Amount),
		Note:    req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := SubmitPaymentResponse{Sale: toSaleResponse(result.Sale)}
	if result.Payment != nil {
		p := toPaymentResponse(result.Payment)
		resp.Payment = &p
	}
	h.Success(c, resp)
}
