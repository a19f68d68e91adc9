package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles payment and receipt allocation API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *ledgerapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *ledgerapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.GET("", h.List)
	payments.DELETE("/:id", h.Delete)
	payments.POST("/allocate", h.Allocate)
	payments.POST("/allocate-to-sales", h.AllocateToSales)
	payments.POST("/batch-apply", h.BatchApply)
}

// AllocateRequest spreads one receipt across the customer's open sales
type AllocateRequest struct {
	CustomerID string  `json:"customer_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Method     string  `json:"method" binding:"required"`
	Mode       string  `json:"mode" binding:"omitempty,oneof=oldest_first"`
	PaidAt     string  `json:"paid_at" binding:"omitempty,datetime=2006-01-02"`
	Note       string  `json:"note" binding:"max=1000"`
}

// AllocateToSalesRequest spreads one receipt across chosen sales
type AllocateToSalesRequest struct {
	CustomerID string   `json:"customer_id" binding:"required,uuid"`
	SaleIDs    []string `json:"sale_ids" binding:"required,min=1,dive,uuid"`
	Amount     float64  `json:"amount" binding:"required,gt=0"`
	Method     string   `json:"method" binding:"required"`
	PaidAt     string   `json:"paid_at" binding:"omitempty,datetime=2006-01-02"`
	Note       string   `json:"note" binding:"max=1000"`
}

// BatchApplyRequest settles chosen sales oldest first with an
// individual payment per funded sale
type BatchApplyRequest struct {
	CustomerID  string   `json:"customer_id" binding:"required,uuid"`
	SaleIDs     []string `json:"sale_ids" binding:"required,min=1,dive,uuid"`
	TotalAmount float64  `json:"total_amount" binding:"required,gt=0"`
	Method      string   `json:"method" binding:"required"`
	PaidAt      string   `json:"paid_at" binding:"omitempty,datetime=2006-01-02"`
	Note        string   `json:"note" binding:"max=1000"`
}

// AllocateResponse reports the created receipt and each funded sale's
// state after settlement
type AllocateResponse struct {
	Payment     PaymentResponse              `json:"payment"`
	Allocations []ledgerapp.AllocationResult `json:"allocations"`
}

// ListPaymentsRequest represents payment list query parameters
type ListPaymentsRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	SaleID     string `form:"sale_id" binding:"omitempty,uuid"`
	Method     string `form:"method"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// List pages through payments matching the query
func (h *PaymentHandler) List(c *gin.Context) {
	var req ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var q domain.PaymentQuery
	customerID, err := parseUUIDPtr(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	saleID, err := parseUUIDPtr(req.SaleID)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}
	q.CustomerID, q.SaleID = customerID, saleID
	if req.Method != "" {
		method := domain.PayMethod(req.Method)
		q.Method = &method
	}
	q.DateFrom, err = parseDatePtr(req.DateFrom)
	if err != nil {
		h.BadRequest(c, "Invalid date_from")
		return
	}
	q.DateTo, err = parseDatePtr(req.DateTo)
	if err != nil {
		h.BadRequest(c, "Invalid date_to")
		return
	}

	page, err := h.paymentService.ListPayments(c.Request.Context(), q, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPaymentListResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// Delete reverses one payment and resettles every sale it funded.
// Deleting an already deleted payment is a no-op.
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Allocate spreads one receipt across all of the customer's open sales
// oldest first
func (h *PaymentHandler) Allocate(c *gin.Context) {
	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	paidAt, err := parseDatePtr(req.PaidAt)
	if err != nil {
		h.BadRequest(c, "Invalid paid_at date")
		return
	}

	mode := domain.AllocateMode(req.Mode)
	if req.Mode == "" {
		mode = domain.AllocateModeOldestFirst
	}

	result, err := h.paymentService.AllocateCustomerReceipt(c.Request.Context(), ledgerapp.AllocateReceiptRequest{
		CustomerID: customerID,
		Amount:     toDecimal(req.Amount),
		Method:     domain.PayMethod(req.Method),
		Mode:       mode,
		PaidAt:     paidAt,
		Note:       req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, AllocateResponse{
		Payment:     toPaymentResponse(result.Payment),
		Allocations: result.Allocations,
	})
}

// AllocateToSales spreads one receipt across an explicit selection of
// the customer's sales, oldest first
func (h *PaymentHandler) AllocateToSales(c *gin.Context) {
	var req AllocateToSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	saleIDs, err := parseUUIDs(req.SaleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID in selection")
		return
	}
	paidAt, err := parseDatePtr(req.PaidAt)
	if err != nil {
		h.BadRequest(c, "Invalid paid_at date")
		return
	}

	result, err := h.paymentService.AllocateToSales(c.Request.Context(), ledgerapp.AllocateToSalesRequest{
		CustomerID: customerID,
		SaleIDs:    saleIDs,
		Amount:     toDecimal(req.Amount),
		Method:     domain.PayMethod(req.Method),
		PaidAt:     paidAt,
		Note:       req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, AllocateResponse{
		Payment:     toPaymentResponse(result.Payment),
		Allocations: result.Allocations,
	})
}

// BatchApply settles a selection of sales oldest first, creating an
// individual payment per funded sale instead of one allocated receipt
func (h *PaymentHandler) BatchApply(c *gin.Context) {
	var req BatchApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	saleIDs, err := parseUUIDs(req.SaleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID in selection")
		return
	}
	paidAt, err := parseDatePtr(req.PaidAt)
	if err != nil {
		h.BadRequest(c, "Invalid paid_at date")
		return
	}

	result, err := h.paymentService.BatchApply(c.Request.Context(), ledgerapp.BatchApplyRequest{
		CustomerID:  customerID,
		SaleIDs:     saleIDs,
		TotalAmount: toDecimal(req.TotalAmount),
		Method:      domain.PayMethod(req.Method),
		PaidAt:      paidAt,
		Note:        req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
