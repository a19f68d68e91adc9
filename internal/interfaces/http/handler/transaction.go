package handler

import (
	"github.com/gin-gonic/gin"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

// TransactionHandler serves the cross-customer activity feed
type TransactionHandler struct {
	BaseHandler
	transactionService *ledgerapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *ledgerapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RegisterRoutes registers activity feed routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	transactions.GET("/sales", h.ListSales)
	transactions.GET("/payments", h.ListPayments)
}

// ActivityRequest represents activity feed query parameters
type ActivityRequest struct {
	dto.ListRequest
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status" binding:"omitempty,oneof=unpaid partial paid"`
	Method   string `form:"method" binding:"omitempty,oneof=cash wechat alipay bank transfer other"`
}

func (h *TransactionHandler) buildQuery(c *gin.Context) (domain.ActivityQuery, *ActivityRequest, bool) {
	var q domain.ActivityQuery

	var req ActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return q, nil, false
	}

	q.Keyword = req.Search
	var err error
	q.DateFrom, err = parseDatePtr(req.DateFrom)
	if err != nil {
		h.BadRequest(c, "Invalid date_from")
		return q, nil, false
	}
	q.DateTo, err = parseDatePtr(req.DateTo)
	if err != nil {
		h.BadRequest(c, "Invalid date_to")
		return q, nil, false
	}
	if req.Status != "" {
		status := domain.PaymentStatus(req.Status)
		q.Status = &status
	}
	if req.Method != "" {
		method := domain.PayMethod(req.Method)
		q.Method = &method
	}
	return q, &req, true
}

// ListSales returns one page of sale activities, newest first
func (h *TransactionHandler) ListSales(c *gin.Context) {
	q, req, ok := h.buildQuery(c)
	if !ok {
		return
	}

	page, err := h.transactionService.ListSaleActivities(c.Request.Context(), q, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, page)
}

// ListPayments returns one page of payment activities, newest first
func (h *TransactionHandler) ListPayments(c *gin.Context) {
	q, req, ok := h.buildQuery(c)
	if !ok {
		return
	}

	page, err := h.transactionService.ListPaymentActivities(c.Request.Context(), q, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, page)
}
