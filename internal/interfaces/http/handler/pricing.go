package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

// PricingHandler serves the price lookups used while drafting a sale
type PricingHandler struct {
	BaseHandler
	pricingService *ledgerapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *ledgerapp.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// RegisterRoutes registers pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pricing := rg.Group("/pricing")
	pricing.GET("/last", h.GetLast)
	pricing.GET("/history", h.GetHistory)
	pricing.GET("/product-trend", h.GetProductTrend)
}

// LastPriceRequest identifies the customer-product pair to look up
type LastPriceRequest struct {
	CustomerID string `form:"customer_id" binding:"required,uuid"`
	ProductID  string `form:"product_id" binding:"required,uuid"`
}

// PriceHistoryRequest represents price history query parameters
type PriceHistoryRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"required,uuid"`
	ProductID  string `form:"product_id" binding:"required,uuid"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// ProductTrendRequest represents product trend query parameters
type ProductTrendRequest struct {
	ProductID string `form:"product_id" binding:"required,uuid"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// GetLast returns the price the customer last paid for the product,
// falling back to the standard price when they never bought it
func (h *PricingHandler) GetLast(c *gin.Context) {
	var req LastPriceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.pricingService.LastPrice(c.Request.Context(), customerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetHistory pages through the customer's past purchases of the product
func (h *PricingHandler) GetHistory(c *gin.Context) {
	var req PriceHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	q := domain.PriceHistoryQuery{CustomerID: customerID, ProductID: productID}
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

	result, err := h.pricingService.History(c.Request.Context(), q, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetProductTrend lists the product's newest sale lines across all
// customers
func (h *PricingHandler) GetProductTrend(c *gin.Context) {
	var req ProductTrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	points, err := h.pricingService.ProductTrend(c.Request.Context(), productID, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, points)
}
