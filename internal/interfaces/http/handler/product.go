package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *ledgerapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *ledgerapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=200"`
	SKU           string  `json:"sku" binding:"max=100"`
	Unit          string  `json:"unit" binding:"max=50"`
	StandardPrice float64 `json:"standard_price" binding:"gte=0"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=200"`
	SKU           *string  `json:"sku" binding:"omitempty,max=100"`
	Unit          *string  `json:"unit" binding:"omitempty,max=50"`
	StandardPrice *float64 `json:"standard_price" binding:"omitempty,gte=0"`
	Active        *bool    `json:"active"`
}

// ListProductsRequest represents product list query parameters
type ListProductsRequest struct {
	dto.ListRequest
	ActiveOnly bool `form:"active_only"`
}

// Create registers a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), ledgerapp.CreateProductRequest{
		Name:          req.Name,
		SKU:           req.SKU,
		Unit:          req.Unit,
		StandardPrice: toDecimal(req.StandardPrice),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toProductResponse(product))
}

// GetByID returns one product
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// List pages through the catalog
func (h *ProductHandler) List(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.productService.ListProducts(c.Request.Context(), req.Search, req.ActiveOnly, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toProductResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// Update applies a partial product update
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, ledgerapp.UpdateProductRequest{
		Name:          req.Name,
		SKU:           req.SKU,
		Unit:          req.Unit,
		StandardPrice: toDecimalPtr(req.StandardPrice),
		Active:        req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// Delete removes a product that no sale line references
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
