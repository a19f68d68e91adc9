package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

// StatementHandler serves customer statements and their CSV exports
type StatementHandler struct {
	BaseHandler
	statementService *ledgerapp.StatementService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(statementService *ledgerapp.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// RegisterRoutes registers statement routes
func (h *StatementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.GET("/:id/statement", h.GetStatement)
	customers.GET("/:id/statement/export", h.ExportStatement)
}

// StatementRequest represents statement query parameters
type StatementRequest struct {
	dto.ListRequest
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status" binding:"omitempty,oneof=unpaid partial paid"`
	Sort     string `form:"sort" binding:"omitempty,oneof=date_desc date_asc ar_desc"`
}

func (h *StatementHandler) buildQuery(c *gin.Context) (domain.StatementQuery, *StatementRequest, bool) {
	var q domain.StatementQuery

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return q, nil, false
	}

	var req StatementRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return q, nil, false
	}

	q.CustomerID = id
	q.Keyword = req.Search
	q.Sort = domain.StatementSort(req.Sort)
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
		q.PaymentStatus = &status
	}
	return q, &req, true
}

// GetStatement returns one page of the customer's statement with the
// lifetime summary attached
func (h *StatementHandler) GetStatement(c *gin.Context) {
	q, req, ok := h.buildQuery(c)
	if !ok {
		return
	}

	result, err := h.statementService.GetStatement(c.Request.Context(), q, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportStatement renders the filtered statement as a CSV download
func (h *StatementHandler) ExportStatement(c *gin.Context) {
	q, _, ok := h.buildQuery(c)
	if !ok {
		return
	}

	csvData, err := h.statementService.ExportCSV(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("statement-%s-%s.csv", q.CustomerID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvData))
}
