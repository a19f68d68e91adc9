package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSaleHandler(t *testing.T) (*SaleHandler, *MockCustomerRepository, *MockContactRepository, *MockProductRepository, *MockSaleRepository, *MockPaymentRepository) {
	t.Helper()
	scope, customerRepo, contactRepo, productRepo, saleRepo, paymentRepo := newMockScope()
	saleService := ledgerapp.NewSaleService(scope, saleRepo, zap.NewNop())
	paymentService := ledgerapp.NewPaymentService(scope, paymentRepo, saleRepo, zap.NewNop())
	handler := NewSaleHandler(saleService, paymentService)
	return handler, customerRepo, contactRepo, productRepo, saleRepo, paymentRepo
}

// createOpenSale builds a sale with one 2 x 50 line, fully outstanding
func createOpenSale(t *testing.T) *ledger.Sale {
	t.Helper()
	sale, err := ledger.NewSale("SO20250810-001", uuid.New(), uuid.New(), "Wang Lei", "Riverside site", time.Now().UTC(), "")
	require.NoError(t, err)
	_, err = sale.AddItem(uuid.New(), decimal.NewFromInt(2), decimal.NewFromInt(50), "")
	require.NoError(t, err)
	return sale
}

func TestSaleHandler_Create(t *testing.T) {
	handler, customerRepo, contactRepo, productRepo, saleRepo, _ := setupSaleHandler(t)

	customer := createTestCustomer(t)
	buyer, err := ledger.NewContact(customer.ID, "Wang Lei", "13800000001", "manager")
	require.NoError(t, err)
	product, err := ledger.NewProduct("Rebar 12mm", "RB-12", "ton", decimal.NewFromInt(3500))
	require.NoError(t, err)

	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	contactRepo.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]*ledger.Product{product}, nil)
	saleRepo.On("GenerateSaleNumber", mock.Anything, mock.AnythingOfType("time.Time")).Return("SO20250810-003", nil)
	saleRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Sale")).Return(nil)

	router := setupTestRouter()
	router.POST("/sales", handler.Create)

	body, _ := json.Marshal(CreateSaleRequest{
		CustomerID: customer.ID.String(),
		BuyerID:    buyer.ID.String(),
		Project:    "Riverside site",
		Items: []SaleItemRequest{
			{ProductID: product.ID.String(), Qty: 2, UnitPrice: 3500},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var got SaleResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "SO20250810-003", got.SaleNo)
	assert.Equal(t, "7000", got.TotalAmount.String())
	assert.Equal(t, "unpaid", got.PaymentStatus)
}

func TestSaleHandler_Create_BuyerRequiredForCompany(t *testing.T) {
	handler, customerRepo, _, _, _, _ := setupSaleHandler(t)

	customer := createTestCustomer(t)
	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

	router := setupTestRouter()
	router.POST("/sales", handler.Create)

	body, _ := json.Marshal(CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []SaleItemRequest{
			{ProductID: uuid.NewString(), Qty: 1, UnitPrice: 10},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
}

func TestSaleHandler_GetByID_NotFound(t *testing.T) {
	handler, _, _, _, saleRepo, _ := setupSaleHandler(t)

	id := uuid.New()
	saleRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

	router := setupTestRouter()
	router.GET("/sales/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/sales/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaleHandler_NextNumber(t *testing.T) {
	handler, _, _, _, saleRepo, _ := setupSaleHandler(t)

	saleRepo.On("GenerateSaleNumber", mock.Anything, mock.AnythingOfType("time.Time")).Return("SO20250810-007", nil)

	router := setupTestRouter()
	router.GET("/sales/next-number", handler.NextNumber)

	req := httptest.NewRequest(http.MethodGet, "/sales/next-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	assert.JSONEq(t, `{"sale_no":"SO20250810-007"}`, string(data))
}

func TestSaleHandler_SubmitPayment_PaidFull(t *testing.T) {
	handler, _, _, _, saleRepo, paymentRepo := setupSaleHandler(t)

	sale := createOpenSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	saleRepo.On("Update", mock.Anything, sale).Return(nil)
	paymentRepo.On("GenerateReceiptNumber", mock.Anything, mock.AnythingOfType("time.Time")).Return("RC20250810-001", nil)
	paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Payment")).Return(nil)
	paymentRepo.On("SumPaidForSale", mock.Anything, sale.ID).Return(decimal.NewFromInt(100), nil)

	router := setupTestRouter()
	router.POST("/sales/:id/submit-payment", handler.SubmitPayment)

	body, _ := json.Marshal(SubmitPaymentRequest{PayType: "paid_full", Method: "wechat"})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sales/%s/submit-payment", sale.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var got SubmitPaymentResponse
	require.NoError(t, json.Unmarshal(data, &got))
	require.NotNil(t, got.Payment)
	assert.Equal(t, "100", got.Payment.Amount.String())
	assert.Equal(t, "paid", got.Sale.PaymentStatus)
	assert.True(t, got.Sale.ARAmount.IsZero())
}

func TestSaleHandler_SubmitPayment_CreditRecordsNothing(t *testing.T) {
	handler, _, _, _, saleRepo, paymentRepo := setupSaleHandler(t)

	sale := createOpenSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	saleRepo.On("Update", mock.Anything, sale).Return(nil)
	paymentRepo.On("SumPaidForSale", mock.Anything, sale.ID).Return(decimal.Zero, nil)

	router := setupTestRouter()
	router.POST("/sales/:id/submit-payment", handler.SubmitPayment)

	body, _ := json.Marshal(SubmitPaymentRequest{PayType: "credit", Method: "cash"})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sales/%s/submit-payment", sale.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var got SubmitPaymentResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got.Payment)
	assert.Equal(t, "unpaid", got.Sale.PaymentStatus)
	paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaleHandler_CreatePayment_ExceedsOutstanding(t *testing.T) {
	handler, _, _, _, saleRepo, _ := setupSaleHandler(t)

	sale := createOpenSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

	router := setupTestRouter()
	router.POST("/sales/:id/payments", handler.CreatePayment)

	body, _ := json.Marshal(CreatePaymentRequest{Amount: 150, Method: "bank"})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sales/%s/payments", sale.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeAmountExceedsBalance, resp.Error.Code)
}
