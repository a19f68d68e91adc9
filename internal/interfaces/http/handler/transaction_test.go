package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTransactionHandler() (*TransactionHandler, *MockReportingRepository) {
	reportingRepo := new(MockReportingRepository)
	transactionService := ledgerapp.NewTransactionService(reportingRepo)
	return NewTransactionHandler(transactionService), reportingRepo
}

func TestTransactionHandler_ListSales(t *testing.T) {
	handler, reportingRepo := setupTransactionHandler()

	activity := ledger.SaleActivity{
		OccurredAt:    time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC),
		SaleID:        uuid.New(),
		SaleNo:        "SO20250810-001",
		CustomerID:    uuid.New(),
		CustomerName:  "Acme Construction",
		TotalAmount:   decimal.NewFromInt(700),
		PaidAmount:    decimal.NewFromInt(700),
		Balance:       decimal.Zero,
		PaymentStatus: ledger.PaymentStatusPaid,
	}
	reportingRepo.On("SaleActivities", mock.Anything, mock.AnythingOfType("ledger.ActivityQuery"), 1, 20).
		Return([]ledger.SaleActivity{activity}, int64(1), nil)

	router := setupTestRouter()
	router.GET("/transactions/sales", handler.ListSales)

	req := httptest.NewRequest(http.MethodGet, "/transactions/sales?status=paid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var got ledgerapp.ActivityPage[ledger.SaleActivity]
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "SO20250810-001", got.Items[0].SaleNo)
	assert.Equal(t, int64(1), got.Total)
}

func TestTransactionHandler_ListPayments(t *testing.T) {
	handler, reportingRepo := setupTransactionHandler()

	activity := ledger.PaymentActivity{
		OccurredAt:   time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC),
		PaymentID:    uuid.New(),
		ReceiptNo:    "RC20250810-001",
		CustomerID:   uuid.New(),
		CustomerName: "Acme Construction",
		Method:       ledger.PayMethodBank,
		Amount:       decimal.NewFromInt(150),
		SaleNos:      []string{"SO20250801-001", "SO20250805-001"},
	}
	reportingRepo.On("PaymentActivities", mock.Anything, mock.AnythingOfType("ledger.ActivityQuery"), 1, 20).
		Return([]ledger.PaymentActivity{activity}, int64(1), nil)

	router := setupTestRouter()
	router.GET("/transactions/payments", handler.ListPayments)

	req := httptest.NewRequest(http.MethodGet, "/transactions/payments?method=bank", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var got ledgerapp.ActivityPage[ledger.PaymentActivity]
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, []string{"SO20250801-001", "SO20250805-001"}, got.Items[0].SaleNos)
}

func TestTransactionHandler_BadMethodFilter(t *testing.T) {
	handler, _ := setupTransactionHandler()

	router := setupTestRouter()
	router.GET("/transactions/payments", handler.ListPayments)

	req := httptest.NewRequest(http.MethodGet, "/transactions/payments?method=barter", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
