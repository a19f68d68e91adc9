package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesledger/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type recordPaymentBody struct {
		SaleID string `json:"sale_id" binding:"required,uuid"`
		Amount string `json:"amount" binding:"required"`
		Method string `json:"method" binding:"omitempty,oneof=cash wechat alipay bank transfer other"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/payments", func(c *gin.Context) {
		var req recordPaymentBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns validation errors for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"sale_id": "not-a-uuid", "method": "barter"}`)
		req := httptest.NewRequest("POST", "/payments", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 3)

		fields := make(map[string]string, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid UUID format", fields["sale_id"])
		assert.Equal(t, "This field is required", fields["amount"])
		assert.Contains(t, fields["method"], "Must be one of:")
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		body := strings.NewReader(`{"sale_id": "8f14e45f-ceea-467f-ae33-1f5e0a2bba11", "amount": "150.00", "method": "cash"}`)
		req := httptest.NewRequest("POST", "/payments", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type bounds struct {
		Name   string `validate:"required"`
		Short  string `validate:"min=5"`
		Long   string `validate:"max=3"`
		ID     string `validate:"uuid"`
		Status string `validate:"oneof=unpaid partial paid"`
		Date   string `validate:"datetime=2006-01-02"`
		Qty    int    `validate:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(bounds{
		Short:  "ab",
		Long:   "abcd",
		ID:     "nope",
		Status: "void",
		Date:   "08/01/2025",
		Qty:    -1,
	})
	require.Error(t, err)

	validationErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	expected := map[string]string{
		"Name":   "This field is required",
		"Short":  "Must be at least 5 characters",
		"Long":   "Must be at most 3 characters",
		"ID":     "Invalid UUID format",
		"Status": "Must be one of: unpaid partial paid",
		"Date":   "Must be a date in 2006-01-02 format",
		"Qty":    "Must be greater than 0",
	}

	for _, e := range validationErrs {
		want, found := expected[e.Field()]
		require.True(t, found, "unexpected field %s", e.Field())
		assert.Equal(t, want, getValidationMessage(e))
	}
}
