package handler

import (
	"time"

	ledgerapp "github.com/salesledger/backend/internal/application/ledger"
	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AllocationResponse is the wire shape of one allocation fragment
type AllocationResponse struct {
	ID     string          `json:"id"`
	SaleID string          `json:"sale_id"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentResponse is the wire shape of a payment
type PaymentResponse struct {
	ID          string               `json:"id"`
	CustomerID  string               `json:"customer_id"`
	SaleID      *string              `json:"sale_id,omitempty"`
	ReceiptNo   string               `json:"receipt_no"`
	PayType     string               `json:"pay_type"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      string               `json:"method"`
	PaidAt      time.Time            `json:"paid_at"`
	Note        string               `json:"note,omitempty"`
	SaleNos     []string             `json:"sale_nos,omitempty"`
	Allocations []AllocationResponse `json:"allocations,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, 0, len(p.Allocations))
	for _, alloc := range p.Allocations {
		allocations = append(allocations, AllocationResponse{
			ID:     alloc.ID.String(),
			SaleID: alloc.SaleID.String(),
			Amount: alloc.Amount,
		})
	}
	var saleID *string
	if p.SaleID != nil {
		s := p.SaleID.String()
		saleID = &s
	}
	return PaymentResponse{
		ID:          p.ID.String(),
		CustomerID:  p.CustomerID.String(),
		SaleID:      saleID,
		ReceiptNo:   p.ReceiptNo,
		PayType:     p.PayType.String(),
		Amount:      p.Amount,
		Method:      p.Method.String(),
		PaidAt:      p.PaidAt,
		Note:        p.Note,
		Allocations: allocations,
		CreatedAt:   p.CreatedAt,
	}
}

func toPaymentListResponses(items []ledgerapp.PaymentWithSales) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(items))
	for _, item := range items {
		resp := toPaymentResponse(item.Payment)
		resp.SaleNos = item.SaleNos
		out = append(out, resp)
	}
	return out
}
