package handler

import (
	"time"

	domain "github.com/salesledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// SaleItemResponse is the wire shape of a sale line item
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Remark    string          `json:"remark,omitempty"`
}

// SaleResponse is the wire shape of a sale with its derived balance
type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNo        string             `json:"sale_no"`
	CustomerID    string             `json:"customer_id"`
	BuyerID       string             `json:"buyer_id"`
	BuyerName     string             `json:"buyer_name"`
	Project       string             `json:"project,omitempty"`
	SaleDate      time.Time          `json:"sale_date"`
	Note          string             `json:"note,omitempty"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	ARAmount      decimal.Decimal    `json:"ar_amount"`
	PaymentStatus string             `json:"payment_status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func toSaleResponse(s *domain.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Remark:    item.Remark,
		})
	}
	return SaleResponse{
		ID:            s.ID.String(),
		SaleNo:        s.SaleNo,
		CustomerID:    s.CustomerID.String(),
		BuyerID:       s.BuyerID.String(),
		BuyerName:     s.BuyerName,
		Project:       s.Project,
		SaleDate:      s.SaleDate,
		Note:          s.Note,
		Items:         items,
		TotalAmount:   s.TotalAmount,
		PaidAmount:    s.PaidAmount,
		ARAmount:      s.ARAmount,
		PaymentStatus: s.PaymentStatus.String(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toSaleResponses(sales []*domain.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	return out
}
