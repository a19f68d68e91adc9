package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectPayment_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewDirectPayment(uuid.New(), uuid.New(), "RCPT-1", PayTypePartial, decimal.Zero, PayMethodCash, now, "")
	assert.Error(t, err, "zero amount rejected")

	_, err = NewDirectPayment(uuid.New(), uuid.New(), "RCPT-1", PayTypePartial, dec("10"), PayMethod("card"), now, "")
	assert.Error(t, err, "unknown method rejected")

	p, err := NewDirectPayment(uuid.New(), uuid.New(), "RCPT-1", PayTypePaidFull, dec("10.005"), PayMethodWechat, now, "")
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(dec("10.01")), "amount rounded to cents")
	assert.True(t, p.IsDirect())
}

func TestNewReceipt(t *testing.T) {
	p, err := NewReceipt(uuid.New(), "RCPT-2", dec("500"), PayMethodBank, time.Now(), "prepay")
	require.NoError(t, err)
	assert.Nil(t, p.SaleID)
	assert.False(t, p.IsDirect())
	assert.Equal(t, PayTypePartial, p.PayType)
	assert.True(t, p.DirectAmount().IsZero(), "receipt carries no direct portion")
}

func TestPayment_AddAllocation(t *testing.T) {
	p, err := NewReceipt(uuid.New(), "RCPT-3", dec("100"), PayMethodCash, time.Now(), "")
	require.NoError(t, err)

	a1, err := p.AddAllocation(uuid.New(), dec("60"))
	require.NoError(t, err)
	assert.True(t, a1.Amount.Equal(dec("60")))

	_, err = p.AddAllocation(uuid.New(), dec("50"))
	assert.Error(t, err, "allocations may not exceed the payment amount")

	_, err = p.AddAllocation(uuid.New(), dec("40"))
	require.NoError(t, err)
	assert.True(t, p.AllocatedTotal().Equal(dec("100")))
}

func TestPayment_AddAllocation_RejectsOwnSale(t *testing.T) {
	saleID := uuid.New()
	p, err := NewDirectPayment(uuid.New(), saleID, "RCPT-4", PayTypePartial, dec("100"), PayMethodCash, time.Now(), "")
	require.NoError(t, err)

	_, err = p.AddAllocation(saleID, dec("10"))
	assert.Error(t, err, "allocation to the directly referenced sale rejected")
}

func TestPayment_DirectAmount_HybridSplit(t *testing.T) {
	// A payment recorded against one sale may also allocate its surplus
	// to other sales. The direct portion is what the allocations leave.
	saleID := uuid.New()
	p, err := NewDirectPayment(uuid.New(), saleID, "RCPT-5", PayTypePartial, dec("100"), PayMethodCash, time.Now(), "")
	require.NoError(t, err)
	assert.True(t, p.DirectAmount().Equal(dec("100")))

	_, err = p.AddAllocation(uuid.New(), dec("30"))
	require.NoError(t, err)
	assert.True(t, p.DirectAmount().Equal(dec("70")))
	assert.True(t, p.DirectAmount().Add(p.AllocatedTotal()).Equal(p.Amount))
}

func TestPayment_DemoteToReceipt(t *testing.T) {
	p, err := NewDirectPayment(uuid.New(), uuid.New(), "RCPT-6", PayTypePartial, dec("100"), PayMethodCash, time.Now(), "")
	require.NoError(t, err)
	_, err = p.AddAllocation(uuid.New(), dec("40"))
	require.NoError(t, err)

	p.DemoteToReceipt()
	assert.Nil(t, p.SaleID)
	assert.False(t, p.IsDirect())
	assert.True(t, p.AllocatedTotal().Equal(dec("40")), "allocations survive demotion")
}

func TestNewPaymentAllocation_Validation(t *testing.T) {
	_, err := NewPaymentAllocation(uuid.New(), uuid.New(), decimal.Zero)
	assert.Error(t, err)

	a, err := NewPaymentAllocation(uuid.New(), uuid.New(), dec("10.004"))
	require.NoError(t, err)
	assert.True(t, a.Amount.Equal(dec("10")), "amount rounded to cents")
}
