package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func target(saleNo string, daysAgo int, outstanding string) AllocationTarget {
	return AllocationTarget{
		SaleID:      uuid.New(),
		SaleNo:      saleNo,
		SaleDate:    time.Now().AddDate(0, 0, -daysAgo),
		Outstanding: dec(outstanding),
	}
}

func TestPlanAllocation_OldestFirst(t *testing.T) {
	oldest := target("SO-A", 30, "50")
	middle := target("SO-B", 20, "30")
	newest := target("SO-C", 10, "100")

	plan, err := PlanAllocation([]AllocationTarget{newest, oldest, middle}, dec("90"), OldestFirst)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 3)
	assert.Equal(t, "SO-A", plan.Entries[0].SaleNo)
	assert.True(t, plan.Entries[0].Amount.Equal(dec("50")), "oldest cleared in full")
	assert.Equal(t, "SO-B", plan.Entries[1].SaleNo)
	assert.True(t, plan.Entries[1].Amount.Equal(dec("30")))
	assert.Equal(t, "SO-C", plan.Entries[2].SaleNo)
	assert.True(t, plan.Entries[2].Amount.Equal(dec("10")), "newest takes the remainder")
	assert.True(t, plan.Total.Equal(dec("90")))
}

func TestPlanAllocation_TieBrokenByID(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := AllocationTarget{SaleID: uuid.New(), SaleNo: "SO-A", SaleDate: day, Outstanding: dec("10")}
	b := AllocationTarget{SaleID: uuid.New(), SaleNo: "SO-B", SaleDate: day, Outstanding: dec("10")}

	plan1, err := PlanAllocation([]AllocationTarget{a, b}, dec("5"), OldestFirst)
	require.NoError(t, err)
	plan2, err := PlanAllocation([]AllocationTarget{b, a}, dec("5"), OldestFirst)
	require.NoError(t, err)

	assert.Equal(t, plan1.Entries[0].SaleID, plan2.Entries[0].SaleID, "same-day plans are input-order independent")
}

func TestPlanAllocation_CapsAtOutstanding(t *testing.T) {
	plan, err := PlanAllocation([]AllocationTarget{target("SO-A", 5, "25.50")}, dec("25.50"), OldestFirst)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	assert.True(t, plan.Entries[0].Amount.Equal(dec("25.50")))
}

func TestPlanAllocation_SkipsSettledSales(t *testing.T) {
	settled := target("SO-A", 30, "0")
	open := target("SO-B", 10, "40")

	plan, err := PlanAllocation([]AllocationTarget{settled, open}, dec("40"), OldestFirst)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "SO-B", plan.Entries[0].SaleNo)
}

func TestPlanAllocation_NothingToAllocate(t *testing.T) {
	_, err := PlanAllocation([]AllocationTarget{target("SO-A", 5, "0")}, dec("10"), OldestFirst)
	assert.ErrorIs(t, err, ErrNothingToAllocate)

	_, err = PlanAllocation(nil, dec("10"), OldestFirst)
	assert.ErrorIs(t, err, ErrNothingToAllocate)
}

func TestPlanAllocation_AmountExceedsOutstanding(t *testing.T) {
	targets := []AllocationTarget{target("SO-A", 5, "30"), target("SO-B", 3, "20")}

	_, err := PlanAllocation(targets, dec("50.01"), OldestFirst)
	assert.ErrorIs(t, err, ErrAmountExceedsOutstanding)

	plan, err := PlanAllocation(targets, dec("50"), OldestFirst)
	require.NoError(t, err)
	assert.True(t, plan.Total.Equal(dec("50")), "exact fit allowed")
}

func TestPlanAllocation_RejectsNonPositiveAmount(t *testing.T) {
	_, err := PlanAllocation([]AllocationTarget{target("SO-A", 5, "30")}, decimal.Zero, OldestFirst)
	assert.Error(t, err)
}

func TestAllocateMode_IsValid(t *testing.T) {
	assert.True(t, AllocateModeOldestFirst.IsValid())
	assert.False(t, AllocateMode("newest_first").IsValid())
}
