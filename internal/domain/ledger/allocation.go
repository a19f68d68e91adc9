package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/salesledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Allocation-specific domain errors. These map to client-facing bad
// requests; the enclosing transaction performs zero writes when they fire.
var (
	ErrNothingToAllocate        = shared.NewDomainError("NOTHING_TO_ALLOCATE", "No selected sale has an outstanding balance")
	ErrAmountExceedsOutstanding = shared.NewDomainError("AMOUNT_EXCEEDS_OUTSTANDING", "Amount exceeds the outstanding balance of the selected sales")
	ErrUnsupportedMode          = shared.NewDomainError("UNSUPPORTED_MODE", "Unsupported allocation mode")
)

// AllocateMode selects how the candidate set for an auto receipt is
// ordered. Only oldest-first FIFO debt clearing is supported.
type AllocateMode string

const (
	AllocateModeOldestFirst AllocateMode = "oldest_first"
)

// IsValid checks if the mode is a supported allocation mode
func (m AllocateMode) IsValid() bool {
	return m == AllocateModeOldestFirst
}

// AllocationTarget is one candidate sale for allocation
type AllocationTarget struct {
	SaleID      uuid.UUID
	SaleNo      string
	SaleDate    time.Time
	Outstanding decimal.Decimal
}

// TargetFromSale converts a sale into an allocation target
func TargetFromSale(s *Sale) AllocationTarget {
	return AllocationTarget{
		SaleID:      s.ID,
		SaleNo:      s.SaleNo,
		SaleDate:    s.SaleDate,
		Outstanding: s.ARAmount,
	}
}

// AllocationEntry is one planned fragment: this much of the payment goes
// to this sale.
type AllocationEntry struct {
	SaleID uuid.UUID
	SaleNo string
	Amount decimal.Decimal
}

// AllocationPlan is the deterministic split of one payment amount across
// the candidate sales. Plans are whole-or-nothing: a plan is only
// produced when the full amount fits the candidates' combined balance.
type AllocationPlan struct {
	Entries []AllocationEntry
	Total   decimal.Decimal
}

// AllocationOrdering sorts candidate sales into the order debts are
// cleared. It is a named business policy, deliberately pluggable:
// alternatives (newest-first, largest-first) slot in without touching
// the engine.
type AllocationOrdering func(targets []AllocationTarget)

// OldestFirst orders candidates ascending by sale date, ties broken by
// identifier. This is FIFO debt clearing: the oldest outstanding order
// is paid off first, deterministically and totally.
func OldestFirst(targets []AllocationTarget) {
	sort.Slice(targets, func(i, j int) bool {
		if !targets[i].SaleDate.Equal(targets[j].SaleDate) {
			return targets[i].SaleDate.Before(targets[j].SaleDate)
		}
		return targets[i].SaleID.String() < targets[j].SaleID.String()
	})
}

// PlanAllocation distributes amount across the candidate sales using the
// given ordering, capping each sale's share at its outstanding balance.
//
// Fails with ErrNothingToAllocate when no candidate has a positive
// balance, and with ErrAmountExceedsOutstanding when the amount does not
// fit the combined balance (no partial overflow allocation is ever made).
func PlanAllocation(targets []AllocationTarget, amount decimal.Decimal, ordering AllocationOrdering) (*AllocationPlan, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if ordering == nil {
		ordering = OldestFirst
	}

	open := make([]AllocationTarget, 0, len(targets))
	selectedTotal := decimal.Zero
	for _, t := range targets {
		if t.Outstanding.GreaterThan(valueobject.Epsilon) {
			open = append(open, t)
			selectedTotal = selectedTotal.Add(t.Outstanding)
		}
	}
	if len(open) == 0 {
		return nil, ErrNothingToAllocate
	}
	if !valueobject.ApproxGTE(selectedTotal, amount) {
		return nil, ErrAmountExceedsOutstanding
	}

	ordering(open)

	entries := make([]AllocationEntry, 0, len(open))
	remaining := valueobject.Round2(amount)
	total := decimal.Zero

	for _, t := range open {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		applied := valueobject.Round2(decimal.Min(t.Outstanding, remaining))
		if applied.LessThanOrEqual(decimal.Zero) {
			continue
		}
		entries = append(entries, AllocationEntry{
			SaleID: t.SaleID,
			SaleNo: t.SaleNo,
			Amount: applied,
		})
		total = total.Add(applied)
		remaining = valueobject.Round2(remaining.Sub(applied))
	}

	return &AllocationPlan{Entries: entries, Total: total}, nil
}
