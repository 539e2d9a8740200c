package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

func TestGenerateFixedPrincipalSchedule_TwelveMonths(t *testing.T) {
	// $1200 at 12%/yr over 12 months: principal portion is a flat $100 and
	// interest is 1% of the declining balance.
	principal := decimal.NewFromInt(1200)
	rate := decimal.NewFromInt(12)
	firstDue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sched := model.GenerateFixedPrincipalSchedule(principal, rate, 12, firstDue)

	require.Len(t, sched.Installments, 12)

	first := sched.Installments[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, firstDue, first.DueDate)
	assert.True(t, first.PrincipalAmount.Equal(decimal.NewFromInt(100)),
		"first principal should be 100, got %s", first.PrincipalAmount)
	assert.True(t, first.InterestAmount.Equal(decimal.NewFromInt(12)),
		"first interest should be 12, got %s", first.InterestAmount)
	assert.True(t, first.TotalAmount.Equal(decimal.NewFromInt(112)),
		"first total should be 112, got %s", first.TotalAmount)
	assert.True(t, first.RemainingBalance.Equal(decimal.NewFromInt(1100)),
		"balance after first installment should be 1100, got %s", first.RemainingBalance)
	assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPending))

	last := sched.Installments[11]
	assert.Equal(t, 12, last.Number)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), last.DueDate)
	assert.True(t, last.PrincipalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, last.InterestAmount.Equal(decimal.NewFromInt(1)),
		"last interest should be 1, got %s", last.InterestAmount)
	assert.True(t, last.TotalAmount.Equal(decimal.NewFromInt(101)))
	assert.True(t, last.RemainingBalance.IsZero(),
		"final remaining balance should be zero, got %s", last.RemainingBalance)

	// Interest on the declining balance: 12 + 11 + ... + 1 = 78.
	assert.True(t, sched.TotalInterest.Equal(decimal.NewFromInt(78)),
		"total interest should be 78, got %s", sched.TotalInterest)
	assert.True(t, sched.TotalAmount.Equal(decimal.NewFromInt(1278)),
		"total amount should be 1278, got %s", sched.TotalAmount)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), sched.MaturityDate)
}

func TestGenerateFixedPrincipalSchedule_PrincipalSumsToLoan(t *testing.T) {
	principal := decimal.NewFromInt(9000)
	sched := model.GenerateFixedPrincipalSchedule(principal, decimal.NewFromFloat(7.5), 36,
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	require.Len(t, sched.Installments, 36)

	totalPrincipal := decimal.Zero
	prev := principal
	for _, inst := range sched.Installments {
		totalPrincipal = totalPrincipal.Add(inst.PrincipalAmount)
		assert.True(t, inst.RemainingBalance.LessThan(prev),
			"remaining balance must strictly decrease at installment %d", inst.Number)
		assert.True(t, inst.TotalAmount.Equal(inst.PrincipalAmount.Add(inst.InterestAmount)),
			"total must equal principal+interest at installment %d", inst.Number)
		prev = inst.RemainingBalance
	}
	assert.True(t, totalPrincipal.Equal(principal),
		"principal portions should sum to the loan principal, got %s", totalPrincipal)
	assert.True(t, sched.Installments[35].RemainingBalance.IsZero())
}

func TestGenerateFixedPrincipalSchedule_UnevenPrincipal(t *testing.T) {
	// 1000/3 does not round evenly; reported portions are each 333.33 while
	// the unrounded value is carried across the iteration, so the trailing
	// balance still clamps to zero.
	sched := model.GenerateFixedPrincipalSchedule(
		decimal.NewFromInt(1000), decimal.NewFromInt(6), 3,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, sched.Installments, 3)
	for _, inst := range sched.Installments {
		assert.True(t, inst.PrincipalAmount.Equal(decimal.NewFromFloat(333.33)),
			"installment %d principal should report 333.33, got %s", inst.Number, inst.PrincipalAmount)
	}
	assert.True(t, sched.Installments[2].RemainingBalance.IsZero(),
		"trailing dust should clamp to zero, got %s", sched.Installments[2].RemainingBalance)
}

func TestGenerateFixedPrincipalSchedule_SingleInstallment(t *testing.T) {
	sched := model.GenerateFixedPrincipalSchedule(
		decimal.NewFromInt(500), decimal.NewFromInt(24), 1,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, sched.Installments, 1)
	only := sched.Installments[0]
	// One period of interest: 500 * 2% = 10.
	assert.True(t, only.PrincipalAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, only.InterestAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, only.TotalAmount.Equal(decimal.NewFromInt(510)))
	assert.True(t, only.RemainingBalance.IsZero())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), sched.MaturityDate)
}

func TestGenerateFixedPrincipalSchedule_ZeroRate(t *testing.T) {
	sched := model.GenerateFixedPrincipalSchedule(
		decimal.NewFromInt(1200), decimal.Zero, 12,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, inst := range sched.Installments {
		assert.True(t, inst.InterestAmount.IsZero(),
			"zero-rate loan must accrue no interest at installment %d", inst.Number)
		assert.True(t, inst.TotalAmount.Equal(inst.PrincipalAmount))
	}
	assert.True(t, sched.TotalInterest.IsZero())
	assert.True(t, sched.TotalAmount.Equal(decimal.NewFromInt(1200)))
}

func TestGenerateFixedPrincipalSchedule_Deterministic(t *testing.T) {
	principal := decimal.NewFromFloat(7321.55)
	rate := decimal.NewFromFloat(9.9)
	firstDue := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	a := model.GenerateFixedPrincipalSchedule(principal, rate, 24, firstDue)
	b := model.GenerateFixedPrincipalSchedule(principal, rate, 24, firstDue)

	require.Len(t, b.Installments, len(a.Installments))
	for i := range a.Installments {
		assert.True(t, a.Installments[i].TotalAmount.Equal(b.Installments[i].TotalAmount))
		assert.True(t, a.Installments[i].RemainingBalance.Equal(b.Installments[i].RemainingBalance))
	}
	assert.True(t, a.TotalAmount.Equal(b.TotalAmount))
}

func TestDebtToIncomeRatio(t *testing.T) {
	// 1278 total over 12 months against 1065 monthly income = 10%.
	ratio := model.DebtToIncomeRatio(decimal.NewFromInt(1278), 12, decimal.NewFromFloat(1065))
	assert.True(t, ratio.Equal(decimal.NewFromInt(10)), "expected 10, got %s", ratio)

	assert.True(t, model.DebtToIncomeRatio(decimal.NewFromInt(1278), 12, decimal.Zero).IsZero(),
		"unknown income should yield a zero ratio")
}
