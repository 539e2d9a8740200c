package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prestasur/loan-service/internal/domain/valueobject"
	"github.com/prestasur/loan-service/pkg/money"
)

var oneHundred = decimal.NewFromInt(100)
var twelve = decimal.NewFromInt(12)

// Installment is one scheduled due-date entry in a loan's amortization
// schedule. The scheduled fields (PrincipalAmount, InterestAmount,
// TotalAmount, RemainingBalance) are fixed at generation time; the Paid*
// fields and Status advance as payments are allocated.
type Installment struct {
	ID               string
	Number           int
	DueDate          time.Time
	PrincipalAmount  decimal.Decimal
	InterestAmount   decimal.Decimal
	TotalAmount      decimal.Decimal
	RemainingBalance decimal.Decimal
	PaidAmount       decimal.Decimal
	PaidPrincipal    decimal.Decimal
	PaidInterest     decimal.Decimal
	LateFee          decimal.Decimal
	LateInterest     decimal.Decimal
	Status           valueobject.InstallmentStatus
	PaidDate         *time.Time
}

// Outstanding returns the amount still owed on the installment.
func (i Installment) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// Schedule is the output of the schedule generator: the ordered installment
// sequence plus the loan-level totals derived from it. TotalInterest is the
// sum of the per-installment rounded interest figures, not a closed-form
// recomputation, so it stays cent-exact against the schedule rows.
type Schedule struct {
	Installments  []Installment
	TotalInterest decimal.Decimal
	TotalAmount   decimal.Decimal
	MaturityDate  time.Time
}

// GenerateFixedPrincipalSchedule computes a fixed-principal amortization
// schedule: every installment repays the same principal portion and interest
// accrues on the declining balance.
//
// Parameters:
//   - principal:         the loan amount (> 0)
//   - annualRatePercent: nominal annual rate as a percentage (e.g. 12 = 12%/yr)
//   - termMonths:        number of monthly installments (> 0)
//   - firstDueDate:      due date of installment 1; installment i is due
//     (i-1) months later
//
// Inputs are validated by the caller. The per-period principal is carried
// unrounded across the iteration so rounding error does not compound; only
// the reported figures are rounded (two decimals, half-up, per pkg/money).
func GenerateFixedPrincipalSchedule(
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	termMonths int,
	firstDueDate time.Time,
) Schedule {
	monthlyRate := annualRatePercent.Div(oneHundred).Div(twelve)
	fixedPrincipal := principal.Div(decimal.NewFromInt(int64(termMonths)))

	installments := make([]Installment, 0, termMonths)
	remaining := principal
	totalInterest := decimal.Zero

	for i := 1; i <= termMonths; i++ {
		interest := remaining.Mul(monthlyRate)
		remaining = remaining.Sub(fixedPrincipal)
		remaining = money.ClampDust(remaining)

		principalPart := money.Round2(fixedPrincipal)
		interestPart := money.Round2(interest)
		totalInterest = totalInterest.Add(interestPart)

		installments = append(installments, Installment{
			ID:               uuid.New().String(),
			Number:           i,
			DueDate:          firstDueDate.AddDate(0, i-1, 0),
			PrincipalAmount:  principalPart,
			InterestAmount:   interestPart,
			TotalAmount:      principalPart.Add(interestPart),
			RemainingBalance: money.Round2(remaining),
			PaidAmount:       decimal.Zero,
			PaidPrincipal:    decimal.Zero,
			PaidInterest:     decimal.Zero,
			LateFee:          decimal.Zero,
			LateInterest:     decimal.Zero,
			Status:           valueobject.InstallmentStatusPending,
		})
	}

	return Schedule{
		Installments:  installments,
		TotalInterest: totalInterest,
		TotalAmount:   principal.Add(totalInterest),
		MaturityDate:  firstDueDate.AddDate(0, termMonths-1, 0),
	}
}

// DebtToIncomeRatio returns the average monthly obligation as a percentage of
// the declared monthly income, or zero when the income is unknown or
// non-positive.
func DebtToIncomeRatio(totalAmount decimal.Decimal, termMonths int, monthlyIncome decimal.Decimal) decimal.Decimal {
	if monthlyIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	monthly := totalAmount.Div(decimal.NewFromInt(int64(termMonths)))
	return money.Round2(monthly.Div(monthlyIncome).Mul(oneHundred))
}
