package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestasur/loan-service/internal/domain/event"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
	"github.com/prestasur/loan-service/pkg/money"
)

// PaymentAllocation is the outcome of applying a payment against a loan's
// schedule. For a targeted payment the principal/interest split mirrors the
// installment's scheduled split; in waterfall mode the split is not
// decomposed at the payment level and both figures stay zero.
type PaymentAllocation struct {
	PrincipalPaid       decimal.Decimal
	InterestPaid        decimal.Decimal
	LateFeePaid         decimal.Decimal
	LateInterestPaid    decimal.Decimal
	SettledInstallments []int
}

// ApplyPayment allocates a payment across the loan's schedule and updates the
// loan-level running totals. targetInstallmentID selects targeted mode; when
// empty the amount waterfalls across unpaid installments in due order.
//
// All failure checks run before any mutation, so a returned error means the
// receiver's state is exactly what the caller still holds.
func (l Loan) ApplyPayment(
	paymentID string,
	amount decimal.Decimal,
	targetInstallmentID string,
	paidAt time.Time,
) (Loan, PaymentAllocation, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, PaymentAllocation{}, valueobject.ErrInvalidPaymentAmount
	}
	if !l.status.Equal(valueobject.LoanStatusActive) && !l.status.Equal(valueobject.LoanStatusDefaulted) {
		return l, PaymentAllocation{}, fmt.Errorf("%w: loan is %s", valueobject.ErrLoanNotPayable, l.status)
	}

	next := l
	next.schedule = l.Schedule()
	next.domainEvents = copyEvents(l.domainEvents)

	var alloc PaymentAllocation
	var err error
	if targetInstallmentID != "" {
		alloc, err = next.settleTargeted(targetInstallmentID, amount, paidAt)
	} else {
		alloc, err = next.waterfall(amount, paidAt)
	}
	if err != nil {
		return l, PaymentAllocation{}, err
	}

	// Aggregate totals track the full payment amount, not the installment
	// sum, so overpayment past the schedule is still reflected. Outstanding
	// may go negative and is deliberately not clamped.
	next.paidAmount = l.paidAmount.Add(amount)
	next.outstandingBalance = l.totalAmount.Sub(next.paidAmount)
	next.updatedAt = paidAt

	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, paymentID, amount, next.outstandingBalance, alloc.SettledInstallments,
	))
	if !next.outstandingBalance.GreaterThan(decimal.Zero) {
		next.domainEvents = append(next.domainEvents, event.NewLoanSettled(l.id, next.paidAmount))
	}
	return next, alloc, nil
}

// settleTargeted requires the payment to fully settle the named installment:
// its amount must match the installment's outstanding within one cent.
func (l *Loan) settleTargeted(installmentID string, amount decimal.Decimal, paidAt time.Time) (PaymentAllocation, error) {
	idx := -1
	for i := range l.schedule {
		if l.schedule[i].ID == installmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PaymentAllocation{}, fmt.Errorf("%w: installment %s", valueobject.ErrInstallmentNotFound, installmentID)
	}

	inst := l.schedule[idx]
	if inst.Status.Equal(valueobject.InstallmentStatusPaid) {
		return PaymentAllocation{}, fmt.Errorf("%w: installment %d", valueobject.ErrInstallmentSettled, inst.Number)
	}
	expected := inst.Outstanding()
	if !money.WithinEpsilon(amount, expected) {
		return PaymentAllocation{}, fmt.Errorf("%w: expected %s, got %s",
			valueobject.ErrAmountMismatch, expected.StringFixed(2), amount.StringFixed(2))
	}

	inst.PaidAmount = inst.TotalAmount
	inst.PaidPrincipal = inst.PrincipalAmount
	inst.PaidInterest = inst.InterestAmount
	inst.Status = valueobject.InstallmentStatusPaid
	paid := paidAt
	inst.PaidDate = &paid
	l.schedule[idx] = inst

	return PaymentAllocation{
		PrincipalPaid:       inst.PrincipalAmount,
		InterestPaid:        inst.InterestAmount,
		SettledInstallments: []int{inst.Number},
	}, nil
}

// waterfall walks unpaid installments in due order, retiring the earliest
// debt first. Installment status is recomputed with a one-cent tolerance so
// dust never strands an installment in PARTIAL.
func (l *Loan) waterfall(amount decimal.Decimal, paidAt time.Time) (PaymentAllocation, error) {
	var alloc PaymentAllocation
	remaining := amount

	for i := range l.schedule {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		inst := l.schedule[i]
		if inst.Status.Equal(valueobject.InstallmentStatusPaid) {
			continue
		}

		apply := decimal.Min(remaining, inst.Outstanding())
		inst.PaidAmount = inst.PaidAmount.Add(apply)

		if inst.PaidAmount.GreaterThanOrEqual(inst.TotalAmount.Sub(money.Epsilon)) {
			inst.Status = valueobject.InstallmentStatusPaid
			paid := paidAt
			inst.PaidDate = &paid
			alloc.SettledInstallments = append(alloc.SettledInstallments, inst.Number)
		} else if inst.PaidAmount.GreaterThan(decimal.Zero) {
			inst.Status = valueobject.InstallmentStatusPartial
		}

		l.schedule[i] = inst
		remaining = remaining.Sub(apply)
	}
	// Any remainder past the last installment stays in the loan's running
	// paid_amount without an installment attribution.
	return alloc, nil
}
