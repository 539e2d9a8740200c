package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// Payment records a single repayment event against a loan. Like Loan it is
// immutable; Approve and Reject return new copies.
type Payment struct {
	id               string
	loanID           string
	installmentID    string
	amount           decimal.Decimal
	paymentDate      time.Time
	principalPaid    decimal.Decimal
	interestPaid     decimal.Decimal
	lateFeePaid      decimal.Decimal
	lateInterestPaid decimal.Decimal
	method           string
	reference        string
	notes            string
	status           valueobject.PaymentStatus
	createdBy        string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewPayment creates a payment in PENDING status. installmentID is empty for
// free-mode payments. No allocation has happened yet: the paid breakdown
// stays zero until the payment is approved.
func NewPayment(
	loanID, installmentID string,
	amount decimal.Decimal,
	paymentDate time.Time,
	method, reference, notes, createdBy string,
	now time.Time,
) (Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Payment{}, valueobject.ErrInvalidPaymentAmount
	}
	return Payment{
		id:            uuid.New().String(),
		loanID:        loanID,
		installmentID: installmentID,
		amount:        amount,
		paymentDate:   paymentDate,
		method:        method,
		reference:     reference,
		notes:         notes,
		status:        valueobject.PaymentStatusPending,
		createdBy:     createdBy,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructPayment rebuilds a Payment from persistence.
func ReconstructPayment(
	id, loanID, installmentID string,
	amount decimal.Decimal,
	paymentDate time.Time,
	principalPaid, interestPaid, lateFeePaid, lateInterestPaid decimal.Decimal,
	method, reference, notes string,
	status valueobject.PaymentStatus,
	createdBy string,
	createdAt, updatedAt time.Time,
) Payment {
	return Payment{
		id:               id,
		loanID:           loanID,
		installmentID:    installmentID,
		amount:           amount,
		paymentDate:      paymentDate,
		principalPaid:    principalPaid,
		interestPaid:     interestPaid,
		lateFeePaid:      lateFeePaid,
		lateInterestPaid: lateInterestPaid,
		method:           method,
		reference:        reference,
		notes:            notes,
		status:           status,
		createdBy:        createdBy,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Approve marks a pending payment approved and records the allocation
// breakdown produced by the loan. Terminal statuses cannot be re-processed.
func (p Payment) Approve(alloc PaymentAllocation, now time.Time) (Payment, error) {
	if !p.status.Equal(valueobject.PaymentStatusPending) {
		return p, valueobject.ErrPaymentProcessed
	}
	next := p
	next.status = valueobject.PaymentStatusApproved
	next.principalPaid = alloc.PrincipalPaid
	next.interestPaid = alloc.InterestPaid
	next.lateFeePaid = alloc.LateFeePaid
	next.lateInterestPaid = alloc.LateInterestPaid
	next.updatedAt = now
	return next, nil
}

// Reject marks a pending payment rejected. No installment or loan state is
// touched by a rejection.
func (p Payment) Reject(now time.Time) (Payment, error) {
	if !p.status.Equal(valueobject.PaymentStatusPending) {
		return p, valueobject.ErrPaymentProcessed
	}
	next := p
	next.status = valueobject.PaymentStatusRejected
	next.updatedAt = now
	return next, nil
}

func (p Payment) ID() string                        { return p.id }
func (p Payment) LoanID() string                    { return p.loanID }
func (p Payment) InstallmentID() string             { return p.installmentID }
func (p Payment) Amount() decimal.Decimal           { return p.amount }
func (p Payment) PaymentDate() time.Time            { return p.paymentDate }
func (p Payment) PrincipalPaid() decimal.Decimal    { return p.principalPaid }
func (p Payment) InterestPaid() decimal.Decimal     { return p.interestPaid }
func (p Payment) LateFeePaid() decimal.Decimal      { return p.lateFeePaid }
func (p Payment) LateInterestPaid() decimal.Decimal { return p.lateInterestPaid }
func (p Payment) Method() string                    { return p.method }
func (p Payment) Reference() string                 { return p.reference }
func (p Payment) Notes() string                     { return p.notes }
func (p Payment) Status() valueobject.PaymentStatus { return p.status }
func (p Payment) CreatedBy() string                 { return p.createdBy }
func (p Payment) CreatedAt() time.Time              { return p.createdAt }
func (p Payment) UpdatedAt() time.Time              { return p.updatedAt }
