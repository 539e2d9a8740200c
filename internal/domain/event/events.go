package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestasur/loan-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan events
// ---------------------------------------------------------------------------

// LoanRequested is raised when a customer submits a loan request that awaits
// approval.
type LoanRequested struct {
	events.BaseEvent
	CustomerID string          `json:"customer_id"`
	Principal  decimal.Decimal `json:"principal"`
	TermMonths int             `json:"term_months"`
}

func NewLoanRequested(loanID, customerID string, principal decimal.Decimal, termMonths int) LoanRequested {
	return LoanRequested{
		BaseEvent:  events.NewBaseEvent("loan.requested", loanID, "Loan"),
		CustomerID: customerID,
		Principal:  principal,
		TermMonths: termMonths,
	}
}

// LoanActivated is raised when a loan becomes active and its amortization
// schedule exists.
type LoanActivated struct {
	events.BaseEvent
	CustomerID    string          `json:"customer_id"`
	Principal     decimal.Decimal `json:"principal"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TermMonths    int             `json:"term_months"`
	MaturityDate  time.Time       `json:"maturity_date"`
}

func NewLoanActivated(
	loanID, customerID string,
	principal, totalAmount, totalInterest decimal.Decimal,
	termMonths int,
	maturityDate time.Time,
) LoanActivated {
	return LoanActivated{
		BaseEvent:     events.NewBaseEvent("loan.activated", loanID, "Loan"),
		CustomerID:    customerID,
		Principal:     principal,
		TotalAmount:   totalAmount,
		TotalInterest: totalInterest,
		TermMonths:    termMonths,
		MaturityDate:  maturityDate,
	}
}

// ---------------------------------------------------------------------------
// Payment events
// ---------------------------------------------------------------------------

// PaymentApplied is raised when a payment has been allocated against a loan's
// installments and the loan aggregate updated.
type PaymentApplied struct {
	events.BaseEvent
	PaymentID          string          `json:"payment_id"`
	Amount             decimal.Decimal `json:"amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	InstallmentsPaid   []int           `json:"installments_paid,omitempty"`
}

func NewPaymentApplied(loanID, paymentID string, amount, outstanding decimal.Decimal, installmentsPaid []int) PaymentApplied {
	return PaymentApplied{
		BaseEvent:          events.NewBaseEvent("loan.payment_applied", loanID, "Loan"),
		PaymentID:          paymentID,
		Amount:             amount,
		OutstandingBalance: outstanding,
		InstallmentsPaid:   installmentsPaid,
	}
}

// PaymentRejected is raised when a pending payment is rejected without
// touching the loan.
type PaymentRejected struct {
	events.BaseEvent
	PaymentID string `json:"payment_id"`
}

func NewPaymentRejected(loanID, paymentID string) PaymentRejected {
	return PaymentRejected{
		BaseEvent: events.NewBaseEvent("loan.payment_rejected", loanID, "Loan"),
		PaymentID: paymentID,
	}
}

// LoanSettled is raised when a loan's outstanding balance reaches zero (or
// goes negative under overpayment). It does not itself close the loan.
type LoanSettled struct {
	events.BaseEvent
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

func NewLoanSettled(loanID string, paidAmount decimal.Decimal) LoanSettled {
	return LoanSettled{
		BaseEvent:  events.NewBaseEvent("loan.settled", loanID, "Loan"),
		PaidAmount: paidAmount,
	}
}
