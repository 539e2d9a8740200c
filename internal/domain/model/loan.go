package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prestasur/loan-service/internal/domain/event"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// LoanTerms carries the contractual parameters a loan is created with.
type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TermMonths        int
	Method            valueobject.AmortizationMethod
	LateInterestRate  decimal.Decimal
	LateFeeAmount     decimal.Decimal
	DisbursementDate  time.Time
	FirstPaymentDate  time.Time
	Notes             string
}

// Validate checks the terms before any schedule is generated.
func (t LoanTerms) Validate() error {
	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive", valueobject.ErrInvalidLoanTerms)
	}
	if t.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", valueobject.ErrInvalidLoanTerms)
	}
	if t.TermMonths <= 0 {
		return fmt.Errorf("%w: term months must be positive", valueobject.ErrInvalidLoanTerms)
	}
	if t.Method.IsZero() {
		return fmt.Errorf("%w: amortization method is required", valueobject.ErrInvalidLoanTerms)
	}
	if !t.Method.Supported() {
		return fmt.Errorf("%w: amortization method %s is not implemented", valueobject.ErrInvalidLoanTerms, t.Method)
	}
	return nil
}

// Loan is an immutable aggregate. Mutations return a new copy, so a failed
// operation leaves the caller's value untouched.
type Loan struct {
	id                 string
	customerID         string
	loanNumber         string
	terms              LoanTerms
	maturityDate       time.Time
	status             valueobject.LoanStatus
	schedule           []Installment
	totalAmount        decimal.Decimal
	totalInterest      decimal.Decimal
	paidAmount         decimal.Decimal
	outstandingBalance decimal.Decimal
	dtiRatio           decimal.Decimal
	version            int
	createdAt          time.Time
	updatedAt          time.Time
	domainEvents       []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewActiveLoan creates a disbursed loan, generates its amortization schedule
// and loan-level totals, and starts it in ACTIVE status. monthlyIncome feeds
// the debt-to-income ratio and may be zero when unknown.
func NewActiveLoan(
	customerID, loanNumber string,
	terms LoanTerms,
	monthlyIncome decimal.Decimal,
	now time.Time,
) (Loan, error) {
	if customerID == "" {
		return Loan{}, fmt.Errorf("%w: customer ID is required", valueobject.ErrInvalidLoanTerms)
	}
	if err := terms.Validate(); err != nil {
		return Loan{}, err
	}

	loan := Loan{
		id:         uuid.New().String(),
		customerID: customerID,
		loanNumber: loanNumber,
		terms:      terms,
		status:     valueobject.LoanStatusPending,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}
	return loan.activate(monthlyIncome, now)
}

// NewLoanRequest creates a customer-submitted loan in PENDING status. No
// schedule exists until the request is approved and the loan activated.
func NewLoanRequest(
	customerID, loanNumber string,
	terms LoanTerms,
	now time.Time,
) (Loan, error) {
	if customerID == "" {
		return Loan{}, fmt.Errorf("%w: customer ID is required", valueobject.ErrInvalidLoanTerms)
	}
	if err := terms.Validate(); err != nil {
		return Loan{}, err
	}

	id := uuid.New().String()
	loan := Loan{
		id:           id,
		customerID:   customerID,
		loanNumber:   loanNumber,
		terms:        terms,
		maturityDate: terms.FirstPaymentDate.AddDate(0, terms.TermMonths-1, 0),
		status:       valueobject.LoanStatusPending,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}
	loan.domainEvents = append(loan.domainEvents, event.NewLoanRequested(
		id, customerID, terms.Principal, terms.TermMonths,
	))
	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, customerID, loanNumber string,
	terms LoanTerms,
	maturityDate time.Time,
	status valueobject.LoanStatus,
	schedule []Installment,
	totalAmount, totalInterest, paidAmount, outstandingBalance, dtiRatio decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                 id,
		customerID:         customerID,
		loanNumber:         loanNumber,
		terms:              terms,
		maturityDate:       maturityDate,
		status:             status,
		schedule:           schedule,
		totalAmount:        totalAmount,
		totalInterest:      totalInterest,
		paidAmount:         paidAmount,
		outstandingBalance: outstandingBalance,
		dtiRatio:           dtiRatio,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// Activate transitions a PENDING loan to ACTIVE, generating the amortization
// schedule and the loan-level totals.
func (l Loan) Activate(monthlyIncome decimal.Decimal, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusPending) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	return l.activate(monthlyIncome, now)
}

func (l Loan) activate(monthlyIncome decimal.Decimal, now time.Time) (Loan, error) {
	sched := GenerateFixedPrincipalSchedule(
		l.terms.Principal, l.terms.AnnualRatePercent, l.terms.TermMonths, l.terms.FirstPaymentDate,
	)

	next := l
	next.status = valueobject.LoanStatusActive
	next.schedule = sched.Installments
	next.totalInterest = sched.TotalInterest
	next.totalAmount = sched.TotalAmount
	next.maturityDate = sched.MaturityDate
	next.paidAmount = decimal.Zero
	next.outstandingBalance = sched.TotalAmount
	next.dtiRatio = DebtToIncomeRatio(sched.TotalAmount, l.terms.TermMonths, monthlyIncome)
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanActivated(
		l.id, l.customerID,
		l.terms.Principal, sched.TotalAmount, sched.TotalInterest,
		l.terms.TermMonths, sched.MaturityDate,
	))
	return next, nil
}

// MarkDefaulted transitions ACTIVE -> DEFAULTED.
func (l Loan) MarkDefaulted(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusDefaulted
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// Close transitions ACTIVE -> CLOSED.
func (l Loan) Close(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusClosed
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                          { return l.id }
func (l Loan) CustomerID() string                  { return l.customerID }
func (l Loan) LoanNumber() string                  { return l.loanNumber }
func (l Loan) Terms() LoanTerms                    { return l.terms }
func (l Loan) MaturityDate() time.Time             { return l.maturityDate }
func (l Loan) Status() valueobject.LoanStatus      { return l.status }
func (l Loan) TotalAmount() decimal.Decimal        { return l.totalAmount }
func (l Loan) TotalInterest() decimal.Decimal      { return l.totalInterest }
func (l Loan) PaidAmount() decimal.Decimal         { return l.paidAmount }
func (l Loan) OutstandingBalance() decimal.Decimal { return l.outstandingBalance }
func (l Loan) DTIRatio() decimal.Decimal           { return l.dtiRatio }
func (l Loan) Version() int                        { return l.version }
func (l Loan) CreatedAt() time.Time                { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent   { return l.domainEvents }

// Schedule returns a defensive copy of the installment sequence, ordered by
// installment number.
func (l Loan) Schedule() []Installment {
	if l.schedule == nil {
		return nil
	}
	out := make([]Installment, len(l.schedule))
	copy(out, l.schedule)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(evts []event.DomainEvent) []event.DomainEvent {
	if evts == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(evts))
	copy(out, evts)
	return out
}
