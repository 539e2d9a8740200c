package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending   = "PENDING"
	loanStatusActive    = "ACTIVE"
	loanStatusClosed    = "CLOSED"
	loanStatusDefaulted = "DEFAULTED"
)

var (
	LoanStatusPending   = LoanStatus{value: loanStatusPending}
	LoanStatusActive    = LoanStatus{value: loanStatusActive}
	LoanStatusClosed    = LoanStatus{value: loanStatusClosed}
	LoanStatusDefaulted = LoanStatus{value: loanStatusDefaulted}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusPending:   LoanStatusPending,
	loanStatusActive:    LoanStatusActive,
	loanStatusClosed:    LoanStatusClosed,
	loanStatusDefaulted: LoanStatusDefaulted,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// InstallmentStatus – immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus represents the settlement stage of one installment.
// Transitions are monotonic: PENDING -> PARTIAL -> PAID, never backwards.
type InstallmentStatus struct {
	value string
	rank  int
}

const (
	installmentStatusPending = "PENDING"
	installmentStatusPartial = "PARTIAL"
	installmentStatusPaid    = "PAID"
)

var (
	InstallmentStatusPending = InstallmentStatus{value: installmentStatusPending, rank: 0}
	InstallmentStatusPartial = InstallmentStatus{value: installmentStatusPartial, rank: 1}
	InstallmentStatusPaid    = InstallmentStatus{value: installmentStatusPaid, rank: 2}
)

var validInstallmentStatuses = map[string]InstallmentStatus{
	installmentStatusPending: InstallmentStatusPending,
	installmentStatusPartial: InstallmentStatusPartial,
	installmentStatusPaid:    InstallmentStatusPaid,
}

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	v, ok := validInstallmentStatuses[s]
	if !ok {
		return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s InstallmentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s InstallmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s.value == other.value }

// AtLeast reports whether s is as far along the PENDING -> PARTIAL -> PAID
// progression as other. Used to enforce that settlement never regresses.
func (s InstallmentStatus) AtLeast(other InstallmentStatus) bool { return s.rank >= other.rank }

// ---------------------------------------------------------------------------
// PaymentStatus – immutable value object
// ---------------------------------------------------------------------------

// PaymentStatus represents the processing stage of a payment record.
// APPROVED and REJECTED are terminal.
type PaymentStatus struct {
	value string
}

const (
	paymentStatusPending  = "PENDING"
	paymentStatusApproved = "APPROVED"
	paymentStatusRejected = "REJECTED"
)

var (
	PaymentStatusPending  = PaymentStatus{value: paymentStatusPending}
	PaymentStatusApproved = PaymentStatus{value: paymentStatusApproved}
	PaymentStatusRejected = PaymentStatus{value: paymentStatusRejected}
)

var validPaymentStatuses = map[string]PaymentStatus{
	paymentStatusPending:  PaymentStatusPending,
	paymentStatusApproved: PaymentStatusApproved,
	paymentStatusRejected: PaymentStatusRejected,
}

// NewPaymentStatus creates a PaymentStatus from a raw string.
func NewPaymentStatus(s string) (PaymentStatus, error) {
	v, ok := validPaymentStatuses[s]
	if !ok {
		return PaymentStatus{}, fmt.Errorf("invalid payment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s PaymentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s PaymentStatus) Equal(other PaymentStatus) bool { return s.value == other.value }
