package valueobject

import "errors"

// Sentinel errors for the loan and payment engine. Callers distinguish failure
// kinds with errors.Is; the transport layer maps each kind to a response code.
var (
	// ErrInvalidLoanTerms rejects loan terms before schedule generation
	// (non-positive principal or term, negative rate, unsupported method).
	ErrInvalidLoanTerms = errors.New("invalid loan terms")

	// ErrInvalidPaymentAmount rejects non-positive payment amounts.
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")

	// ErrLoanNotPayable rejects payments against loans that have no payable
	// schedule (pending or closed loans).
	ErrLoanNotPayable = errors.New("loan does not accept payments in its current status")

	// ErrInstallmentNotFound reports a targeted installment that does not
	// belong to the loan.
	ErrInstallmentNotFound = errors.New("installment not found on loan")

	// ErrInstallmentSettled reports a targeted installment that is already
	// fully paid.
	ErrInstallmentSettled = errors.New("installment already settled")

	// ErrAmountMismatch reports a targeted payment whose amount differs from
	// the installment's outstanding amount by more than the tolerance.
	ErrAmountMismatch = errors.New("payment amount does not match installment outstanding amount")

	// ErrPaymentProcessed reports an approve/reject attempt on a payment that
	// is no longer pending.
	ErrPaymentProcessed = errors.New("payment already processed")

	// ErrInvalidStatusTransition reports a lifecycle transition the state
	// machine does not allow.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
