package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateCustomerRequest carries the data needed to register a customer.
type CreateCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

// GetCustomerRequest identifies a customer to retrieve.
type GetCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

// CreateLoanRequest carries the terms for an admin-created loan, which is
// disbursed and activated immediately.
type CreateLoanRequest struct {
	CustomerID        string          `json:"customer_id"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	TermMonths        int             `json:"term_months"`
	Method            string          `json:"method"`
	LateInterestRate  decimal.Decimal `json:"late_interest_rate"`
	LateFeeAmount     decimal.Decimal `json:"late_fee_amount"`
	DisbursementDate  time.Time       `json:"disbursement_date"`
	FirstPaymentDate  time.Time       `json:"first_payment_date"`
	Notes             string          `json:"notes,omitempty"`
}

// RequestLoanRequest carries a customer-submitted loan request, which stays
// pending until an administrator approves it.
type RequestLoanRequest struct {
	CustomerID        string          `json:"customer_id"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	TermMonths        int             `json:"term_months"`
	FirstPaymentDate  time.Time       `json:"first_payment_date"`
	Notes             string          `json:"notes,omitempty"`
}

// ApproveLoanRequestRequest identifies a pending loan to activate.
type ApproveLoanRequestRequest struct {
	LoanID string `json:"loan_id"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ListLoansRequest identifies a customer whose loans to list.
type ListLoansRequest struct {
	CustomerID string `json:"customer_id"`
}

// RecordPaymentRequest carries an immediately-approved payment. An empty
// InstallmentID means the amount waterfalls across unpaid installments.
type RecordPaymentRequest struct {
	LoanID        string          `json:"loan_id"`
	InstallmentID string          `json:"installment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by"`
}

// SubmitPaymentRequest carries a payment that awaits approval before any
// allocation happens.
type SubmitPaymentRequest struct {
	LoanID        string          `json:"loan_id"`
	InstallmentID string          `json:"installment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by"`
}

// ApprovePaymentRequest identifies a pending payment to approve.
type ApprovePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

// RejectPaymentRequest identifies a pending payment to reject.
type RejectPaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

// ListPaymentsRequest identifies a loan whose payments to list.
type ListPaymentsRequest struct {
	LoanID string `json:"loan_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CustomerResponse is the external representation of a customer.
type CustomerResponse struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InstallmentResponse represents a single schedule entry.
type InstallmentResponse struct {
	ID               string          `json:"id"`
	Number           int             `json:"number"`
	DueDate          time.Time       `json:"due_date"`
	PrincipalAmount  decimal.Decimal `json:"principal_amount"`
	InterestAmount   decimal.Decimal `json:"interest_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	PaidPrincipal    decimal.Decimal `json:"paid_principal"`
	PaidInterest     decimal.Decimal `json:"paid_interest"`
	Status           string          `json:"status"`
	PaidDate         *time.Time      `json:"paid_date,omitempty"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                 string                `json:"id"`
	CustomerID         string                `json:"customer_id"`
	LoanNumber         string                `json:"loan_number"`
	Principal          decimal.Decimal       `json:"principal"`
	AnnualRatePercent  decimal.Decimal       `json:"annual_rate_percent"`
	TermMonths         int                   `json:"term_months"`
	Method             string                `json:"method"`
	DisbursementDate   time.Time             `json:"disbursement_date"`
	FirstPaymentDate   time.Time             `json:"first_payment_date"`
	MaturityDate       time.Time             `json:"maturity_date"`
	Status             string                `json:"status"`
	TotalAmount        decimal.Decimal       `json:"total_amount"`
	TotalInterest      decimal.Decimal       `json:"total_interest"`
	PaidAmount         decimal.Decimal       `json:"paid_amount"`
	OutstandingBalance decimal.Decimal       `json:"outstanding_balance"`
	DTIRatio           decimal.Decimal       `json:"dti_ratio"`
	Schedule           []InstallmentResponse `json:"schedule,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// PaymentResponse is the external representation of a payment record.
type PaymentResponse struct {
	ID                 string          `json:"id"`
	LoanID             string          `json:"loan_id"`
	InstallmentID      string          `json:"installment_id,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentDate        time.Time       `json:"payment_date"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	Status             string          `json:"status"`
	Method             string          `json:"method"`
	Reference          string          `json:"reference,omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
}
