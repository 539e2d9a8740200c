package grpc

// messages.go defines the wire messages for prestasur.loan.v1.LoanService.
// These stand in for buf-generated code; the json codec carries them on the
// wire. Monetary fields travel as strings to keep decimal precision intact.

// CreateCustomerRequest registers a new borrower.
type CreateCustomerRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	MonthlyIncome string `json:"monthly_income"`
}

// GetCustomerRequest identifies a customer.
type GetCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

// CustomerResponse is the wire representation of a customer.
type CustomerResponse struct {
	CustomerID    string `json:"customer_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	MonthlyIncome string `json:"monthly_income"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"created_at"`
}

// CreateLoanRequest carries the terms for an immediately-active loan.
type CreateLoanRequest struct {
	CustomerID        string `json:"customer_id"`
	Principal         string `json:"principal"`
	AnnualRatePercent string `json:"annual_rate_percent"`
	TermMonths        int    `json:"term_months"`
	Method            string `json:"method"`
	LateInterestRate  string `json:"late_interest_rate"`
	LateFeeAmount     string `json:"late_fee_amount"`
	DisbursementDate  string `json:"disbursement_date"`
	FirstPaymentDate  string `json:"first_payment_date"`
	Notes             string `json:"notes"`
}

// RequestLoanRequest carries a customer-submitted loan request.
type RequestLoanRequest struct {
	CustomerID        string `json:"customer_id"`
	Principal         string `json:"principal"`
	AnnualRatePercent string `json:"annual_rate_percent"`
	TermMonths        int    `json:"term_months"`
	FirstPaymentDate  string `json:"first_payment_date"`
	Notes             string `json:"notes"`
}

// ApproveLoanRequestRequest identifies a pending loan to activate.
type ApproveLoanRequestRequest struct {
	LoanID string `json:"loan_id"`
}

// GetLoanRequest identifies a loan.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ListLoansRequest identifies a customer whose loans to list.
type ListLoansRequest struct {
	CustomerID string `json:"customer_id"`
}

// InstallmentResponse is one schedule entry on the wire.
type InstallmentResponse struct {
	InstallmentID    string `json:"installment_id"`
	Number           int    `json:"number"`
	DueDate          string `json:"due_date"`
	PrincipalAmount  string `json:"principal_amount"`
	InterestAmount   string `json:"interest_amount"`
	TotalAmount      string `json:"total_amount"`
	RemainingBalance string `json:"remaining_balance"`
	PaidAmount       string `json:"paid_amount"`
	Status           string `json:"status"`
	PaidDate         string `json:"paid_date,omitempty"`
}

// LoanResponse is the wire representation of a loan.
type LoanResponse struct {
	LoanID             string                 `json:"loan_id"`
	CustomerID         string                 `json:"customer_id"`
	LoanNumber         string                 `json:"loan_number"`
	Principal          string                 `json:"principal"`
	AnnualRatePercent  string                 `json:"annual_rate_percent"`
	TermMonths         int                    `json:"term_months"`
	Method             string                 `json:"method"`
	MaturityDate       string                 `json:"maturity_date"`
	Status             string                 `json:"status"`
	TotalAmount        string                 `json:"total_amount"`
	TotalInterest      string                 `json:"total_interest"`
	PaidAmount         string                 `json:"paid_amount"`
	OutstandingBalance string                 `json:"outstanding_balance"`
	DTIRatio           string                 `json:"dti_ratio"`
	Schedule           []*InstallmentResponse `json:"schedule,omitempty"`
}

// ListLoansResponse wraps a customer's loans.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
}

// RecordPaymentRequest carries an immediately-approved payment.
type RecordPaymentRequest struct {
	LoanID        string `json:"loan_id"`
	InstallmentID string `json:"installment_id"`
	Amount        string `json:"amount"`
	PaymentDate   string `json:"payment_date"`
	Method        string `json:"method"`
	Reference     string `json:"reference"`
	Notes         string `json:"notes"`
}

// SubmitPaymentRequest carries a payment that awaits approval.
type SubmitPaymentRequest struct {
	LoanID        string `json:"loan_id"`
	InstallmentID string `json:"installment_id"`
	Amount        string `json:"amount"`
	PaymentDate   string `json:"payment_date"`
	Method        string `json:"method"`
	Reference     string `json:"reference"`
	Notes         string `json:"notes"`
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

// ListPendingPaymentsRequest has no fields; all pending payments are listed.
type ListPendingPaymentsRequest struct{}

// PaymentResponse is the wire representation of a payment record.
type PaymentResponse struct {
	PaymentID          string `json:"payment_id"`
	LoanID             string `json:"loan_id"`
	InstallmentID      string `json:"installment_id,omitempty"`
	Amount             string `json:"amount"`
	PaymentDate        string `json:"payment_date"`
	PrincipalPaid      string `json:"principal_paid"`
	InterestPaid       string `json:"interest_paid"`
	Status             string `json:"status"`
	Method             string `json:"method"`
	Reference          string `json:"reference,omitempty"`
	OutstandingBalance string `json:"outstanding_balance"`
}

// ListPaymentsResponse wraps payment records.
type ListPaymentsResponse struct {
	Payments []*PaymentResponse `json:"payments"`
}
