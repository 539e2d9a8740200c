package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/application/usecase"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
	"github.com/prestasur/loan-service/pkg/auth"
)

// Compile-time assertion that LoanHandler implements LoanServiceServer.
var _ LoanServiceServer = (*LoanHandler)(nil)

// LoanHandler implements the gRPC LoanService server.
type LoanHandler struct {
	UnimplementedLoanServiceServer

	createCustomer     *usecase.CreateCustomerUseCase
	getCustomer        *usecase.GetCustomerUseCase
	createLoan         *usecase.CreateLoanUseCase
	requestLoan        *usecase.RequestLoanUseCase
	approveLoanRequest *usecase.ApproveLoanRequestUseCase
	getLoan            *usecase.GetLoanUseCase
	listLoans          *usecase.ListLoansUseCase
	recordPayment      *usecase.RecordPaymentUseCase
	submitPayment      *usecase.SubmitPaymentUseCase
	approvePayment     *usecase.ApprovePaymentUseCase
	rejectPayment      *usecase.RejectPaymentUseCase
	listPayments       *usecase.ListPaymentsUseCase

	logger *slog.Logger
}

// Handlers groups the use cases wired into the LoanHandler.
type Handlers struct {
	CreateCustomer     *usecase.CreateCustomerUseCase
	GetCustomer        *usecase.GetCustomerUseCase
	CreateLoan         *usecase.CreateLoanUseCase
	RequestLoan        *usecase.RequestLoanUseCase
	ApproveLoanRequest *usecase.ApproveLoanRequestUseCase
	GetLoan            *usecase.GetLoanUseCase
	ListLoans          *usecase.ListLoansUseCase
	RecordPayment      *usecase.RecordPaymentUseCase
	SubmitPayment      *usecase.SubmitPaymentUseCase
	ApprovePayment     *usecase.ApprovePaymentUseCase
	RejectPayment      *usecase.RejectPaymentUseCase
	ListPayments       *usecase.ListPaymentsUseCase
}

// NewLoanHandler creates the gRPC handler.
func NewLoanHandler(h Handlers, logger *slog.Logger) *LoanHandler {
	return &LoanHandler{
		createCustomer:     h.CreateCustomer,
		getCustomer:        h.GetCustomer,
		createLoan:         h.CreateLoan,
		requestLoan:        h.RequestLoan,
		approveLoanRequest: h.ApproveLoanRequest,
		getLoan:            h.GetLoan,
		listLoans:          h.ListLoans,
		recordPayment:      h.RecordPayment,
		submitPayment:      h.SubmitPayment,
		approvePayment:     h.ApprovePayment,
		rejectPayment:      h.RejectPayment,
		listPayments:       h.ListPayments,
		logger:             logger,
	}
}

// ---------------------------------------------------------------------------
// Customer operations
// ---------------------------------------------------------------------------

// CreateCustomer registers a borrower. Admin only.
func (h *LoanHandler) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CustomerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}

	income, err := parseAmount(req.MonthlyIncome, "monthly_income", true)
	if err != nil {
		return nil, err
	}

	result, err := h.createCustomer.Execute(ctx, dto.CreateCustomerRequest{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		MonthlyIncome: income,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toCustomerResponse(result), nil
}

// GetCustomer retrieves a customer. Customers may only read themselves.
func (h *LoanHandler) GetCustomer(ctx context.Context, req *GetCustomerRequest) (*CustomerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireOwnership(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	result, err := h.getCustomer.Execute(ctx, dto.GetCustomerRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, mapError(err)
	}
	return toCustomerResponse(result), nil
}

// ---------------------------------------------------------------------------
// Loan operations
// ---------------------------------------------------------------------------

// CreateLoan creates an immediately-active loan. Admin only.
func (h *LoanHandler) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*LoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}

	principal, err := parseAmount(req.Principal, "principal", false)
	if err != nil {
		return nil, err
	}
	rate, err := parseAmount(req.AnnualRatePercent, "annual_rate_percent", false)
	if err != nil {
		return nil, err
	}
	lateRate, err := parseAmount(req.LateInterestRate, "late_interest_rate", true)
	if err != nil {
		return nil, err
	}
	lateFee, err := parseAmount(req.LateFeeAmount, "late_fee_amount", true)
	if err != nil {
		return nil, err
	}
	disbursement, err := parseDate(req.DisbursementDate, "disbursement_date")
	if err != nil {
		return nil, err
	}
	firstPayment, err := parseDate(req.FirstPaymentDate, "first_payment_date")
	if err != nil {
		return nil, err
	}

	result, err := h.createLoan.Execute(ctx, dto.CreateLoanRequest{
		CustomerID:        req.CustomerID,
		Principal:         principal,
		AnnualRatePercent: rate,
		TermMonths:        req.TermMonths,
		Method:            req.Method,
		LateInterestRate:  lateRate,
		LateFeeAmount:     lateFee,
		DisbursementDate:  disbursement,
		FirstPaymentDate:  firstPayment,
		Notes:             req.Notes,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toLoanResponse(result), nil
}

// RequestLoan submits a pending loan request. Customers may only request for
// themselves.
func (h *LoanHandler) RequestLoan(ctx context.Context, req *RequestLoanRequest) (*LoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireOwnership(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	principal, err := parseAmount(req.Principal, "principal", false)
	if err != nil {
		return nil, err
	}
	rate, err := parseAmount(req.AnnualRatePercent, "annual_rate_percent", false)
	if err != nil {
		return nil, err
	}
	firstPayment, err := parseDate(req.FirstPaymentDate, "first_payment_date")
	if err != nil {
		return nil, err
	}

	result, err := h.requestLoan.Execute(ctx, dto.RequestLoanRequest{
		CustomerID:        req.CustomerID,
		Principal:         principal,
		AnnualRatePercent: rate,
		TermMonths:        req.TermMonths,
		FirstPaymentDate:  firstPayment,
		Notes:             req.Notes,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toLoanResponse(result), nil
}

// ApproveLoanRequest activates a pending loan. Admin only.
func (h *LoanHandler) ApproveLoanRequest(ctx context.Context, req *ApproveLoanRequestRequest) (*LoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}

	result, err := h.approveLoanRequest.Execute(ctx, dto.ApproveLoanRequestRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, mapError(err)
	}
	return toLoanResponse(result), nil
}

// GetLoan retrieves a loan with its schedule.
func (h *LoanHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*LoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.getLoan.Execute(ctx, dto.GetLoanRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, mapError(err)
	}
	if err := requireOwnership(ctx, result.CustomerID); err != nil {
		return nil, err
	}
	return toLoanResponse(result), nil
}

// ListLoansByCustomer lists a customer's loans.
func (h *LoanHandler) ListLoansByCustomer(ctx context.Context, req *ListLoansRequest) (*ListLoansResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireOwnership(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	results, err := h.listLoans.Execute(ctx, dto.ListLoansRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListLoansResponse{Loans: make([]*LoanResponse, 0, len(results))}
	for _, r := range results {
		resp.Loans = append(resp.Loans, toLoanResponse(r))
	}
	return resp, nil
}

// ---------------------------------------------------------------------------
// Payment operations
// ---------------------------------------------------------------------------

// RecordPayment records and allocates a payment in one step. Admins may pay
// any loan; customers only their own.
func (h *LoanHandler) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*PaymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := h.requireLoanAccess(ctx, req.LoanID); err != nil {
		return nil, err
	}

	amount, paymentDate, err := parsePaymentFields(req.Amount, req.PaymentDate)
	if err != nil {
		return nil, err
	}

	result, err := h.recordPayment.Execute(ctx, dto.RecordPaymentRequest{
		LoanID:        req.LoanID,
		InstallmentID: req.InstallmentID,
		Amount:        amount,
		PaymentDate:   paymentDate,
		Method:        req.Method,
		Reference:     req.Reference,
		Notes:         req.Notes,
		CreatedBy:     callerID(ctx),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toPaymentResponse(result), nil
}

// SubmitPayment records a payment pending review. Admins may submit against
// any loan; customers only their own.
func (h *LoanHandler) SubmitPayment(ctx context.Context, req *SubmitPaymentRequest) (*PaymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := h.requireLoanAccess(ctx, req.LoanID); err != nil {
		return nil, err
	}

	amount, paymentDate, err := parsePaymentFields(req.Amount, req.PaymentDate)
	if err != nil {
		return nil, err
	}

	result, err := h.submitPayment.Execute(ctx, dto.SubmitPaymentRequest{
		LoanID:        req.LoanID,
		InstallmentID: req.InstallmentID,
		Amount:        amount,
		PaymentDate:   paymentDate,
		Method:        req.Method,
		Reference:     req.Reference,
		Notes:         req.Notes,
		CreatedBy:     callerID(ctx),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toPaymentResponse(result), nil
}

// ApprovePayment approves and allocates a pending payment. Admin only.
func (h *LoanHandler) ApprovePayment(ctx context.Context, req *ApprovePaymentRequest) (*PaymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}

	result, err := h.approvePayment.Execute(ctx, dto.ApprovePaymentRequest{PaymentID: req.PaymentID})
	if err != nil {
		return nil, mapError(err)
	}
	return toPaymentResponse(result), nil
}

// RejectPayment rejects a pending payment. Admin only.
func (h *LoanHandler) RejectPayment(ctx context.Context, req *RejectPaymentRequest) (*PaymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}

	result, err := h.rejectPayment.Execute(ctx, dto.RejectPaymentRequest{PaymentID: req.PaymentID})
	if err != nil {
		return nil, mapError(err)
	}
	return toPaymentResponse(result), nil
}

// ListPaymentsByLoan lists payments recorded against a loan.
func (h *LoanHandler) ListPaymentsByLoan(ctx context.Context, req *ListPaymentsRequest) (*ListPaymentsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := h.requireLoanAccess(ctx, req.LoanID); err != nil {
		return nil, err
	}

	results, err := h.listPayments.Execute(ctx, dto.ListPaymentsRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, mapError(err)
	}
	return toListPaymentsResponse(results), nil
}

// ListPendingPayments lists all payments awaiting review. Admin only.
func (h *LoanHandler) ListPendingPayments(ctx context.Context, req *ListPendingPaymentsRequest) (*ListPaymentsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := requireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}

	results, err := h.listPayments.ExecutePending(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return toListPaymentsResponse(results), nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// requireOwnership allows admins through and restricts customers to their
// own records.
func requireOwnership(ctx context.Context, customerID string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	if claims.HasRole(auth.RoleAdmin) {
		return nil
	}
	if claims.HasRole(auth.RoleCustomer) && claims.SubjectID.String() == customerID {
		return nil
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// requireLoanAccess allows admins through and restricts customers to loans
// they own, loading the loan to resolve its owner.
func (h *LoanHandler) requireLoanAccess(ctx context.Context, loanID string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	if claims.HasRole(auth.RoleAdmin) {
		return nil
	}
	if !claims.HasRole(auth.RoleCustomer) {
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	loan, err := h.getLoan.Execute(ctx, dto.GetLoanRequest{LoanID: loanID})
	if err != nil {
		return mapError(err)
	}
	if loan.CustomerID != claims.SubjectID.String() {
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return nil
}

func callerID(ctx context.Context) string {
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		return claims.SubjectID.String()
	}
	return ""
}

func parseAmount(s, field string, optional bool) (decimal.Decimal, error) {
	if s == "" {
		if optional {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return d, nil
}

func parseDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Plain dates are accepted too.
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
		}
	}
	return t.UTC(), nil
}

func parsePaymentFields(amount, paymentDate string) (decimal.Decimal, time.Time, error) {
	amt, err := parseAmount(amount, "amount", false)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, err
	}
	date, err := parseDate(paymentDate, "payment_date")
	if err != nil {
		return decimal.Decimal{}, time.Time{}, err
	}
	return amt, date, nil
}

// mapError translates application and domain errors to gRPC status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, port.ErrNotFound),
		errors.Is(err, valueobject.ErrInstallmentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, valueobject.ErrInvalidLoanTerms),
		errors.Is(err, valueobject.ErrInvalidPaymentAmount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, valueobject.ErrInstallmentSettled),
		errors.Is(err, valueobject.ErrAmountMismatch),
		errors.Is(err, valueobject.ErrPaymentProcessed),
		errors.Is(err, valueobject.ErrLoanNotPayable),
		errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, port.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// ---------------------------------------------------------------------------
// response mapping
// ---------------------------------------------------------------------------

func toCustomerResponse(r dto.CustomerResponse) *CustomerResponse {
	return &CustomerResponse{
		CustomerID:    r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         r.Phone,
		MonthlyIncome: r.MonthlyIncome.StringFixed(2),
		Active:        r.Active,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func toLoanResponse(r dto.LoanResponse) *LoanResponse {
	resp := &LoanResponse{
		LoanID:             r.ID,
		CustomerID:         r.CustomerID,
		LoanNumber:         r.LoanNumber,
		Principal:          r.Principal.StringFixed(2),
		AnnualRatePercent:  r.AnnualRatePercent.String(),
		TermMonths:         r.TermMonths,
		Method:             r.Method,
		MaturityDate:       r.MaturityDate.Format(time.RFC3339),
		Status:             r.Status,
		TotalAmount:        r.TotalAmount.StringFixed(2),
		TotalInterest:      r.TotalInterest.StringFixed(2),
		PaidAmount:         r.PaidAmount.StringFixed(2),
		OutstandingBalance: r.OutstandingBalance.StringFixed(2),
		DTIRatio:           r.DTIRatio.StringFixed(2),
	}
	for _, inst := range r.Schedule {
		wire := &InstallmentResponse{
			InstallmentID:    inst.ID,
			Number:           inst.Number,
			DueDate:          inst.DueDate.Format(time.RFC3339),
			PrincipalAmount:  inst.PrincipalAmount.StringFixed(2),
			InterestAmount:   inst.InterestAmount.StringFixed(2),
			TotalAmount:      inst.TotalAmount.StringFixed(2),
			RemainingBalance: inst.RemainingBalance.StringFixed(2),
			PaidAmount:       inst.PaidAmount.StringFixed(2),
			Status:           inst.Status,
		}
		if inst.PaidDate != nil {
			wire.PaidDate = inst.PaidDate.Format(time.RFC3339)
		}
		resp.Schedule = append(resp.Schedule, wire)
	}
	return resp
}

func toPaymentResponse(r dto.PaymentResponse) *PaymentResponse {
	return &PaymentResponse{
		PaymentID:          r.ID,
		LoanID:             r.LoanID,
		InstallmentID:      r.InstallmentID,
		Amount:             r.Amount.StringFixed(2),
		PaymentDate:        r.PaymentDate.Format(time.RFC3339),
		PrincipalPaid:      r.PrincipalPaid.StringFixed(2),
		InterestPaid:       r.InterestPaid.StringFixed(2),
		Status:             r.Status,
		Method:             r.Method,
		Reference:          r.Reference,
		OutstandingBalance: r.OutstandingBalance.StringFixed(2),
	}
}

func toListPaymentsResponse(results []dto.PaymentResponse) *ListPaymentsResponse {
	resp := &ListPaymentsResponse{Payments: make([]*PaymentResponse, 0, len(results))}
	for _, r := range results {
		resp.Payments = append(resp.Payments, toPaymentResponse(r))
	}
	return resp
}
