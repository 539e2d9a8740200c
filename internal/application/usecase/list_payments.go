package usecase

import (
	"context"
	"fmt"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// ListPaymentsUseCase lists payment records, either for one loan or all
// pending ones awaiting review.
type ListPaymentsUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
}

// NewListPaymentsUseCase wires dependencies.
func NewListPaymentsUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
	}
}

// Execute lists a loan's payments, newest not guaranteed first; ordering
// follows the repository.
func (uc *ListPaymentsUseCase) Execute(
	ctx context.Context,
	req dto.ListPaymentsRequest,
) ([]dto.PaymentResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return nil, fmt.Errorf("find loan: %w", err)
	}

	payments, err := uc.paymentRepo.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}

	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResponse(p, loan))
	}
	return out, nil
}

// ExecutePending lists all payments currently awaiting approval.
func (uc *ListPaymentsUseCase) ExecutePending(ctx context.Context) ([]dto.PaymentResponse, error) {
	payments, err := uc.paymentRepo.FindPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("find pending payments: %w", err)
	}

	// Loans are looked up per payment; pending reviews are few.
	loans := make(map[string]model.Loan)
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		loan, ok := loans[p.LoanID()]
		if !ok {
			loan, err = uc.loanRepo.FindByID(ctx, p.LoanID())
			if err != nil {
				return nil, fmt.Errorf("find loan: %w", err)
			}
			loans[p.LoanID()] = loan
		}
		out = append(out, paymentResponse(p, loan))
	}
	return out, nil
}
