package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// SubmitPaymentUseCase records a payment awaiting approval. No installment
// or loan state is touched until ApprovePaymentUseCase runs.
type SubmitPaymentUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
}

// NewSubmitPaymentUseCase wires dependencies.
func NewSubmitPaymentUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
) *SubmitPaymentUseCase {
	return &SubmitPaymentUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
	}
}

// Execute creates and persists the pending payment.
func (uc *SubmitPaymentUseCase) Execute(
	ctx context.Context,
	req dto.SubmitPaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	// The loan must exist even though nothing on it changes yet.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}

	payment, err := model.NewPayment(
		loan.ID(), req.InstallmentID, req.Amount, req.PaymentDate,
		req.Method, req.Reference, req.Notes, req.CreatedBy, now,
	)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("new payment: %w", err)
	}

	if err := uc.paymentRepo.Save(ctx, payment); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("save payment: %w", err)
	}

	return paymentResponse(payment, loan), nil
}
